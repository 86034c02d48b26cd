package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayusman/lsfstream/internal/gesture"
	"github.com/ayusman/lsfstream/internal/store"
)

// Phrase sources reported by the API.
const (
	SourceBuiltin = "builtin"
	SourceStored  = "stored"
)

// PhraseHandler serves the phrase table. Sessions use the table loaded at
// startup; phrases created or deleted through the API apply on the next start.
type PhraseHandler struct {
	store      *store.Store
	active     *gesture.PhraseTable
	classifier *gesture.Classifier
	logger     *slog.Logger
}

// NewPhraseHandler creates a PhraseHandler. s may be nil, in which case
// the handler is read-only.
func NewPhraseHandler(s *store.Store, active *gesture.PhraseTable, classifier *gesture.Classifier, logger *slog.Logger) *PhraseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PhraseHandler{store: s, active: active, classifier: classifier, logger: logger}
}

// ServeHTTP routes /api/phrases and /api/phrases/{id}.
func (h *PhraseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/phrases")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			methodNotAllowed(w)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, path)
	case http.MethodDelete:
		h.delete(w, r, path)
	default:
		methodNotAllowed(w)
	}
}

type createPhraseRequest struct {
	Name  string   `json:"name"`
	Signs []string `json:"signs"`
}

type phraseResponse struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Signs     []string `json:"signs"`
	Source    string   `json:"source"`
	Active    bool     `json:"active"`
	Unknown   []string `json:"unknown_signs,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

type listPhrasesResponse struct {
	MatchMode string           `json:"match_mode"`
	Phrases   []phraseResponse `json:"phrases"`
}

func (h *PhraseHandler) storedResponse(p *store.Phrase, active bool) phraseResponse {
	return phraseResponse{
		ID:        p.ID,
		Name:      p.Name,
		Signs:     p.Signs,
		Source:    SourceStored,
		Active:    active,
		Unknown:   h.unknownSigns(p.Signs),
		CreatedAt: p.CreatedAt.Format(timeFormat),
	}
}

// unknownSigns lists signs the classifier can never produce.
func (h *PhraseHandler) unknownSigns(signs []string) []string {
	if h.classifier == nil {
		return nil
	}
	var unknown []string
	for _, s := range signs {
		if !h.classifier.Knows(gesture.Symbol(s)) {
			unknown = append(unknown, s)
		}
	}
	return unknown
}

// list handles GET /api/phrases. Active phrases come first in match order,
// followed by stored phrases that are not loaded yet.
func (h *PhraseHandler) list(w http.ResponseWriter, r *http.Request) {
	stored := map[string]*store.Phrase{}
	var storedOrder []*store.Phrase
	if h.store != nil {
		phrases, err := h.store.Phrases().List()
		if err != nil {
			h.logger.Error("list phrases", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list phrases")
			return
		}
		for _, p := range phrases {
			stored[p.Name] = p
		}
		storedOrder = phrases
	}

	response := listPhrasesResponse{Phrases: []phraseResponse{}}
	if h.active != nil {
		response.MatchMode = string(h.active.Mode())
		for _, p := range h.active.Phrases() {
			signs := make([]string, len(p.Signs))
			for i, s := range p.Signs {
				signs[i] = s.String()
			}
			if sp, ok := stored[p.Name]; ok {
				response.Phrases = append(response.Phrases, h.storedResponse(sp, true))
				continue
			}
			response.Phrases = append(response.Phrases, phraseResponse{
				Name:    p.Name,
				Signs:   signs,
				Source:  SourceBuiltin,
				Active:  true,
				Unknown: h.unknownSigns(signs),
			})
		}
	}
	for _, p := range storedOrder {
		if h.active != nil && h.active.Has(p.Name) {
			continue
		}
		response.Phrases = append(response.Phrases, h.storedResponse(p, false))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/phrases/{id} for stored phrases.
func (h *PhraseHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "Phrase not found")
		return
	}
	p, err := h.store.Phrases().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Phrase not found")
			return
		}
		h.logger.Error("get phrase", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get phrase")
		return
	}

	writeJSON(w, http.StatusOK, h.storedResponse(p, h.isActive(p.Name)))
}

func (h *PhraseHandler) isActive(name string) bool {
	return h.active != nil && h.active.Has(name)
}

// create handles POST /api/phrases.
func (h *PhraseHandler) create(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Phrase storage is disabled")
		return
	}

	var req createPhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	signs := make([]gesture.Symbol, len(req.Signs))
	for i, s := range req.Signs {
		signs[i] = gesture.Symbol(strings.TrimSpace(s))
		req.Signs[i] = signs[i].String()
	}
	if err := gesture.ValidatePhrase(gesture.Phrase{Name: req.Name, Signs: signs}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.isActive(req.Name) {
		writeError(w, http.StatusConflict, "Phrase already exists")
		return
	}

	p := &store.Phrase{Name: req.Name, Signs: req.Signs}
	if err := h.store.Phrases().Create(p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Phrase already exists")
			return
		}
		h.logger.Error("create phrase", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create phrase")
		return
	}

	h.logger.Info("phrase stored", "id", p.ID, "name", p.Name)
	writeJSON(w, http.StatusCreated, h.storedResponse(p, false))
}

// delete handles DELETE /api/phrases/{id}.
func (h *PhraseHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Phrase storage is disabled")
		return
	}
	if err := h.store.Phrases().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Phrase not found")
			return
		}
		h.logger.Error("delete phrase", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete phrase")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
