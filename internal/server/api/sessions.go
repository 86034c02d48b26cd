package api

import (
	"net/http"

	"github.com/ayusman/lsfstream/internal/session"
)

// SessionHandler reports the live sessions of a registry.
type SessionHandler struct {
	registry *session.Registry
}

func NewSessionHandler(r *session.Registry) *SessionHandler {
	return &SessionHandler{registry: r}
}

type sessionsResponse struct {
	Count    int            `json:"count"`
	Sessions []session.Info `json:"sessions"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sessions := h.registry.Snapshot()
	writeJSON(w, http.StatusOK, sessionsResponse{Count: len(sessions), Sessions: sessions})
}
