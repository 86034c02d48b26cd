package api

import (
	"net/http"

	"github.com/ayusman/lsfstream/internal/gesture"
)

// SymbolHandler lists the signs the classifier can produce, in evaluation order.
type SymbolHandler struct {
	classifier *gesture.Classifier
}

func NewSymbolHandler(c *gesture.Classifier) *SymbolHandler {
	return &SymbolHandler{classifier: c}
}

type symbolsResponse struct {
	Symbols   []gesture.Symbol `json:"symbols"`
	Sentinels []gesture.Symbol `json:"sentinels"`
}

func (h *SymbolHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, symbolsResponse{
		Symbols:   h.classifier.Order(),
		Sentinels: []gesture.Symbol{gesture.NoHand, gesture.Unrecognized},
	})
}
