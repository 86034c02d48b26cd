package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ayusman/lsfstream/internal/gesture"
	"github.com/ayusman/lsfstream/internal/session"
)

func TestSymbolHandler(t *testing.T) {
	classifier := gesture.DefaultClassifier(false)
	handler := NewSymbolHandler(classifier)

	rec := doRequest(handler, http.MethodGet, "/api/symbols", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response symbolsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Symbols) != classifier.Len() {
		t.Fatalf("expected %d symbols, got %d", classifier.Len(), len(response.Symbols))
	}
	if response.Symbols[0] != "bonjour" {
		t.Errorf("expected bonjour first, got %s", response.Symbols[0])
	}
	if len(response.Sentinels) != 2 || response.Sentinels[0] != gesture.NoHand {
		t.Errorf("unexpected sentinels: %v", response.Sentinels)
	}

	if rec := doRequest(handler, http.MethodPost, "/api/symbols", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestSessionHandler(t *testing.T) {
	registry := session.NewRegistry()
	handler := NewSessionHandler(registry)

	t.Run("empty registry", func(t *testing.T) {
		rec := doRequest(handler, http.MethodGet, "/api/sessions", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if body := rec.Body.String(); body != "{\"count\":0,\"sessions\":[]}\n" {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("live sessions", func(t *testing.T) {
		_, cancel := context.WithCancel(context.Background())
		defer cancel()
		entry := registry.Register("s-1", "127.0.0.1:5000", cancel)
		defer entry.Done()
		entry.AddFrame()

		rec := doRequest(handler, http.MethodGet, "/api/sessions", nil)
		var response sessionsResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Count != 1 || len(response.Sessions) != 1 {
			t.Fatalf("expected 1 session, got %+v", response)
		}
		got := response.Sessions[0]
		if got.ID != "s-1" || got.Remote != "127.0.0.1:5000" || got.Frames != 1 {
			t.Errorf("unexpected session info: %+v", got)
		}
	})
}
