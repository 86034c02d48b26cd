package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/ayusman/lsfstream/internal/session"
)

// SessionEndpoint upgrades HTTP requests to websocket recognition sessions.
type SessionEndpoint struct {
	handler  *session.Handler
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewSessionEndpoint creates an endpoint that serves sessions with h. An
// empty allowedOrigins accepts any origin.
func NewSessionEndpoint(h *session.Handler, allowedOrigins []string, logger *slog.Logger) *SessionEndpoint {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionEndpoint{
		handler: h,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 << 10,
			WriteBufferSize: 4 << 10,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// ServeHTTP upgrades the request and blocks until the session ends.
func (e *SessionEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := e.upgrader.Upgrade(w, r, nil)
	if err != nil {
		e.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	// The session ends with its connection or through the registry, not with the request.
	e.handler.Serve(context.WithoutCancel(r.Context()), conn)
}
