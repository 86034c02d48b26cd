// Package server provides the HTTP server of lsfstream: the websocket
// session endpoint, the JSON API and optional static files.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/lsfstream/internal/gesture"
	"github.com/ayusman/lsfstream/internal/server/api"
	"github.com/ayusman/lsfstream/internal/session"
	"github.com/ayusman/lsfstream/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	// Store enables phrase management when set.
	Store      *store.Store
	Sessions   *session.Handler
	Classifier *gesture.Classifier
	Phrases    *gesture.PhraseTable
	// AllowedOrigins restricts websocket origins. Empty allows any.
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server represents the HTTP server of the application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	logger *slog.Logger
	http   *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logger,
	}
	s.http = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Sessions != nil {
		s.mux.Handle("/api/sessions", api.NewSessionHandler(s.config.Sessions.Registry()))
	}
	if s.config.Classifier != nil {
		s.mux.Handle("/api/symbols", api.NewSymbolHandler(s.config.Classifier))
	}
	if s.config.Phrases != nil || s.config.Store != nil {
		phrases := api.NewPhraseHandler(s.config.Store, s.config.Phrases, s.config.Classifier, s.logger)
		s.mux.Handle("/api/phrases", phrases)
		s.mux.Handle("/api/phrases/", phrases)
	}

	// Clients connect to the bare host:port, so sessions share "/" with
	// static files and are told apart by the upgrade headers.
	var sessions http.Handler
	if s.config.Sessions != nil {
		sessions = NewSessionEndpoint(s.config.Sessions, s.config.AllowedOrigins, s.logger)
	}
	var static http.Handler
	if s.config.StaticDir != "" {
		static = http.FileServer(http.Dir(s.config.StaticDir))
	}
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if sessions != nil && websocket.IsWebSocketUpgrade(r) {
			sessions.ServeHTTP(w, r)
			return
		}
		if static != nil {
			static.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Sessions != nil {
		response["sessions"] = s.config.Sessions.Registry().Count()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Serve accepts connections on ln until Shutdown is called, in which case
// it returns nil.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server listening", "addr", ln.Addr().String())
	if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight HTTP
// requests. Websocket sessions are hijacked and must be stopped through
// their registry.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
