// Package app wires the lsfstream server: configuration, phrase storage,
// landmark estimation, recognition sessions and the HTTP surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/ayusman/lsfstream/internal/config"
	"github.com/ayusman/lsfstream/internal/detector"
	"github.com/ayusman/lsfstream/internal/gesture"
	"github.com/ayusman/lsfstream/internal/server"
	"github.com/ayusman/lsfstream/internal/session"
	"github.com/ayusman/lsfstream/internal/store"
)

// DetectorFactory builds one landmark estimator per pool worker.
type DetectorFactory func() (detector.Detector, error)

// Option customizes an App.
type Option func(*App)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithDetectorFactory replaces the estimator chosen from configuration.
func WithDetectorFactory(f DetectorFactory) Option {
	return func(a *App) { a.factory = f }
}

// App is the server process: it owns every long-lived component and shuts
// them down in dependency order.
type App struct {
	cfg     config.Config
	logger  *slog.Logger
	factory DetectorFactory

	store      *store.Store
	pool       *detector.Pool
	classifier *gesture.Classifier
	phrases    *gesture.PhraseTable
	sessions   *session.Handler
	server     *server.Server

	mu        sync.Mutex
	listener  net.Listener
	serveErr  chan error
	closeOnce sync.Once
	closeErr  error
}

const defaultShutdownTimeout = 10 * time.Second

// New builds an App from cfg. Nothing listens until Start.
func New(cfg config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	mode, err := gesture.ParseMatchMode(cfg.Recognizer.MatchMode)
	if err != nil {
		return nil, err
	}
	a.classifier = gesture.DefaultClassifier(cfg.Recognizer.ExtendedVocabulary)

	if cfg.Store.Path != "" {
		s, err := store.New(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = s
	}

	if err := a.loadPhrases(mode); err != nil {
		a.closeStore()
		return nil, err
	}

	if a.factory == nil {
		a.factory = a.detectorFactory()
	}
	pool, err := detector.NewPool(cfg.Detector.Workers, a.factory, a.logger.With("component", "detector"))
	if err != nil {
		a.closeStore()
		return nil, fmt.Errorf("start detector pool: %w", err)
	}
	a.pool = pool

	a.sessions = session.NewHandler(session.Config{
		HistorySize:   cfg.Recognizer.HistorySize,
		ClearOnPhrase: cfg.Recognizer.ClearOnPhrase,
		ReadLimit:     cfg.Server.ReadLimit,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		PingInterval:  cfg.Server.PingInterval,
		InboundQueue:  cfg.Server.InboundQueue,
	}, session.Dependencies{
		Estimator:  a.pool,
		Classifier: a.classifier,
		Phrases:    a.phrases,
		Logger:     a.logger,
	})

	a.server = server.New(server.Config{
		StaticDir:      cfg.Server.StaticDir,
		Store:          a.store,
		Sessions:       a.sessions,
		Classifier:     a.classifier,
		Phrases:        a.phrases,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         a.logger,
	})
	return a, nil
}

// loadPhrases builds the phrase table: built-ins first, then stored phrases
// in their stored order.
func (a *App) loadPhrases(mode gesture.MatchMode) error {
	var phrases []gesture.Phrase
	seen := map[string]struct{}{}
	if a.cfg.Recognizer.BuiltinPhrases {
		for _, p := range gesture.BuiltinPhrases() {
			phrases = append(phrases, p)
			seen[p.Name] = struct{}{}
		}
	}

	if a.store != nil {
		stored, err := a.store.Phrases().List()
		if err != nil {
			return fmt.Errorf("load stored phrases: %w", err)
		}
		for _, sp := range stored {
			if _, dup := seen[sp.Name]; dup {
				a.logger.Warn("stored phrase shadows a built-in phrase, skipping", "id", sp.ID, "name", sp.Name)
				continue
			}
			p := gesture.Phrase{Name: sp.Name, Signs: make([]gesture.Symbol, len(sp.Signs))}
			for i, s := range sp.Signs {
				p.Signs[i] = gesture.Symbol(s)
			}
			if err := gesture.ValidatePhrase(p); err != nil {
				a.logger.Warn("invalid stored phrase, skipping", "id", sp.ID, "error", err)
				continue
			}
			phrases = append(phrases, p)
			seen[p.Name] = struct{}{}
		}
	}

	table, err := gesture.NewPhraseTable(mode, phrases)
	if err != nil {
		return fmt.Errorf("build phrase table: %w", err)
	}
	a.phrases = table

	unreachable := table.Unreachable(a.classifier)
	a.logger.Info("phrases loaded",
		"phrases", table.Len(),
		"unreachable", len(unreachable),
		"symbols", a.classifier.Len(),
		"match_mode", string(mode))
	if len(unreachable) > 0 {
		a.logger.Debug("phrases needing unknown signs", "names", unreachable)
	}
	return nil
}

// detectorFactory picks MediaPipe, falling back to a mock estimator that
// never sees a hand when MediaPipe is unavailable.
func (a *App) detectorFactory() DetectorFactory {
	mock := func() (detector.Detector, error) { return detector.NewMockDetector(), nil }
	if a.cfg.Detector.Mock {
		a.logger.Info("using mock hand detection")
		return mock
	}

	dc := detector.Config{
		MaxHands:        a.cfg.Detector.MaxHands,
		MinConfidence:   a.cfg.Detector.MinConfidence,
		MinTrackingConf: a.cfg.Detector.MinTrackingConfidence,
		Script:          a.cfg.Detector.Script,
		Python:          a.cfg.Detector.Python,
		IdleTimeout:     a.cfg.Detector.IdleTimeout,
	}
	probe, err := detector.NewMediaPipeDetector(dc, a.logger)
	if err != nil {
		a.logger.Warn("MediaPipe not available, using mock detector", "error", err)
		return mock
	}
	probe.Close()

	a.logger.Info("using MediaPipe hand detection", "workers", a.cfg.Detector.Workers)
	return func() (detector.Detector, error) {
		return detector.NewMediaPipeDetector(dc, a.logger.With("component", "mediapipe"))
	}
}

// Start begins accepting connections on the configured address.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}
	a.listener = ln
	a.serveErr = make(chan error, 1)
	go func() {
		a.serveErr <- a.server.Serve(ln)
	}()
	return nil
}

// Addr returns the listening address, or "" before Start.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Run starts the app and blocks until ctx is done or serving fails, then
// shuts down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		a.Close()
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-a.serveErr:
	}

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return errors.Join(serveErr, a.Shutdown(shutdownCtx))
}

// Shutdown stops the listener, cancels every live session and waits for
// them, then releases the detector pool and the store.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown server: %w", err))
	}

	registry := a.sessions.Registry()
	if n := registry.CancelAll(); n > 0 {
		a.logger.Info("closing sessions", "count", n)
	}
	if !registry.Wait(ctx) {
		a.logger.Warn("sessions still running at shutdown deadline", "count", registry.Count())
	}

	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}
	a.logger.Info("server stopped")
	return errors.Join(errs...)
}

// Close releases the detector pool and the store without waiting for
// sessions. Later calls return the first result.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		if err := a.pool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detector pool: %w", err))
		}
		if err := a.closeStore(); err != nil {
			errs = append(errs, err)
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

func (a *App) closeStore() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// Classifier returns the symbol classifier.
func (a *App) Classifier() *gesture.Classifier {
	return a.classifier
}

// Phrases returns the phrase table loaded at startup.
func (a *App) Phrases() *gesture.PhraseTable {
	return a.phrases
}

// Sessions returns the session handler.
func (a *App) Sessions() *session.Handler {
	return a.sessions
}

// Store returns the phrase store, or nil when storage is disabled.
func (a *App) Store() *store.Store {
	return a.store
}
