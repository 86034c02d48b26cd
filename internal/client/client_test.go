package client

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/lsfstream/internal/capture"
	"github.com/ayusman/lsfstream/internal/detector"
	"github.com/ayusman/lsfstream/internal/gesture"
	"github.com/ayusman/lsfstream/internal/session"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// newTestServer serves recognition sessions whose estimator always sees hand.
func newTestServer(t *testing.T, hand detector.HandLandmarks) string {
	t.Helper()

	pool, err := detector.NewPool(1, func() (detector.Detector, error) {
		mock := detector.NewMockDetector()
		mock.SetHands([]detector.HandLandmarks{hand})
		return mock, nil
	}, quietLogger())
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	table, err := gesture.NewPhraseTable(gesture.MatchTokens, nil)
	if err != nil {
		t.Fatalf("NewPhraseTable() error = %v", err)
	}
	handler := session.NewHandler(session.Config{}, session.Dependencies{
		Estimator:  pool,
		Classifier: gesture.DefaultClassifier(false),
		Phrases:    table,
		Logger:     quietLogger(),
	})

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		handler.Serve(context.Background(), conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func solidFrame(t *testing.T, v float64) *gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), 48, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return &m
}

type signRecorder struct {
	mu    sync.Mutex
	signs []string
	want  int
	done  chan struct{}
}

func newSignRecorder(want int) *signRecorder {
	return &signRecorder{want: want, done: make(chan struct{})}
}

func (r *signRecorder) record(sign string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signs = append(r.signs, sign)
	if len(r.signs) == r.want {
		close(r.done)
	}
}

func (r *signRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.signs...)
}

func TestStreamer_SendsFramesAndReportsSigns(t *testing.T) {
	url := newTestServer(t, detector.ThumbsUpLandmarks())
	camera := capture.NewMockCamera([]*gocv.Mat{solidFrame(t, 0)}, true)

	s := New(Config{ServerURL: url, ActiveFPS: 100, AlwaysActive: true}, camera, quietLogger())
	rec := newSignRecorder(3)
	s.OnSign(rec.record)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-rec.done:
	case err := <-done:
		t.Fatalf("Run() returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out, got signs %v", rec.snapshot())
	}
	cancel()

	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
	for _, sign := range rec.snapshot()[:3] {
		if sign != "merci" {
			t.Errorf("sign = %q, want merci", sign)
		}
	}
	if s.Sent() < 3 {
		t.Errorf("Sent() = %d, want >= 3", s.Sent())
	}
	if camera.IsOpen() {
		t.Error("camera should be closed after Run")
	}
	if camera.FPS() != 100 {
		t.Errorf("camera FPS = %d, want 100", camera.FPS())
	}
}

func TestStreamer_IdleWithoutMotion(t *testing.T) {
	url := newTestServer(t, detector.ThumbsUpLandmarks())
	camera := capture.NewMockCamera([]*gocv.Mat{solidFrame(t, 0)}, true)

	s := New(Config{ServerURL: url, IdleFPS: 50}, camera, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Sent() != 0 {
		t.Errorf("Sent() = %d, want 0 for a static scene", s.Sent())
	}
}

func TestStreamer_MotionActivates(t *testing.T) {
	url := newTestServer(t, detector.FistLandmarks())
	camera := capture.NewMockCamera([]*gocv.Mat{solidFrame(t, 0), solidFrame(t, 255)}, true)

	s := New(Config{ServerURL: url, IdleFPS: 50, ActiveFPS: 50}, camera, quietLogger())
	rec := newSignRecorder(1)
	s.OnSign(rec.record)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-rec.done:
	case err := <-done:
		t.Fatalf("Run() returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a sign after motion")
	}
	cancel()
	<-done

	if got := rec.snapshot()[0]; got != "poing_ferme" {
		t.Errorf("sign = %q, want poing_ferme", got)
	}
}

func TestStreamer_StopsWhenFramesRunOut(t *testing.T) {
	url := newTestServer(t, detector.FistLandmarks())
	camera := capture.NewMockCamera([]*gocv.Mat{solidFrame(t, 0), solidFrame(t, 0)}, false)

	s := New(Config{ServerURL: url, ActiveFPS: 100, AlwaysActive: true}, camera, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Sent() != 2 {
		t.Errorf("Sent() = %d, want 2", s.Sent())
	}
}

func TestStreamer_ConnectError(t *testing.T) {
	camera := capture.NewMockCamera(nil, false)
	s := New(Config{ServerURL: "ws://127.0.0.1:1/"}, camera, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Run(ctx); err == nil {
		t.Fatal("Run() error = nil, want connection error")
	}
	if camera.IsOpen() {
		t.Error("camera should not be opened when the server is unreachable")
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{}, capture.NewMockCamera(nil, false), nil)

	if s.cfg.IdleFPS != DefaultIdleFPS || s.cfg.ActiveFPS != DefaultActiveFPS {
		t.Errorf("fps = %d/%d, want %d/%d", s.cfg.IdleFPS, s.cfg.ActiveFPS, DefaultIdleFPS, DefaultActiveFPS)
	}
	if s.cfg.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("IdleTimeout = %v, want %v", s.cfg.IdleTimeout, DefaultIdleTimeout)
	}
}
