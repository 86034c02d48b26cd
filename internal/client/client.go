// Package client streams camera frames to an lsfstream server and reports
// the signs it sends back.
package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/lsfstream/internal/capture"
	"github.com/ayusman/lsfstream/internal/protocol"
)

// Frame pacing defaults.
const (
	DefaultIdleFPS     = 5
	DefaultActiveFPS   = 15
	DefaultIdleTimeout = 2 * time.Second
)

// Config holds streaming options.
type Config struct {
	ServerURL string
	// IdleFPS is the capture rate while nothing moves. Idle frames are not sent.
	IdleFPS int
	// ActiveFPS is the capture and send rate after motion.
	ActiveFPS int
	// IdleTimeout is how long without motion before going back to idle.
	IdleTimeout     time.Duration
	MotionThreshold float64
	// AlwaysActive sends every frame at ActiveFPS without motion gating.
	AlwaysActive bool
	JPEGQuality  int
}

// Streamer captures frames, sends the active ones as image messages and
// reads results until the context ends or the server goes away.
type Streamer struct {
	cfg    Config
	camera capture.Camera
	motion *capture.MotionDetector
	logger *slog.Logger

	mu     sync.Mutex
	onSign func(sign string)

	sent atomic.Int64
}

// New creates a Streamer reading from camera. The camera is opened by Run.
func New(cfg Config, camera capture.Camera, logger *slog.Logger) *Streamer {
	if cfg.IdleFPS <= 0 {
		cfg.IdleFPS = DefaultIdleFPS
	}
	if cfg.ActiveFPS <= 0 {
		cfg.ActiveFPS = DefaultActiveFPS
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.MotionThreshold <= 0 {
		cfg.MotionThreshold = 1.0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Streamer{
		cfg:    cfg,
		camera: camera,
		motion: capture.NewMotionDetector(cfg.MotionThreshold),
		logger: logger,
	}
}

// OnSign registers a callback for every sign_detected message.
func (s *Streamer) OnSign(fn func(sign string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSign = fn
}

// Sent returns how many frames were sent.
func (s *Streamer) Sent() int64 {
	return s.sent.Load()
}

// Run connects, streams until ctx is done or the connection drops, and
// closes the camera. A cancelled ctx is not an error.
func (s *Streamer) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.cfg.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", s.cfg.ServerURL, err)
	}
	defer conn.Close()

	if err := s.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer s.camera.Close()
	defer s.motion.Close()

	readErr := make(chan error, 1)
	go func() { readErr <- s.readLoop(conn) }()

	err = s.streamLoop(ctx, conn, readErr)

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return err
}

// streamLoop runs the capture pipeline:
//  1. start idle, capturing at IdleFPS without sending
//  2. on motion switch to ActiveFPS and send every frame
//  3. after IdleTimeout without motion go back to idle
func (s *Streamer) streamLoop(ctx context.Context, conn *websocket.Conn, readErr <-chan error) error {
	active := s.cfg.AlwaysActive
	fps := s.cfg.IdleFPS
	if active {
		fps = s.cfg.ActiveFPS
	}
	s.camera.SetFPS(fps)
	lastMotion := time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	setMode := func(toActive bool) {
		active = toActive
		fps = s.cfg.IdleFPS
		if active {
			fps = s.cfg.ActiveFPS
		}
		s.camera.SetFPS(fps)
		ticker.Reset(time.Second / time.Duration(fps))
		s.logger.Debug("capture mode", "active", active, "fps", fps)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case <-ticker.C:
		}

		frame, err := s.camera.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrNoFrames) {
				s.logger.Info("camera has no more frames")
				return nil
			}
			s.logger.Warn("read frame failed", "error", err)
			continue
		}

		if !s.cfg.AlwaysActive {
			moved, _ := s.motion.Detect(frame)
			switch {
			case moved:
				lastMotion = time.Now()
				if !active {
					setMode(true)
				}
			case active && time.Since(lastMotion) > s.cfg.IdleTimeout:
				setMode(false)
			}
		}

		if !active {
			frame.Close()
			continue
		}

		err = s.send(conn, frame)
		frame.Close()
		if err != nil {
			return err
		}
	}
}

// send encodes frame as JPEG and writes it as an image message. The base64
// payload is sent without padding; the server restores it.
func (s *Streamer) send(conn *websocket.Conn, frame *gocv.Mat) error {
	data, err := capture.EncodeJPEG(frame, s.cfg.JPEGQuality)
	if err != nil {
		s.logger.Warn("encode frame failed", "error", err)
		return nil
	}
	msg := protocol.ImageMessage{
		Type: protocol.TypeImage,
		Data: base64.RawStdEncoding.EncodeToString(data),
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	s.sent.Add(1)
	return nil
}

func (s *Streamer) readLoop(conn *websocket.Conn) error {
	for {
		var msg protocol.ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		switch msg.Type {
		case protocol.TypeConnectionEstablished:
			s.logger.Info("connected", "server", s.cfg.ServerURL)
		case protocol.TypeSignDetected:
			s.logger.Info("sign detected", "sign", msg.Sign)
			s.mu.Lock()
			fn := s.onSign
			s.mu.Unlock()
			if fn != nil {
				fn(msg.Sign)
			}
		case protocol.TypeError:
			s.logger.Warn("server error", "message", msg.Message)
		default:
			s.logger.Debug("unknown message", "type", msg.Type)
		}
	}
}
