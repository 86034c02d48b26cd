// Package session runs one recognition session per websocket connection:
// frames are decoded, classified and matched against phrases in arrival
// order, and every result is written back on the same connection.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/lsfstream/internal/capture"
	"github.com/ayusman/lsfstream/internal/detector"
	"github.com/ayusman/lsfstream/internal/gesture"
	"github.com/ayusman/lsfstream/internal/protocol"
)

// Estimator finds hand landmarks in a frame. It takes ownership of frame.
// *detector.Pool implements it.
type Estimator interface {
	Detect(ctx context.Context, frame gocv.Mat) ([]detector.HandLandmarks, error)
}

// Config tunes session behaviour. Zero values take defaults.
type Config struct {
	HistorySize   int
	ClearOnPhrase bool
	ReadLimit     int64
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	PingInterval  time.Duration
	// InboundQueue bounds frames read but not yet processed. A full queue
	// stops the reader, pushing back on the client instead of dropping frames.
	InboundQueue int
}

const (
	defaultReadLimit    = 8 << 20
	defaultInboundQueue = 8
)

// Dependencies are shared, read-only collaborators of every session.
type Dependencies struct {
	Decoder    capture.Decoder
	Estimator  Estimator
	Classifier *gesture.Classifier
	Phrases    *gesture.PhraseTable
	Registry   *Registry
	Logger     *slog.Logger
}

// Handler starts sessions on upgraded connections.
type Handler struct {
	cfg  Config
	deps Dependencies
}

func NewHandler(cfg Config, deps Dependencies) *Handler {
	if cfg.HistorySize < 1 {
		cfg.HistorySize = gesture.DefaultHistorySize
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}
	if cfg.InboundQueue < 1 {
		cfg.InboundQueue = defaultInboundQueue
	}
	if deps.Decoder == nil {
		deps.Decoder = capture.ImageDecoder{}
	}
	if deps.Registry == nil {
		deps.Registry = NewRegistry()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handler{cfg: cfg, deps: deps}
}

// Registry returns the registry sessions are tracked in.
func (h *Handler) Registry() *Registry {
	return h.deps.Registry
}

// State is a session's lifecycle stage.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

type inboundFrame struct {
	data []byte
}

// Session is one client connection. Its history is private to it.
type Session struct {
	id      string
	h       *Handler
	conn    *websocket.Conn
	logger  *slog.Logger
	history *gesture.History
	entry   *Entry
	state   atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
}

// Serve runs a session on conn until the client disconnects or ctx is
// cancelled. It always closes conn.
func (h *Handler) Serve(ctx context.Context, conn *websocket.Conn) {
	h.newSession(ctx, conn).run()
}

func (h *Handler) newSession(ctx context.Context, conn *websocket.Conn) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:      uuid.NewString(),
		h:       h,
		conn:    conn,
		history: gesture.NewHistory(h.cfg.HistorySize),
		ctx:     ctx,
		cancel:  cancel,
	}
	remote := conn.RemoteAddr().String()
	s.logger = h.deps.Logger.With("session_id", s.id, "remote", remote)
	s.entry = h.deps.Registry.Register(s.id, remote, cancel)
	return s
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
	s.logger.Debug("session state", "state", st.String())
}

func (s *Session) run() {
	defer s.entry.Done()
	defer s.cancel()

	cfg := s.h.cfg
	s.conn.SetReadLimit(cfg.ReadLimit)
	if cfg.ReadTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		s.conn.SetPongHandler(func(string) error {
			return s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		})
	}

	out := make(chan []byte, cfg.InboundQueue+1)
	inbound := make(chan inboundFrame, cfg.InboundQueue)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w := outboundWriter{
			ws:           s.conn,
			ctx:          s.ctx,
			out:          out,
			pingInterval: cfg.PingInterval,
			writeTimeout: cfg.WriteTimeout,
		}
		if err := w.Run(); err != nil {
			s.logger.Warn("write failed", "error", err)
		}
		s.cancel()
	}()
	go func() {
		defer wg.Done()
		s.readLoop(inbound)
	}()

	s.setState(StateOpen)
	s.logger.Info("session connected")
	s.send(out, protocol.ConnectionEstablished())

	for frame := range inbound {
		msg, ok := s.process(frame.data)
		if !ok {
			break
		}
		if !s.send(out, msg) {
			break
		}
	}

	s.cancel()
	s.conn.Close()
	wg.Wait()

	s.setState(StateClosed)
	s.logger.Info("session closed", "frames", s.entry.frames.Load())
}

func (s *Session) readLoop(out chan<- inboundFrame) {
	defer close(out)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && s.ctx.Err() == nil {
				s.logger.Warn("read failed", "error", err)
			}
			s.cancel()
			return
		}
		select {
		case out <- inboundFrame{data: data}:
		case <-s.ctx.Done():
			return
		}
	}
}

// send queues msg for the writer. It reports false once the session is cancelled.
func (s *Session) send(out chan<- []byte, msg protocol.ServerMessage) bool {
	if s.ctx.Err() != nil {
		return false
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encode message", "error", err)
		return true
	}
	select {
	case out <- payload:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// process handles one inbound frame. It returns false when the session was
// cancelled and nothing should be sent.
func (s *Session) process(data []byte) (msg protocol.ServerMessage, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("frame processing panic", "panic", r)
			msg, ok = protocol.ErrorMessage(fmt.Sprintf("Internal error while processing frame: %v", r)), true
		}
	}()

	in, err := protocol.DecodeClientMessage(data)
	if err != nil {
		return protocol.ErrorFor(err), true
	}

	raw, err := protocol.DecodeImagePayload(in.Data)
	if err != nil {
		return protocol.ErrorFor(err), true
	}

	frame, err := s.h.deps.Decoder.Decode(raw)
	if err != nil {
		frame.Close()
		return protocol.ErrorFor(protocol.BadPayload(err)), true
	}

	hands, err := s.h.deps.Estimator.Detect(s.ctx, frame)
	if err != nil {
		if s.ctx.Err() != nil {
			return protocol.ServerMessage{}, false
		}
		s.logger.Warn("landmark estimation failed", "error", err)
		return protocol.ErrorMessage(fmt.Sprintf("Landmark estimation failed: %v", err)), true
	}

	s.entry.AddFrame()
	result := s.recognize(detector.Primary(hands))
	s.logger.Debug("sign detected", "sign", result)
	return protocol.SignDetected(result), true
}

// recognize classifies hand and runs the phrase matcher over the updated
// history. A missing hand is reported but never recorded.
func (s *Session) recognize(hand *detector.HandLandmarks) string {
	symbol := s.h.deps.Classifier.Classify(hand)
	if symbol == gesture.NoHand {
		return symbol.String()
	}

	s.history.Append(symbol)
	if s.h.deps.Phrases == nil {
		return symbol.String()
	}
	if phrase, ok := s.h.deps.Phrases.Match(s.history.Snapshot()); ok {
		if s.h.cfg.ClearOnPhrase {
			s.history.Reset()
		}
		return phrase
	}
	return symbol.String()
}
