package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type recordedWrite struct {
	messageType int
	data        string
}

type fakeWSWriter struct {
	mu     sync.Mutex
	writes   []recordedWrite
	closed   bool
	writeErr error
}

func (f *fakeWSWriter) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeWSWriter) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, recordedWrite{messageType: messageType, data: string(data)})
	return nil
}

func (f *fakeWSWriter) WriteControl(messageType int, data []byte, _ time.Time) error {
	return f.WriteMessage(messageType, data)
}

func (f *fakeWSWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWSWriter) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeWSWriter) snapshot() []recordedWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedWrite, len(f.writes))
	copy(out, f.writes)
	return out
}

func TestOutboundWriter_WritesInOrder(t *testing.T) {
	out := make(chan []byte, 3)
	out <- []byte(`{"n":1}`)
	out <- []byte(`{"n":2}`)
	out <- []byte(`{"n":3}`)
	close(out)

	ws := &fakeWSWriter{}
	w := outboundWriter{ws: ws, ctx: context.Background(), out: out, pingInterval: time.Hour}
	if err := w.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	writes := ws.snapshot()
	if len(writes) != 4 {
		t.Fatalf("writes=%d, want 3 messages and a close", len(writes))
	}
	for i, want := range []string{`{"n":1}`, `{"n":2}`, `{"n":3}`} {
		if writes[i].messageType != websocket.TextMessage || writes[i].data != want {
			t.Errorf("write %d = %+v, want text %s", i, writes[i], want)
		}
	}
	if writes[3].messageType != websocket.CloseMessage {
		t.Errorf("last write type=%d, want close", writes[3].messageType)
	}
	if !ws.closed {
		t.Error("expected connection to be closed")
	}
}

func TestOutboundWriter_NothingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan []byte, 1)
	out <- []byte(`{"type":"sign_detected","sign":"bonjour"}`)

	ws := &fakeWSWriter{}
	w := outboundWriter{ws: ws, ctx: ctx, out: out, pingInterval: time.Hour}
	if err := w.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, wr := range ws.snapshot() {
		if wr.messageType == websocket.TextMessage {
			t.Fatalf("unexpected data write after cancel: %s", wr.data)
		}
	}
}

func TestOutboundWriter_Pings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []byte)

	ws := &fakeWSWriter{}
	w := outboundWriter{ws: ws, ctx: ctx, out: out, pingInterval: 5 * time.Millisecond}

	done := make(chan error, 1)
	go func() { done <- w.Run() }()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		pinged := false
		for _, wr := range ws.snapshot() {
			if wr.messageType == websocket.PingMessage {
				pinged = true
			}
		}
		if pinged {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	found := false
	for _, wr := range ws.snapshot() {
		if wr.messageType == websocket.PingMessage {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one ping")
	}
}

func TestOutboundWriter_ClosesOnWriteError(t *testing.T) {
	timeout := errors.New("i/o timeout")

	t.Run("message", func(t *testing.T) {
		out := make(chan []byte, 1)
		out <- []byte(`{"type":"sign_detected","sign":"merci"}`)

		ws := &fakeWSWriter{writeErr: timeout}
		w := outboundWriter{ws: ws, ctx: context.Background(), out: out, pingInterval: time.Hour}
		if err := w.Run(); !errors.Is(err, timeout) {
			t.Fatalf("Run() error = %v, want %v", err, timeout)
		}
		if !ws.isClosed() {
			t.Error("connection left open after write error")
		}
	})

	t.Run("ping", func(t *testing.T) {
		ws := &fakeWSWriter{writeErr: timeout}
		w := outboundWriter{ws: ws, ctx: context.Background(), out: make(chan []byte), pingInterval: time.Millisecond}
		if err := w.Run(); !errors.Is(err, timeout) {
			t.Fatalf("Run() error = %v, want %v", err, timeout)
		}
		if !ws.isClosed() {
			t.Error("connection left open after ping error")
		}
	})
}
