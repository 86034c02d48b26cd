package session

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultPingInterval = 20 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

type wsWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// outboundWriter is the only goroutine writing data frames to a session's
// connection. It stops without writing further data once ctx is done.
type outboundWriter struct {
	ws           wsWriter
	ctx          context.Context
	out          <-chan []byte
	pingInterval time.Duration
	writeTimeout time.Duration
}

func (w *outboundWriter) Run() error {
	pingInterval := w.pingInterval
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	writeTimeout := w.writeTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		// Cancellation wins over anything still queued.
		select {
		case <-w.ctx.Done():
			return w.close(writeTimeout)
		default:
		}

		select {
		case <-w.ctx.Done():
			return w.close(writeTimeout)
		case <-ping.C:
			if err := w.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return w.fail(err)
			}
		case payload, ok := <-w.out:
			if !ok {
				return w.close(writeTimeout)
			}
			if w.ctx.Err() != nil {
				return w.close(writeTimeout)
			}
			if err := w.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return w.fail(err)
			}
			if err := w.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return w.fail(err)
			}
		}
	}
}

// fail closes the connection so the reader blocked in ReadMessage returns.
func (w *outboundWriter) fail(err error) error {
	_ = w.ws.Close()
	return err
}

func (w *outboundWriter) close(writeTimeout time.Duration) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
	_ = w.ws.Close()
	return nil
}
