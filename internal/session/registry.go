package session

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Info describes a live session for diagnostics.
type Info struct {
	ID          string    `json:"id"`
	Remote      string    `json:"remote"`
	ConnectedAt time.Time `json:"connected_at"`
	Frames      int64     `json:"frames"`
}

// Registry tracks live sessions so they can be listed and shut down together.
// It never holds per-session recognition state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Entry
	wg       sync.WaitGroup
	closed   bool
}

// Entry is a session's registration. Done must be called exactly once the
// session has stopped; further calls are no-ops.
type Entry struct {
	registry    *Registry
	id          string
	remote      string
	connectedAt time.Time
	frames      atomic.Int64
	cancel      context.CancelFunc
	once        sync.Once
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Entry)}
}

// Register adds a session. cancel is invoked by CancelAll, or right away
// when the registry has already been shut down; the returned Entry is then
// untracked and its Done is a no-op.
func (r *Registry) Register(id, remote string, cancel context.CancelFunc) *Entry {
	e := &Entry{
		registry:    r,
		id:          id,
		remote:      remote,
		connectedAt: time.Now(),
		cancel:      cancel,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		e.once.Do(func() {})
		if cancel != nil {
			cancel()
		}
		return e
	}
	old := r.sessions[id]
	r.sessions[id] = e
	r.wg.Add(1)
	r.mu.Unlock()

	if old != nil {
		old.Done()
	}
	return e
}

// AddFrame counts one processed frame.
func (e *Entry) AddFrame() {
	e.frames.Add(1)
}

// Done removes the session from the registry.
func (e *Entry) Done() {
	e.once.Do(func() {
		r := e.registry
		r.mu.Lock()
		if r.sessions[e.id] == e {
			delete(r.sessions, e.id)
		}
		r.mu.Unlock()
		r.wg.Done()
	})
}

func (e *Entry) info() Info {
	return Info{
		ID:          e.id,
		Remote:      e.remote,
		ConnectedAt: e.connectedAt,
		Frames:      e.frames.Load(),
	}
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Snapshot lists live sessions, oldest first.
func (r *Registry) Snapshot() []Info {
	r.mu.Lock()
	out := make([]Info, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.info())
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ConnectedAt.Before(out[j].ConnectedAt)
	})
	return out
}

// CancelAll cancels every live session and returns how many were signalled.
// Sessions registered afterwards are cancelled on arrival.
func (r *Registry) CancelAll() (canceled int) {
	var cancels []context.CancelFunc
	r.mu.Lock()
	r.closed = true
	for _, e := range r.sessions {
		if e.cancel != nil {
			cancels = append(cancels, e.cancel)
		}
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
		canceled++
	}
	return canceled
}

// Wait blocks until every registered session is done or ctx ends. It
// reports whether all sessions finished.
func (r *Registry) Wait(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.wg.Wait()
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
