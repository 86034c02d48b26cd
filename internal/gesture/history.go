package gesture

// DefaultHistorySize is the number of recent symbols kept per session.
const DefaultHistorySize = 5

// History is a fixed-capacity FIFO of recent symbols. It is owned by a
// single session and is not safe for concurrent use.
type History struct {
	buf  []Symbol
	size int
}

// NewHistory creates a history holding at most size symbols.
// A size below 1 falls back to DefaultHistorySize.
func NewHistory(size int) *History {
	if size < 1 {
		size = DefaultHistorySize
	}
	return &History{
		buf:  make([]Symbol, 0, size),
		size: size,
	}
}

// Append adds s, evicting the oldest symbol when the history is full.
func (h *History) Append(s Symbol) {
	if len(h.buf) >= h.size {
		copy(h.buf, h.buf[1:])
		h.buf = h.buf[:h.size-1]
	}
	h.buf = append(h.buf, s)
}

// Snapshot returns a copy of the history, oldest first.
func (h *History) Snapshot() []Symbol {
	out := make([]Symbol, len(h.buf))
	copy(out, h.buf)
	return out
}

// Len returns the number of symbols held.
func (h *History) Len() int {
	return len(h.buf)
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return h.size
}

// Reset empties the history.
func (h *History) Reset() {
	h.buf = h.buf[:0]
}
