package gesture

import (
	"reflect"
	"testing"
)

func TestHistory(t *testing.T) {
	t.Run("evicts oldest first", func(t *testing.T) {
		h := NewHistory(5)
		for _, s := range []Symbol{"A", "B", "C", "D", "E", "F"} {
			h.Append(s)
		}

		want := []Symbol{"B", "C", "D", "E", "F"}
		if got := h.Snapshot(); !reflect.DeepEqual(got, want) {
			t.Errorf("Snapshot() = %v, want %v", got, want)
		}
	})

	t.Run("keeps duplicates", func(t *testing.T) {
		h := NewHistory(3)
		h.Append("merci")
		h.Append("merci")

		if got := h.Snapshot(); !reflect.DeepEqual(got, []Symbol{"merci", "merci"}) {
			t.Errorf("unexpected snapshot %v", got)
		}
	})

	t.Run("stores sentinels", func(t *testing.T) {
		h := NewHistory(2)
		h.Append(Unrecognized)

		if h.Len() != 1 || h.Snapshot()[0] != Unrecognized {
			t.Errorf("expected Unrecognized in history, got %v", h.Snapshot())
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		h := NewHistory(2)
		h.Append("oui")
		snap := h.Snapshot()
		snap[0] = "non"

		if h.Snapshot()[0] != "oui" {
			t.Error("mutating a snapshot changed the history")
		}
	})

	t.Run("invalid size falls back to default", func(t *testing.T) {
		if got := NewHistory(0).Cap(); got != DefaultHistorySize {
			t.Errorf("Cap() = %d, want %d", got, DefaultHistorySize)
		}
	})

	t.Run("reset empties", func(t *testing.T) {
		h := NewHistory(3)
		h.Append("oui")
		h.Reset()

		if h.Len() != 0 || len(h.Snapshot()) != 0 {
			t.Errorf("expected empty history, got %v", h.Snapshot())
		}
		h.Append("non")
		if h.Len() != 1 {
			t.Errorf("expected 1 symbol after reset, got %d", h.Len())
		}
	})

	t.Run("capacity one", func(t *testing.T) {
		h := NewHistory(1)
		h.Append("a")
		h.Append("b")

		if got := h.Snapshot(); !reflect.DeepEqual(got, []Symbol{"b"}) {
			t.Errorf("Snapshot() = %v, want [b]", got)
		}
	})
}
