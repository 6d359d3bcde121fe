package player

import (
	"testing"
	"time"
)

func waitForIndex(t *testing.T, h *Highlighter, want int, within time.Duration) {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if h.CurrentWordIndex() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("index never reached %d within %v (last %d)", want, within, h.CurrentWordIndex())
}

func TestHighlighter_TerminatesAtLastWord(t *testing.T) {
	h := NewHighlighter()
	h.Start("one two three four", 200*time.Millisecond)

	waitForIndex(t, h, 3, 2*time.Second)

	// No index beyond the last word is ever observed.
	time.Sleep(150 * time.Millisecond)
	if got := h.CurrentWordIndex(); got != 3 {
		t.Errorf("index advanced past last word: %d", got)
	}
}

func TestHighlighter_EmptyContentIsNoOp(t *testing.T) {
	h := NewHighlighter()
	h.Start("", time.Second)
	if got := h.CurrentWordIndex(); got != 0 {
		t.Errorf("index = %d after empty Start, want 0", got)
	}
	if got := len(h.Words()); got != 0 {
		t.Errorf("Words() = %d tokens, want 0", got)
	}
}

func TestHighlighter_StopFreezesResetRewinds(t *testing.T) {
	h := NewHighlighter()
	h.Start("a b c d e f g h", 160*time.Millisecond)

	// Let it advance somewhere past the start.
	deadline := time.Now().Add(time.Second)
	for h.CurrentWordIndex() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	h.Stop()
	k := h.CurrentWordIndex()
	if k == 0 {
		t.Fatal("highlighter never advanced before Stop")
	}

	time.Sleep(100 * time.Millisecond)
	if got := h.CurrentWordIndex(); got != k {
		t.Errorf("index moved after Stop: %d -> %d", k, got)
	}

	h.Reset()
	if got := h.CurrentWordIndex(); got != 0 {
		t.Errorf("index = %d after Reset, want 0", got)
	}
}

func TestHighlighter_RestartReplacesSchedule(t *testing.T) {
	h := NewHighlighter()
	h.Start("a b c d", 10*time.Second)
	h.Start("x y", 50*time.Millisecond)

	waitForIndex(t, h, 1, time.Second)
	if got := len(h.Words()); got != 2 {
		t.Errorf("Words() = %d tokens, want 2 from the second schedule", got)
	}
}

func TestHighlighter_FreezeAtEnd(t *testing.T) {
	h := NewHighlighter()
	h.Load("one two three .")
	h.FreezeAtEnd()
	if got := h.CurrentWordIndex(); got != 3 {
		t.Errorf("FreezeAtEnd index = %d, want 3", got)
	}
}
