package player

import (
	"sync"
	"time"
)

// Highlighter advances a cursor over the word sequence on a fixed-interval
// ticker. The tick schedule is derived from an estimated (or measured) total
// duration, deliberately independent of the audio decode clock: drift is
// accepted in exchange for not depending on per-word timing marks no TTS
// provider emits.
type Highlighter struct {
	mu    sync.Mutex
	words []string
	index int
	stop  chan struct{}
}

// NewHighlighter returns an idle highlighter at index 0.
func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// Start segments content and begins advancing the word index so the full
// sequence spans total. Empty content is a no-op. A previous schedule is
// cancelled first; at most one ticker runs at a time.
func (h *Highlighter) Start(content string, total time.Duration) {
	words := Segment(content)

	h.mu.Lock()
	h.cancelLocked()
	h.words = words
	if len(words) == 0 {
		h.mu.Unlock()
		return
	}

	interval := total / time.Duration(len(words))
	if interval <= 0 {
		interval = time.Millisecond
	}
	stop := make(chan struct{})
	h.stop = stop
	h.mu.Unlock()

	go h.run(stop, len(words), interval)
}

func (h *Highlighter) run(stop chan struct{}, count int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	next := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.mu.Lock()
			if h.stop != stop {
				h.mu.Unlock()
				return
			}
			h.index = next
			h.mu.Unlock()

			next++
			if next >= count {
				return
			}
		}
	}
}

// Load segments content so Words renders immediately, before any audio has
// resolved. The index rewinds to 0 and any running schedule is cancelled.
func (h *Highlighter) Load(content string) {
	words := Segment(content)
	h.mu.Lock()
	h.cancelLocked()
	h.words = words
	h.index = 0
	h.mu.Unlock()
}

// Stop cancels the pending ticks without moving the index, freezing the
// visual position for pause.
func (h *Highlighter) Stop() {
	h.mu.Lock()
	h.cancelLocked()
	h.mu.Unlock()
}

// Reset stops and rewinds the index to 0 for restart.
func (h *Highlighter) Reset() {
	h.mu.Lock()
	h.cancelLocked()
	h.index = 0
	h.mu.Unlock()
}

// FreezeAtEnd stops ticking and pins the index to the final word, the
// "story finished" state.
func (h *Highlighter) FreezeAtEnd() {
	h.mu.Lock()
	h.cancelLocked()
	if len(h.words) > 0 {
		h.index = len(h.words) - 1
	}
	h.mu.Unlock()
}

func (h *Highlighter) cancelLocked() {
	if h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
}

// CurrentWordIndex returns the cursor position.
func (h *Highlighter) CurrentWordIndex() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Words returns the segmented token sequence of the last Start call.
func (h *Highlighter) Words() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.words
}
