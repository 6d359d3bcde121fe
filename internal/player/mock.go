package player

import (
	"context"
	"sync"
	"time"
)

// MockSink is a silent sink for tests and dry runs: handles "play" for a
// fixed clip duration and then complete, with optional injected failures.
type MockSink struct {
	ClipDuration time.Duration
	// OpenDelay simulates slow fetch/decode inside Open.
	OpenDelay time.Duration
	OpenErr   error
	PlayErr   error
	// FailDuring, when set, makes handles end with this error instead of
	// completing cleanly.
	FailDuring error

	mu      sync.Mutex
	opened  []string
	handles []*MockHandle
}

// NewMockSink returns a sink whose clips last clip.
func NewMockSink(clip time.Duration) *MockSink {
	return &MockSink{ClipDuration: clip}
}

func (s *MockSink) Open(ctx context.Context, url string) (Handle, error) {
	if s.OpenDelay > 0 {
		select {
		case <-time.After(s.OpenDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.opened = append(s.opened, url)
	s.mu.Unlock()
	return s.newHandle(), nil
}

func (s *MockSink) OpenBytes(data []byte) (Handle, error) {
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	return s.newHandle(), nil
}

func (s *MockSink) newHandle() *MockHandle {
	h := &MockHandle{
		clip:    s.ClipDuration,
		playErr: s.PlayErr,
		failErr: s.FailDuring,
		done:    make(chan struct{}),
	}
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()
	return h
}

// Opened returns every URL opened through the sink, in order.
func (s *MockSink) Opened() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opened...)
}

// ActivePlaying counts handles currently producing sound.
func (s *MockSink) ActivePlaying() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.handles {
		if h.isPlaying() {
			n++
		}
	}
	return n
}

// MockHandle simulates a clip with a timer.
type MockHandle struct {
	clip    time.Duration
	playErr error
	failErr error

	mu       sync.Mutex
	playing  bool
	timer    *time.Timer
	err      error
	done     chan struct{}
	doneOnce sync.Once
}

func (h *MockHandle) Play() error {
	if h.playErr != nil {
		h.finish(h.playErr)
		return h.playErr
	}
	h.mu.Lock()
	h.playing = true
	h.timer = time.AfterFunc(h.clip, func() { h.finish(h.failErr) })
	h.mu.Unlock()
	return nil
}

func (h *MockHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
	if h.timer != nil {
		h.timer.Stop()
	}
}

func (h *MockHandle) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return
	default:
	}
	h.playing = true
	h.timer = time.AfterFunc(h.clip, func() { h.finish(h.failErr) })
}

func (h *MockHandle) Stop() {
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()
	h.finish(nil)
}

func (h *MockHandle) Done() <-chan struct{} { return h.done }

func (h *MockHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *MockHandle) Duration() time.Duration { return h.clip }

func (h *MockHandle) isPlaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

func (h *MockHandle) finish(err error) {
	h.mu.Lock()
	h.playing = false
	if err != nil && h.err == nil {
		h.err = err
	}
	h.mu.Unlock()
	h.doneOnce.Do(func() { close(h.done) })
}
