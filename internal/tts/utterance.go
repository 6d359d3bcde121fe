package tts

import (
	"context"
	"sync"

	"storyweaver/internal/player"
)

// utteranceSlot holds the one short utterance a provider may have in flight.
// Speaking a new utterance replaces and releases the previous one, whoever
// started it.
type utteranceSlot struct {
	sink player.Sink

	mu      sync.Mutex
	current player.Handle
}

func newUtteranceSlot(sink player.Sink) *utteranceSlot {
	return &utteranceSlot{sink: sink}
}

// speak plays audio and blocks until the clip ends, fails, or ctx is
// cancelled.
func (u *utteranceSlot) speak(ctx context.Context, audio []byte) error {
	handle, err := u.sink.OpenBytes(audio)
	if err != nil {
		return err
	}

	u.mu.Lock()
	if u.current != nil {
		u.current.Stop()
	}
	u.current = handle
	u.mu.Unlock()

	if err := handle.Play(); err != nil {
		u.release(handle)
		return err
	}

	select {
	case <-handle.Done():
	case <-ctx.Done():
		u.release(handle)
		return ctx.Err()
	}

	u.release(handle)
	return handle.Err()
}

// stop halts the in-flight utterance, if any.
func (u *utteranceSlot) stop() {
	u.mu.Lock()
	handle := u.current
	u.current = nil
	u.mu.Unlock()
	if handle != nil {
		handle.Stop()
	}
}

func (u *utteranceSlot) release(handle player.Handle) {
	u.mu.Lock()
	if u.current == handle {
		u.current = nil
	}
	u.mu.Unlock()
	handle.Stop()
}
