package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrSuperseded reports that a playback request was replaced by a newer
// request or a stop before it could start. The superseded request performed
// no state change; callers treat it as a quiet cancellation, not a failure.
var ErrSuperseded = errors.New("playback superseded")

// Controller owns "the currently playing sound". At most one handle exists
// at a time; starting new playback releases the previous handle first.
// Load and runtime failures surface as a retryable error string, never as a
// permanent lockout.
type Controller struct {
	sink Sink

	mu      sync.Mutex
	handle  Handle
	gen     uint64
	playing bool
	loading bool
	errored string
}

// NewController wires a controller to an audio sink.
func NewController(sink Sink) *Controller {
	return &Controller{sink: sink}
}

// PlayAudio loads and starts the audio at url, blocking until playback has
// begun or failed. Any previously owned handle is stopped first.
func (c *Controller) PlayAudio(ctx context.Context, url string) error {
	c.mu.Lock()
	c.errored = ""
	c.loading = true
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if gen == c.gen {
			c.loading = false
		}
		c.mu.Unlock()
	}()

	logrus.WithField("url", url).Debug("Starting audio playback")

	handle, err := c.sink.Open(ctx, url)
	if err != nil {
		c.fail(gen, fmt.Sprintf("Failed to play audio. The audio file may be corrupted or inaccessible. (%v)", err))
		return fmt.Errorf("audio failed to load: %w", err)
	}

	c.mu.Lock()
	if gen != c.gen {
		// Stop or a newer PlayAudio arrived while loading; this handle
		// lost the race and must not become the owned resource.
		c.mu.Unlock()
		handle.Stop()
		return ErrSuperseded
	}
	c.handle = handle
	c.mu.Unlock()

	if err := handle.Play(); err != nil {
		c.fail(gen, err.Error())
		c.releaseIfCurrent(gen, handle)
		return fmt.Errorf("audio failed to start: %w", err)
	}

	c.mu.Lock()
	if gen == c.gen {
		c.playing = true
	}
	c.mu.Unlock()

	go c.watch(gen, handle)
	return nil
}

// watch clears playing state when the handle finishes on its own. A stale
// watcher (superseded generation) must not mutate state.
func (c *Controller) watch(gen uint64, handle Handle) {
	<-handle.Done()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.playing = false
	if err := handle.Err(); err != nil {
		c.errored = "Audio playback error."
		logrus.WithError(err).Warn("Audio handle errored during playback")
	}
	c.handle = nil
}

func (c *Controller) fail(gen uint64, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.errored = msg
	c.playing = false
}

func (c *Controller) releaseIfCurrent(gen uint64, handle Handle) {
	c.mu.Lock()
	current := gen == c.gen && c.handle == handle
	if current {
		c.handle = nil
	}
	c.mu.Unlock()
	handle.Stop()
}

// PauseAudio pauses the owned handle, if any. Never fails.
func (c *Controller) PauseAudio() {
	c.mu.Lock()
	handle := c.handle
	c.playing = false
	c.mu.Unlock()
	if handle != nil {
		handle.Pause()
	}
}

// ResumeAudio continues a paused handle from its current position.
func (c *Controller) ResumeAudio() {
	c.mu.Lock()
	handle := c.handle
	if handle != nil {
		c.playing = true
	}
	c.mu.Unlock()
	if handle != nil {
		handle.Resume()
	}
}

// StopAudio halts playback, releases the handle and clears error and
// loading state. An in-flight load keeps running but is superseded: its
// handle is discarded the moment it resolves.
func (c *Controller) StopAudio() {
	c.mu.Lock()
	handle := c.handle
	c.handle = nil
	c.gen++
	c.playing = false
	c.loading = false
	c.errored = ""
	c.mu.Unlock()
	if handle != nil {
		handle.Stop()
	}
}

// Done returns the completion channel of the owned handle, or a closed
// channel when nothing is playing.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != nil {
		return c.handle.Done()
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Duration reports the owned clip's length, or 0 when unknown.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return 0
	}
	return c.handle.Duration()
}

// IsPlaying reports whether audio is actively playing.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Loading reports whether audio resolution or decode is still in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Errored returns the user-visible playback error, or "" when none.
func (c *Controller) Errored() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errored
}
