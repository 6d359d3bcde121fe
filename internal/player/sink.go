package player

import (
	"context"
	"time"
)

// Handle is one playing (or playable) piece of audio. A Handle is owned by
// exactly one caller; Stop releases it and any resources behind it.
type Handle interface {
	// Play starts or restarts playback from the beginning.
	Play() error
	// Pause halts playback without releasing the handle.
	Pause()
	// Resume continues from the paused position.
	Resume()
	// Stop halts playback and releases this handle only; other audio
	// playing through the same backend is unaffected. Safe to call twice.
	Stop()
	// Done is closed once playback finishes, fails, or is stopped.
	Done() <-chan struct{}
	// Err reports the playback failure, if any, once Done is closed.
	Err() error
	// Duration is the decoded clip length, or 0 when unknown.
	Duration() time.Duration
}

// Sink opens audio handles. It is the seam between the playback state
// machine and the actual audio backend, so the state machine stays testable
// without a sound device.
type Sink interface {
	// Open loads the audio at url and returns a ready-to-play handle. It
	// blocks until the audio is decodable or fails with a descriptive error.
	Open(ctx context.Context, url string) (Handle, error)
	// OpenBytes is Open for an in-memory clip, used for short utterances
	// that never touch durable storage.
	OpenBytes(data []byte) (Handle, error)
}
