package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storyweaver/internal/domain/story"
)

// AudioSource resolves a story to a playable audio URL. The TTS manager
// implements it; tests substitute a stub.
type AudioSource interface {
	GenerateStoryAudio(ctx context.Context, item *story.Item) (string, error)
}

// Player is the single entry point the UI calls to narrate a whole story:
// it requests audio from the source, starts playback, and drives word
// highlighting alongside it.
type Player struct {
	source    AudioSource
	audio     *Controller
	highlight *Highlighter

	mu      sync.Mutex
	session uint64
}

// NewPlayer composes the orchestrator from an audio source and a sink.
func NewPlayer(source AudioSource, sink Sink) *Player {
	return &Player{
		source:    source,
		audio:     NewController(sink),
		highlight: NewHighlighter(),
	}
}

// EstimateDuration approximates narration length from character count, with
// a floor so very short stories still highlight at a legible pace. Used only
// until the decoded clip length is known.
func EstimateDuration(content string) time.Duration {
	est := time.Duration(len(content)) * 50 * time.Millisecond
	if est < 6*time.Second {
		est = 6 * time.Second
	}
	return est
}

// GenerateAndPlay narrates item end to end. It returns an error only when no
// audio could be produced at all; playback then runs in the background and
// highlighting follows it.
func (p *Player) GenerateAndPlay(ctx context.Context, item *story.Item) error {
	p.mu.Lock()
	p.session++
	session := p.session
	p.mu.Unlock()

	p.highlight.Reset()
	p.highlight.Load(item.Content)

	url, err := p.source.GenerateStoryAudio(ctx, item)
	if err != nil {
		return err
	}

	if err := p.audio.PlayAudio(ctx, url); err != nil {
		p.highlight.Stop()
		if errors.Is(err, ErrSuperseded) {
			// Restart arrived while the audio was loading. The session is
			// cancelled: no highlighting, no error.
			return nil
		}
		return err
	}

	// Prefer the real decoded duration over the character-count estimate.
	// Highlighting starts only once playback has begun; the brief freeze at
	// the start buys better sync for the rest of the story.
	total := p.audio.Duration()
	if total <= 0 {
		total = EstimateDuration(item.Content)
	}

	// Holding the lock across the check and Start pins the ordering against
	// Restart: either the stale session is seen here, or Restart's Reset
	// runs after Start and cancels the schedule.
	p.mu.Lock()
	if p.session != session {
		p.mu.Unlock()
		return nil
	}
	p.highlight.Start(item.Content, total)
	p.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"story":    item.ID,
		"words":    len(p.highlight.Words()),
		"duration": total,
	}).Info("Story playback started")

	done := p.audio.Done()
	go func() {
		<-done
		p.mu.Lock()
		current := p.session == session
		p.mu.Unlock()
		if current {
			// The story finished on its own: keep the last word lit.
			p.highlight.FreezeAtEnd()
		}
	}()
	return nil
}

// Pause halts audio and freezes the highlight cursor in place.
func (p *Player) Pause() {
	p.audio.PauseAudio()
	p.highlight.Stop()
}

// Resume continues audio from the paused position. The highlight schedule is
// not recomputed for the resumed position; the cursor stays where Pause left
// it while narration continues.
func (p *Player) Resume() {
	p.audio.ResumeAudio()
}

// Restart rewinds everything: the audio handle is released and the highlight
// cursor returns to the first word.
func (p *Player) Restart() {
	p.mu.Lock()
	p.session++
	p.mu.Unlock()

	p.audio.StopAudio()
	p.highlight.Reset()
}

// Words returns the token sequence of the current story.
func (p *Player) Words() []string { return p.highlight.Words() }

// CurrentWordIndex returns the highlight cursor position.
func (p *Player) CurrentWordIndex() int { return p.highlight.CurrentWordIndex() }

// IsPlaying reports whether narration is actively playing.
func (p *Player) IsPlaying() bool { return p.audio.IsPlaying() }

// AudioLoading reports whether audio resolution is still in flight.
func (p *Player) AudioLoading() bool { return p.audio.Loading() }

// AudioErrored returns the user-visible playback error, or "" when none.
func (p *Player) AudioErrored() string { return p.audio.Errored() }
