package tts

import (
	"context"

	"github.com/sirupsen/logrus"

	"storyweaver/internal/domain/story"
	"storyweaver/internal/player"
	"storyweaver/internal/storage"
)

// Manager runs a fixed-priority fallback chain over TTS providers. The order
// never changes at runtime: providers differ in cost and quality, and the
// first entry is always preferred. Only when every provider has failed does
// a single AggregateError cross to the caller.
type Manager struct {
	chain     []*StoryAudio
	providers []Provider
	slots     map[string]*utteranceSlot
	probe     func(context.Context, string) bool
}

// NewManager builds the chain in the given order. Each provider gets both a
// cached story-audio path and its own single-utterance slot for short spoken
// prompts.
func NewManager(sink player.Sink, artifacts storage.ArtifactStore, chain ...*StoryAudio) *Manager {
	m := &Manager{
		chain: chain,
		slots: make(map[string]*utteranceSlot),
		probe: artifacts.Probe,
	}
	for _, c := range chain {
		m.providers = append(m.providers, c.provider)
		m.slots[c.provider.Name()] = newUtteranceSlot(sink)
	}
	return m
}

// GenerateStoryAudio resolves a durable audio URL for item. A reachable
// existing audio_url short-circuits without any synthesis call.
func (m *Manager) GenerateStoryAudio(ctx context.Context, item *story.Item) (string, error) {
	if item.AudioURL != "" && m.probe(ctx, item.AudioURL) {
		return item.AudioURL, nil
	}

	var failures []ProviderFailure
	for _, c := range m.chain {
		url, err := c.GetOrCreate(ctx, item)
		if err == nil {
			if len(failures) > 0 {
				logrus.WithFields(logrus.Fields{
					"provider": c.Name(),
					"failed":   failures[len(failures)-1].Provider,
				}).Warn("Story audio produced by fallback provider")
			}
			return url, nil
		}
		logrus.WithError(err).WithField("provider", c.Name()).Warn("Story audio generation failed, trying next provider")
		failures = append(failures, ProviderFailure{Provider: c.Name(), Err: err})
	}
	return "", &AggregateError{Failures: failures}
}

// PlayTextToSpeech speaks a short utterance through the first provider that
// succeeds, in chain order, blocking until the clip finishes.
func (m *Manager) PlayTextToSpeech(ctx context.Context, text string) error {
	var failures []ProviderFailure
	for _, p := range m.providers {
		audio, err := p.Synthesize(ctx, text)
		if err != nil {
			logrus.WithError(err).WithField("provider", p.Name()).Warn("Utterance synthesis failed, trying next provider")
			failures = append(failures, ProviderFailure{Provider: p.Name(), Err: err})
			continue
		}
		return m.slots[p.Name()].speak(ctx, audio)
	}
	return &AggregateError{Failures: failures}
}

// StopAllAudio halts every provider's in-flight utterance.
func (m *Manager) StopAllAudio() {
	for _, slot := range m.slots {
		slot.stop()
	}
}
