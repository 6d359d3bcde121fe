package tts

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"storyweaver/internal/domain/story"
	"storyweaver/internal/storage"
	"storyweaver/internal/store"
)

// StoryAudio wraps a provider with durable caching keyed by story ID: once a
// story has been synthesized, repeat playback never pays for synthesis again.
type StoryAudio struct {
	provider Provider
	store    storage.ArtifactStore
	stories  store.StoryStore
}

// NewStoryAudio builds the cache path for one provider.
func NewStoryAudio(provider Provider, artifacts storage.ArtifactStore, stories store.StoryStore) *StoryAudio {
	return &StoryAudio{provider: provider, store: artifacts, stories: stories}
}

// Name returns the wrapped provider's name.
func (c *StoryAudio) Name() string { return c.provider.Name() }

// GetOrCreate returns a durable audio URL for item. An existing audio_url is
// probed first and reused when reachable; anything else (absent, stale,
// unreachable) triggers re-synthesis and an upsert under the story's key, so
// at most one artifact per story ever exists.
func (c *StoryAudio) GetOrCreate(ctx context.Context, item *story.Item) (string, error) {
	if item.AudioURL != "" {
		if c.store.Probe(ctx, item.AudioURL) {
			logrus.WithField("story", item.ID).Debug("Reusing cached story audio")
			return item.AudioURL, nil
		}
		logrus.WithFields(logrus.Fields{
			"story": item.ID,
			"url":   item.AudioURL,
		}).Warn("Cached audio unreachable, regenerating")
	}

	audio, err := c.provider.Synthesize(ctx, item.Content)
	if err != nil {
		return "", err
	}

	key := storyAudioKey(item.ID)
	url, err := c.store.Upload(ctx, key, audio)
	if err != nil {
		// Caching failed, but playback can still proceed from a
		// session-local copy; skip the write-back since nothing durable
		// exists to record.
		logrus.WithError(err).WithField("story", item.ID).Warn("Artifact upload failed, using session-local audio")
		return sessionAudioFile(audio)
	}

	if item.AudioURL != url {
		if err := c.stories.UpdateStoryAudioURL(item.ID, url); err != nil {
			logrus.WithError(err).WithField("story", item.ID).Warn("Failed to write back audio URL")
		} else {
			item.AudioURL = url
		}
	}
	return url, nil
}

func storyAudioKey(id string) string {
	return fmt.Sprintf("stories/%s.mp3", id)
}

// sessionAudioFile stages audio in a temp file that lives only for this
// session, the degraded path when durable storage is unavailable.
func sessionAudioFile(audio []byte) (string, error) {
	f, err := os.CreateTemp("", "storyweaver-audio-*.mp3")
	if err != nil {
		return "", fmt.Errorf("failed to stage session audio: %w", err)
	}
	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write session audio: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close session audio: %w", err)
	}
	return f.Name(), nil
}
