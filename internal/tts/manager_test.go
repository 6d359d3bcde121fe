package tts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storyweaver/internal/domain/story"
	"storyweaver/internal/player"
	"storyweaver/internal/storage"
	"storyweaver/internal/store"
)

func newTestManager(t *testing.T, providers ...Provider) (*Manager, *store.FileStore, *storage.FSStore) {
	t.Helper()
	artifacts, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}
	stories, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	chain := make([]*StoryAudio, 0, len(providers))
	for _, p := range providers {
		chain = append(chain, NewStoryAudio(p, artifacts, stories))
	}
	return NewManager(player.NewMockSink(10*time.Millisecond), artifacts, chain...), stories, artifacts
}

func saveStory(t *testing.T, stories *store.FileStore, item story.Item) *story.Item {
	t.Helper()
	id, err := stories.SaveStory(item)
	if err != nil {
		t.Fatalf("SaveStory() error: %v", err)
	}
	saved, err := stories.GetStory(id)
	if err != nil {
		t.Fatalf("GetStory() error: %v", err)
	}
	return saved
}

func TestManager_FallbackOrdering(t *testing.T) {
	primary := &MockProvider{ProviderName: "elevenlabs", Err: errors.New("quota exceeded")}
	secondary := &MockProvider{ProviderName: "google"}
	m, stories, _ := newTestManager(t, primary, secondary)

	item := saveStory(t, stories, story.Item{Title: "t", Content: "Once upon a time."})

	url, err := m.GenerateStoryAudio(context.Background(), item)
	if err != nil {
		t.Fatalf("GenerateStoryAudio() error: %v", err)
	}
	if url == "" {
		t.Fatal("GenerateStoryAudio() returned empty URL")
	}
	if primary.Calls() != 1 {
		t.Errorf("primary calls = %d, want 1 (always tried first)", primary.Calls())
	}
	if secondary.Calls() != 1 {
		t.Errorf("secondary calls = %d, want 1", secondary.Calls())
	}
}

func TestManager_TotalFailureSurfacesOnce(t *testing.T) {
	primary := &MockProvider{ProviderName: "elevenlabs", Err: errors.New("quota exceeded")}
	secondary := &MockProvider{ProviderName: "google", Err: errors.New("service outage")}
	m, stories, _ := newTestManager(t, primary, secondary)

	item := saveStory(t, stories, story.Item{Title: "t", Content: "Hello."})

	_, err := m.GenerateStoryAudio(context.Background(), item)
	if err == nil {
		t.Fatal("GenerateStoryAudio() should fail when every provider fails")
	}

	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("error type = %T, want *AggregateError", err)
	}
	if len(agg.Failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(agg.Failures))
	}
	msg := err.Error()
	for _, part := range []string{"elevenlabs", "quota exceeded", "google", "service outage"} {
		if !strings.Contains(msg, part) {
			t.Errorf("aggregated error %q missing %q", msg, part)
		}
	}
}

func TestManager_CacheShortCircuit(t *testing.T) {
	primary := &MockProvider{ProviderName: "elevenlabs"}
	m, stories, artifacts := newTestManager(t, primary)

	url, err := artifacts.Upload(context.Background(), "stories/pre.mp3", []byte("cached"))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	item := saveStory(t, stories, story.Item{Title: "t", Content: "Hello.", AudioURL: url})

	got, err := m.GenerateStoryAudio(context.Background(), item)
	if err != nil {
		t.Fatalf("GenerateStoryAudio() error: %v", err)
	}
	if got != url {
		t.Errorf("URL = %q, want cached %q", got, url)
	}
	if primary.Calls() != 0 {
		t.Errorf("synthesis calls = %d, want 0 for a reachable cached URL", primary.Calls())
	}
}

func TestManager_CacheRegeneration(t *testing.T) {
	primary := &MockProvider{ProviderName: "elevenlabs"}
	m, stories, _ := newTestManager(t, primary)

	item := saveStory(t, stories, story.Item{Title: "t", Content: "Hello.", AudioURL: "/nonexistent/stale.mp3"})

	url, err := m.GenerateStoryAudio(context.Background(), item)
	if err != nil {
		t.Fatalf("GenerateStoryAudio() error: %v", err)
	}
	if url == "/nonexistent/stale.mp3" {
		t.Error("stale URL returned unchanged, want regeneration")
	}
	if primary.Calls() != 1 {
		t.Errorf("synthesis calls = %d, want 1 for unreachable cached URL", primary.Calls())
	}

	updated, err := stories.GetStory(item.ID)
	if err != nil {
		t.Fatalf("GetStory() error: %v", err)
	}
	if updated.AudioURL != url {
		t.Errorf("stored audio_url = %q, want written back %q", updated.AudioURL, url)
	}
}

func TestManager_PlayTextToSpeechFallback(t *testing.T) {
	primary := &MockProvider{ProviderName: "elevenlabs", Err: errors.New("down")}
	secondary := &MockProvider{ProviderName: "google"}
	m, _, _ := newTestManager(t, primary, secondary)

	if err := m.PlayTextToSpeech(context.Background(), "Great job!"); err != nil {
		t.Fatalf("PlayTextToSpeech() error: %v", err)
	}
	if secondary.Calls() != 1 {
		t.Errorf("secondary calls = %d, want 1", secondary.Calls())
	}
}

func TestManager_PlayTextToSpeechTotalFailure(t *testing.T) {
	primary := &MockProvider{ProviderName: "elevenlabs", Err: errors.New("down")}
	secondary := &MockProvider{ProviderName: "google", Err: errors.New("also down")}
	m, _, _ := newTestManager(t, primary, secondary)

	err := m.PlayTextToSpeech(context.Background(), "hello")
	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("error type = %T, want *AggregateError", err)
	}
}
