package store

import (
	"testing"

	"storyweaver/internal/domain/story"
)

func TestSaveAndGetStory(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	id, err := fs.SaveStory(story.Item{Title: "The Brave Snail", Content: "Once upon a time..."})
	if err != nil {
		t.Fatalf("SaveStory() error: %v", err)
	}
	if id == "" {
		t.Fatal("SaveStory() returned empty ID")
	}

	got, err := fs.GetStory(id)
	if err != nil {
		t.Fatalf("GetStory() error: %v", err)
	}
	if got.Title != "The Brave Snail" {
		t.Errorf("Title = %q, want 'The Brave Snail'", got.Title)
	}
}

func TestGetStory_NotFound(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if _, err := fs.GetStory("missing"); err == nil {
		t.Error("GetStory() should return error for unknown ID")
	}
}

func TestUpdateStoryAudioURL(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	id, err := fs.SaveStory(story.Item{Title: "Moon Picnic", Content: "text"})
	if err != nil {
		t.Fatalf("SaveStory() error: %v", err)
	}

	if err := fs.UpdateStoryAudioURL(id, "/audio/moon.mp3"); err != nil {
		t.Fatalf("UpdateStoryAudioURL() error: %v", err)
	}

	// Reopen to verify the write-back reached disk.
	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() reopen error: %v", err)
	}
	got, err := reopened.GetStory(id)
	if err != nil {
		t.Fatalf("GetStory() after reopen error: %v", err)
	}
	if got.AudioURL != "/audio/moon.mp3" {
		t.Errorf("AudioURL = %q, want '/audio/moon.mp3'", got.AudioURL)
	}
}

func TestListStories_SortedByTitle(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	for _, title := range []string{"Zebra Day", "Apple Boat"} {
		if _, err := fs.SaveStory(story.Item{Title: title, Content: "c"}); err != nil {
			t.Fatalf("SaveStory(%q) error: %v", title, err)
		}
	}

	items := fs.ListStories()
	if len(items) != 2 {
		t.Fatalf("ListStories() returned %d items, want 2", len(items))
	}
	if items[0].Title != "Apple Boat" || items[1].Title != "Zebra Day" {
		t.Errorf("ListStories() order = [%q, %q], want sorted by title", items[0].Title, items[1].Title)
	}
}
