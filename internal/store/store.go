package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storyweaver/internal/domain/story"
)

// StoryStore is the persistence surface the playback core depends on.
type StoryStore interface {
	GetStory(id string) (*story.Item, error)
	UpdateStoryAudioURL(id, url string) error
}

// FileStore keeps story records in memory and mirrors them to a JSON file,
// so generated stories survive between sessions.
type FileStore struct {
	path    string
	mu      sync.RWMutex
	stories map[string]story.Item
}

type storeFile struct {
	Stories     []story.Item `json:"stories"`
	LastUpdated time.Time    `json:"last_updated"`
}

// NewFileStore opens (or creates) a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	fs := &FileStore{
		path:    filepath.Join(dir, "stories.json"),
		stories: make(map[string]story.Item),
	}

	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	file, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open store file: %w", err)
	}
	defer file.Close()

	var data storeFile
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode store file: %w", err)
	}

	for _, item := range data.Stories {
		fs.stories[item.ID] = item
	}

	logrus.WithFields(logrus.Fields{
		"stories": len(fs.stories),
		"file":    fs.path,
	}).Debug("Loaded story store")
	return nil
}

// flush writes the current story set to disk. Callers must hold fs.mu.
func (fs *FileStore) flush() error {
	data := storeFile{
		Stories:     make([]story.Item, 0, len(fs.stories)),
		LastUpdated: time.Now(),
	}
	for _, item := range fs.stories {
		data.Stories = append(data.Stories, item)
	}
	sort.Slice(data.Stories, func(i, j int) bool {
		return data.Stories[i].ID < data.Stories[j].ID
	})

	file, err := os.Create(fs.path)
	if err != nil {
		return fmt.Errorf("failed to create store file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}
	return nil
}

// SaveStory persists a new story, assigning an ID when absent.
func (fs *FileStore) SaveStory(item story.Item) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	fs.stories[item.ID] = item

	if err := fs.flush(); err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"id":    item.ID,
		"title": item.Title,
	}).Info("Saved story")
	return item.ID, nil
}

// GetStory returns the story with the given ID.
func (fs *FileStore) GetStory(id string) (*story.Item, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	item, ok := fs.stories[id]
	if !ok {
		return nil, fmt.Errorf("story %q not found", id)
	}
	return &item, nil
}

// ListStories returns all stored stories ordered by title.
func (fs *FileStore) ListStories() []story.Item {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	items := make([]story.Item, 0, len(fs.stories))
	for _, item := range fs.stories {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Title < items[j].Title
	})
	return items
}

// UpdateStoryAudioURL writes back the durable audio location for a story.
func (fs *FileStore) UpdateStoryAudioURL(id, url string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	item, ok := fs.stories[id]
	if !ok {
		return fmt.Errorf("story %q not found", id)
	}
	item.AudioURL = url
	fs.stories[id] = item

	return fs.flush()
}
