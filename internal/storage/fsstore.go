package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FSStore stores audio artifacts as files under a root directory. The
// returned URL is the absolute file path, which the playback sink opens
// directly.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &FSStore{root: root}, nil
}

// Upload writes data under key, replacing any previous artifact for that key.
func (s *FSStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact subdirectory: %w", err)
	}

	// Write to a temp file first so a crash mid-write never leaves a
	// truncated artifact behind the durable key.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to stage artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to publish artifact: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	logrus.WithFields(logrus.Fields{
		"key":   key,
		"bytes": len(data),
	}).Debug("Stored audio artifact")
	return abs, nil
}

// Probe reports whether url still points at a readable artifact.
func (s *FSStore) Probe(ctx context.Context, url string) bool {
	return ProbeURL(ctx, url)
}

// Stats returns artifact counts and total size for the cache status command.
func (s *FSStore) Stats() (files int, bytes int64, err error) {
	err = filepath.Walk(s.root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if !info.IsDir() {
			files++
			bytes += info.Size()
		}
		return nil
	})
	return files, bytes, err
}

// Clear removes every stored artifact.
func (s *FSStore) Clear() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to clear artifact store: %w", err)
	}
	return os.MkdirAll(s.root, 0755)
}
