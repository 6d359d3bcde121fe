package storage

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"
)

// ArtifactStore persists synthesized audio so repeat playback of the same
// story never re-synthesizes. Upload is an upsert: re-uploading a key
// replaces the previous artifact.
type ArtifactStore interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
	Probe(ctx context.Context, url string) bool
}

var probeClient = &http.Client{Timeout: 10 * time.Second}

// ProbeURL reports whether an audio location is still reachable. It is a
// lightweight existence check, not a download: HEAD for http(s) URLs,
// os.Stat for local paths.
func ProbeURL(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return false
		}
		resp, err := probeClient.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode >= 200 && resp.StatusCode < 300
	}

	info, err := os.Stat(url)
	return err == nil && !info.IsDir()
}
