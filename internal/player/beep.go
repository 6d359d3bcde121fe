package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// BeepSink plays MP3 audio through the system speaker. Remote URLs are
// fetched fully before decoding so clip duration is known up front.
type BeepSink struct {
	client *http.Client

	// storageBaseURL marks the private artifact store; requests under it
	// carry the access token, the server-side analogue of enabling
	// cross-origin credentials on the audio element.
	storageBaseURL string
	storageToken   string
}

// NewBeepSink creates a sink. storageBaseURL and storageToken may be empty
// when the artifact store is public or local.
func NewBeepSink(storageBaseURL, storageToken string) *BeepSink {
	return &BeepSink{
		client:         &http.Client{Timeout: 60 * time.Second},
		storageBaseURL: storageBaseURL,
		storageToken:   storageToken,
	}
}

func (s *BeepSink) Open(ctx context.Context, url string) (Handle, error) {
	data, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.OpenBytes(data)
}

func (s *BeepSink) OpenBytes(data []byte) (Handle, error) {
	streamer, format, err := mp3.Decode(byteReadCloser{bytes.NewReader(data)})
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}
	return &beepHandle{
		streamer: streamer,
		format:   format,
		done:     make(chan struct{}),
	}, nil
}

func (s *BeepSink) fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build audio request: %w", err)
		}
		if s.storageBaseURL != "" && strings.HasPrefix(url, s.storageBaseURL) && s.storageToken != "" {
			req.Header.Set("Authorization", "Bearer "+s.storageToken)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch audio: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("audio fetch returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	data, err := os.ReadFile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	return data, nil
}

type byteReadCloser struct{ *bytes.Reader }

func (byteReadCloser) Close() error { return nil }

type beepHandle struct {
	streamer beep.StreamSeekCloser
	format   beep.Format

	mu       sync.Mutex
	ctrl     *beep.Ctrl
	err      error
	done     chan struct{}
	doneOnce sync.Once
	stopOnce sync.Once
}

func (h *beepHandle) Play() error {
	if err := speaker.Init(h.format.SampleRate, h.format.SampleRate.N(time.Second/10)); err != nil {
		h.finish(err)
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	h.mu.Lock()
	h.ctrl = &beep.Ctrl{Streamer: h.streamer}
	ctrl := h.ctrl
	h.mu.Unlock()

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		h.finish(nil)
	})))
	return nil
}

func (h *beepHandle) Pause() {
	h.mu.Lock()
	ctrl := h.ctrl
	h.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
}

func (h *beepHandle) Resume() {
	h.mu.Lock()
	ctrl := h.ctrl
	h.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()
}

func (h *beepHandle) Stop() {
	h.stopOnce.Do(func() {
		// Detach only this handle's streamer. Other audio sharing the
		// mixer (a paused story while a prompt finishes, say) keeps its
		// slot; the drained Ctrl falls out of the mixer on its own.
		h.mu.Lock()
		ctrl := h.ctrl
		h.mu.Unlock()
		if ctrl != nil {
			speaker.Lock()
			ctrl.Paused = false
			ctrl.Streamer = nil
			speaker.Unlock()
		}
		h.streamer.Close()
		h.finish(nil)
	})
}

func (h *beepHandle) Done() <-chan struct{} { return h.done }

func (h *beepHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	return h.streamer.Err()
}

func (h *beepHandle) Duration() time.Duration {
	n := h.streamer.Len()
	if n <= 0 {
		return 0
	}
	return h.format.SampleRate.D(n)
}

func (h *beepHandle) finish(err error) {
	h.mu.Lock()
	if err != nil && h.err == nil {
		h.err = err
	}
	h.mu.Unlock()
	h.doneOnce.Do(func() { close(h.done) })
}
