package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultElevenLabsEndpoint = "https://api.elevenlabs.io/v1/text-to-speech"

// Charlotte, a child-friendly female voice, with the fast turbo model.
const (
	DefaultElevenLabsVoiceID = "XB0fDUnXU5powFXDhCwa"
	DefaultElevenLabsModelID = "eleven_turbo_v2_5"
)

// ElevenLabs is the primary synthesis provider.
type ElevenLabs struct {
	apiKey   string
	voiceID  string
	modelID  string
	endpoint string
	client   *http.Client
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// NewElevenLabs creates the client. Empty voiceID/modelID fall back to the
// child-narration defaults.
func NewElevenLabs(apiKey, voiceID, modelID string) *ElevenLabs {
	if voiceID == "" {
		voiceID = DefaultElevenLabsVoiceID
	}
	if modelID == "" {
		modelID = DefaultElevenLabsModelID
	}
	return &ElevenLabs{
		apiKey:   apiKey,
		voiceID:  voiceID,
		modelID:  modelID,
		endpoint: defaultElevenLabsEndpoint,
		client:   &http.Client{Timeout: 90 * time.Second},
	}
}

// SetEndpoint overrides the API base URL, used by tests.
func (e *ElevenLabs) SetEndpoint(endpoint string) { e.endpoint = endpoint }

func (e *ElevenLabs) Name() string { return "elevenlabs" }

// Synthesize requests MP3 audio for text. Non-200 responses and empty
// payloads become a SynthesisError carrying the upstream status.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.apiKey == "" {
		return nil, &SynthesisError{Provider: e.Name(), Message: "API key not configured"}
	}
	if text == "" {
		return nil, &SynthesisError{Provider: e.Name(), Message: "text is required"}
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: e.modelID,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0.0,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", e.endpoint, e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &SynthesisError{Provider: e.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &SynthesisError{Provider: e.Name(), StatusCode: resp.StatusCode, Message: string(msg)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SynthesisError{Provider: e.Name(), Message: fmt.Sprintf("failed to read audio: %v", err)}
	}
	if len(audio) == 0 {
		return nil, &SynthesisError{Provider: e.Name(), Message: "no audio content received"}
	}

	logrus.WithFields(logrus.Fields{
		"chars":   len(text),
		"bytes":   len(audio),
		"elapsed": time.Since(start),
	}).Debug("ElevenLabs synthesis complete")
	return audio, nil
}
