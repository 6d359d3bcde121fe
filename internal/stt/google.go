package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultSpeechEndpoint = "https://speech.googleapis.com/v1/speech:recognize"

// GoogleSpeech recognizes short child answers via the Cloud Speech REST API.
// The short model with automatic punctuation suits one-phrase responses.
type GoogleSpeech struct {
	apiKey       string
	languageCode string
	sampleRate   int
	endpoint     string
	client       *http.Client
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	Model                      string `json:"model"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// NewGoogleSpeech creates the client. sampleRate must match the capture
// device configuration.
func NewGoogleSpeech(apiKey string, sampleRate int) *GoogleSpeech {
	return &GoogleSpeech{
		apiKey:       apiKey,
		languageCode: "en-US",
		sampleRate:   sampleRate,
		endpoint:     defaultSpeechEndpoint,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// SetEndpoint overrides the API URL, used by tests.
func (g *GoogleSpeech) SetEndpoint(endpoint string) { g.endpoint = endpoint }

// Transcribe sends LINEAR16 PCM audio and returns the best transcript, or ""
// when nothing was recognized.
func (g *GoogleSpeech) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("speech API key not configured")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("audio data is required")
	}

	body, err := json.Marshal(recognizeRequest{
		Config: recognizeConfig{
			Encoding:                   "LINEAR16",
			SampleRateHertz:            g.sampleRate,
			LanguageCode:               g.languageCode,
			EnableAutomaticPunctuation: true,
			Model:                      "latest_short",
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal recognize request: %w", err)
	}

	url := g.endpoint + "?key=" + g.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build recognize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("recognize returned status %d: %s", resp.StatusCode, msg)
	}

	var result recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode recognize response: %w", err)
	}

	if len(result.Results) == 0 || len(result.Results[0].Alternatives) == 0 {
		return "", nil
	}
	best := result.Results[0].Alternatives[0]
	logrus.WithFields(logrus.Fields{
		"transcript": best.Transcript,
		"confidence": best.Confidence,
	}).Debug("Speech recognized")
	return best.Transcript, nil
}
