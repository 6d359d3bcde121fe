package tts

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/sirupsen/logrus"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

// Child-friendly narration tuning for the Google voice: slightly slow,
// raised pitch.
var defaultGoogleVoice = VoiceConfig{
	Voice:        "en-US-Neural2-F",
	LanguageCode: "en-US",
	SpeakingRate: 0.9,
	Pitch:        2.0,
}

// Google is the secondary synthesis provider, backed by Cloud Text-to-Speech.
type Google struct {
	client *texttospeech.Client
	voice  VoiceConfig
}

// NewGoogle creates the provider using ambient Google credentials.
func NewGoogle(ctx context.Context) (*Google, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google TTS client: %w", err)
	}
	return &Google{client: client, voice: defaultGoogleVoice}, nil
}

func (g *Google) Name() string { return "google" }

// Synthesize requests MP3 audio for text.
func (g *Google) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, &SynthesisError{Provider: g.Name(), Message: "text is required"}
	}

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: g.voice.LanguageCode,
			Name:         g.voice.Voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  g.voice.SpeakingRate,
			Pitch:         g.voice.Pitch,
		},
	}

	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, &SynthesisError{Provider: g.Name(), Message: err.Error()}
	}
	if len(resp.AudioContent) == 0 {
		return nil, &SynthesisError{Provider: g.Name(), Message: "no audio content received"}
	}

	logrus.WithFields(logrus.Fields{
		"chars": len(text),
		"bytes": len(resp.AudioContent),
	}).Debug("Google synthesis complete")
	return resp.AudioContent, nil
}

// Close releases the underlying gRPC connection.
func (g *Google) Close() error {
	return g.client.Close()
}
