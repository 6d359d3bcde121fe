package tts

import "context"

// Provider turns text into encoded audio bytes via a remote synthesis API.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// VoiceConfig is the fixed narration tuning shared by providers: moderate
// rate and a slightly raised pitch suit child-appropriate reading.
type VoiceConfig struct {
	Voice        string
	Model        string
	LanguageCode string
	SpeakingRate float64
	Pitch        float64
}
