package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults seeds every configuration key the application reads.
func SetDefaults() {
	viper.SetDefault("tts.elevenlabs.api_key", "")
	viper.SetDefault("tts.elevenlabs.voice_id", "")
	viper.SetDefault("tts.elevenlabs.model_id", "")
	viper.SetDefault("tts.google.enabled", true)

	viper.SetDefault("storage.dir", defaultDataDir("audio"))
	viper.SetDefault("storage.base_url", "")
	viper.SetDefault("storage.token", "")
	viper.SetDefault("store.dir", defaultDataDir("stories"))

	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.base_url", "")
	viper.SetDefault("llm.model", "")

	viper.SetDefault("stt.api_key", "")
	viper.SetDefault("stt.sample_rate", 16000)
	viper.SetDefault("question.answer_window", "8s")
}

// defaultDataDir places application data under the user cache directory,
// falling back to the working directory.
func defaultDataDir(sub string) string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "storyweaver", sub)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".storyweaver", sub)
	}
	return filepath.Join("data", sub)
}
