package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"
)

// Recorder captures a bounded window of microphone audio for transcription.
type Recorder interface {
	Record(ctx context.Context) ([]byte, error)
}

// Config describes the capture format. Defaults match what the speech
// recognizer expects: 16 kHz mono S16 PCM.
type Config struct {
	SampleRate uint32
	Channels   uint32
}

// DefaultConfig is the recognizer-compatible capture format.
func DefaultConfig() Config {
	return Config{SampleRate: 16000, Channels: 1}
}

// MalgoRecorder records from the default capture device via malgo.
type MalgoRecorder struct {
	config Config
}

// NewMalgoRecorder creates a recorder with the given format.
func NewMalgoRecorder(config Config) *MalgoRecorder {
	if config.SampleRate == 0 {
		config = DefaultConfig()
	}
	return &MalgoRecorder{config: config}
}

// Record captures audio until ctx is done (the caller bounds the answer
// window with a deadline) and returns the accumulated PCM bytes.
func (r *MalgoRecorder) Record(ctx context.Context) ([]byte, error) {
	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	defer func() {
		malgoCtx.Uninit()
		malgoCtx.Free()
	}()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = r.config.Channels
	deviceConfig.SampleRate = r.config.SampleRate

	var (
		mu  sync.Mutex
		pcm []byte
	)
	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, pInput []byte, frames uint32) {
			mu.Lock()
			pcm = append(pcm, pInput...)
			mu.Unlock()
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return nil, fmt.Errorf("failed to start capture device: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"sample_rate": r.config.SampleRate,
		"channels":    r.config.Channels,
	}).Debug("Recording started")

	<-ctx.Done()
	device.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no audio captured")
	}
	out := make([]byte, len(pcm))
	copy(out, pcm)
	return out, nil
}
