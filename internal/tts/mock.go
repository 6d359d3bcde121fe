package tts

import (
	"context"
	"sync"
)

// MockProvider is a canned-response provider for tests.
type MockProvider struct {
	ProviderName string
	Audio        []byte
	Err          error

	mu    sync.Mutex
	calls int
}

func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Audio != nil {
		return m.Audio, nil
	}
	return []byte("mock-audio:" + text), nil
}

// Calls reports how many synthesis requests the provider received.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
