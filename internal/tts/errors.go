package tts

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// SynthesisError reports that a provider rejected or failed to produce
// audio. It carries the upstream status so the failure reason survives the
// fallback chain.
type SynthesisError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *SynthesisError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s synthesis failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s synthesis failed: %s", e.Provider, e.Message)
}

// ProviderFailure records one provider's failure inside a fallback chain.
type ProviderFailure struct {
	Provider string
	Err      error
}

// AggregateError is raised only when every provider in the chain failed. Its
// message names each provider's reason so the root causes are never lost.
type AggregateError struct {
	Failures []ProviderFailure
}

func (e *AggregateError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s (%v)", f.Provider, f.Err))
	}
	return "audio generation failed: " + strings.Join(parts, ", ")
}

// Unwrap exposes the individual failures for errors.Is / errors.As.
func (e *AggregateError) Unwrap() error {
	var err error
	for _, f := range e.Failures {
		err = multierr.Append(err, f.Err)
	}
	return err
}
