package player

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestController_AtMostOneHandle(t *testing.T) {
	sink := NewMockSink(time.Second)
	c := NewController(sink)

	if err := c.PlayAudio(context.Background(), "urlA"); err != nil {
		t.Fatalf("PlayAudio(urlA) error: %v", err)
	}
	if err := c.PlayAudio(context.Background(), "urlB"); err != nil {
		t.Fatalf("PlayAudio(urlB) error: %v", err)
	}

	if got := sink.ActivePlaying(); got != 1 {
		t.Errorf("active handles = %d, want exactly 1", got)
	}
	opened := sink.Opened()
	if len(opened) != 2 || opened[1] != "urlB" {
		t.Errorf("opened = %v, want urlA then urlB", opened)
	}
	if !c.IsPlaying() {
		t.Error("IsPlaying() = false after successful PlayAudio")
	}
}

func TestController_LoadFailureIsRecoverable(t *testing.T) {
	sink := NewMockSink(time.Second)
	sink.OpenErr = errors.New("boom")
	c := NewController(sink)

	if err := c.PlayAudio(context.Background(), "bad"); err == nil {
		t.Fatal("PlayAudio() should fail when the sink cannot open")
	}
	if c.Errored() == "" {
		t.Error("Errored() empty after load failure")
	}
	if c.IsPlaying() {
		t.Error("IsPlaying() = true after load failure")
	}
	if c.Loading() {
		t.Error("Loading() = true after PlayAudio returned")
	}

	// A later attempt with a working sink must succeed: no lockout.
	sink.OpenErr = nil
	if err := c.PlayAudio(context.Background(), "good"); err != nil {
		t.Fatalf("retry PlayAudio() error: %v", err)
	}
	if c.Errored() != "" {
		t.Errorf("Errored() = %q after successful retry, want cleared", c.Errored())
	}
}

func TestController_RuntimeFailureSurfaces(t *testing.T) {
	sink := NewMockSink(20 * time.Millisecond)
	sink.FailDuring = errors.New("decode degraded")
	c := NewController(sink)

	if err := c.PlayAudio(context.Background(), "url"); err != nil {
		t.Fatalf("PlayAudio() error: %v", err)
	}

	<-c.Done()
	deadline := time.Now().Add(time.Second)
	for c.Errored() == "" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Errored() == "" {
		t.Error("Errored() empty after mid-stream failure")
	}
	if c.IsPlaying() {
		t.Error("IsPlaying() = true after mid-stream failure")
	}
}

func TestController_StopClearsState(t *testing.T) {
	sink := NewMockSink(time.Second)
	c := NewController(sink)

	if err := c.PlayAudio(context.Background(), "url"); err != nil {
		t.Fatalf("PlayAudio() error: %v", err)
	}
	c.StopAudio()

	if c.IsPlaying() {
		t.Error("IsPlaying() = true after StopAudio")
	}
	if c.Errored() != "" {
		t.Errorf("Errored() = %q after StopAudio, want cleared", c.Errored())
	}
	if got := sink.ActivePlaying(); got != 0 {
		t.Errorf("active handles after StopAudio = %d, want 0", got)
	}
}

func TestController_StopDuringLoadClearsLoading(t *testing.T) {
	sink := NewMockSink(time.Second)
	sink.OpenDelay = 200 * time.Millisecond
	c := NewController(sink)

	done := make(chan error, 1)
	go func() { done <- c.PlayAudio(context.Background(), "url") }()

	time.Sleep(50 * time.Millisecond)
	c.StopAudio()

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("PlayAudio() error = %v, want ErrSuperseded", err)
	}
	if c.Loading() {
		t.Error("Loading() = true after StopAudio during an in-flight load")
	}
	if c.IsPlaying() {
		t.Error("IsPlaying() = true after StopAudio")
	}
	if got := sink.ActivePlaying(); got != 0 {
		t.Errorf("active handles = %d, want 0 (late handle discarded)", got)
	}
}

func TestController_PauseDoesNotRelease(t *testing.T) {
	sink := NewMockSink(time.Second)
	c := NewController(sink)

	if err := c.PlayAudio(context.Background(), "url"); err != nil {
		t.Fatalf("PlayAudio() error: %v", err)
	}
	c.PauseAudio()
	if c.IsPlaying() {
		t.Error("IsPlaying() = true after PauseAudio")
	}

	c.ResumeAudio()
	if !c.IsPlaying() {
		t.Error("IsPlaying() = false after ResumeAudio")
	}
}

func TestController_CompletionClearsPlaying(t *testing.T) {
	sink := NewMockSink(20 * time.Millisecond)
	c := NewController(sink)

	if err := c.PlayAudio(context.Background(), "url"); err != nil {
		t.Fatalf("PlayAudio() error: %v", err)
	}
	<-c.Done()

	deadline := time.Now().Add(time.Second)
	for c.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.IsPlaying() {
		t.Error("IsPlaying() = true after clip completed")
	}
}
