package question

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storyweaver/internal/capture"
	"storyweaver/internal/stt"
)

// Speaker is the slice of the TTS manager a session needs.
type Speaker interface {
	PlayTextToSpeech(ctx context.Context, text string) error
}

// Result records an answered (or abandoned) question.
type Result struct {
	Question   Question
	Transcript string
	Correct    bool
	Answered   bool
}

// Session asks one question at a time: speak the prompt, wait for an answer
// window, re-prompt once on silence, give up after a second silent window.
type Session struct {
	speaker     Speaker
	recorder    capture.Recorder
	transcriber stt.Transcriber

	// answerWindow bounds one listening attempt; a session uses at most two.
	answerWindow time.Duration
}

// NewSession wires a session. answerWindow <= 0 defaults to 8 seconds.
func NewSession(speaker Speaker, recorder capture.Recorder, transcriber stt.Transcriber, answerWindow time.Duration) *Session {
	if answerWindow <= 0 {
		answerWindow = 8 * time.Second
	}
	return &Session{
		speaker:      speaker,
		recorder:     recorder,
		transcriber:  transcriber,
		answerWindow: answerWindow,
	}
}

// Ask speaks q and listens for an answer. The story must already be paused;
// the caller resumes it afterwards. All timers are confined to this call —
// nothing keeps ticking once Ask returns.
func (s *Session) Ask(ctx context.Context, q Question) (Result, error) {
	result := Result{Question: q}

	prompts := []string{q.Prompt, "Are you still there? " + q.Prompt}
	for attempt, prompt := range prompts {
		if err := s.speaker.PlayTextToSpeech(ctx, prompt); err != nil {
			return result, err
		}

		transcript, err := s.listen(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logrus.WithError(err).WithField("attempt", attempt+1).Warn("Answer capture failed")
			continue
		}
		if strings.TrimSpace(transcript) == "" {
			logrus.WithField("attempt", attempt+1).Info("No answer heard")
			continue
		}

		result.Answered = true
		result.Transcript = transcript
		result.Correct = Evaluate(q, transcript)

		if err := s.speaker.PlayTextToSpeech(ctx, Feedback(q, result.Correct)); err != nil {
			logrus.WithError(err).Warn("Failed to speak feedback")
		}
		return result, nil
	}

	// Two silent windows: give up gracefully and let the story continue.
	if err := s.speaker.PlayTextToSpeech(ctx, "That's okay, let's keep listening to the story!"); err != nil {
		logrus.WithError(err).Warn("Failed to speak give-up message")
	}
	return result, nil
}

func (s *Session) listen(ctx context.Context) (string, error) {
	window, cancel := context.WithTimeout(ctx, s.answerWindow)
	defer cancel()

	audio, err := s.recorder.Record(window)
	if err != nil {
		return "", err
	}
	return s.transcriber.Transcribe(ctx, audio)
}

// Evaluate checks an educational answer against the expectation. Open
// questions have no wrong answers.
func Evaluate(q Question, transcript string) bool {
	if q.Type == TypeOpen {
		return true
	}
	got := strings.ToLower(strings.TrimSpace(transcript))
	want := strings.ToLower(strings.TrimSpace(q.ExpectedAnswer))
	if want == "" {
		return true
	}
	return strings.Contains(got, want)
}
