package question

import (
	"math/rand"
	"strings"

	"storyweaver/internal/domain/story"
)

// Type distinguishes open-ended questions from educational ones with an
// expected answer.
type Type string

const (
	TypeOpen        Type = "open"
	TypeEducational Type = "educational"
)

// Question is one comprehension prompt spoken during a story.
type Question struct {
	Prompt         string
	Type           Type
	ExpectedAnswer string
}

// ForStory derives comprehension questions from the story category. The
// category comparison ignores case so "ABCs" and "abcs" pick the same set.
func ForStory(item *story.Item) []Question {
	switch strings.ToLower(item.Category) {
	case "math":
		return []Question{
			{Prompt: "What is 2 plus 2? Say the number!", Type: TypeEducational, ExpectedAnswer: "4"},
			{Prompt: "How many fingers do you have on one hand?", Type: TypeEducational, ExpectedAnswer: "5"},
			{Prompt: "What comes after the number 9?", Type: TypeEducational, ExpectedAnswer: "10"},
		}
	case "abcs":
		return []Question{
			{Prompt: "What letter comes after B? Say the letter!", Type: TypeEducational, ExpectedAnswer: "C"},
			{Prompt: "Can you say the letter that starts your name?", Type: TypeOpen},
		}
	default:
		return []Question{
			{Prompt: "What was your favorite part of the story so far?", Type: TypeOpen},
			{Prompt: "What do you think happens next?", Type: TypeOpen},
		}
	}
}

var openFeedbacks = []string{
	"What a wonderful answer! Let's continue our story!",
	"That's such a creative idea! I love it!",
	"Great thinking! You're so smart!",
	"What an amazing answer! You're doing great!",
}

var correctFeedbacks = []string{
	"Excellent! You got it right! You're so smart!",
	"Perfect! That's exactly right! Great job!",
	"Wonderful! You're amazing at this!",
	"Fantastic! You really know your stuff!",
}

var encouragingFeedbacks = []string{
	"Good try! That was a great attempt! Let's keep going!",
	"Nice job thinking about it! You're learning so much!",
	"That's okay! You're doing wonderfully! Let's continue!",
	"Great effort! Keep up the fantastic work!",
}

// Feedback picks a spoken reaction for an answer.
func Feedback(q Question, correct bool) string {
	if q.Type == TypeOpen {
		return openFeedbacks[rand.Intn(len(openFeedbacks))]
	}
	if correct {
		return correctFeedbacks[rand.Intn(len(correctFeedbacks))]
	}
	return encouragingFeedbacks[rand.Intn(len(encouragingFeedbacks))]
}
