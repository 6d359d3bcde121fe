package generator

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"storyweaver/internal/domain/profile"
	"storyweaver/internal/domain/story"
)

// chatClient is the slice of the OpenAI client the generator uses; tests
// substitute a stub.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config selects the model endpoint. BaseURL is optional and enables any
// OpenAI-compatible server.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Generator produces personalized stories from a child's profile via an
// LLM chat completion.
type Generator struct {
	client chatClient
	model  string
}

// New creates a generator.
func New(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Generator{client: openai.NewClientWithConfig(clientCfg), model: model}, nil
}

const systemPrompt = "You are a children's storyteller. Write a gentle, age-appropriate " +
	"bedtime story. Start your reply with the story title on its own line, then a blank " +
	"line, then the story text. Keep sentences short and warm."

// BuildPrompt renders the questionnaire answers into the story request.
func BuildPrompt(p *profile.Profile, category string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s story for %s, who is %d years old", categoryOrDefault(category), p.Name, p.Age)
	if p.Personality != "" {
		fmt.Fprintf(&b, " and has a %s personality", p.Personality)
	}
	b.WriteString(".")
	if len(p.Interests) > 0 {
		fmt.Fprintf(&b, " They love %s.", strings.Join(p.Interests, ", "))
	}
	if len(p.Dislikes) > 0 {
		fmt.Fprintf(&b, " Avoid mentioning %s.", strings.Join(p.Dislikes, ", "))
	}
	b.WriteString(" The story should take about three minutes to read aloud.")
	return b.String()
}

func categoryOrDefault(category string) string {
	if category == "" {
		return "bedtime"
	}
	return category
}

// GenerateStory requests a story for p and parses the completion into a
// titled story item.
func (g *Generator) GenerateStory(ctx context.Context, p *profile.Profile, category string) (*story.Item, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.9,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(p, category)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("story generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("story generation returned no choices")
	}

	title, content := ParseStory(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("story generation returned empty content")
	}

	item := &story.Item{
		Title:       title,
		Content:     content,
		Category:    categoryOrDefault(category),
		AgeGroup:    fmt.Sprintf("%d years", p.Age),
		Description: fmt.Sprintf("A personalized story for %s", p.Name),
	}
	logrus.WithFields(logrus.Fields{
		"title": item.Title,
		"chars": len(item.Content),
	}).Info("Generated story")
	return item, nil
}

// ParseStory splits a completion into title and body. The first non-empty
// line is the title; everything after it is the story.
func ParseStory(text string) (title, content string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(strings.Trim(line, "#* "))
		if line == "" {
			continue
		}
		title = line
		content = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		return title, content
	}
	return "", ""
}
