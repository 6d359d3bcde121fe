package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storyweaver/internal/capture"
	"storyweaver/internal/cli/scheme/colours"
	"storyweaver/internal/domain/profile"
	"storyweaver/internal/generator"
	"storyweaver/internal/player"
	"storyweaver/internal/question"
	"storyweaver/internal/storage"
	"storyweaver/internal/store"
	"storyweaver/internal/stt"
	"storyweaver/internal/tts"
)

// App wires the stores, the TTS fallback chain and the story player behind
// the CLI commands.
type App struct {
	Stories   *store.FileStore
	Artifacts *storage.FSStore
	Manager   *tts.Manager
	Player    *player.Player

	ctx    context.Context
	Cancel context.CancelFunc
}

// New builds the application from viper configuration.
func New() (*App, error) {
	stories, err := store.NewFileStore(viper.GetString("store.dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to open story store: %w", err)
	}
	artifacts, err := storage.NewFSStore(viper.GetString("storage.dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}

	sink := player.NewBeepSink(viper.GetString("storage.base_url"), viper.GetString("storage.token"))

	ctx, cancel := context.WithCancel(context.Background())

	elevenLabs := tts.NewElevenLabs(
		viper.GetString("tts.elevenlabs.api_key"),
		viper.GetString("tts.elevenlabs.voice_id"),
		viper.GetString("tts.elevenlabs.model_id"),
	)
	chain := []*tts.StoryAudio{tts.NewStoryAudio(elevenLabs, artifacts, stories)}

	// The Google provider is the fallback; it only joins the chain when
	// credentials are available, the same detection the config layer uses.
	if viper.GetBool("tts.google.enabled") && hasGoogleCredentials() {
		google, err := tts.NewGoogle(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Google TTS unavailable, continuing without fallback")
		} else {
			chain = append(chain, tts.NewStoryAudio(google, artifacts, stories))
		}
	}

	manager := tts.NewManager(sink, artifacts, chain...)

	return &App{
		Stories:   stories,
		Artifacts: artifacts,
		Manager:   manager,
		Player:    player.NewPlayer(manager, sink),
		ctx:       ctx,
		Cancel:    cancel,
	}, nil
}

func hasGoogleCredentials() bool {
	_, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS")
	return ok
}

// StopAll halts story playback and any spoken utterance.
func (a *App) StopAll() {
	a.Player.Restart()
	a.Manager.StopAllAudio()
}

// ListStories prints every stored story.
func (a *App) ListStories(cmd *cobra.Command, args []string) {
	items := a.Stories.ListStories()
	if len(items) == 0 {
		colours.Warning.Println("🔍 No stories yet. Try: storyweaver generate --name Mia --age 5")
		return
	}

	fmt.Println()
	colours.Title.Println("📚 Your Stories 📚")
	fmt.Println()
	for i, item := range items {
		fmt.Printf("  %d. ", i+1)
		colours.Title.Printf("%s", item.Title)
		fmt.Printf("\n     🎭 %s | 🎯 %s", item.Category, item.AgeGroup)
		if item.AudioURL != "" {
			colours.Success.Printf(" | 🎵 audio cached")
		}
		fmt.Printf("\n     💡 %s\n", item.Description)
		colours.Info.Printf("     ID: %s\n", item.ID)
		fmt.Println()
	}
}

// GenerateStory creates a personalized story from profile flags and saves it.
func (a *App) GenerateStory(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	age, _ := cmd.Flags().GetInt("age")
	personality, _ := cmd.Flags().GetString("personality")
	interests, _ := cmd.Flags().GetStringSlice("interests")
	dislikes, _ := cmd.Flags().GetStringSlice("dislikes")
	category, _ := cmd.Flags().GetString("category")

	gen, err := generator.New(generator.Config{
		APIKey:  viper.GetString("llm.api_key"),
		BaseURL: viper.GetString("llm.base_url"),
		Model:   viper.GetString("llm.model"),
	})
	if err != nil {
		colours.Error.Printf("❌ Story generator unavailable: %v\n", err)
		return
	}

	colours.Info.Println("✨ Weaving a brand new story...")
	item, err := gen.GenerateStory(a.ctx, &profile.Profile{
		Name:        name,
		Age:         age,
		Personality: personality,
		Interests:   interests,
		Dislikes:    dislikes,
	}, category)
	if err != nil {
		colours.Error.Printf("❌ Failed to generate story: %v\n", err)
		return
	}

	id, err := a.Stories.SaveStory(*item)
	if err != nil {
		colours.Error.Printf("❌ Failed to save story: %v\n", err)
		return
	}

	fmt.Println()
	colours.Title.Printf("📖 %s\n", item.Title)
	fmt.Println()
	fmt.Println(item.Content)
	fmt.Println()
	colours.Success.Printf("✅ Saved! Play it with: storyweaver play %s\n", id)
}

// PlayStory narrates a story with live word highlighting in the terminal.
func (a *App) PlayStory(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		colours.Error.Println("❌ Usage: storyweaver play <story-id>")
		return
	}

	item, err := a.Stories.GetStory(args[0])
	if err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}

	fmt.Println()
	colours.Title.Printf("📖 %s\n", item.Title)
	fmt.Println()
	colours.Info.Println("🎵 Preparing narration...")

	if err := a.Player.GenerateAndPlay(a.ctx, item); err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}

	go a.renderHighlighting()

	colours.Success.Println("🎵 Story playback started 🎵")
	fmt.Println("💡 'p' pause/resume, 'r' restart, 's' stop")
	a.controlLoop()
}

// renderHighlighting prints each word as the highlight cursor reaches it.
func (a *App) renderHighlighting() {
	last := -1
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-time.After(30 * time.Millisecond):
		}

		words := a.Player.Words()
		if len(words) == 0 {
			continue
		}
		idx := a.Player.CurrentWordIndex()
		for last < idx {
			last++
			if words[last] == "." {
				fmt.Println()
				continue
			}
			colours.Highlight.Printf("%s", words[last])
			fmt.Print(" ")
		}
		if last >= len(words)-1 && !a.Player.IsPlaying() {
			fmt.Println()
			return
		}
	}
}

func (a *App) controlLoop() {
	reader := bufio.NewReader(os.Stdin)
	paused := false
	for {
		select {
		case <-a.ctx.Done():
			return
		default:
		}

		input, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		switch strings.TrimSpace(strings.ToLower(input)) {
		case "p", "pause":
			if paused {
				a.Player.Resume()
				paused = false
				colours.Success.Println("▶️  Resumed")
			} else {
				a.Player.Pause()
				paused = true
				colours.Warning.Println("⏸️  Paused")
			}
		case "r", "restart":
			a.Player.Restart()
			colours.Info.Println("⏮️  Back to the beginning")
		case "s", "stop":
			a.Player.Restart()
			colours.Warning.Println("⏹️  Stopped")
			return
		case "":
			if !a.Player.IsPlaying() && !paused {
				return
			}
		}
	}
}

// AskQuestions runs the voice comprehension flow for a story.
func (a *App) AskQuestions(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		colours.Error.Println("❌ Usage: storyweaver ask <story-id>")
		return
	}

	item, err := a.Stories.GetStory(args[0])
	if err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}

	recorder := capture.NewMalgoRecorder(capture.Config{
		SampleRate: uint32(viper.GetInt("stt.sample_rate")),
		Channels:   1,
	})
	transcriber := stt.NewGoogleSpeech(viper.GetString("stt.api_key"), viper.GetInt("stt.sample_rate"))
	session := question.NewSession(a.Manager, recorder, transcriber, viper.GetDuration("question.answer_window"))

	fmt.Println()
	colours.Title.Println("🎤 Story Questions 🎤")
	for _, q := range question.ForStory(item) {
		colours.Prompt.Printf("❓ %s\n", q.Prompt)
		result, err := session.Ask(a.ctx, q)
		if err != nil {
			colours.Error.Printf("❌ %v\n", err)
			return
		}
		if !result.Answered {
			colours.Warning.Println("🤫 No answer this time, moving on")
			continue
		}
		if result.Correct {
			colours.Success.Printf("✅ Heard: %q\n", result.Transcript)
		} else {
			colours.Info.Printf("💬 Heard: %q\n", result.Transcript)
		}
	}
}

// CacheStatus prints artifact cache statistics.
func (a *App) CacheStatus(cmd *cobra.Command, args []string) {
	files, bytes, err := a.Artifacts.Stats()
	if err != nil {
		colours.Error.Printf("❌ Failed to read cache: %v\n", err)
		return
	}
	colours.Title.Println("📊 Audio Cache Status")
	colours.Info.Printf("📁 Location: %s\n", viper.GetString("storage.dir"))
	colours.Info.Printf("🎵 Cached clips: %d\n", files)
	colours.Info.Printf("📏 Size: %.1f MB\n", float64(bytes)/(1024*1024))
}

// CacheClear removes every cached audio artifact.
func (a *App) CacheClear(cmd *cobra.Command, args []string) {
	if err := a.Artifacts.Clear(); err != nil {
		colours.Error.Printf("❌ Failed to clear cache: %v\n", err)
		return
	}
	colours.Success.Println("✅ Audio cache cleared")
}
