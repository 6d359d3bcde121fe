package main

import (
	"fmt"
	"os"
	"os/signal"
	"storyweaver/internal/app"
	"storyweaver/internal/cli/scheme/colours"
	"storyweaver/internal/config"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {

	config.SetDefaults()

	weaver, err := app.New()
	if err != nil {
		colours.Error.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		weaver.Cancel()
		weaver.StopAll()
		fmt.Println("\n" + colours.Warning.Sprint("👋 Goodbye! Sweet dreams! 🌙"))
		os.Exit(0)
	}()

	rootCmd := &cobra.Command{
		Use:   "storyweaver",
		Short: "🧶 Stories woven just for your child",
		Long: `
┌─────────────────────────────────────┐
│  📚 Welcome to StoryWeaver! 🧶     │
│  Personalized stories, narrated     │
│  aloud for little listeners 👶✨   │
└─────────────────────────────────────┘

StoryWeaver creates personalized children's stories and reads them
aloud with word-by-word highlighting. Perfect for bedtime! 🌙
		`,
		Run: func(cmd *cobra.Command, args []string) {
			weaver.ListStories(cmd, args)
		},
	}

	// Generate command
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "✨ Weave a new personalized story",
		Long:  "Generate a brand new story tailored to a child's profile",
		Run:   weaver.GenerateStory,
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "📋 List your stories",
		Long:  "Display every saved story and whether its narration is cached",
		Run:   weaver.ListStories,
	}

	// Play command
	playCmd := &cobra.Command{
		Use:   "play [story-id]",
		Short: "📖 Play a story aloud",
		Long:  "Narrate a story with word-by-word highlighting in the terminal",
		Run:   weaver.PlayStory,
	}

	// Ask command
	askCmd := &cobra.Command{
		Use:   "ask [story-id]",
		Short: "🎤 Ask story questions by voice",
		Long:  "Ask comprehension questions and listen for spoken answers",
		Run:   weaver.AskQuestions,
	}

	// Cache commands
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "🗂️ Manage the audio cache",
		Long:  "Inspect or clear the cached story narrations",
	}
	cacheCmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "📊 Show cache statistics",
			Run:   weaver.CacheStatus,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "🧹 Remove all cached audio",
			Run:   weaver.CacheClear,
		},
	)

	// Add flags
	generateCmd.Flags().StringP("name", "n", "", "Child's name")
	generateCmd.Flags().IntP("age", "a", 5, "Child's age")
	generateCmd.Flags().StringP("personality", "p", "", "A few words about the child's personality")
	generateCmd.Flags().StringSliceP("interests", "i", nil, "Things the child loves (comma separated)")
	generateCmd.Flags().StringSliceP("dislikes", "d", nil, "Things to leave out of the story")
	generateCmd.Flags().StringP("category", "c", "adventure", "Story category (adventure, math, abcs, ...)")

	rootCmd.AddCommand(generateCmd, listCmd, playCmd, askCmd, cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		colours.Error.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// Configuration management with Viper
func init() {
	viper.SetConfigName("storyweaver")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.storyweaver")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("storyweaver")
	viper.AutomaticEnv()

	viper.ReadInConfig()
}
