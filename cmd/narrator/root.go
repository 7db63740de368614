package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/narrator/internal/config"
	"github.com/aretw0/narrator/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "narrator",
	Short: "Narrator is a story navigation engine",
	Long: `Narrator walks players through a branching story graph, turning free-form
utterances into the scene's choices. Play it in the terminal, serve it over
HTTP, or hand it to an AI agent over MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("story", "", "Story document (JSON or YAML); overrides NARRATOR_STORY")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides NARRATOR_LOG_LEVEL")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for shared sessions; overrides NARRATOR_REDIS_ADDR")
}

// loadConfig reads the environment and applies any flags the user set.
// A positional argument is taken as the story path when --story is absent.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("story") {
		cfg.StoryPath, _ = flags.GetString("story")
	} else if len(args) > 0 {
		cfg.StoryPath = args[0]
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr, _ = flags.GetString("redis-addr")
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(cfg.Level())
}
