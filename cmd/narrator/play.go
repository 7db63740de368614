package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/narrator/internal/cli"
	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/pkg/domain"
)

var playCmd = &cobra.Command{
	Use:   "play [story]",
	Short: "Play the story interactively",
	Long: `Starts a session in the terminal. Type what you want to do, a choice number,
/reset to start over or /quit to leave. Sessions are saved under .narrator/sessions
(or in Redis when configured) and can be resumed with --session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		startScene, _ := cmd.Flags().GetString("start")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")

		// Logs would interleave with the story, so play is quiet unless asked.
		logger := logging.NewNop()
		hooks := domain.LifecycleHooks{}
		if debug {
			logger = logging.New(slog.LevelDebug)
			hooks = cli.DebugHooks(logger)
		}

		backend := cli.OpenBackend(cfg, cli.FileStore())
		defer backend.Close()

		engine, err := cli.NewEngine(cfg, logger, backend, hooks)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Play(ctx, engine, cli.PlayOptions{
			SessionID:  sessionID,
			StartScene: startScene,
			JSON:       jsonMode,
			MaxInput:   cfg.MaxInputSize,
			In:         os.Stdin,
			Out:        os.Stdout,
		}, logger)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("session", "", "Resume an existing session")
	playCmd.Flags().String("start", "", "Start scene for a new session")
	playCmd.Flags().Bool("json", false, "Run in JSON mode (JSON Lines input/output)")
	playCmd.Flags().Bool("debug", false, "Log engine events to stderr")
}
