package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/narrator"
	"github.com/aretw0/narrator/internal/presentation/tui"
	"github.com/aretw0/narrator/pkg/runner"
)

// PlayOptions contains the configuration for the play command.
type PlayOptions struct {
	SessionID  string
	StartScene string
	JSON       bool
	MaxInput   int

	In  io.Reader
	Out io.Writer
}

// Play runs an interactive session until the story ends or input runs out.
// Terminal output gets the banner and rendered markdown; anything else gets plain text.
func Play(ctx context.Context, engine *narrator.Engine, opts PlayOptions, logger *slog.Logger) error {
	sanitizer := runner.NewSanitizer(opts.MaxInput)

	var handler runner.IOHandler
	switch {
	case opts.JSON:
		h := runner.NewJSONHandler(opts.In, opts.Out)
		h.Sanitizer = sanitizer
		handler = h
	case IsTerminal(opts.Out):
		tui.PrintBanner(opts.Out, narrator.Version, engine.Story().Title)
		handler = runner.NewTextHandler(opts.In, opts.Out,
			runner.WithTextHandlerRenderer(tui.NewRenderer()),
			runner.WithTextHandlerSanitizer(sanitizer),
		)
	default:
		handler = runner.NewTextHandler(opts.In, opts.Out, runner.WithTextHandlerSanitizer(sanitizer))
	}

	if err := engine.LoadError(); err != nil && !opts.JSON {
		printSystemMessage(opts.Out, "Story could not be loaded: %v", err)
	}

	r := runner.NewRunner(engine,
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithSessionID(opts.SessionID),
		runner.WithStartScene(opts.StartScene),
	)

	if opts.SessionID != "" {
		logger.Info("session resumed", "session_id", opts.SessionID)
	}
	err := r.Run(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	logger.Info("play finished", "session_id", r.SessionID, "err", err)
	return handleExecutionError(err)
}
