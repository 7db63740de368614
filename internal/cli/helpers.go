package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/narrator/pkg/domain"
)

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// DebugHooks logs every lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			logger.DebugContext(ctx, "session start", "session_id", e.SessionID, "scene", e.SceneID)
		},
		OnChoiceApplied: func(ctx context.Context, e *domain.ChoiceEvent) {
			logger.DebugContext(ctx, "choice applied",
				"session_id", e.SessionID,
				"from", e.FromScene,
				"to", e.ToScene,
				"tier", e.Tier,
				"score", e.Score,
			)
		},
		OnNoMatch: func(ctx context.Context, e *domain.ChoiceEvent) {
			logger.DebugContext(ctx, "no match", "session_id", e.SessionID, "scene", e.FromScene)
		},
		OnReset: func(ctx context.Context, e *domain.SessionEvent) {
			logger.DebugContext(ctx, "session reset", "session_id", e.SessionID, "scene", e.SceneID)
		},
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError treats interruptions as a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
