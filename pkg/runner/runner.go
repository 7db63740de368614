package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/pkg/domain"
)

// Player commands recognized by the Runner.
const (
	CommandQuit  = "/quit"
	CommandReset = "/reset"
)

// Runner drives one session interactively: it shows the current scene,
// reads an utterance, applies it and repeats until the story ends or the
// input is exhausted.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// SessionID resumes an existing session. When empty a new one is started
	// and the field is set to its id.
	SessionID string

	// StartScene is the start override for new sessions.
	StartScene string

	engine Navigator
}

// NewRunner creates a runner for the given engine.
func NewRunner(engine Navigator, opts ...Option) *Runner {
	r := &Runner{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run executes the loop until the story ends, the player quits or input runs out.
func (r *Runner) Run(ctx context.Context) error {
	scene, done, err := r.resolveInitialScene(ctx)
	if err != nil || done {
		return err
	}

	render := true
	for {
		if render {
			if err := r.Handler.Scene(ctx, scene); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			if len(scene.Choices) == 0 {
				return r.Handler.SystemOutput(ctx, "The End.")
			}
		}
		render = true

		input, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
				_ = r.Handler.SystemOutput(ctx, err.Error())
				render = false
				continue
			}
			return err
		}

		switch strings.ToLower(input) {
		case "":
			render = false
			continue
		case CommandQuit:
			return r.Handler.SystemOutput(ctx, fmt.Sprintf("Session saved: %s", r.SessionID))
		case CommandReset:
			scene, err = r.engine.Reset(ctx, r.SessionID)
			if err != nil {
				return fmt.Errorf("reset error: %w", err)
			}
			continue
		}

		res, err := r.engine.Choose(ctx, r.SessionID, expandShortcut(input, scene))
		var noMatch *domain.NoMatchError
		if errors.As(err, &noMatch) {
			r.Logger.Debug("utterance not matched", "session_id", r.SessionID, "utterance", input)
			if err := r.Handler.Clarify(ctx, noMatch.AvailableChoices); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			render = false
			continue
		}
		if err != nil {
			return fmt.Errorf("navigation error: %w", err)
		}

		r.Logger.Debug("choice applied", "session_id", r.SessionID, "label", res.AppliedChoice.Label)
		if res.NextScene == nil {
			return r.Handler.SystemOutput(ctx, "The End.")
		}
		scene = *res.NextScene
	}
}

// resolveInitialScene starts a new session or loads the scene of the one being resumed.
// done is true when a resumed session has already finished.
func (r *Runner) resolveInitialScene(ctx context.Context) (domain.ScenePayload, bool, error) {
	if r.SessionID == "" {
		res, err := r.engine.Start(ctx, r.StartScene)
		if err != nil {
			return domain.ScenePayload{}, false, fmt.Errorf("failed to start session: %w", err)
		}
		r.SessionID = res.SessionID
		r.Logger.Debug("session started", "session_id", res.SessionID)
		return res.Scene, false, nil
	}

	scene, err := r.engine.Scene(ctx, r.SessionID)
	if errors.Is(err, domain.ErrNoCurrentScene) {
		return scene, true, r.Handler.SystemOutput(ctx, "This story has already ended.")
	}
	if err != nil {
		return scene, false, fmt.Errorf("failed to resume session %s: %w", r.SessionID, err)
	}
	return scene, false, nil
}

// expandShortcut maps a choice number typed at the prompt to that choice's label.
func expandShortcut(input string, scene domain.ScenePayload) string {
	n, err := strconv.Atoi(input)
	if err != nil {
		return input
	}
	labels := scene.Labels()
	if n < 1 || n > len(labels) {
		return input
	}
	return labels[n-1]
}
