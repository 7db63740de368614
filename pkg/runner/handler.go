package runner

import (
	"context"

	"github.com/aretw0/narrator/pkg/domain"
)

// IOHandler defines the strategy for interacting with the player.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Scene presents a scene to the player.
	Scene(ctx context.Context, scene domain.ScenePayload) error

	// Clarify re-presents the available choices after an utterance did not match.
	Clarify(ctx context.Context, choices []string) error

	// Input reads the next utterance.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (session id, end of story, errors).
	SystemOutput(ctx context.Context, msg string) error
}

// Navigator is the part of the engine the Runner drives.
type Navigator interface {
	Start(ctx context.Context, override string) (*domain.StartResult, error)
	Scene(ctx context.Context, sessionID string) (domain.ScenePayload, error)
	Choose(ctx context.Context, sessionID, utterance string) (*domain.ChoiceResult, error)
	Reset(ctx context.Context, sessionID string) (domain.ScenePayload, error)
}
