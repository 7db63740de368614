package ports

import (
	"context"

	"github.com/aretw0/narrator/pkg/domain"
)

// SessionStore defines the interface for persisting session state.
// Implementations must not retain the *domain.Session passed to Save nor hand
// out internal references from Load.
type SessionStore interface {
	// Save persists the session under its ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves the session for a given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given ID. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
