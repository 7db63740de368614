package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/narrator/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID, "start")
		session.History = append(session.History, domain.HistoryEntry{
			At:          time.Now().UTC().Truncate(time.Second),
			FromScene:   "intro",
			ChoiceLabel: "Begin",
			ChoiceID:    "begin",
			ToScene:     "start",
		})

		require.NoError(t, store.Save(ctx, session), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.ID, loaded.ID)
		assert.Equal(t, "start", loaded.CurrentScene)
		assert.True(t, session.CreatedAt.Equal(loaded.CreatedAt))
		require.Len(t, loaded.History, 1)
		assert.Equal(t, "Begin", loaded.History[0].ChoiceLabel)
		assert.True(t, session.History[0].At.Equal(loaded.History[0].At))
	})

	t.Run("Terminal Session", func(t *testing.T) {
		id := sessionID + "-terminal"
		defer func() { _ = store.Delete(ctx, id) }()

		require.NoError(t, store.Save(ctx, domain.NewSession(id, "")))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.True(t, loaded.Terminated())
	})

	t.Run("Isolation", func(t *testing.T) {
		id := sessionID + "-isolation"
		defer func() { _ = store.Delete(ctx, id) }()

		session := domain.NewSession(id, "start")
		require.NoError(t, store.Save(ctx, session))

		// Mutating the saved value or a loaded copy must not leak into the store.
		session.CurrentScene = "mutated"
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.History = append(loaded.History, domain.HistoryEntry{FromScene: "leak"})

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "start", again.CurrentScene)
		assert.Empty(t, again.History)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, "start")))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, "start"))
		_ = store.Save(ctx, domain.NewSession(id2, "start"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
