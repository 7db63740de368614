package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/narrator/pkg/adapters/file"
	"github.com/aretw0/narrator/pkg/domain"
)

func TestSessionCommands(t *testing.T) {
	ctx := context.Background()
	store := file.New(t.TempDir())

	var out bytes.Buffer
	require.NoError(t, ListSessions(ctx, store, &out))
	assert.Equal(t, "No active sessions found.\n", out.String())

	require.NoError(t, store.Save(ctx, domain.NewSession("alpha", "S1")))
	require.NoError(t, store.Save(ctx, domain.NewSession("beta", "S2")))

	out.Reset()
	require.NoError(t, ListSessions(ctx, store, &out))
	assert.Contains(t, out.String(), "- alpha")
	assert.Contains(t, out.String(), "- beta")

	out.Reset()
	require.NoError(t, InspectSession(ctx, store, "beta", &out))
	assert.Contains(t, out.String(), `"current_scene": "S2"`)

	out.Reset()
	err := InspectSession(ctx, store, "missing", &out)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	out.Reset()
	require.NoError(t, RemoveSessions(ctx, store, []string{"alpha", "beta"}, &out))
	assert.Contains(t, out.String(), "Removed session 'alpha'")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
