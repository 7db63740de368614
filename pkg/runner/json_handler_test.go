package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/narrator/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	var out bytes.Buffer
	h := NewJSONHandler(strings.NewReader(""), &out)
	ctx := context.Background()

	require.NoError(t, h.Scene(ctx, domain.EmptyScene()))
	require.NoError(t, h.Clarify(ctx, []string{"Go north"}))
	require.NoError(t, h.SystemOutput(ctx, "bye"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	assert.JSONEq(t, `{"type":"scene","scene":{"id":null,"title":null,"narration":null,"lines":[],"choices":[]}}`, lines[0])

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &msg))
	assert.Equal(t, MessageNoMatch, msg.Type)
	assert.Equal(t, []string{"Go north"}, msg.AvailableChoices)

	assert.JSONEq(t, `{"type":"system","message":"bye"}`, lines[2])
}

func TestJSONHandler_ClarifyWithoutChoices(t *testing.T) {
	var out strings.Builder
	h := NewJSONHandler(strings.NewReader(""), &out)

	require.NoError(t, h.Clarify(context.Background(), nil))

	assert.JSONEq(t, `{"type":"no_match","available_choices":[],"message":"utterance did not match any choice"}`, strings.TrimSpace(out.String()))
}

func TestJSONHandler_Input(t *testing.T) {
	input := "\"quoted\"\n{\"utterance\":\"from object\"}\nplain text\n"
	h := NewJSONHandler(strings.NewReader(input), io.Discard)
	ctx := context.Background()

	for _, want := range []string{"quoted", "from object", "plain text"} {
		got, err := h.Input(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}
