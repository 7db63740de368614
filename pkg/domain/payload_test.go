package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/narrator/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatScene_Nil(t *testing.T) {
	payload := domain.FormatScene(nil)

	assert.True(t, payload.IsEmpty())
	assert.Nil(t, payload.Title)
	assert.Nil(t, payload.Narration)
	assert.Empty(t, payload.Lines)
	assert.Empty(t, payload.Choices)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":null,"title":null,"narration":null,"lines":[],"choices":[]}`, string(data))
}

func TestFormatScene_DropsMalformedChoices(t *testing.T) {
	scene := &domain.Scene{
		ID:        "lab",
		Title:     "The Lab",
		Narration: "Beakers everywhere.",
		Lines:     []string{"A kettle whistles."},
		Choices: []domain.Choice{
			{ID: "c1", Label: "  Inspect the kettle ", NextScene: "kettle"},
			{}, // entry that was not an object in the document
			{Label: "   "},
			{ID: "c3"},
			{Label: "Leave"},
		},
	}

	payload := domain.FormatScene(scene)

	require.Len(t, payload.Choices, 3)
	assert.Equal(t, "Inspect the kettle", payload.Choices[0].Label)
	assert.Equal(t, "c1", *payload.Choices[0].ID)
	assert.Equal(t, "kettle", *payload.Choices[0].NextScene)

	assert.Equal(t, "", payload.Choices[1].Label)
	assert.Equal(t, "c3", *payload.Choices[1].ID)
	assert.Nil(t, payload.Choices[1].NextScene)

	assert.Nil(t, payload.Choices[2].ID)
	assert.Equal(t, []string{"Inspect the kettle", "Leave"}, payload.Labels())
	assert.Equal(t, "lab", *payload.ID)
	assert.Equal(t, []string{"A kettle whistles."}, payload.Lines)
}

func TestFormatScene_DoesNotAliasLines(t *testing.T) {
	scene := &domain.Scene{ID: "s", Lines: []string{"one"}}

	payload := domain.FormatScene(scene)
	payload.Lines[0] = "changed"

	assert.Equal(t, "one", scene.Lines[0])
}

func TestChoicePayload_Choice(t *testing.T) {
	scene := &domain.Scene{Choices: []domain.Choice{{ID: "a1", Label: "Run", NextScene: "out"}}}

	got := domain.FormatChoices(scene)[0].Choice()

	assert.Equal(t, domain.Choice{ID: "a1", Label: "Run", NextScene: "out"}, got)
}
