package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/narrator/internal/runtime"
	narratormcp "github.com/aretw0/narrator/pkg/adapters/mcp"
	"github.com/aretw0/narrator/pkg/adapters/memory"
	"github.com/aretw0/narrator/pkg/domain"
	"github.com/aretw0/narrator/pkg/session"
	"github.com/aretw0/narrator/pkg/tools"
)

func newServer(t *testing.T) *narratormcp.Server {
	t.Helper()
	story := memory.MustStory("North", "S1",
		domain.Scene{ID: "S1", Title: "Crossroads", Choices: []domain.Choice{
			{ID: "c1", Label: "Go north", NextScene: "S2"},
		}},
		domain.Scene{ID: "S2", Title: "Cliff"},
	)
	eng := runtime.NewEngine(story, session.NewManager(memory.NewStore()))
	return narratormcp.NewServer(tools.NewService(eng))
}

func call[T any](t *testing.T, handler func(context.Context, mcp.CallToolRequest, T) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := mcp.NewTypedToolHandler[T](handler)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func start(t *testing.T, s *narratormcp.Server) string {
	t.Helper()
	res := call(t, s.HandleStartGame, nil)
	require.False(t, res.IsError)
	out, ok := res.StructuredContent.(tools.StartGameResponse)
	require.True(t, ok)
	return out.SessionID
}

func TestStartGame(t *testing.T) {
	s := newServer(t)
	res := call(t, s.HandleStartGame, map[string]any{"start_scene_override": "S2"})

	require.False(t, res.IsError)
	out := res.StructuredContent.(tools.StartGameResponse)
	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, "Cliff", out.Scene.Title)
	require.NotEmpty(t, res.Content)
}

func TestChooseOption(t *testing.T) {
	s := newServer(t)
	sid := start(t, s)

	res := call(t, s.HandleChooseOption, map[string]any{"session_id": sid, "utterance": "head north"})
	require.False(t, res.IsError)
	out := res.StructuredContent.(tools.ChooseOptionResponse)
	require.NotNil(t, out.AppliedChoice)
	assert.Equal(t, "Go north", out.AppliedChoice.Label)
	assert.Equal(t, "S2", out.NextScene.ID)

	scene := call(t, s.HandleGetScene, map[string]any{"session_id": sid})
	assert.Equal(t, "S2", scene.StructuredContent.(tools.SceneResponse).Scene.ID)
}

func TestChooseOption_NoMatch(t *testing.T) {
	s := newServer(t)
	sid := start(t, s)

	res := call(t, s.HandleChooseOption, map[string]any{"session_id": sid, "utterance": "xyz unrelated"})
	assert.True(t, res.IsError)
	out := res.StructuredContent.(tools.ChooseOptionResponse)
	assert.Equal(t, tools.CodeNoMatch, out.Error)
	assert.Equal(t, []string{"Go north"}, out.AvailableChoices)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var wire map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &wire))
	assert.Equal(t, "no_match", wire["error"])
	assert.NotContains(t, wire, "next_scene")
}

func TestUnknownSession(t *testing.T) {
	s := newServer(t)

	get := call(t, s.HandleGetScene, map[string]any{"session_id": "nope"})
	assert.True(t, get.IsError)
	assert.Equal(t, tools.CodeSessionNotFound, get.StructuredContent.(tools.SceneResponse).Error)

	reset := call(t, s.HandleResetGame, map[string]any{"session_id": "nope"})
	assert.True(t, reset.IsError)
	assert.Equal(t, tools.CodeSessionNotFound, reset.StructuredContent.(tools.SceneResponse).Error)
}

func TestResetGame(t *testing.T) {
	s := newServer(t)
	sid := start(t, s)
	call(t, s.HandleChooseOption, map[string]any{"session_id": sid, "utterance": "go north"})

	res := call(t, s.HandleResetGame, map[string]any{"session_id": sid})
	require.False(t, res.IsError)
	assert.Equal(t, "S1", res.StructuredContent.(tools.SceneResponse).Scene.ID)
}

func TestStoryResource(t *testing.T) {
	s := newServer(t)

	contents, err := s.HandleStoryResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, narratormcp.StoryURI, text.URI)

	var body struct {
		Title      string `json:"title"`
		SceneCount int    `json:"scene_count"`
		Mermaid    string `json:"mermaid"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &body))
	assert.Equal(t, "North", body.Title)
	assert.Equal(t, 2, body.SceneCount)
	assert.Contains(t, body.Mermaid, `S1 -- "Go north" --> S2`)
}

func TestNewServer_RegistersTools(t *testing.T) {
	s := newServer(t)
	require.NotNil(t, s.MCPServer())
}
