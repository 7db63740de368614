package tools

import (
	"encoding/json"

	"github.com/aretw0/narrator/pkg/domain"
)

// Tool names.
const (
	ToolStartGame    = "start_game"
	ToolGetScene     = "get_scene"
	ToolChooseOption = "choose_option"
	ToolResetGame    = "reset_game"
)

// StartGameRequest starts a new session.
type StartGameRequest struct {
	StartSceneOverride string `json:"start_scene_override,omitempty" jsonschema_description:"Scene to start from instead of the story's start scene"`
}

// SessionRequest addresses an existing session.
type SessionRequest struct {
	SessionID string `json:"session_id" jsonschema:"required" jsonschema_description:"Session returned by start_game"`
}

// ChooseOptionRequest carries the player's free-form utterance.
type ChooseOptionRequest struct {
	SessionID string `json:"session_id" jsonschema:"required" jsonschema_description:"Session returned by start_game"`
	Utterance string `json:"utterance" jsonschema:"required" jsonschema_description:"What the player said"`
}

// Failure describes why a tool call did not succeed.
type Failure struct {
	Error            string   `json:"error,omitempty"`
	Message          string   `json:"message,omitempty"`
	// AvailableChoices is always set, possibly empty, when Error is no_match.
	AvailableChoices []string `json:"available_choices,omitzero"`
}

// Failed reports whether the response carries an error.
func (f Failure) Failed() bool {
	return f.Error != ""
}

// StartGameResponse is the result of start_game.
type StartGameResponse struct {
	SessionID string               `json:"session_id,omitempty"`
	Scene     *domain.ScenePayload `json:"scene,omitempty"`
	Failure
}

// SceneResponse is the result of get_scene and reset_game.
type SceneResponse struct {
	Scene *domain.ScenePayload `json:"scene,omitempty"`
	Failure
}

// ChooseOptionResponse is the result of choose_option.
// On success next_scene is always present and null when the story ended.
type ChooseOptionResponse struct {
	AppliedChoice *domain.ChoicePayload `json:"applied_choice,omitempty"`
	NextScene     *domain.ScenePayload  `json:"next_scene"`
	Failure
}

func (r ChooseOptionResponse) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(r.Failure)
	}
	type success struct {
		AppliedChoice *domain.ChoicePayload `json:"applied_choice"`
		NextScene     *domain.ScenePayload  `json:"next_scene"`
	}
	return json.Marshal(success{AppliedChoice: r.AppliedChoice, NextScene: r.NextScene})
}

// StoryInfo describes the loaded story.
type StoryInfo struct {
	Title      string `json:"title"`
	StartScene string `json:"start_scene"`
	SceneCount int    `json:"scene_count"`
	Loaded     bool   `json:"loaded"`
	LoadError  string `json:"load_error,omitempty"`
}

// SessionsResponse lists stored sessions.
type SessionsResponse struct {
	Sessions []string `json:"sessions"`
	Failure
}

// GraphResponse carries the Mermaid rendering of the story graph.
type GraphResponse struct {
	Mermaid string `json:"mermaid,omitempty"`
	Failure
}
