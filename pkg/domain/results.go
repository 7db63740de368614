package domain

// StartResult is returned when a new session starts.
type StartResult struct {
	SessionID string       `json:"session_id"`
	Scene     ScenePayload `json:"scene"`
}

// ChoiceResult is returned when an utterance was applied to a session.
// NextScene is nil when the choice ended the story.
type ChoiceResult struct {
	AppliedChoice ChoicePayload `json:"applied_choice"`
	NextScene     *ScenePayload `json:"next_scene"`
}
