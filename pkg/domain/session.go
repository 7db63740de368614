package domain

import "time"

// Session represents one player's traversal through the story.
type Session struct {
	ID string `json:"id"`

	// CurrentScene is the identifier of the active scene.
	// An empty value is the terminal state: the story has ended for this session.
	CurrentScene string `json:"current_scene"`

	CreatedAt time.Time `json:"created_at"`

	// History is an audit trail of applied choices. It is only ever appended to.
	History []HistoryEntry `json:"history"`
}

// HistoryEntry records a single applied choice.
type HistoryEntry struct {
	At          time.Time `json:"at"`
	FromScene   string    `json:"from_scene"`
	ChoiceLabel string    `json:"choice_label"`
	ChoiceID    string    `json:"choice_id,omitempty"`
	ToScene     string    `json:"to_scene,omitempty"`
}

// NewSession creates a session positioned at startScene.
func NewSession(id, startScene string) *Session {
	return &Session{
		ID:           id,
		CurrentScene: startScene,
		CreatedAt:    time.Now().UTC(),
		History:      []HistoryEntry{},
	}
}

// Terminated reports whether the session has reached the end of the story.
func (s *Session) Terminated() bool {
	return s.CurrentScene == ""
}

// Clone returns a deep copy, so stores never share history slices with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.History = make([]HistoryEntry, len(s.History))
	copy(c.History, s.History)
	return &c
}
