package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSessionStart  EventType = "session_start"
	EventChoiceApplied EventType = "choice_applied"
	EventNoMatch       EventType = "no_match"
	EventSessionReset  EventType = "session_reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// SessionEvent represents a session entering a scene through start or reset.
type SessionEvent struct {
	EventBase
	SceneID string `json:"scene_id"`
}

// ChoiceEvent represents the outcome of resolving an utterance.
type ChoiceEvent struct {
	EventBase
	FromScene string  `json:"from_scene"`
	ToScene   string  `json:"to_scene,omitempty"`
	ChoiceID  string  `json:"choice_id,omitempty"`
	Tier      string  `json:"tier,omitempty"`
	Score     float64 `json:"score,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously after the session write; they must not block.
type LifecycleHooks struct {
	OnSessionStart  func(context.Context, *SessionEvent)
	OnChoiceApplied func(context.Context, *ChoiceEvent)
	OnNoMatch       func(context.Context, *ChoiceEvent)
	OnReset         func(context.Context, *SessionEvent)
}

// NewEventBase stamps an event of the given type.
func NewEventBase(t EventType, sessionID string) EventBase {
	return EventBase{
		Timestamp: time.Now(),
		Type:      t,
		SessionID: sessionID,
	}
}
