package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrCurrentSceneNotFound is returned when a session points at a scene the story does not define.
var ErrCurrentSceneNotFound = errors.New("current scene not found")

// ErrNoCurrentScene is returned when a session has reached the end of the story.
var ErrNoCurrentScene = errors.New("no current scene")

// ErrNoConfidentMatch is returned when an utterance does not map to any choice.
// It is recoverable: the session is left untouched.
var ErrNoConfidentMatch = errors.New("no confident match")

// ErrStoryLoad marks a failure to load the story document.
var ErrStoryLoad = errors.New("story load failed")

// StoryLoadError records why the story document could not be loaded.
// It is not fatal: the engine keeps running on an empty story.
type StoryLoadError struct {
	Source string
	Err    error
}

func (e *StoryLoadError) Error() string {
	return fmt.Sprintf("load story %q: %v", e.Source, e.Err)
}

func (e *StoryLoadError) Unwrap() []error {
	return []error{ErrStoryLoad, e.Err}
}

// NoMatchError carries the choices a caller can re-prompt with.
type NoMatchError struct {
	SceneID          string
	Utterance        string
	AvailableChoices []string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%v: scene=%s", ErrNoConfidentMatch, e.SceneID)
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoConfidentMatch
}
