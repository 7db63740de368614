package tools

import (
	"errors"

	"github.com/aretw0/narrator/pkg/domain"
	"github.com/aretw0/narrator/pkg/runner"
)

// Error codes reported in Failure.Error.
const (
	CodeSessionNotFound = "session_not_found"
	CodeSceneNotFound   = "scene_not_found"
	CodeNoCurrentScene  = "no_current_scene"
	CodeNoMatch         = "no_match"
	CodeInvalidInput    = "invalid_input"
	CodeInternal        = "internal"
)

// ErrInvalidInput marks a request the service refused before reaching the engine.
var ErrInvalidInput = errors.New("invalid input")

var messages = map[string]string{
	CodeSessionNotFound: "Session not found. Start a new game.",
	CodeSceneNotFound:   "Current scene not found.",
	CodeNoCurrentScene:  "The story has ended for this session.",
	CodeNoMatch:         "I didn't understand which option you meant. Please pick one of the available choices or repeat it more clearly.",
	CodeInvalidInput:    "The request was not valid.",
	CodeInternal:        "Something went wrong.",
}

// Code maps an engine error to its wire code. A nil error maps to "".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrSessionNotFound):
		return CodeSessionNotFound
	case errors.Is(err, domain.ErrCurrentSceneNotFound):
		return CodeSceneNotFound
	case errors.Is(err, domain.ErrNoCurrentScene):
		return CodeNoCurrentScene
	case errors.Is(err, domain.ErrNoConfidentMatch):
		return CodeNoMatch
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return CodeInvalidInput
	}
	return CodeInternal
}

// Message returns the human message for a code.
func Message(code string) string {
	return messages[code]
}

// FailureFrom builds the response failure for err.
func FailureFrom(err error) Failure {
	code := Code(err)
	if code == "" {
		return Failure{}
	}
	f := Failure{Error: code, Message: Message(code)}

	if code == CodeNoMatch {
		f.AvailableChoices = []string{}
		var noMatch *domain.NoMatchError
		if errors.As(err, &noMatch) {
			f.AvailableChoices = append(f.AvailableChoices, noMatch.AvailableChoices...)
		}
	}
	return f
}
