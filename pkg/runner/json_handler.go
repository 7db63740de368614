package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/narrator/pkg/domain"
)

// Message is one JSON line written by the JSONHandler.
type Message struct {
	Type             string               `json:"type"`
	Scene            *domain.ScenePayload `json:"scene,omitempty"`
	AvailableChoices []string             `json:"available_choices,omitzero"`
	Message          string               `json:"message,omitempty"`
}

// Message types.
const (
	MessageScene   = "scene"
	MessageNoMatch = "no_match"
	MessageSystem  = "system"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader    *bufio.Reader
	Encoder   *json.Encoder
	Sanitizer Sanitizer
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:    bufio.NewReader(r),
		Encoder:   json.NewEncoder(w),
		Sanitizer: NewSanitizer(getMaxInputSize()),
	}
}

func (h *JSONHandler) Scene(ctx context.Context, scene domain.ScenePayload) error {
	return h.Encoder.Encode(Message{Type: MessageScene, Scene: &scene})
}

func (h *JSONHandler) Clarify(ctx context.Context, choices []string) error {
	if choices == nil {
		choices = []string{}
	}
	return h.Encoder.Encode(Message{
		Type:             MessageNoMatch,
		AvailableChoices: choices,
		Message:          "utterance did not match any choice",
	})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: MessageSystem, Message: msg})
}

// Input reads one line. It accepts a JSON string, an object with an
// "utterance" field, or plain text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	var obj struct {
		Utterance string `json:"utterance"`
	}
	switch {
	case json.Unmarshal([]byte(text), &val) == nil:
		text = val
	case json.Unmarshal([]byte(text), &obj) == nil:
		text = obj.Utterance
	}
	return h.Sanitizer.Clean(text)
}
