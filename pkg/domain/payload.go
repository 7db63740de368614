package domain

import "strings"

// ScenePayload is the normalized view of a scene handed to narration layers.
// A payload with a nil ID is the "no scene" sentinel, used both for missing
// scenes and for the end of the story.
type ScenePayload struct {
	ID        *string         `json:"id"`
	Title     *string         `json:"title"`
	Narration *string         `json:"narration"`
	Lines     []string        `json:"lines"`
	Choices   []ChoicePayload `json:"choices"`
}

// ChoicePayload is the normalized view of a choice.
type ChoicePayload struct {
	ID        *string `json:"id"`
	Label     string  `json:"label"`
	NextScene *string `json:"next_scene"`
}

// IsEmpty reports whether the payload is the "no scene" sentinel.
func (p ScenePayload) IsEmpty() bool {
	return p.ID == nil
}

// Labels returns the labels of the payload's choices, skipping blank ones.
func (p ScenePayload) Labels() []string {
	labels := make([]string, 0, len(p.Choices))
	for _, c := range p.Choices {
		if c.Label != "" {
			labels = append(labels, c.Label)
		}
	}
	return labels
}

// EmptyScene returns the "no scene" sentinel payload.
func EmptyScene() ScenePayload {
	return ScenePayload{
		Lines:   []string{},
		Choices: []ChoicePayload{},
	}
}

// FormatScene normalizes a scene into a payload. It never fails:
// a nil scene yields the sentinel, and choices without a label or an id are dropped.
func FormatScene(scene *Scene) ScenePayload {
	if scene == nil {
		return EmptyScene()
	}

	payload := ScenePayload{
		ID:        strPtr(scene.ID),
		Title:     strPtr(scene.Title),
		Narration: strPtr(scene.Narration),
		Lines:     make([]string, 0, len(scene.Lines)),
		Choices:   FormatChoices(scene),
	}
	payload.Lines = append(payload.Lines, scene.Lines...)
	return payload
}

// FormatChoices returns the well-formed choices of a scene, in order.
func FormatChoices(scene *Scene) []ChoicePayload {
	if scene == nil {
		return []ChoicePayload{}
	}
	choices := make([]ChoicePayload, 0, len(scene.Choices))
	for _, c := range scene.Choices {
		label := strings.TrimSpace(c.Label)
		id := strings.TrimSpace(c.ID)
		if label == "" && id == "" {
			continue
		}
		choices = append(choices, ChoicePayload{
			ID:        optional(id),
			Label:     label,
			NextScene: optional(strings.TrimSpace(c.NextScene)),
		})
	}
	return choices
}

// ChoiceLabels returns the labels offered by a scene, as used in clarification prompts.
func ChoiceLabels(scene *Scene) []string {
	return FormatScene(scene).Labels()
}

// Choice converts the payload back into a domain choice.
func (c ChoicePayload) Choice() Choice {
	return Choice{
		ID:        deref(c.ID),
		Label:     c.Label,
		NextScene: deref(c.NextScene),
	}
}

func strPtr(s string) *string {
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
