package story

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/narrator/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrMalformed is wrapped by Parse when the document does not have the expected shape.
var ErrMalformed = errors.New("malformed story document")

// Load reads the story document at path.
// It always returns a usable story: on failure the story is empty and the
// error is a *domain.StoryLoadError.
func Load(path string) (*domain.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NewStory(), &domain.StoryLoadError{Source: path, Err: err}
	}

	story, err := Parse(data)
	if err != nil {
		return domain.NewStory(), &domain.StoryLoadError{Source: path, Err: err}
	}
	return story, nil
}

// Parse decodes a story document. JSON is walked token by token and YAML is
// read as a node tree; both keep the scene keys in document order.
//
// Only the document shape is fatal. A scene that is not a mapping is skipped,
// and fields, lines or choices of the wrong type are dropped one by one.
func Parse(data []byte) (*domain.Story, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrMalformed)
	}

	story := domain.NewStory()
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "title":
			story.Title = scalar(val)
		case "start_scene":
			story.StartScene = scalar(val)
		case "scenes":
			if err := parseScenes(val, story); err != nil {
				return nil, err
			}
		}
	}
	return story, nil
}

func parseDocument(data []byte) (*yaml.Node, error) {
	if json.Valid(data) {
		return jsonDocument(data)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

func parseScenes(node *yaml.Node, story *domain.Story) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: scenes must be a mapping", ErrMalformed)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		id := node.Content[i].Value
		scene, ok := parseScene(id, node.Content[i+1])
		if !ok {
			continue
		}
		// A repeated key replaces the earlier scene but keeps its position.
		if _, seen := story.Scenes[id]; !seen {
			story.Order = append(story.Order, id)
		}
		story.Scenes[id] = scene
	}
	return nil
}

func parseScene(key string, node *yaml.Node) (*domain.Scene, bool) {
	if node.Kind != yaml.MappingNode {
		return nil, false
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return nil, false
	}

	scene := &domain.Scene{
		ID:        text(raw["id"]),
		Title:     text(raw["title"]),
		Narration: text(raw["narration"]),
		Lines:     []string{},
	}
	if scene.ID == "" {
		scene.ID = key
	}

	for _, entry := range entries(raw["lines"]) {
		var line string
		if err := weakDecode(entry, &line); err != nil {
			continue
		}
		scene.Lines = append(scene.Lines, line)
	}

	// Entries of the wrong shape are kept as zero choices; FormatScene drops them.
	choices := entries(raw["choices"])
	scene.Choices = make([]domain.Choice, 0, len(choices))
	for _, entry := range choices {
		var c domain.Choice
		if m, ok := entry.(map[string]any); ok {
			if err := weakDecode(m, &c); err != nil {
				c = domain.Choice{}
			}
		}
		scene.Choices = append(scene.Choices, c)
	}
	return scene, true
}

// entries returns v as a list. A single value becomes a one-element list.
func entries(v any) []any {
	switch list := v.(type) {
	case nil:
		return nil
	case []any:
		return list
	default:
		return []any{list}
	}
}

// text weakly converts v to a string, or returns "" when it cannot.
func text(v any) string {
	if v == nil {
		return ""
	}
	var s string
	if err := weakDecode(v, &s); err != nil {
		return ""
	}
	return s
}

func weakDecode(input any, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func scalar(node *yaml.Node) string {
	if node.Kind != yaml.ScalarNode || isNull(node) {
		return ""
	}
	return node.Value
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
