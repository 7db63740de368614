package memory

import (
	"fmt"

	"github.com/aretw0/narrator/pkg/domain"
)

// NewStory builds a story graph from domain objects, keeping the given scene
// order. It is the in-process counterpart of loading a story document and is
// mostly useful for tests and embedded stories.
func NewStory(title, startScene string, scenes ...domain.Scene) (*domain.Story, error) {
	story := domain.NewStory()
	story.Title = title
	story.StartScene = startScene

	for _, sc := range scenes {
		if sc.ID == "" {
			return nil, fmt.Errorf("scene missing ID")
		}
		if _, exists := story.Scenes[sc.ID]; exists {
			return nil, fmt.Errorf("duplicate scene ID: %s", sc.ID)
		}
		scene := sc
		if scene.Lines == nil {
			scene.Lines = []string{}
		}
		story.Scenes[scene.ID] = &scene
		story.Order = append(story.Order, scene.ID)
	}
	return story, nil
}

// MustStory is like NewStory but panics on invalid input.
func MustStory(title, startScene string, scenes ...domain.Scene) *domain.Story {
	story, err := NewStory(title, startScene, scenes...)
	if err != nil {
		panic(err)
	}
	return story
}
