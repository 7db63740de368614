package domain

// Story is the scene graph loaded from the story document.
// It is treated as read-only once loaded and is safe for concurrent reads.
type Story struct {
	Title      string            `json:"title" yaml:"title"`
	StartScene string            `json:"start_scene,omitempty" yaml:"start_scene,omitempty"`
	Scenes     map[string]*Scene `json:"scenes" yaml:"scenes"`

	// Order holds the scene keys in document order.
	Order []string `json:"-" yaml:"-"`
}

// Scene represents a node in the story graph.
type Scene struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Narration string   `json:"narration" yaml:"narration"`
	Lines     []string `json:"lines" yaml:"lines"`
	Choices   []Choice `json:"choices" yaml:"choices"`
}

// Choice is an edge from a scene to the next one.
// Empty fields are treated as absent; an empty NextScene ends the story.
type Choice struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Label     string `json:"label" yaml:"label" mapstructure:"label"`
	NextScene string `json:"next_scene,omitempty" yaml:"next_scene,omitempty" mapstructure:"next_scene"`
}

// NewStory returns an empty story. It is the degraded graph used when loading fails.
func NewStory() *Story {
	return &Story{
		Scenes: make(map[string]*Scene),
		Order:  []string{},
	}
}

// Scene looks up a scene by ID. It returns nil for unknown or empty IDs.
func (s *Story) Scene(id string) *Scene {
	if s == nil || id == "" {
		return nil
	}
	return s.Scenes[id]
}

// Empty reports whether the story has no scenes.
func (s *Story) Empty() bool {
	return s == nil || len(s.Scenes) == 0
}

// StartFor resolves the entry scene of a new session.
// Precedence: the override, then the declared start scene, then the first scene
// in document order. It returns "" when the story has no scenes to start from.
func (s *Story) StartFor(override string) string {
	if override != "" {
		return override
	}
	if s == nil {
		return ""
	}
	if s.StartScene != "" {
		return s.StartScene
	}
	for _, id := range s.Order {
		if _, ok := s.Scenes[id]; ok {
			return id
		}
	}
	return ""
}
