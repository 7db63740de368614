package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/narrator/pkg/domain"
)

// EndNode is the synthetic node that choices without a next scene point to.
const EndNode = "__end__"

// GraphOverlay contains session state to visualize on the graph.
type GraphOverlay struct {
	VisitedScenes []string
	CurrentScene  string
	Ended         bool
}

// OverlayFromSession builds an overlay from a session's history.
// The session's starting scene counts as visited.
func OverlayFromSession(sess *domain.Session) *GraphOverlay {
	if sess == nil {
		return nil
	}
	o := &GraphOverlay{CurrentScene: sess.CurrentScene, Ended: sess.Terminated()}
	for _, h := range sess.History {
		o.VisitedScenes = append(o.VisitedScenes, h.FromScene)
		if h.ToScene != "" {
			o.VisitedScenes = append(o.VisitedScenes, h.ToScene)
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart for the story graph.
// It applies semantic styling:
// - Start scene: ((Circle))
// - Ending scene (no choices): ([Stadium])
// - Missing target: {{Hexagon}}
// - Default: [Rectangle]
// Choice labels annotate the edges. Overlay styles are added if provided.
func GenerateMermaid(story *domain.Story, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if story == nil {
		return sb.String()
	}

	start := story.StartFor("")
	needsEnd := false
	missing := map[string]bool{}

	for _, id := range sceneIDs(story) {
		scene := story.Scenes[id]
		safeID := sanitizeMermaidID(id)

		opener, closer := "[", "]"
		switch {
		case id == start:
			opener, closer = "((", "))"
		case len(scene.Choices) == 0:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(nodeLabel(id, scene)), closer)

		for _, c := range scene.Choices {
			target := EndNode
			if c.NextScene != "" {
				target = c.NextScene
				if story.Scene(c.NextScene) == nil {
					missing[c.NextScene] = true
				}
			} else {
				needsEnd = true
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escapeLabel(c.Label), sanitizeMermaidID(target))
		}
	}

	missingIDs := make([]string, 0, len(missing))
	for id := range missing {
		missingIDs = append(missingIDs, id)
	}
	sort.Strings(missingIDs)
	for _, id := range missingIDs {
		fmt.Fprintf(&sb, "    %s{{\"%s ?\"}}\n", sanitizeMermaidID(id), escapeLabel(id))
	}
	if needsEnd {
		fmt.Fprintf(&sb, "    %s((\"The End\"))\n", EndNode)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedScenes {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || seen[safeID] || story.Scene(id) == nil {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
		}

		switch {
		case overlay.CurrentScene != "" && story.Scene(overlay.CurrentScene) != nil:
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentScene))
		case overlay.Ended && needsEnd:
			fmt.Fprintf(&sb, "    class %s current;\n", EndNode)
		}
	}

	return sb.String()
}

// sceneIDs returns document order first, then any scenes missing from it sorted by key.
func sceneIDs(story *domain.Story) []string {
	ids := make([]string, 0, len(story.Scenes))
	listed := make(map[string]bool, len(story.Order))
	for _, id := range story.Order {
		if _, ok := story.Scenes[id]; ok && !listed[id] {
			listed[id] = true
			ids = append(ids, id)
		}
	}
	var rest []string
	for id := range story.Scenes {
		if !listed[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

func nodeLabel(id string, scene *domain.Scene) string {
	if scene != nil && scene.Title != "" {
		return scene.Title
	}
	return id
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
