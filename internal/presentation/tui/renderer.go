package tui

import (
	"github.com/charmbracelet/glamour"

	"github.com/aretw0/narrator/pkg/runner"
)

// NewRenderer returns a markdown renderer backed by glamour.
// If glamour cannot be initialized the markdown is passed through untouched.
func NewRenderer() runner.ContentRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}
