package ui

import (
	"os"

	"github.com/charmbracelet/glamour"
)

// newPreviewRenderer creates a glamour renderer, honoring the
// GLAMOUR_STYLE override.
func newPreviewRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
}

// RenderPreview renders a generated prompt as markdown for terminal
// display. On renderer failure the raw content comes back unchanged so
// a preview can never lose the prompt.
func RenderPreview(content string) string {
	renderer, err := newPreviewRenderer(100)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
