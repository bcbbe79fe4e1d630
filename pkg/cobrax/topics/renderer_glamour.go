package topics

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// GlamourRenderer renders markdown topics with terminal styling and falls
// back to plain text for non-markdown content or non-TTY output.
type GlamourRenderer struct {
	wordWrap int
}

// NewGlamourRenderer creates a renderer wrapping at width columns. A width
// of 0 uses a sensible default.
func NewGlamourRenderer(width int) *GlamourRenderer {
	if width <= 0 {
		width = 100
	}
	return &GlamourRenderer{wordWrap: width}
}

// Render implements Renderer.
func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return content
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(r.wordWrap),
	)
	if err != nil {
		return content
	}

	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return out
}
