package topics

// Renderer formats topic content for display.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer passes topic content through unchanged.
type PlainRenderer struct{}

// Render implements Renderer.
func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
