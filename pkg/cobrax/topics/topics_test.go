package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"recipes.md": {Data: []byte("# Recipes\n\nHow to write them.")},
		"modes.txt":  {Data: []byte("validate, dry-run, live")},
		"notes.json": {Data: []byte("{}")},
	}
}

func TestNewScansTopics(t *testing.T) {
	m, err := New(testFS(), nil)
	require.NoError(t, err)

	// Only .md and .txt files become topics.
	assert.Equal(t, []string{"modes", "recipes"}, m.List())

	topic, ok := m.Get("recipes")
	require.True(t, ok)
	assert.Equal(t, ".md", topic.Ext)
	assert.Contains(t, topic.Content, "How to write them.")

	_, ok = m.Get("notes")
	assert.False(t, ok)
}

func TestGetStripsFlagDashes(t *testing.T) {
	m, err := New(testFS(), nil)
	require.NoError(t, err)

	_, ok := m.Get("--recipes")
	assert.True(t, ok)
	_, ok = m.Get("-modes")
	assert.True(t, ok)
}

func TestAttachHelpCommand(t *testing.T) {
	m, err := New(testFS(), &PlainRenderer{})
	require.NoError(t, err)

	root := &cobra.Command{Use: "app"}
	m.Attach(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	root.SetArgs([]string{"help", "recipes"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "How to write them.")

	out.Reset()
	root.SetArgs([]string{"help", "topics"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "recipes")
	assert.Contains(t, out.String(), "modes")
}

func TestPlainRendererPassthrough(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# content", r.Render("# content", ".md"))
}

func TestGlamourRendererNonMarkdownPassthrough(t *testing.T) {
	r := NewGlamourRenderer(80)
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}
