// Package topics provides a topic-based help system for Cobra CLI
// applications. Topics are markdown or plain-text files carried in an
// fs.FS (typically go:embed, so the docs travel inside the binary and are
// readable on-device without a network).
package topics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help topic.
type Topic struct {
	Name    string
	Ext     string
	Content string
}

// Manager holds the discovered topics and the renderer used to display
// them.
type Manager struct {
	topics       map[string]*Topic
	renderer     Renderer
	originalHelp func(*cobra.Command, []string)
}

// New scans fsys for topic files (.md and .txt) and builds a Manager.
func New(fsys fs.FS, renderer Renderer) (*Manager, error) {
	if renderer == nil {
		renderer = &PlainRenderer{}
	}
	m := &Manager{
		topics:   make(map[string]*Topic),
		renderer: renderer,
	}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".txt" {
			return nil
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), ext)
		m.topics[name] = &Topic{Name: name, Ext: ext, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}

	return m, nil
}

// Get retrieves a topic by name.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimPrefix(strings.TrimPrefix(name, "--"), "-")
	topic, ok := m.topics[name]
	return topic, ok
}

// List returns all topic names, sorted.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attach replaces the root command's help command so `help <topic>` and
// `help topics` work alongside command help.
func (m *Manager) Attach(rootCmd *cobra.Command) {
	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic.
Type ` + rootCmd.Name() + ` help topics to see all available help topics.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				names := m.List()
				if len(names) == 0 {
					cmd.Println("No help topics available.")
					return
				}
				cmd.Println("Available help topics:")
				for _, name := range names {
					cmd.Printf("  %s\n", name)
				}
				cmd.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", rootCmd.Name())
				return
			}

			if topic, ok := m.Get(args[0]); ok {
				cmd.Print(m.renderer.Render(topic.Content, topic.Ext))
				return
			}

			m.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)
}
