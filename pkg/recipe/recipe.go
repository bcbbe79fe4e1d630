// Package recipe parses recipe documents into the typed patch model.
//
// A recipe is a YAML sequence of patch objects. Unknown keys are ignored
// at every level so older binaries keep parsing newer recipes. All
// required-field checks happen here, not in task handling: a structurally
// invalid patch is flagged at load time and fails before any of its tasks
// run.
package recipe

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/rgpatch/pkg/errors"
	"github.com/arthur-debert/rgpatch/pkg/logging"
	"github.com/arthur-debert/rgpatch/pkg/types"
)

// Entry is one patch from a recipe document, together with any structural
// error found while validating it. An invalid patch still carries whatever
// fields parsed so it can be reported by name.
type Entry struct {
	Patch *types.Patch
	Err   error
}

// Document is a parsed recipe: an ordered sequence of patches.
type Document struct {
	Entries []Entry
}

// Find returns the entry whose patch id matches exactly, or nil.
func (d *Document) Find(id string) *Entry {
	for i := range d.Entries {
		if d.Entries[i].Patch.ID == id {
			return &d.Entries[i]
		}
	}
	return nil
}

// Load reads and parses a recipe document.
//
// A document-level parse failure is a hard error: nothing is partially
// processed. Per-patch structural problems are recorded on the entry
// instead, so a batch run can fail one patch and continue with the rest.
func Load(fs types.FS, path string) (*Document, error) {
	logger := logging.GetLogger("recipe")

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRecipeParse, "failed to read recipe %s", path)
	}

	var raw []rawPatch
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRecipeParse, "failed to parse recipe %s", path)
	}

	doc := &Document{}
	for i, rp := range raw {
		patch, err := rp.build()
		if err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("recipe contains an invalid patch")
		}
		doc.Entries = append(doc.Entries, Entry{Patch: patch, Err: err})
	}

	logger.Debug().Str("path", path).Int("patches", len(doc.Entries)).Msg("recipe loaded")
	return doc, nil
}

// rawPatch mirrors the document shape before validation.
type rawPatch struct {
	Title       string    `yaml:"title"`
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Boards      []string  `yaml:"boards"`
	Tasks       []rawTask `yaml:"tasks"`
}

// rawTask is the "one object, many optional kinds" shape a task has on
// disk. It normalizes into the Step union, in canonical kind order within
// one task object: download, extract, alert, executable, command, reboot.
type rawTask struct {
	Download   []rawFileSpec       `yaml:"download"`
	Extract    []rawExtractSpec    `yaml:"extract"`
	Alert      stringOrList        `yaml:"alert"`
	Executable []rawExecutableSpec `yaml:"executable"`
	Command    stringOrList        `yaml:"command"`
	Reboot     bool                `yaml:"reboot"`
}

type rawFileSpec struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Move        bool   `yaml:"move"`
	GithubPath  string `yaml:"github_path"`
	Ignore      string `yaml:"ignore"`
}

type rawExtractSpec struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

type rawExecutableSpec struct {
	Path string `yaml:"path"`
}

// stringOrList accepts either a scalar string or a sequence of strings.
type stringOrList []string

func (s *stringOrList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = []string{v}
		return nil
	case yaml.SequenceNode:
		var v []string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = v
		return nil
	default:
		return fmt.Errorf("expected string or list of strings, got yaml kind %d", node.Kind)
	}
}

// build validates the raw patch and produces the typed model. All
// structural errors for the patch are reported together.
func (rp rawPatch) build() (*types.Patch, error) {
	patch := &types.Patch{
		Title:       rp.Title,
		ID:          rp.ID,
		Description: rp.Description,
		Boards:      rp.Boards,
	}

	var problems []string
	if strings.TrimSpace(rp.Title) == "" {
		problems = append(problems, "patch has no title")
	}

	for ti, rt := range rp.Tasks {
		task, errs := rt.build()
		for _, e := range errs {
			problems = append(problems, fmt.Sprintf("task %d: %s", ti+1, e))
		}
		patch.Tasks = append(patch.Tasks, task)
	}

	if len(problems) > 0 {
		return patch, errors.Newf(errors.ErrRecipeInvalid, "%s", strings.Join(problems, "; "))
	}
	return patch, nil
}

func (rt rawTask) build() (types.Task, []string) {
	var task types.Task
	var problems []string

	if len(rt.Download) > 0 {
		var files []types.FileSpec
		for i, f := range rt.Download {
			if f.Source == "" {
				problems = append(problems, fmt.Sprintf("download %d: missing source", i+1))
			}
			if f.Destination == "" {
				problems = append(problems, fmt.Sprintf("download %d: missing destination", i+1))
			}
			files = append(files, types.FileSpec{
				Source:      f.Source,
				Destination: f.Destination,
				Move:        f.Move,
				GithubPath:  f.GithubPath,
				Ignore:      f.Ignore,
			})
		}
		task.Steps = append(task.Steps, types.DownloadStep{Files: files})
	}

	if len(rt.Extract) > 0 {
		var archives []types.ExtractSpec
		for i, e := range rt.Extract {
			if e.Source == "" {
				problems = append(problems, fmt.Sprintf("extract %d: missing source", i+1))
			}
			if e.Destination == "" {
				problems = append(problems, fmt.Sprintf("extract %d: missing destination", i+1))
			}
			archives = append(archives, types.ExtractSpec{Source: e.Source, Destination: e.Destination})
		}
		task.Steps = append(task.Steps, types.ExtractStep{Archives: archives})
	}

	for _, msg := range rt.Alert {
		task.Steps = append(task.Steps, types.AlertStep{Message: msg})
	}

	if len(rt.Executable) > 0 {
		var files []types.ExecutableSpec
		for i, e := range rt.Executable {
			if e.Path == "" {
				problems = append(problems, fmt.Sprintf("executable %d: missing path", i+1))
			}
			files = append(files, types.ExecutableSpec{Path: e.Path})
		}
		task.Steps = append(task.Steps, types.ExecutableStep{Files: files})
	}

	for _, cmd := range rt.Command {
		task.Steps = append(task.Steps, types.CommandStep{Command: cmd})
	}

	if rt.Reboot {
		task.Steps = append(task.Steps, types.RebootStep{})
	}

	return task, problems
}
