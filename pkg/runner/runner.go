// Package runner drives whole recipe runs: load the document, select one
// patch or all of them, gate each through board compatibility, and hand
// them to the engine one at a time.
package runner

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rgpatch/pkg/board"
	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/arthur-debert/rgpatch/pkg/engine"
	"github.com/arthur-debert/rgpatch/pkg/filesystem"
	"github.com/arthur-debert/rgpatch/pkg/logging"
	"github.com/arthur-debert/rgpatch/pkg/recipe"
	"github.com/arthur-debert/rgpatch/pkg/types"
)

// Options configures one recipe run.
type Options struct {
	// RecipePath is the recipe document to process.
	RecipePath string

	// PatchID selects a single patch by exact id match. Empty processes
	// every patch in document order.
	PatchID string

	// Mode is validate, dry-run or live.
	Mode types.Mode

	// Interactive enables operator prompts through UI.
	Interactive bool

	// UI is the presentation-layer collaborator. May be nil when
	// Interactive is false.
	UI types.UI

	// FS defaults to the OS filesystem.
	FS types.FS

	// Config defaults to the loaded configuration.
	Config *config.Config

	// Board overrides detection; empty means detect.
	Board string

	// Engine overrides the default engine (useful for testing).
	Engine *engine.Engine
}

// Process runs a recipe and returns the aggregated outcome.
//
// A document parse failure fails the whole run immediately. Individual
// patch failures abort that patch's remaining tasks but the batch moves on
// to the next patch. The aggregate OK reflects the last patch processed,
// matching the tool's historical behavior.
func Process(opts Options) *types.BatchResult {
	logger := logging.GetLogger("runner")

	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load configuration, using built-in defaults")
			cfg = config.Default()
		}
		opts.Config = cfg
	}
	if opts.Mode == "" {
		opts.Mode = types.ModeLive
	}
	if opts.Board == "" {
		opts.Board = board.Detect(opts.Config)
	}
	if opts.Engine == nil {
		opts.Engine = engine.New(opts.FS, opts.Config)
	}

	doc, err := recipe.Load(opts.FS, opts.RecipePath)
	if err != nil {
		logger.Error().Err(err).Str("recipe", opts.RecipePath).Msg("recipe failed to load")
		return &types.BatchResult{OK: false, Message: err.Error()}
	}

	entries := doc.Entries
	if opts.PatchID != "" {
		entry := doc.Find(opts.PatchID)
		if entry == nil {
			logger.Error().Str("patch", opts.PatchID).Msg("no such patch in recipe")
			return &types.BatchResult{OK: false, Message: "No patch found"}
		}
		entries = []recipe.Entry{*entry}
	}

	if len(entries) == 0 {
		return &types.BatchResult{OK: true, Message: "No patches in recipe"}
	}

	// A live install is gated by a full validate pass first.
	if opts.Mode == types.ModeLive {
		preflight := opts
		preflight.Mode = types.ModeValidate
		preflight.Interactive = false
		pre := processEntries(entries, preflight, logger)
		if !pre.OK {
			pre.Message = "Validation failed:\n" + pre.Message
			return pre
		}
	}

	return processEntries(entries, opts, logger)
}

func processEntries(entries []recipe.Entry, opts Options, logger zerolog.Logger) *types.BatchResult {
	batch := &types.BatchResult{}
	var messages []string

	for _, entry := range entries {
		result := processEntry(entry, opts, logger)
		batch.Patches = append(batch.Patches, result)
		messages = append(messages, result.Message)

		// Last result wins. A skipped or failed patch earlier in the batch
		// does not taint the aggregate.
		batch.OK = result.OK()

		if result.Terminal {
			break
		}
	}

	batch.Message = strings.Join(messages, "\n")
	return batch
}

func processEntry(entry recipe.Entry, opts Options, logger zerolog.Logger) *types.PatchResult {
	patch := entry.Patch
	title := patch.Title
	if title == "" {
		title = "(untitled)"
	}

	// Structural problems fail the patch before any action is taken.
	if entry.Err != nil {
		logger.Error().Err(entry.Err).Str("patch", title).Msg("patch is structurally invalid")
		return &types.PatchResult{
			Patch:   patch,
			Status:  types.PatchFailed,
			Message: fmt.Sprintf("Patch '%s' invalid: %v", title, entry.Err),
		}
	}

	if !types.IsCompatible(patch, opts.Board) {
		logger.Warn().Str("patch", title).Str("board", opts.Board).Msg("patch is not compatible with this board")
		return &types.PatchResult{
			Patch:   patch,
			Status:  types.PatchSkipped,
			Message: fmt.Sprintf("Patch '%s' skipped: not compatible with board '%s'", title, opts.Board),
		}
	}

	ectx := &types.ExecutionContext{
		Board:       opts.Board,
		Mode:        opts.Mode,
		Interactive: opts.Interactive,
		UI:          opts.UI,
	}

	// The top-level install confirmation. Only a live run asks; validate
	// and dry-run never touch the device.
	if opts.Mode == types.ModeLive {
		if !ectx.Confirm(fmt.Sprintf("Apply patch '%s'?", title), true) {
			return &types.PatchResult{
				Patch:   patch,
				Status:  types.PatchSkipped,
				Message: fmt.Sprintf("Patch '%s' skipped: declined by operator", title),
			}
		}
	}

	return opts.Engine.Run(patch, ectx)
}
