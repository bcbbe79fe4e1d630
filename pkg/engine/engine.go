// Package engine interprets a patch's task list.
//
// The engine walks tasks strictly in document order, dispatches each step
// kind, and enforces the three execution modes. The first failed step
// halts the remaining steps of that patch; a successfully issued reboot
// makes the whole run terminal. There is no internal parallelism: later
// steps assume the filesystem effects of earlier ones.
package engine

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rgpatch/pkg/archive"
	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/arthur-debert/rgpatch/pkg/fetch"
	"github.com/arthur-debert/rgpatch/pkg/logging"
	"github.com/arthur-debert/rgpatch/pkg/types"
)

// Engine interprets patches.
type Engine struct {
	fs     types.FS
	cfg    *config.Config
	logger zerolog.Logger

	// newClient builds the asset resolver for one run. Tests swap this to
	// inject HTTP and probe doubles.
	newClient func(dryRun bool) *fetch.Client

	// reboot issues the host reboot request. Tests swap this out.
	reboot func(argv []string) error
}

// New creates an engine bound to a filesystem and configuration.
func New(fs types.FS, cfg *config.Config) *Engine {
	return &Engine{
		fs:     fs,
		cfg:    cfg,
		logger: logging.GetLogger("engine"),
		newClient: func(dryRun bool) *fetch.Client {
			return fetch.NewClient(fs, cfg, dryRun)
		},
		reboot: func(argv []string) error {
			return exec.Command(argv[0], argv[1:]...).Run()
		},
	}
}

// WithClientFactory sets a custom resolver factory (useful for testing).
func (e *Engine) WithClientFactory(f func(dryRun bool) *fetch.Client) *Engine {
	e.newClient = f
	return e
}

// WithReboot sets a custom reboot function (useful for testing).
func (e *Engine) WithReboot(f func(argv []string) error) *Engine {
	e.reboot = f
	return e
}

// Run processes one patch under the given execution context and returns
// its aggregated result. It never returns an error: every failure is
// recorded on the result with a human-readable message.
func (e *Engine) Run(patch *types.Patch, ectx *types.ExecutionContext) *types.PatchResult {
	result := &types.PatchResult{Patch: patch, StartTime: time.Now()}

	e.logger.Info().
		Str("patch", patch.Title).
		Str("board", ectx.Board).
		Str("mode", string(ectx.Mode)).
		Bool("interactive", ectx.Interactive).
		Msg("processing patch")

	client := e.newClient(!ectx.Mode.WritesAllowed())
	runner := newCommandRunner(e.cfg.Host.Shell)

steps:
	for _, task := range patch.Tasks {
		for _, step := range task.Steps {
			sr := e.runStep(step, ectx, client, runner)
			result.AddStep(sr)

			if sr.Status == types.StepFailed {
				result.Status = types.PatchFailed
				result.Message = fmt.Sprintf("Patch '%s' failed: %s", patch.Title, sr.Message)
				break steps
			}

			// A live reboot makes the rest of the process unreachable.
			if sr.Kind == types.StepKindReboot && sr.Status == types.StepSucceeded && ectx.Mode == types.ModeLive {
				result.Terminal = true
				break steps
			}
		}
	}

	result.Complete()
	if result.Message == "" {
		result.Message = fmt.Sprintf("Patch '%s' complete", patch.Title)
	}

	e.logger.Info().
		Str("patch", patch.Title).
		Str("status", string(result.Status)).
		Dur("duration", result.EndTime.Sub(result.StartTime)).
		Msg("patch processed")
	return result
}

// runStep dispatches one step. Every step kind is a case here; a new kind
// without a case falls into the final failure branch instead of silently
// passing.
func (e *Engine) runStep(step types.Step, ectx *types.ExecutionContext, client *fetch.Client, runner *commandRunner) types.StepResult {
	sr := types.StepResult{
		Kind:   step.Kind(),
		Label:  step.Describe(),
		Status: types.StepRunning,
	}
	start := time.Now()

	e.logger.Debug().Str("step", sr.Label).Str("mode", string(ectx.Mode)).Msg("step started")

	switch s := step.(type) {
	case types.DownloadStep:
		e.runDownload(s, client, &sr)
	case types.ExtractStep:
		e.runExtract(s, ectx, &sr)
	case types.AlertStep:
		e.runAlert(s, ectx, &sr)
	case types.ExecutableStep:
		e.runExecutable(s, ectx, &sr)
	case types.CommandStep:
		e.runCommand(s, ectx, runner, &sr)
	case types.RebootStep:
		e.runReboot(ectx, &sr)
	default:
		sr.Status = types.StepFailed
		sr.Message = fmt.Sprintf("unhandled step kind %q", step.Kind())
	}

	sr.Duration = time.Since(start)
	e.logger.Debug().
		Str("step", sr.Label).
		Str("status", string(sr.Status)).
		Dur("duration", sr.Duration).
		Msg("step finished")
	return sr
}

func (e *Engine) runDownload(s types.DownloadStep, client *fetch.Client, sr *types.StepResult) {
	for _, spec := range s.Files {
		var err error
		if fetch.IsURL(spec.Source) && fetch.IsRepoURL(spec.Source) {
			err = client.FetchTree(spec)
		} else {
			err = client.FetchFile(spec)
		}
		if err != nil {
			sr.Status = types.StepFailed
			sr.Message = err.Error()
			sr.Err = err
			return
		}
	}
	sr.Status = types.StepSucceeded
}

func (e *Engine) runExtract(s types.ExtractStep, ectx *types.ExecutionContext, sr *types.StepResult) {
	if ectx.Mode == types.ModeValidate {
		// Extraction has no side-effect-free form worth exercising beyond
		// the existence check already covered at download time.
		sr.Status = types.StepSkipped
		sr.Message = "extraction not exercised in validate mode"
		return
	}

	extracted := 0
	for _, spec := range s.Archives {
		outcome, err := archive.Extract(e.fs, spec.Source, spec.Destination, !ectx.Mode.WritesAllowed())
		if err != nil {
			sr.Status = types.StepFailed
			sr.Message = err.Error()
			sr.Err = err
			return
		}
		if outcome == archive.OutcomeExtracted {
			extracted++
		}
	}

	if extracted == 0 {
		sr.Status = types.StepSkipped
		sr.Message = "no archive to extract"
		return
	}
	sr.Status = types.StepSucceeded
}

func (e *Engine) runAlert(s types.AlertStep, ectx *types.ExecutionContext, sr *types.StepResult) {
	e.logger.Info().Str("message", s.Message).Msg("alert")

	if ectx.Mode == types.ModeValidate {
		// Validate never blocks on the operator.
		sr.Status = types.StepSucceeded
		return
	}

	ectx.Notify(s.Message)
	if !ectx.Confirm("Continue?", true) {
		sr.Status = types.StepFailed
		sr.Message = "cancelled by operator"
		return
	}
	sr.Status = types.StepSucceeded
}

func (e *Engine) runExecutable(s types.ExecutableStep, ectx *types.ExecutionContext, sr *types.StepResult) {
	if ectx.Mode == types.ModeValidate {
		sr.Status = types.StepSkipped
		sr.Message = "permissions not exercised in validate mode"
		return
	}

	for _, spec := range s.Files {
		if ectx.Mode == types.ModeDryRun {
			e.logger.Info().Str("path", spec.Path).Msg("would mark executable")
			continue
		}

		info, err := e.fs.Stat(spec.Path)
		if err != nil {
			sr.Status = types.StepFailed
			sr.Message = fmt.Sprintf("cannot mark %s executable: %v", spec.Path, err)
			sr.Err = err
			return
		}
		if err := e.fs.Chmod(spec.Path, info.Mode().Perm()|0111); err != nil {
			sr.Status = types.StepFailed
			sr.Message = fmt.Sprintf("chmod %s failed: %v", spec.Path, err)
			sr.Err = err
			return
		}
		e.logger.Info().Str("path", spec.Path).Msg("marked executable")
	}
	sr.Status = types.StepSucceeded
}

func (e *Engine) runCommand(s types.CommandStep, ectx *types.ExecutionContext, runner *commandRunner, sr *types.StepResult) {
	switch ectx.Mode {
	case types.ModeValidate:
		sr.Status = types.StepSkipped
		sr.Message = "commands not exercised in validate mode"
	case types.ModeDryRun:
		e.logger.Info().Str("command", s.Command).Msg("would run command")
		sr.Status = types.StepSucceeded
	default:
		// Commands are best effort: a non-zero exit is logged by the
		// runner but never fails the patch.
		if err := runner.Run(s.Command); err != nil {
			sr.Message = "command exited with an error (ignored)"
		}
		sr.Status = types.StepSucceeded
	}
}

func (e *Engine) runReboot(ectx *types.ExecutionContext, sr *types.StepResult) {
	if ectx.Mode == types.ModeValidate {
		sr.Status = types.StepSkipped
		sr.Message = "reboot not exercised in validate mode"
		return
	}

	if !ectx.Confirm("Reboot the device now?", true) {
		sr.Status = types.StepSkipped
		sr.Message = "reboot declined"
		return
	}

	if ectx.Mode == types.ModeDryRun {
		e.logger.Info().Msg("would reboot the device")
		sr.Status = types.StepSucceeded
		return
	}

	argv := e.cfg.Host.RebootCommand
	if len(argv) == 0 {
		argv = []string{"reboot"}
	}
	e.logger.Info().Strs("command", argv).Msg("rebooting the device")
	if err := e.reboot(argv); err != nil {
		sr.Status = types.StepFailed
		sr.Message = fmt.Sprintf("reboot failed: %v", err)
		sr.Err = err
		return
	}

	sr.Status = types.StepSucceeded
	sr.Message = "reboot issued"
}
