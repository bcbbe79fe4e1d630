package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/arthur-debert/rgpatch/pkg/fetch"
	"github.com/arthur-debert/rgpatch/pkg/filesystem"
	"github.com/arthur-debert/rgpatch/pkg/testutil"
	"github.com/arthur-debert/rgpatch/pkg/types"
)

// testEngine wires an engine to an in-memory filesystem, a probe that
// always succeeds and a recorded reboot.
func testEngine(t *testing.T) (*Engine, types.FS, *[]string) {
	t.Helper()

	fs := filesystem.NewMemoryFS()
	cfg := config.Default()

	var reboots []string
	e := New(fs, cfg).
		WithClientFactory(func(dryRun bool) *fetch.Client {
			c := fetch.NewClient(fs, cfg, dryRun)
			c.SetProbe(func(address string, timeout time.Duration) error { return nil })
			return c
		}).
		WithReboot(func(argv []string) error {
			reboots = append(reboots, argv[0])
			return nil
		})
	return e, fs, &reboots
}

func ectx(mode types.Mode) *types.ExecutionContext {
	return &types.ExecutionContext{Board: "rg40xx", Mode: mode}
}

func interactiveEctx(mode types.Mode, ui types.UI) *types.ExecutionContext {
	return &types.ExecutionContext{Board: "rg40xx", Mode: mode, Interactive: true, UI: ui}
}

func TestRunDownloadLocal(t *testing.T) {
	e, fs, _ := testEngine(t)
	require.NoError(t, fs.WriteFile("/src/data.bin", []byte("payload"), 0644))

	patch := &types.Patch{
		Title: "copy",
		Tasks: []types.Task{{Steps: []types.Step{
			types.DownloadStep{Files: []types.FileSpec{{Source: "/src/data.bin", Destination: "/dest"}}},
		}}},
	}

	result := e.Run(patch, ectx(types.ModeLive))
	assert.Equal(t, types.PatchSucceeded, result.Status)
	assert.Equal(t, "Patch 'copy' complete", result.Message)

	_, err := fs.Stat("/dest/data.bin")
	assert.NoError(t, err)
}

func TestRunDownloadMissingSourceFailsPatch(t *testing.T) {
	e, _, _ := testEngine(t)

	patch := &types.Patch{
		Title: "broken",
		Tasks: []types.Task{{Steps: []types.Step{
			types.DownloadStep{Files: []types.FileSpec{{Source: "/src/absent.bin", Destination: "/dest"}}},
			types.CommandStep{Command: "sync"},
		}}},
	}

	result := e.Run(patch, ectx(types.ModeValidate))
	assert.Equal(t, types.PatchFailed, result.Status)
	assert.Contains(t, result.Message, "Patch 'broken' failed")

	// The failed step halts the rest of the patch.
	require.Len(t, result.Steps, 1)
	assert.Equal(t, types.StepFailed, result.Steps[0].Status)
}

func TestRunExtract(t *testing.T) {
	e, fs, _ := testEngine(t)
	data := testutil.ZipBytes(t, map[string]string{"a.txt": "a"})
	require.NoError(t, fs.WriteFile("/patches/pkg.zip", data, 0644))

	patch := &types.Patch{
		Title: "unpack",
		Tasks: []types.Task{{Steps: []types.Step{
			types.ExtractStep{Archives: []types.ExtractSpec{{Source: "/patches/pkg.zip", Destination: "/files"}}},
		}}},
	}

	result := e.Run(patch, ectx(types.ModeLive))
	assert.Equal(t, types.PatchSucceeded, result.Status)

	_, err := fs.Stat("/files/a.txt")
	assert.NoError(t, err)
}

func TestRunExtractModes(t *testing.T) {
	t.Run("validate skips extraction entirely", func(t *testing.T) {
		e, fs, _ := testEngine(t)
		data := testutil.ZipBytes(t, map[string]string{"a.txt": "a"})
		require.NoError(t, fs.WriteFile("/patches/pkg.zip", data, 0644))

		patch := &types.Patch{
			Title: "unpack",
			Tasks: []types.Task{{Steps: []types.Step{
				types.ExtractStep{Archives: []types.ExtractSpec{{Source: "/patches/pkg.zip", Destination: "/files"}}},
			}}},
		}

		result := e.Run(patch, ectx(types.ModeValidate))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		require.Len(t, result.Steps, 1)
		assert.Equal(t, types.StepSkipped, result.Steps[0].Status)

		_, err := fs.Stat("/files/a.txt")
		assert.Error(t, err)
	})

	t.Run("missing archive is a skipped step, not a failure", func(t *testing.T) {
		e, _, _ := testEngine(t)

		patch := &types.Patch{
			Title: "rerun",
			Tasks: []types.Task{{Steps: []types.Step{
				types.ExtractStep{Archives: []types.ExtractSpec{{Source: "/patches/gone.zip", Destination: "/files"}}},
			}}},
		}

		result := e.Run(patch, ectx(types.ModeLive))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		require.Len(t, result.Steps, 1)
		assert.Equal(t, types.StepSkipped, result.Steps[0].Status)
		assert.Equal(t, "no archive to extract", result.Steps[0].Message)
	})
}

func TestRunAlert(t *testing.T) {
	t.Run("acknowledged alert continues", func(t *testing.T) {
		e, _, _ := testEngine(t)
		ui := testutil.NewMockUI()

		patch := &types.Patch{
			Title: "warned",
			Tasks: []types.Task{{Steps: []types.Step{
				types.AlertStep{Message: "about to change things"},
				types.CommandStep{Command: "true"},
			}}},
		}

		result := e.Run(patch, interactiveEctx(types.ModeLive, ui))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		assert.Equal(t, []string{"about to change things"}, ui.Notifications)
		assert.Equal(t, []string{"Continue?"}, ui.Confirms)
	})

	t.Run("declined alert fails the patch", func(t *testing.T) {
		e, _, _ := testEngine(t)
		ui := &testutil.MockUI{ConfirmAnswers: []bool{false}}

		patch := &types.Patch{
			Title: "warned",
			Tasks: []types.Task{{Steps: []types.Step{
				types.AlertStep{Message: "about to change things"},
				types.CommandStep{Command: "true"},
			}}},
		}

		result := e.Run(patch, interactiveEctx(types.ModeLive, ui))
		assert.Equal(t, types.PatchFailed, result.Status)
		assert.Contains(t, result.Message, "cancelled by operator")
		require.Len(t, result.Steps, 1)
	})

	t.Run("validate never prompts", func(t *testing.T) {
		e, _, _ := testEngine(t)
		ui := &testutil.MockUI{ConfirmAnswers: []bool{false}}

		patch := &types.Patch{
			Title: "warned",
			Tasks: []types.Task{{Steps: []types.Step{
				types.AlertStep{Message: "about to change things"},
			}}},
		}

		result := e.Run(patch, interactiveEctx(types.ModeValidate, ui))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		assert.Empty(t, ui.Confirms)
		assert.Empty(t, ui.Notifications)
	})
}

func TestRunExecutable(t *testing.T) {
	t.Run("live chmods the file", func(t *testing.T) {
		e, fs, _ := testEngine(t)
		require.NoError(t, fs.WriteFile("/files/run.sh", []byte("#!/bin/sh"), 0644))

		patch := &types.Patch{
			Title: "perms",
			Tasks: []types.Task{{Steps: []types.Step{
				types.ExecutableStep{Files: []types.ExecutableSpec{{Path: "/files/run.sh"}}},
			}}},
		}

		result := e.Run(patch, ectx(types.ModeLive))
		assert.Equal(t, types.PatchSucceeded, result.Status)

		info, err := fs.Stat("/files/run.sh")
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0111)
	})

	t.Run("live fails on a missing file", func(t *testing.T) {
		e, _, _ := testEngine(t)

		patch := &types.Patch{
			Title: "perms",
			Tasks: []types.Task{{Steps: []types.Step{
				types.ExecutableStep{Files: []types.ExecutableSpec{{Path: "/files/absent.sh"}}},
			}}},
		}

		result := e.Run(patch, ectx(types.ModeLive))
		assert.Equal(t, types.PatchFailed, result.Status)
	})

	t.Run("dry-run touches nothing", func(t *testing.T) {
		e, fs, _ := testEngine(t)
		require.NoError(t, fs.WriteFile("/files/run.sh", []byte("#!/bin/sh"), 0644))

		patch := &types.Patch{
			Title: "perms",
			Tasks: []types.Task{{Steps: []types.Step{
				types.ExecutableStep{Files: []types.ExecutableSpec{{Path: "/files/run.sh"}}},
			}}},
		}

		result := e.Run(patch, ectx(types.ModeDryRun))
		assert.Equal(t, types.PatchSucceeded, result.Status)

		info, err := fs.Stat("/files/run.sh")
		require.NoError(t, err)
		assert.Zero(t, info.Mode()&0111)
	})
}

func TestRunCommand(t *testing.T) {
	t.Run("non-zero exit does not fail the patch", func(t *testing.T) {
		e, _, _ := testEngine(t)

		patch := &types.Patch{
			Title: "besteffort",
			Tasks: []types.Task{{Steps: []types.Step{
				types.CommandStep{Command: "exit 3"},
			}}},
		}

		result := e.Run(patch, ectx(types.ModeLive))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		require.Len(t, result.Steps, 1)
		assert.Equal(t, types.StepSucceeded, result.Steps[0].Status)
		assert.Equal(t, "command exited with an error (ignored)", result.Steps[0].Message)
	})

	t.Run("dry-run does not execute", func(t *testing.T) {
		e, _, _ := testEngine(t)
		marker := t.TempDir() + "/touched"

		patch := &types.Patch{
			Title: "dry",
			Tasks: []types.Task{{Steps: []types.Step{
				types.CommandStep{Command: "touch " + marker},
			}}},
		}

		result := e.Run(patch, ectx(types.ModeDryRun))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		assert.NoFileExists(t, marker)
	})

	t.Run("validate skips", func(t *testing.T) {
		e, _, _ := testEngine(t)

		patch := &types.Patch{
			Title: "validated",
			Tasks: []types.Task{{Steps: []types.Step{
				types.CommandStep{Command: "exit 1"},
			}}},
		}

		result := e.Run(patch, ectx(types.ModeValidate))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		require.Len(t, result.Steps, 1)
		assert.Equal(t, types.StepSkipped, result.Steps[0].Status)
	})
}

func TestRunReboot(t *testing.T) {
	t.Run("live reboot is terminal", func(t *testing.T) {
		e, _, reboots := testEngine(t)

		patch := &types.Patch{
			Title: "restart",
			Tasks: []types.Task{
				{Steps: []types.Step{types.RebootStep{}}},
				{Steps: []types.Step{types.CommandStep{Command: "true"}}},
			},
		}

		result := e.Run(patch, ectx(types.ModeLive))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		assert.True(t, result.Terminal)
		assert.Equal(t, []string{"reboot"}, *reboots)

		// Steps after the reboot never run.
		require.Len(t, result.Steps, 1)
		assert.Equal(t, "reboot issued", result.Steps[0].Message)
	})

	t.Run("declined reboot is skipped, not failed", func(t *testing.T) {
		e, _, reboots := testEngine(t)
		ui := &testutil.MockUI{ConfirmAnswers: []bool{false}}

		patch := &types.Patch{
			Title: "restart",
			Tasks: []types.Task{{Steps: []types.Step{types.RebootStep{}}}},
		}

		result := e.Run(patch, interactiveEctx(types.ModeLive, ui))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		assert.False(t, result.Terminal)
		assert.Empty(t, *reboots)
	})

	t.Run("dry-run reboot is reported but not terminal", func(t *testing.T) {
		e, _, reboots := testEngine(t)

		patch := &types.Patch{
			Title: "restart",
			Tasks: []types.Task{
				{Steps: []types.Step{types.RebootStep{}}},
				{Steps: []types.Step{types.CommandStep{Command: "true"}}},
			},
		}

		result := e.Run(patch, ectx(types.ModeDryRun))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		assert.False(t, result.Terminal)
		assert.Empty(t, *reboots)
		// The plan shows everything, including the step after the reboot.
		assert.Len(t, result.Steps, 2)
	})

	t.Run("failed reboot fails the patch", func(t *testing.T) {
		e, _, _ := testEngine(t)
		e.WithReboot(func(argv []string) error { return fmt.Errorf("no permission") })

		patch := &types.Patch{
			Title: "restart",
			Tasks: []types.Task{{Steps: []types.Step{types.RebootStep{}}}},
		}

		result := e.Run(patch, ectx(types.ModeLive))
		assert.Equal(t, types.PatchFailed, result.Status)
		assert.Contains(t, result.Message, "reboot failed")
	})

	t.Run("validate skips the reboot", func(t *testing.T) {
		e, _, reboots := testEngine(t)

		patch := &types.Patch{
			Title: "restart",
			Tasks: []types.Task{{Steps: []types.Step{types.RebootStep{}}}},
		}

		result := e.Run(patch, ectx(types.ModeValidate))
		assert.Equal(t, types.PatchSucceeded, result.Status)
		assert.False(t, result.Terminal)
		assert.Empty(t, *reboots)
	})
}

func TestCommandRunner(t *testing.T) {
	r := newCommandRunner("")
	assert.Equal(t, "sh", r.shell)

	assert.NoError(t, r.Run("true"))
	assert.Error(t, r.Run("exit 2"))
}
