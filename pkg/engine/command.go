package engine

import (
	"bytes"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rgpatch/pkg/errors"
	"github.com/arthur-debert/rgpatch/pkg/logging"
)

// commandRunner runs recipe command strings through the host shell with
// captured output. Commands are best effort: a non-zero exit is reported
// to the caller but the caller decides it is not fatal.
type commandRunner struct {
	shell  string
	logger zerolog.Logger
}

func newCommandRunner(shell string) *commandRunner {
	if shell == "" {
		shell = "sh"
	}
	return &commandRunner{
		shell:  shell,
		logger: logging.GetLogger("engine.command"),
	}
}

// Run executes one shell command, logging captured stdout at debug level
// and stderr at error level.
func (r *commandRunner) Run(command string) error {
	r.logger.Info().Str("command", command).Msg("Executing command")

	cmd := exec.Command(r.shell, "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if stdout.Len() > 0 {
		r.logger.Debug().Str("output", stdout.String()).Msg("Command stdout")
	}
	if stderr.Len() > 0 {
		r.logger.Error().Str("output", stderr.String()).Msg("Command stderr")
	}

	if err != nil {
		r.logger.Error().Err(err).Str("command", command).Msg("Command exited with an error")
		return errors.Wrapf(err, errors.ErrCommandExec, "command failed: %s", command)
	}

	r.logger.Debug().Str("command", command).Msg("Command executed successfully")
	return nil
}
