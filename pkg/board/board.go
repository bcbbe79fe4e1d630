// Package board identifies the device rgpatch is running on.
package board

import (
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/arthur-debert/rgpatch/pkg/logging"
	"github.com/arthur-debert/rgpatch/pkg/types"
)

// Detect queries the host for its board identifier and normalizes it to
// lower case.
//
// Detection failures never propagate as errors. When the query command is
// absent, fails, or prints nothing, the outcome depends on whether the
// host looks like an RG device at all: off-device (the marker path does
// not exist) the configured fallback board is assumed, so recipes remain
// exercisable in development and test harnesses; on-device the identifier
// is genuinely unknown and types.BoardUnknown is returned, which fails
// closed against any board-constrained patch.
func Detect(cfg *config.Config) string {
	logger := logging.GetLogger("board")

	argv := cfg.Board.Command
	if len(argv) == 0 {
		logger.Warn().Msg("no board command configured")
		return fallback(cfg, logger)
	}

	out, err := exec.Command(argv[0], argv[1:]...).Output()
	if err != nil {
		logger.Warn().Err(err).Strs("command", argv).Msg("board query failed")
		return fallback(cfg, logger)
	}

	id := strings.ToLower(strings.TrimSpace(string(out)))
	if id == "" {
		logger.Warn().Strs("command", argv).Msg("board query returned empty output")
		return fallback(cfg, logger)
	}

	logger.Debug().Str("board", id).Msg("board detected")
	return id
}

// fallback decides between the configured fallback board and BoardUnknown
// after a failed query. The marker path exists only on the target device
// family; when it is present the query should have worked, so the board is
// truly unknown.
func fallback(cfg *config.Config, logger zerolog.Logger) string {
	if cfg.Board.Marker != "" {
		if _, err := os.Stat(cfg.Board.Marker); err == nil {
			logger.Warn().Str("marker", cfg.Board.Marker).Msg("on-device but board query failed")
			return types.BoardUnknown
		}
	}
	if cfg.Board.Fallback == "" {
		return types.BoardUnknown
	}
	logger.Info().Str("board", cfg.Board.Fallback).Msg("not an RG device, assuming fallback board")
	return cfg.Board.Fallback
}
