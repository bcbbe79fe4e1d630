package types

import "fmt"

// Mode selects how much of a patch's side effects are actually performed.
type Mode string

const (
	// ModeValidate runs every structural check without touching the host:
	// no writes, no commands, no operator interaction. It is the pre-flight
	// gate run before any live install.
	ModeValidate Mode = "validate"

	// ModeDryRun simulates a live run: read-only steps (existence checks,
	// network probe, tree enumeration) are performed, writes and command
	// execution are logged but suppressed.
	ModeDryRun Mode = "dry-run"

	// ModeLive performs the full, largely irreversible installation.
	ModeLive Mode = "live"
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeValidate, ModeDryRun, ModeLive:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}

// WritesAllowed reports whether this mode may materialize bytes on disk.
func (m Mode) WritesAllowed() bool {
	return m == ModeLive
}
