package ui

import (
	"github.com/pterm/pterm"

	"github.com/arthur-debert/rgpatch/pkg/logging"
)

// Console implements types.UI for terminal sessions. On the device the
// menu shell provides its own implementation; this one serves SSH and
// development use.
type Console struct{}

// NewConsole creates a console UI.
func NewConsole() *Console {
	return &Console{}
}

// Confirm asks a yes/no question with the given default answer.
func (c *Console) Confirm(message string, def bool) bool {
	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(def).
		Show(message)
	if err != nil {
		logger := logging.GetLogger("ui.console")
		logger.Warn().Err(err).Msg("confirmation prompt failed, using default answer")
		return def
	}
	return result
}

// Notify shows an informational message.
func (c *Console) Notify(message string) {
	pterm.Info.Println(message)
}
