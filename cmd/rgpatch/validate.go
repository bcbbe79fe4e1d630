package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/rgpatch/pkg/logging"
	"github.com/arthur-debert/rgpatch/pkg/runner"
	"github.com/arthur-debert/rgpatch/pkg/types"
	"github.com/arthur-debert/rgpatch/pkg/ui"
	"github.com/spf13/cobra"
)

func newValidateCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate [patch-id]",
		Short: MsgValidateShort,
		Long:  MsgValidateLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.validate")

			var patchID string
			if len(args) == 1 {
				patchID = args[0]
			}

			logger.Info().Str("recipe", flags.recipePath).Msg("Validating recipe")

			batch := runner.Process(runner.Options{
				RecipePath: flags.recipePath,
				PatchID:    patchID,
				Mode:       types.ModeValidate,
			})

			f, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == ui.FormatAuto {
				f = ui.DetectFormat(os.Stdout)
			}
			cmd.Print(ui.RenderBatch(batch, f))

			if !batch.OK {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}
