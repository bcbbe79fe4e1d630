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

func newApplyCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "apply [patch-id]",
		Short: MsgApplyShort,
		Long:  MsgApplyLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.apply")

			mode := types.ModeLive
			if flags.dryRun {
				mode = types.ModeDryRun
			}

			var patchID string
			if len(args) == 1 {
				patchID = args[0]
			}

			interactive := ui.IsInteractive() && !flags.assumeYes
			logger.Info().
				Str("recipe", flags.recipePath).
				Str("patch", patchID).
				Str("mode", string(mode)).
				Bool("interactive", interactive).
				Msg("Starting apply")

			batch := runner.Process(runner.Options{
				RecipePath:  flags.recipePath,
				PatchID:     patchID,
				Mode:        mode,
				Interactive: interactive,
				UI:          ui.NewConsole(),
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
				return fmt.Errorf("apply failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}
