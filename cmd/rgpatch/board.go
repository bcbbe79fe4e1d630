package main

import (
	"github.com/arthur-debert/rgpatch/pkg/board"
	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/spf13/cobra"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: MsgBoardShort,
		Long: `Board prints the identifier rgpatch detected for this device, e.g.
"rg40xx" or "rg35xx-h". Patches are matched against this value. When the
board cannot be read and no fallback applies, "unknown" is printed and
every patch with a board list is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cmd.Println(board.Detect(cfg))
			return nil
		},
	}
}
