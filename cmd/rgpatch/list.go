package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/arthur-debert/rgpatch/pkg/board"
	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/arthur-debert/rgpatch/pkg/filesystem"
	"github.com/arthur-debert/rgpatch/pkg/recipe"
	"github.com/arthur-debert/rgpatch/pkg/types"
	"github.com/arthur-debert/rgpatch/pkg/ui"
	"github.com/spf13/cobra"
)

// listEntry is one row of list output.
type listEntry struct {
	Title      string   `json:"title"`
	ID         string   `json:"id,omitempty"`
	Boards     []string `json:"boards,omitempty"`
	Compatible bool     `json:"compatible"`
	Error      string   `json:"error,omitempty"`
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Long:  MsgListLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := filesystem.NewOS()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			doc, err := recipe.Load(fs, flags.recipePath)
			if err != nil {
				return err
			}

			detected := board.Detect(cfg)
			entries := make([]listEntry, 0, len(doc.Entries))
			for _, e := range doc.Entries {
				row := listEntry{}
				if e.Patch != nil {
					row.Title = e.Patch.Title
					row.ID = e.Patch.ID
					row.Boards = e.Patch.Boards
					row.Compatible = types.IsCompatible(e.Patch, detected)
				}
				if e.Err != nil {
					row.Error = e.Err.Error()
				}
				entries = append(entries, row)
			}

			f, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == ui.FormatAuto {
				f = ui.DetectFormat(os.Stdout)
			}

			if f == ui.FormatJSON {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(data))
				return nil
			}

			if len(entries) == 0 {
				cmd.Println("No patches in recipe.")
				return nil
			}
			cmd.Printf("Board: %s\n\n", detected)
			for _, row := range entries {
				marker := "-"
				note := "not compatible"
				switch {
				case row.Error != "":
					marker = "!"
					note = row.Error
				case row.Compatible:
					marker = "*"
					note = "compatible"
				}
				title := row.Title
				if title == "" {
					title = "(invalid patch)"
				}
				cmd.Printf("  %s %s", marker, title)
				if row.ID != "" {
					cmd.Printf(" [%s]", row.ID)
				}
				if len(row.Boards) > 0 {
					cmd.Printf(" (%s)", strings.Join(row.Boards, ", "))
				}
				cmd.Printf("  %s\n", note)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}
