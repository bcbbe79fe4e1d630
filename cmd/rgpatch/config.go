package main

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long: `Config prints the effective configuration after defaults, config files,
and RGPATCH_* environment variables are merged. With --write the default
configuration is written to the user config path as a starting point.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write {
				path := filepath.Join(xdg.ConfigHome, "rgpatch", "rgpatch.toml")
				if _, err := os.Stat(path); err == nil {
					cmd.Printf("Config file already exists at %s\n", path)
					return nil
				}
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(path, []byte(config.DefaultConfigContent()), 0o644); err != nil {
					return err
				}
				cmd.Printf("Wrote default config to %s\n", path)
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out, err := config.Render(cfg)
			if err != nil {
				return err
			}
			cmd.Print(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	return cmd
}
