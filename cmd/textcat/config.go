package main

import (
	"fmt"

	"github.com/bastiangx/textcat/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active config file, or rewrite it with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !rebuild {
				_, err := fmt.Fprintln(out, config.GetActiveConfigPath(a.activePath))
				return err
			}
			path, err := config.RebuildConfigFile(a.activePath)
			if err != nil {
				return fmt.Errorf("rebuilding config: %w", err)
			}
			log.Debugf("Rebuilt config file: (%s)", path)
			_, err = fmt.Fprintf(out, "rebuilt %s with defaults\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "overwrite the active config file with the defaults")
	return cmd
}
