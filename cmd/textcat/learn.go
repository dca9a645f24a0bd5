package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bastiangx/textcat/pkg/corpus"
	"github.com/bastiangx/textcat/pkg/profilefile"
	"github.com/bastiangx/textcat/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newLearnCmd(a *app) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "learn <sample-dir> <out" + profilefile.Extension + ">",
		Short: "Build category profiles from sample files and save them",
		Long: `Build one profile per label from the sample files in a directory and save
them to a profile file. The label of a sample is its file name up to the first
dot. Profiles use the [profile] options from config.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, out := args[0], args[1]
			if !strings.EqualFold(filepath.Ext(out), profilefile.Extension) {
				return fmt.Errorf("output file %s must have the %s extension", out, profilefile.Extension)
			}

			samples, err := corpus.LoadDir(dir)
			if err != nil {
				return err
			}
			opts, err := a.cfg.StoreOptions()
			if err != nil {
				return err
			}
			st, err := store.NewContext(cmd.Context(), samples, opts)
			if err != nil {
				return err
			}
			if err := profilefile.Save(out, st, tag); err != nil {
				return err
			}
			log.Debugf("Learned %v", st.Labels())
			fmt.Fprintf(cmd.OutOrStdout(), "learned %d categories from %s into %s\n", st.Len(), dir, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "free-form version recorded in the profile file")
	return cmd
}
