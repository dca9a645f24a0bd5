package main

import (
	"fmt"
	"strings"

	"github.com/bastiangx/textcat/internal/cli"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect <label> [prefix]",
		Short: "List a category's ranked n-grams",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			cat, ok := st.Category(args[0])
			if !ok {
				return fmt.Errorf("unknown category %q (have %s)", args[0], strings.Join(st.Labels(), ", "))
			}
			prefix := ""
			if len(args) == 2 {
				prefix = strings.ToLower(args[1])
			}
			out := cmd.OutOrStdout()
			return cli.NewPrinter(out, colorsFor(out)).Ranked(cat.Profile, prefix, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 40, "maximum rows, 0 for all")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the loaded categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			cli.NewPrinter(out, colorsFor(out)).Labels(st.Labels())
			return nil
		},
	}
}
