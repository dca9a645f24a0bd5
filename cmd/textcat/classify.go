package main

import (
	"os"
	"strings"

	"github.com/bastiangx/textcat/internal/cli"
	"github.com/spf13/cobra"
)

func newClassifyCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify text from the arguments, or line by line from stdin",
		Example: `  textcat classify "ceci n'est pas une pipe"
  cat notes.txt | textcat classify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.classifier(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				interactive := colorsFor(out) && cli.IsTerminal(os.Stdin) && cmd.InOrStdin() == os.Stdin
				return cli.NewInputHandler(c, a.cfg, cmd.InOrStdin(), out, interactive).Start()
			}

			text := strings.Join(args, " ")
			if all {
				cli.NewPrinter(out, colorsFor(out)).Candidates(c.Rank(text))
				return nil
			}
			cli.NewInputHandler(c, a.cfg, nil, out, colorsFor(out)).Classify(text)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print the distance to every category")
	return cmd
}
