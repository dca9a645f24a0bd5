package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/textcat/internal/cli"
	"github.com/bastiangx/textcat/internal/logger"
	"github.com/bastiangx/textcat/pkg/classify"
	"github.com/bastiangx/textcat/pkg/config"
	"github.com/bastiangx/textcat/pkg/defaults"
	"github.com/bastiangx/textcat/pkg/profilefile"
	"github.com/bastiangx/textcat/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app carries global flags and the loaded config into subcommands.
type app struct {
	profilesPath string
	configPath   string
	debug        bool
	margin       float64

	cfg        *config.Config
	activePath string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   AppName,
		Short: "Character n-gram text categorization",
		Long: `textcat guesses the category of a text, such as its language, by comparing
its n-gram ranking with the rankings learned from sample texts.

Without a subcommand it serves msgpack requests on stdin/stdout.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.profilesPath, "profiles", "", "profile file ("+profilefile.Extension+") to load instead of the built-in languages")
	flags.StringVar(&a.configPath, "config", "", "path to config.toml")
	flags.BoolVarP(&a.debug, "debug", "d", false, "toggle debug logging")
	flags.Float64Var(&a.margin, "margin", 0, "ambiguity margin, overrides [classify] ambiguity_margin")

	root.AddCommand(
		newServeCmd(a),
		newClassifyCmd(a),
		newLearnCmd(a),
		newInspectCmd(a),
		newCategoriesCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	logger.Setup(a.debug)

	cfg, path, err := config.LoadConfigWithPriority(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("margin") {
		cfg.Classify.AmbiguityMargin = a.margin
	}
	a.cfg, a.activePath = cfg, path
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(path))
	return nil
}

// loadStore reads the --profiles file when given, or builds the built-in
// language profiles with the configured options.
func (a *app) loadStore(ctx context.Context) (*store.Store, error) {
	if a.profilesPath != "" {
		st, err := profilefile.Load(a.profilesPath)
		if err != nil {
			return nil, fmt.Errorf("loading profiles: %w", err)
		}
		return st, nil
	}

	opts, err := a.cfg.StoreOptions()
	if err != nil {
		return nil, err
	}
	corpus, err := defaults.Corpus()
	if err != nil {
		return nil, err
	}
	st, err := store.NewContext(ctx, corpus, opts)
	if err != nil {
		return nil, fmt.Errorf("building built-in profiles: %w", err)
	}
	log.Debugf("Built %d built-in profiles (%s)", st.Len(), defaults.Version)
	return st, nil
}

func (a *app) classifier(ctx context.Context) (*classify.Classifier, error) {
	st, err := a.loadStore(ctx)
	if err != nil {
		return nil, err
	}
	return classify.New(st, a.cfg.ClassifyOptions())
}

// colorsFor enables colours only for a terminal.
func colorsFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && cli.IsTerminal(f)
}
