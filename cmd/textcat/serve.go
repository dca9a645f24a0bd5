package main

import (
	"context"
	"os"

	"github.com/bastiangx/textcat/internal/logger"
	"github.com/bastiangx/textcat/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve msgpack classification requests on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}
}

func (a *app) runServe(ctx context.Context) error {
	c, err := a.classifier(ctx)
	if err != nil {
		return err
	}
	srv := server.NewServer(c, a.cfg)

	a.showStartupInfo(c.Store().Len())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		log.Debug("Interrupted, exiting")
		return nil
	}
}

// showStartupInfo writes basic info about the session to stderr in debug mode.
func (a *app) showStartupInfo(categories int) {
	if !a.debug {
		return
	}
	l := logger.NewWithConfig(os.Stderr, AppName, log.InfoLevel, false, false, log.TextFormatter)
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("Categories: %d", categories)
	if a.profilesPath != "" {
		l.Infof("Profiles: ( %s )", a.profilesPath)
	}
	l.Info("status: ready")
}
