// Package main provides the capitd daemon process entrypoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dpilgrim/capit/internal/config"
	"github.com/dpilgrim/capit/internal/daemon"
	"github.com/dpilgrim/capit/internal/lockfile"
	"github.com/dpilgrim/capit/internal/logging"
	"github.com/dpilgrim/capit/internal/notify"
	"github.com/dpilgrim/capit/internal/version"
)

var (
	flagSocket  string
	flagConfig  string
	flagVerbose bool
	flagLogFile string
)

var rootCmd = &cobra.Command{
	Use:           "capitd",
	Short:         "Capit capture daemon",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagSocket, "socket", "", "IPC socket path (default: session runtime dir)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "log file override")
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := logging.New("capitd", flagVerbose, flagLogFile)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer rt.Close()
	log := rt.Logger

	loaded, err := config.Load(flagConfig)
	if err != nil {
		log.Warn("config load failed, using defaults", "error", err)
		loaded.Config = config.Default()
	}
	for _, w := range loaded.Warnings {
		log.Warn("config", "warning", w.Message)
	}

	socketPath := flagSocket
	if socketPath == "" {
		socketPath = daemon.DefaultSocketPath()
	}

	d := daemon.New(daemon.Options{
		SocketPath:    socketPath,
		SessionSocket: daemon.DefaultSessionSocket(),
		Cfg:           loaded.Config,
		Logger:        log,
		Notifier:      notify.Desktop{},
	})

	if err := d.Run(ctx); err != nil {
		var already *lockfile.AlreadyRunningError
		if errors.As(err, &already) {
			// A second launch is harmless; leave the running daemon alone.
			fmt.Fprintln(cmd.ErrOrStderr(), "capitd is already running")
			return nil
		}
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "capitd:", err)
		os.Exit(1)
	}
}
