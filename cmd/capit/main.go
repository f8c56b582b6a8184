// Package main provides the capit CLI process entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpilgrim/capit/internal/daemon"
	"github.com/dpilgrim/capit/internal/ipc"
	"github.com/dpilgrim/capit/internal/logging"
	"github.com/dpilgrim/capit/internal/version"
)

var (
	flagSocket  string
	flagVerbose bool
	flagLogFile string

	logRuntime logging.Runtime
)

var rootCmd = &cobra.Command{
	Use:           "capit",
	Short:         "Capit — capture it. Screenshots driven by a background daemon.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rt, err := logging.New("capit", flagVerbose, flagLogFile)
		if err != nil {
			return fmt.Errorf("set up logging: %w", err)
		}
		logRuntime = rt
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logRuntime.Close()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "daemon socket path (default: session runtime dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "log file override")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(outputsCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(barCmd)
	rootCmd.AddCommand(versionCmd)
}

// socketPath resolves the daemon socket for this invocation.
func socketPath() string {
	if flagSocket != "" {
		return flagSocket
	}
	return daemon.DefaultSocketPath()
}

// withClient opens a daemon session for the duration of fn.
func withClient(fn func(c *ipc.Client) error) error {
	c, err := connectDaemon(socketPath())
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "capit:", err)
		os.Exit(1)
	}
}
