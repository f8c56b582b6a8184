package main

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dpilgrim/capit/internal/client"
	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
)

var (
	flagOutput string
	flagPick   bool
)

// parseTarget maps the -o value onto a capture target: "all", an output
// index, or an output name.
func parseTarget(s string) *core.Target {
	if s == "" {
		return nil
	}
	if s == "all" {
		t := core.AllScreens()
		return &t
	}
	if idx, err := strconv.ParseUint(s, 10, 32); err == nil {
		t := core.OutputByIndex(uint32(idx))
		return &t
	}
	t := core.OutputByName(s)
	return &t
}

// runCapture drives one capture and reports its outcome on the terminal.
func runCapture(cmd *cobra.Command, mode core.Mode, target *core.Target, withUI bool) error {
	return withClient(func(c *ipc.Client) error {
		outcome, err := client.Run(c, mode, target, withUI)
		if err != nil {
			return err
		}
		if outcome.Cancelled {
			fmt.Fprintln(cmd.ErrOrStderr(), "cancelled")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), outcome.Path)
		return nil
	})
}

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Capture a screen region picked with the overlay",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCapture(cmd, core.ModeRegion, parseTarget(flagOutput), false)
	},
}

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Capture all screens, or one via -o or the --pick UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCapture(cmd, core.ModeScreen, parseTarget(flagOutput), flagPick)
	},
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Capture the active window",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := core.ActiveWindow()
		return runCapture(cmd, core.ModeWindow, &target, false)
	},
}

var barCmd = &cobra.Command{
	Use:   "bar",
	Short: "Launch the floating capture bar",
	RunE: func(cmd *cobra.Command, args []string) error {
		bar := exec.Command("capit-bar")
		if err := bar.Start(); err != nil {
			return fmt.Errorf("launch capit-bar: %w", err)
		}
		// The bar is its own protocol peer; don't hold it hostage.
		return bar.Process.Release()
	},
}

func init() {
	regionCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output name or index to start on")
	screenCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output name or index to capture")
	screenCmd.Flags().BoolVar(&flagPick, "pick", false, "choose the output interactively")
}
