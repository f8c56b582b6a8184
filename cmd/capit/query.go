package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpilgrim/capit/internal/client"
	"github.com/dpilgrim/capit/internal/ipc"
)

func connectDaemon(path string) (*ipc.Client, error) {
	return client.Connect(path)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report daemon status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *ipc.Client) error {
			resp, err := c.Call(ipc.Request{Type: ipc.RequestStatus})
			if err != nil {
				return err
			}
			if resp.Type == ipc.ResponseError {
				return fmt.Errorf("status: %s", resp.Message)
			}
			client.PrintStatus(cmd.OutOrStdout(), resp)
			return nil
		})
	},
}

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "List the daemon's known displays",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *ipc.Client) error {
			resp, err := c.Call(ipc.Request{Type: ipc.RequestListOutputs})
			if err != nil {
				return err
			}
			if resp.Type == ipc.ResponseError {
				return fmt.Errorf("list outputs: %s", resp.Message)
			}
			client.PrintOutputs(cmd.OutOrStdout(), resp.Outputs)
			return nil
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel any capture in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *ipc.Client) error {
			resp, err := c.Call(ipc.Request{Type: ipc.RequestCancel})
			if err != nil {
				return err
			}
			if resp.Type == ipc.ResponseError {
				return fmt.Errorf("cancel: %s", resp.Message)
			}
			return nil
		})
	},
}
