// Package client wraps the IPC client with the CLI-facing capture,
// query, and printing flows.
package client

import (
	"fmt"

	"github.com/dpilgrim/capit/internal/ipc"
)

// Connect opens a session with the daemon, turning a connection refusal
// into advice the user can act on.
func Connect(socketPath string) (*ipc.Client, error) {
	c, err := ipc.Connect(socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon at %s: %w\nHint: start the daemon with `capitd`", socketPath, err)
	}
	return c, nil
}
