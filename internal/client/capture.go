package client

import (
	"fmt"

	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
)

// Outcome is the terminal result of one capture operation.
type Outcome struct {
	// Path of the saved screenshot; empty when cancelled.
	Path string
	// Cancelled is true when the user backed out, not a failure.
	Cancelled bool
}

// Run drives one capture from start to its terminal event. The daemon
// acknowledges the request first, then reports progress as events; the
// finished or failed event ends the operation.
func Run(c *ipc.Client, mode core.Mode, target *core.Target, withUI bool) (Outcome, error) {
	resp, err := c.Call(ipc.StartCapture(mode, target, withUI))
	if err != nil {
		return Outcome{}, err
	}
	if resp.Type == ipc.ResponseError {
		return Outcome{}, fmt.Errorf("daemon refused capture: %s", resp.Message)
	}

	for {
		ev, err := c.NextEvent()
		if err != nil {
			return Outcome{}, fmt.Errorf("wait for capture result: %w", err)
		}

		switch ev.Type {
		case ipc.EventCaptureFinished:
			return Outcome{Path: ev.Path}, nil
		case ipc.EventCaptureFailed:
			if ev.Message == ipc.CancelledMessage {
				return Outcome{Cancelled: true}, nil
			}
			return Outcome{}, fmt.Errorf("capture failed: %s", ev.Message)
		}
		// CaptureStarted and SelectionPreview are progress; keep waiting.
	}
}
