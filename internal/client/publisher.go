package client

import (
	"fmt"

	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
)

// SelectionPublisher reports an overlay's selection over an open daemon
// session. It satisfies the overlay model's publisher contract.
type SelectionPublisher struct {
	Client *ipc.Client
}

// Start opens the interactive session on the daemon.
func (p SelectionPublisher) Start(target *core.Target) error {
	resp, err := p.Client.Call(ipc.StartCapture(core.ModeRegion, target, true))
	if err != nil {
		return err
	}
	if resp.Type == ipc.ResponseError {
		return fmt.Errorf("start selection: %s", resp.Message)
	}
	return nil
}

func (p SelectionPublisher) SetSelection(rect core.Rect) error {
	resp, err := p.Client.Call(ipc.SetSelection(rect))
	if err != nil {
		return err
	}
	if resp.Type == ipc.ResponseError {
		return fmt.Errorf("set selection: %s", resp.Message)
	}
	return nil
}

func (p SelectionPublisher) ConfirmSelection() error {
	resp, err := p.Client.Call(ipc.Request{Type: ipc.RequestConfirmSelection})
	if err != nil {
		return err
	}
	if resp.Type == ipc.ResponseError {
		return fmt.Errorf("confirm selection: %s", resp.Message)
	}
	return nil
}

func (p SelectionPublisher) Cancel() error {
	resp, err := p.Client.Call(ipc.Request{Type: ipc.RequestCancel})
	if err != nil {
		return err
	}
	if resp.Type == ipc.ResponseError {
		return fmt.Errorf("cancel selection: %s", resp.Message)
	}
	return nil
}
