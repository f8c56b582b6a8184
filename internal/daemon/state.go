// Package daemon runs the capture orchestrator: one unix socket, one
// client at a time, capture and notification collaborators behind
// interfaces.
package daemon

import (
	"github.com/dpilgrim/capit/internal/config"
	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
)

// State is the daemon's process-wide bookkeeping. The accept loop is
// single-threaded, so no locking is needed.
type State struct {
	Cfg     config.Config
	Outputs []core.OutputInfo

	// ActiveJob is the mode of the capture in flight, nil when idle.
	// Cleared on finish, failure, and cancel so a bad capture never
	// wedges later requests.
	ActiveJob *core.Mode
}

// UIConfig exposes the overlay palette to clients.
func (s *State) UIConfig() ipc.UIConfig {
	return ipc.UIConfig{
		AccentColour:        s.Cfg.AccentColour,
		BarBackgroundColour: s.Cfg.BarBackgroundColour,
	}
}

func (s *State) setJob(mode core.Mode) {
	s.ActiveJob = &mode
}

func (s *State) clearJob() {
	s.ActiveJob = nil
}
