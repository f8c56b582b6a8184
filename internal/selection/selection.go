// Package selection tracks one connection's interactive capture session:
// idle until a UI-driven region capture starts, active while the overlay
// updates the rectangle, consumed once on confirm.
package selection

import (
	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
)

// Active is the in-progress interactive session for one connection.
type Active struct {
	Mode   core.Mode
	Target *core.Target
	Rect   *core.Rect
}

// State is the per-connection selection lifecycle. A nil active session
// means idle. Never shared across connections.
type State struct {
	active *Active
}

func New() *State { return &State{} }

func (s *State) IsActive() bool { return s.active != nil }

func (s *State) ActiveMode() (core.Mode, bool) {
	if s.active == nil {
		return "", false
	}
	return s.active.Mode, true
}

// HandleRequest services selection-lifecycle requests. emit pushes async
// events back to the client; they must go out before the returned response.
// The second return is false when the request is not a selection concern
// and the caller should dispatch it directly.
func (s *State) HandleRequest(req ipc.Request, emit func(ipc.Event)) (ipc.Response, bool) {
	switch req.Type {
	case ipc.RequestStartCapture:
		if req.WithUI && req.Mode == core.ModeRegion {
			s.active = &Active{Mode: req.Mode, Target: req.Target}
			emit(ipc.CaptureStarted(req.Mode))
			return ipc.Ok(), true
		}
		return ipc.Response{}, false

	case ipc.RequestSetSelection:
		if s.active == nil {
			return ipc.Errorf("no active selection session"), true
		}
		if req.Rect == nil {
			return ipc.Errorf("set-selection carries no rect"), true
		}
		rect := *req.Rect
		s.active.Rect = &rect
		// Echoed back as the accepted preview; clamping/snapping would
		// happen here.
		emit(ipc.SelectionPreview(rect))
		return ipc.Ok(), true

	case ipc.RequestConfirmSelection:
		if s.active == nil {
			return ipc.Errorf("no active selection session"), true
		}
		if s.active.Rect == nil {
			return ipc.Errorf("no selection rect set"), true
		}
		// Ok acknowledges receipt only. The dispatcher takes the session
		// and runs the capture; the capture result arrives as a separate
		// terminal event.
		return ipc.Ok(), true

	case ipc.RequestCancel:
		if s.active != nil {
			s.active = nil
			return ipc.Ok(), true
		}
		return ipc.Response{}, false
	}

	return ipc.Response{}, false
}

// TakeActive consumes the active session. Later calls return nil until a
// new session starts.
func (s *State) TakeActive() *Active {
	active := s.active
	s.active = nil
	return active
}

// PeekActive exposes the current session for status reporting.
func (s *State) PeekActive() *Active { return s.active }
