package daemon

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dpilgrim/capit/internal/capture"
	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
	"github.com/dpilgrim/capit/internal/notify"
	"github.com/dpilgrim/capit/internal/selection"
)

// EventSink delivers asynchronous events to the connected client.
type EventSink interface {
	SendEvent(ev ipc.Event) error
}

// Overlay runs the interactive picker surfaces. A nil rect or target
// with a nil error means the user cancelled.
type Overlay interface {
	PickRegion(outputs []core.OutputInfo, targetIdx int) (*core.Rect, error)
	PickScreen(outputs []core.OutputInfo, initialIdx int) (*core.Target, error)
}

// Dispatcher turns decoded requests into responses, driving the capture
// backend and the overlay collaborators. One per daemon.
type Dispatcher struct {
	State    *State
	Backend  capture.Backend
	Overlay  Overlay
	Notifier notify.Notifier
	Logger   *slog.Logger

	// OutputPath names the file for a fresh capture.
	OutputPath func(ext string) string
}

// Handle services one request on behalf of the connection owning sel.
// Events the operation produces go out through sink before the returned
// terminal response is sent.
func (d *Dispatcher) Handle(sel *selection.State, sink EventSink, req ipc.Request) ipc.Response {
	emit := func(ev ipc.Event) {
		if err := sink.SendEvent(ev); err != nil {
			d.Logger.Warn("send event", "type", ev.Type, "error", err)
		}
	}

	if resp, handled := sel.HandleRequest(req, emit); handled {
		switch {
		case req.Type == ipc.RequestStartCapture && resp.Type == ipc.ResponseOk:
			d.State.setJob(req.Mode)
		case req.Type == ipc.RequestConfirmSelection && resp.Type == ipc.ResponseOk:
			if failure := d.runConfirmedCapture(sel, emit); failure != nil {
				return *failure
			}
		case req.Type == ipc.RequestCancel:
			d.State.clearJob()
		}
		return resp
	}

	switch req.Type {
	case ipc.RequestHello:
		// Handshake already ran; a repeated hello is harmless.
		return ipc.Ok()
	case ipc.RequestStatus:
		return ipc.Response{Type: ipc.ResponseStatus, Running: true, ActiveJob: d.State.ActiveJob}
	case ipc.RequestListOutputs:
		return ipc.Response{Type: ipc.ResponseOutputs, Outputs: d.State.Outputs}
	case ipc.RequestGetUIConfig:
		ui := d.State.UIConfig()
		return ipc.Response{Type: ipc.ResponseUIConfig, UI: &ui}
	case ipc.RequestCancel:
		d.State.clearJob()
		return ipc.Ok()
	case ipc.RequestStartCapture:
		return d.startCapture(req, emit)
	}

	return ipc.Errorf("unsupported request %q", req.Type)
}

// ReleaseSession drops a connection's selection state when the session
// ends. A client that started an interactive capture and vanished
// without Confirm or Cancel still holds the daemon's active job; release
// it so later connections are not refused as busy.
func (d *Dispatcher) ReleaseSession(sel *selection.State) {
	if sel.TakeActive() == nil {
		return
	}
	d.State.clearJob()
	d.Logger.Info("connection dropped mid-selection, releasing capture job")
}

// runConfirmedCapture consumes the confirmed selection and runs the
// capture. The returned response, when non-nil, replaces the Ok that
// acknowledged the confirm.
func (d *Dispatcher) runConfirmedCapture(sel *selection.State, emit func(ipc.Event)) *ipc.Response {
	active := sel.TakeActive()
	if active == nil || active.Rect == nil {
		resp := ipc.Errorf("no selection to capture")
		return &resp
	}

	path := d.OutputPath("png")
	if err := d.Backend.CaptureCrop(path, *active.Rect); err != nil {
		resp := d.failJob(emit, fmt.Sprintf("capture failed: %v", err))
		return &resp
	}

	emit(ipc.CaptureFinished(path))
	notify.Saved(d.Notifier, path)
	d.State.clearJob()
	d.Logger.Info("capture finished", "mode", active.Mode, "path", path)
	return nil
}

func (d *Dispatcher) startCapture(req ipc.Request, emit func(ipc.Event)) ipc.Response {
	if !req.Mode.Valid() {
		return ipc.Errorf("unknown capture mode %q", req.Mode)
	}
	if d.State.ActiveJob != nil {
		return ipc.Errorf("a %s capture is already in progress", *d.State.ActiveJob)
	}

	d.State.setJob(req.Mode)
	emit(ipc.CaptureStarted(req.Mode))

	switch req.Mode {
	case core.ModeRegion:
		return d.captureRegion(req, emit)
	case core.ModeScreen:
		return d.captureScreen(req, emit)
	default:
		return d.failJob(emit, fmt.Sprintf("%s capture is not implemented", req.Mode))
	}
}

// captureRegion runs the overlay picker and crops the chosen rect.
// Interactive sessions driven over IPC never reach here; they go through
// the selection state machine instead.
func (d *Dispatcher) captureRegion(req ipc.Request, emit func(ipc.Event)) ipc.Response {
	idx, err := d.targetOutputIndex(req.Target)
	if err != nil {
		return d.failJob(emit, err.Error())
	}

	rect, err := d.Overlay.PickRegion(d.State.Outputs, idx)
	if err != nil {
		return d.failJob(emit, fmt.Sprintf("region overlay: %v", err))
	}
	if rect == nil {
		return d.cancelJob(emit)
	}

	return d.captureRectTo(*rect, emit)
}

func (d *Dispatcher) captureScreen(req ipc.Request, emit func(ipc.Event)) ipc.Response {
	target := req.Target
	if req.WithUI {
		idx, err := d.targetOutputIndex(target)
		if err != nil {
			return d.failJob(emit, err.Error())
		}
		picked, err := d.Overlay.PickScreen(d.State.Outputs, idx)
		if err != nil {
			return d.failJob(emit, fmt.Sprintf("screen picker: %v", err))
		}
		if picked == nil {
			return d.cancelJob(emit)
		}
		target = picked
	}

	path := d.OutputPath("png")
	if target == nil || target.Kind == core.TargetAllScreens {
		if err := d.Backend.CaptureFull(path); err != nil {
			return d.failJob(emit, fmt.Sprintf("capture failed: %v", err))
		}
		return d.finishJob(path, emit)
	}

	idx, err := d.targetOutputIndex(target)
	if err != nil {
		return d.failJob(emit, err.Error())
	}
	out := d.State.Outputs[idx]
	scale := out.Scale
	if scale < 1 {
		scale = 1
	}
	// Output sizes are logical; the backend crops in pixel space.
	rect := core.Rect{X: out.X, Y: out.Y, W: out.Width * scale, H: out.Height * scale}
	return d.captureRectTo(rect, emit)
}

func (d *Dispatcher) captureRectTo(rect core.Rect, emit func(ipc.Event)) ipc.Response {
	path := d.OutputPath("png")
	if err := d.Backend.CaptureCrop(path, rect); err != nil {
		return d.failJob(emit, fmt.Sprintf("capture failed: %v", err))
	}
	return d.finishJob(path, emit)
}

func (d *Dispatcher) finishJob(path string, emit func(ipc.Event)) ipc.Response {
	emit(ipc.CaptureFinished(path))
	notify.Saved(d.Notifier, path)
	d.State.clearJob()
	d.Logger.Info("capture finished", "path", path)
	return ipc.Ok()
}

// failJob reports a capture failure both ways the protocol promises:
// a terminal CaptureFailed event and an Error response.
func (d *Dispatcher) failJob(emit func(ipc.Event), message string) ipc.Response {
	emit(ipc.CaptureFailed(message))
	notify.Failed(d.Notifier, message)
	d.State.clearJob()
	d.Logger.Warn("capture failed", "error", message)
	return ipc.Errorf("%s", message)
}

// cancelJob ends a capture the user backed out of. Cancellation is not
// an error; the event carries the sentinel so UIs can tell the two
// apart.
func (d *Dispatcher) cancelJob(emit func(ipc.Event)) ipc.Response {
	emit(ipc.CaptureFailed(ipc.CancelledMessage))
	d.State.clearJob()
	return ipc.Ok()
}

// targetOutputIndex resolves a capture target to an index into the
// daemon's output list. A nil target means the first output.
func (d *Dispatcher) targetOutputIndex(target *core.Target) (int, error) {
	if len(d.State.Outputs) == 0 {
		return 0, fmt.Errorf("no outputs known")
	}
	if target == nil || target.Kind == core.TargetAllScreens {
		return 0, nil
	}

	switch target.Kind {
	case core.TargetOutputIndex:
		if int(target.Index) >= len(d.State.Outputs) {
			return 0, fmt.Errorf("output index %d out of range (%d outputs)", target.Index, len(d.State.Outputs))
		}
		return int(target.Index), nil

	case core.TargetOutputName:
		names := make([]string, 0, len(d.State.Outputs))
		for i, out := range d.State.Outputs {
			if out.Name == target.Name {
				return i, nil
			}
			names = append(names, out.Name)
		}
		return 0, fmt.Errorf("unknown output %q. Try one of: %s", target.Name, strings.Join(names, ", "))

	case core.TargetActiveWindow:
		return 0, fmt.Errorf("active-window targeting is not implemented")
	}

	return 0, fmt.Errorf("unknown target kind %q", target.Kind)
}
