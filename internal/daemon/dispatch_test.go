package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpilgrim/capit/internal/config"
	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
	"github.com/dpilgrim/capit/internal/notify"
	"github.com/dpilgrim/capit/internal/selection"
)

type cropCall struct {
	path string
	rect core.Rect
}

type fakeBackend struct {
	fullCalls []string
	cropCalls []cropCall
	err       error
}

func (b *fakeBackend) CaptureFull(path string) error {
	b.fullCalls = append(b.fullCalls, path)
	return b.err
}

func (b *fakeBackend) CaptureCrop(path string, rect core.Rect) error {
	b.cropCalls = append(b.cropCalls, cropCall{path: path, rect: rect})
	return b.err
}

type fakeOverlay struct {
	rect   *core.Rect
	target *core.Target
	err    error

	regionCalls []int
	screenCalls []int
}

func (o *fakeOverlay) PickRegion(outputs []core.OutputInfo, targetIdx int) (*core.Rect, error) {
	o.regionCalls = append(o.regionCalls, targetIdx)
	return o.rect, o.err
}

func (o *fakeOverlay) PickScreen(outputs []core.OutputInfo, initialIdx int) (*core.Target, error) {
	o.screenCalls = append(o.screenCalls, initialIdx)
	return o.target, o.err
}

type fakeNotifier struct {
	notes []string
}

func (n *fakeNotifier) Notify(kind notify.Kind, summary, body string) error {
	n.notes = append(n.notes, fmt.Sprintf("%d/%s", kind, summary))
	return nil
}

type fakeSink struct {
	events []ipc.Event
}

func (s *fakeSink) SendEvent(ev ipc.Event) error {
	s.events = append(s.events, ev)
	return nil
}

type fixture struct {
	dispatcher *Dispatcher
	backend    *fakeBackend
	overlay    *fakeOverlay
	notifier   *fakeNotifier
	sink       *fakeSink
	sel        *selection.State
}

func newFixture() *fixture {
	f := &fixture{
		backend:  &fakeBackend{},
		overlay:  &fakeOverlay{},
		notifier: &fakeNotifier{},
		sink:     &fakeSink{},
		sel:      selection.New(),
	}
	f.dispatcher = &Dispatcher{
		State: &State{
			Cfg: config.Default(),
			Outputs: []core.OutputInfo{
				{Name: "DP-1", X: 0, Y: 0, Width: 2560, Height: 1440, Scale: 1},
				{Name: "HDMI-A-1", X: 2560, Y: 0, Width: 1920, Height: 1080, Scale: 1},
			},
		},
		Backend:    f.backend,
		Overlay:    f.overlay,
		Notifier:   f.notifier,
		Logger:     slog.Default(),
		OutputPath: func(ext string) string { return "/shots/out." + ext },
	}
	return f
}

func (f *fixture) handle(req ipc.Request) ipc.Response {
	return f.dispatcher.Handle(f.sel, f.sink, req)
}

func (f *fixture) eventTypes() []ipc.EventType {
	types := make([]ipc.EventType, 0, len(f.sink.events))
	for _, ev := range f.sink.events {
		types = append(types, ev.Type)
	}
	return types
}

func TestScreenCaptureAllScreens(t *testing.T) {
	f := newFixture()

	resp := f.handle(ipc.StartCapture(core.ModeScreen, nil, false))
	require.Equal(t, ipc.ResponseOk, resp.Type)

	require.Equal(t, []string{"/shots/out.png"}, f.backend.fullCalls)
	require.Equal(t, []ipc.EventType{ipc.EventCaptureStarted, ipc.EventCaptureFinished}, f.eventTypes())
	require.Equal(t, "/shots/out.png", f.sink.events[1].Path)
	require.Nil(t, f.dispatcher.State.ActiveJob)
	require.Equal(t, []string{"0/Screenshot saved"}, f.notifier.notes)
}

func TestScreenCaptureByOutputName(t *testing.T) {
	f := newFixture()
	target := core.OutputByName("HDMI-A-1")

	resp := f.handle(ipc.StartCapture(core.ModeScreen, &target, false))
	require.Equal(t, ipc.ResponseOk, resp.Type)

	require.Len(t, f.backend.cropCalls, 1)
	require.Equal(t, core.Rect{X: 2560, Y: 0, W: 1920, H: 1080}, f.backend.cropCalls[0].rect)
}

func TestScreenCaptureUnknownOutput(t *testing.T) {
	f := newFixture()
	target := core.OutputByName("DP-9")

	resp := f.handle(ipc.StartCapture(core.ModeScreen, &target, false))
	require.Equal(t, ipc.ResponseError, resp.Type)
	require.Contains(t, resp.Message, `unknown output "DP-9"`)
	require.Contains(t, resp.Message, "DP-1, HDMI-A-1")

	// Failure is reported as an event too, and the job is cleared.
	require.Equal(t, []ipc.EventType{ipc.EventCaptureStarted, ipc.EventCaptureFailed}, f.eventTypes())
	require.Nil(t, f.dispatcher.State.ActiveJob)
	require.Equal(t, []string{"1/Screenshot failed"}, f.notifier.notes)
}

func TestScreenCaptureWithPickerCancelled(t *testing.T) {
	f := newFixture()
	// Overlay returns nil target: user cancelled.

	resp := f.handle(ipc.StartCapture(core.ModeScreen, nil, true))
	require.Equal(t, ipc.ResponseOk, resp.Type)

	require.Equal(t, []int{0}, f.overlay.screenCalls)
	require.Empty(t, f.backend.fullCalls)
	require.Equal(t, []ipc.EventType{ipc.EventCaptureStarted, ipc.EventCaptureFailed}, f.eventTypes())
	require.Equal(t, ipc.CancelledMessage, f.sink.events[1].Message)
	require.Nil(t, f.dispatcher.State.ActiveJob)
	// Cancellation is quiet: no notification.
	require.Empty(t, f.notifier.notes)
}

func TestRegionCaptureViaOverlay(t *testing.T) {
	f := newFixture()
	f.overlay.rect = &core.Rect{X: 100, Y: 200, W: 640, H: 480}
	target := core.OutputByIndex(1)

	resp := f.handle(ipc.StartCapture(core.ModeRegion, &target, false))
	require.Equal(t, ipc.ResponseOk, resp.Type)

	require.Equal(t, []int{1}, f.overlay.regionCalls)
	require.Len(t, f.backend.cropCalls, 1)
	require.Equal(t, *f.overlay.rect, f.backend.cropCalls[0].rect)
	require.Equal(t, []ipc.EventType{ipc.EventCaptureStarted, ipc.EventCaptureFinished}, f.eventTypes())
}

func TestRegionCaptureOverlayFails(t *testing.T) {
	f := newFixture()
	f.overlay.err = errors.New("helper crashed")

	resp := f.handle(ipc.StartCapture(core.ModeRegion, nil, false))
	require.Equal(t, ipc.ResponseError, resp.Type)
	require.Contains(t, resp.Message, "region overlay")
	require.Nil(t, f.dispatcher.State.ActiveJob)
}

func TestInteractiveRegionSession(t *testing.T) {
	f := newFixture()
	rect := core.Rect{X: 10, Y: 20, W: 300, H: 200}

	resp := f.handle(ipc.StartCapture(core.ModeRegion, nil, true))
	require.Equal(t, ipc.ResponseOk, resp.Type)
	require.NotNil(t, f.dispatcher.State.ActiveJob)
	require.Equal(t, core.ModeRegion, *f.dispatcher.State.ActiveJob)
	// Interactive sessions never run the exec overlay.
	require.Empty(t, f.overlay.regionCalls)

	resp = f.handle(ipc.SetSelection(rect))
	require.Equal(t, ipc.ResponseOk, resp.Type)

	resp = f.handle(ipc.Request{Type: ipc.RequestConfirmSelection})
	require.Equal(t, ipc.ResponseOk, resp.Type)

	require.Len(t, f.backend.cropCalls, 1)
	require.Equal(t, rect, f.backend.cropCalls[0].rect)
	require.Equal(t, []ipc.EventType{
		ipc.EventCaptureStarted,
		ipc.EventSelectionPreview,
		ipc.EventCaptureFinished,
	}, f.eventTypes())
	require.Nil(t, f.dispatcher.State.ActiveJob)
	require.False(t, f.sel.IsActive())
}

func TestInteractiveConfirmBackendFailure(t *testing.T) {
	f := newFixture()
	f.backend.err = errors.New("portal denied")

	f.handle(ipc.StartCapture(core.ModeRegion, nil, true))
	f.handle(ipc.SetSelection(core.Rect{X: 0, Y: 0, W: 50, H: 50}))

	resp := f.handle(ipc.Request{Type: ipc.RequestConfirmSelection})
	require.Equal(t, ipc.ResponseError, resp.Type)
	require.Contains(t, resp.Message, "capture failed")

	last := f.sink.events[len(f.sink.events)-1]
	require.Equal(t, ipc.EventCaptureFailed, last.Type)
	require.Nil(t, f.dispatcher.State.ActiveJob)
}

func TestCancelClearsJob(t *testing.T) {
	f := newFixture()

	f.handle(ipc.StartCapture(core.ModeRegion, nil, true))
	require.NotNil(t, f.dispatcher.State.ActiveJob)

	resp := f.handle(ipc.Request{Type: ipc.RequestCancel})
	require.Equal(t, ipc.ResponseOk, resp.Type)
	require.Nil(t, f.dispatcher.State.ActiveJob)
	require.False(t, f.sel.IsActive())

	// Cancel with nothing in flight is still Ok.
	resp = f.handle(ipc.Request{Type: ipc.RequestCancel})
	require.Equal(t, ipc.ResponseOk, resp.Type)
}

func TestDisconnectMidSelectionReleasesJob(t *testing.T) {
	f := newFixture()

	resp := f.handle(ipc.StartCapture(core.ModeRegion, nil, true))
	require.Equal(t, ipc.ResponseOk, resp.Type)
	require.NotNil(t, f.dispatcher.State.ActiveJob)

	// The client goes away without Confirm or Cancel; the connection
	// teardown releases its session.
	f.dispatcher.ReleaseSession(f.sel)
	require.Nil(t, f.dispatcher.State.ActiveJob)

	// A fresh connection can capture right away.
	f.sel = selection.New()
	resp = f.handle(ipc.StartCapture(core.ModeScreen, nil, false))
	require.Equal(t, ipc.ResponseOk, resp.Type)
	require.Len(t, f.backend.fullCalls, 1)
}

func TestReleaseSessionIdleIsNoOp(t *testing.T) {
	f := newFixture()
	mode := core.ModeScreen
	f.dispatcher.State.ActiveJob = &mode

	// An idle session never owned the job; teardown must not steal it.
	f.dispatcher.ReleaseSession(selection.New())
	require.NotNil(t, f.dispatcher.State.ActiveJob)
}

func TestStartWhileBusyIsRejected(t *testing.T) {
	f := newFixture()
	f.handle(ipc.StartCapture(core.ModeRegion, nil, true))

	resp := f.handle(ipc.StartCapture(core.ModeScreen, nil, false))
	require.Equal(t, ipc.ResponseError, resp.Type)
	require.Contains(t, resp.Message, "already in progress")
}

func TestWindowModeNotImplemented(t *testing.T) {
	f := newFixture()

	resp := f.handle(ipc.StartCapture(core.ModeWindow, nil, false))
	require.Equal(t, ipc.ResponseError, resp.Type)
	require.Contains(t, resp.Message, "not implemented")
	require.Nil(t, f.dispatcher.State.ActiveJob)
}

func TestInformationalRequests(t *testing.T) {
	f := newFixture()

	resp := f.handle(ipc.Request{Type: ipc.RequestStatus})
	require.Equal(t, ipc.ResponseStatus, resp.Type)
	require.True(t, resp.Running)
	require.Nil(t, resp.ActiveJob)

	resp = f.handle(ipc.Request{Type: ipc.RequestListOutputs})
	require.Equal(t, ipc.ResponseOutputs, resp.Type)
	require.Len(t, resp.Outputs, 2)

	resp = f.handle(ipc.Request{Type: ipc.RequestGetUIConfig})
	require.Equal(t, ipc.ResponseUIConfig, resp.Type)
	require.NotNil(t, resp.UI)
	require.Equal(t, config.Default().AccentColour, resp.UI.AccentColour)

	resp = f.handle(ipc.Hello())
	require.Equal(t, ipc.ResponseOk, resp.Type)
}

func TestStatusReportsActiveJob(t *testing.T) {
	f := newFixture()
	f.handle(ipc.StartCapture(core.ModeRegion, nil, true))

	resp := f.handle(ipc.Request{Type: ipc.RequestStatus})
	require.Equal(t, ipc.ResponseStatus, resp.Type)
	require.NotNil(t, resp.ActiveJob)
	require.Equal(t, core.ModeRegion, *resp.ActiveJob)
}
