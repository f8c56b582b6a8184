package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/dpilgrim/capit/internal/core"
)

// Version is the protocol revision. Client and server must agree exactly;
// there is no renegotiation.
const Version = 3

// CancelledMessage is the sentinel carried by a capture-failed event when
// the user cancelled rather than something going wrong.
const CancelledMessage = "cancelled"

type RequestType string

const (
	RequestHello            RequestType = "hello"
	RequestListOutputs      RequestType = "list-outputs"
	RequestGetUIConfig      RequestType = "get-ui-config"
	RequestStartCapture     RequestType = "start-capture"
	RequestSetSelection     RequestType = "set-selection"
	RequestConfirmSelection RequestType = "confirm-selection"
	RequestCancel           RequestType = "cancel"
	RequestStatus           RequestType = "status"
)

func (t RequestType) valid() bool {
	switch t {
	case RequestHello, RequestListOutputs, RequestGetUIConfig, RequestStartCapture,
		RequestSetSelection, RequestConfirmSelection, RequestCancel, RequestStatus:
		return true
	}
	return false
}

// Request is the client→server envelope. Type selects the variant; only the
// fields belonging to that variant are set.
type Request struct {
	Type RequestType `json:"type"`

	// hello
	Version int `json:"version,omitempty"`

	// start-capture
	Mode   core.Mode    `json:"mode,omitempty"`
	Target *core.Target `json:"target,omitempty"`
	WithUI bool         `json:"with_ui,omitempty"`

	// set-selection
	Rect *core.Rect `json:"rect,omitempty"`
}

func Hello() Request { return Request{Type: RequestHello, Version: Version} }

func StartCapture(mode core.Mode, target *core.Target, withUI bool) Request {
	return Request{Type: RequestStartCapture, Mode: mode, Target: target, WithUI: withUI}
}

func SetSelection(rect core.Rect) Request {
	return Request{Type: RequestSetSelection, Rect: &rect}
}

type ResponseType string

const (
	ResponseOk       ResponseType = "ok"
	ResponseOutputs  ResponseType = "outputs"
	ResponseUIConfig ResponseType = "ui-config"
	ResponseStatus   ResponseType = "status"
	ResponseError    ResponseType = "error"
)

func (t ResponseType) valid() bool {
	switch t {
	case ResponseOk, ResponseOutputs, ResponseUIConfig, ResponseStatus, ResponseError:
		return true
	}
	return false
}

// UIConfig is the daemon-provided styling clients use for their surfaces.
// Colours are ARGB (0xAARRGGBB).
type UIConfig struct {
	AccentColour        uint32 `json:"accent_colour"`
	BarBackgroundColour uint32 `json:"bar_background_colour"`
}

// Response is the server's answer to exactly one Request.
type Response struct {
	Type ResponseType `json:"type"`

	// outputs
	Outputs []core.OutputInfo `json:"outputs,omitempty"`

	// ui-config
	UI *UIConfig `json:"ui,omitempty"`

	// status
	Running   bool       `json:"running,omitempty"`
	ActiveJob *core.Mode `json:"active_job,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}

func Ok() Response { return Response{Type: ResponseOk} }

func Errorf(format string, args ...any) Response {
	return Response{Type: ResponseError, Message: fmt.Sprintf(format, args...)}
}

type EventType string

const (
	EventCaptureStarted   EventType = "capture-started"
	EventCaptureFinished  EventType = "capture-finished"
	EventCaptureFailed    EventType = "capture-failed"
	EventSelectionPreview EventType = "selection-preview"
)

func (t EventType) valid() bool {
	switch t {
	case EventCaptureStarted, EventCaptureFinished, EventCaptureFailed, EventSelectionPreview:
		return true
	}
	return false
}

// Event is a server→client notification outside the call/response cycle.
// For any one operation the server emits zero or more events first and
// exactly one terminal Response last.
type Event struct {
	Type EventType `json:"type"`

	Mode    core.Mode  `json:"mode,omitempty"`    // capture-started
	Path    string     `json:"path,omitempty"`    // capture-finished
	Message string     `json:"message,omitempty"` // capture-failed
	Rect    *core.Rect `json:"rect,omitempty"`    // selection-preview
}

func CaptureStarted(mode core.Mode) Event { return Event{Type: EventCaptureStarted, Mode: mode} }
func CaptureFinished(path string) Event   { return Event{Type: EventCaptureFinished, Path: path} }
func CaptureFailed(message string) Event  { return Event{Type: EventCaptureFailed, Message: message} }

func SelectionPreview(rect core.Rect) Event {
	return Event{Type: EventSelectionPreview, Rect: &rect}
}

// Wire is everything the server sends: either a call's Response or an
// unsolicited Event, never both.
type Wire struct {
	Response *Response `json:"response,omitempty"`
	Event    *Event    `json:"event,omitempty"`
}

// VersionMismatchError fails a connection whose hello named a different
// protocol revision.
type VersionMismatchError struct {
	Client int
	Server int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("ipc: version mismatch (client %d, server %d)", e.Client, e.Server)
}

func EncodeRequest(req Request) ([]byte, error) {
	if !req.Type.valid() {
		return nil, fmt.Errorf("encode request: unknown type %q", req.Type)
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return payload, nil
}

func DecodeRequest(payload []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	if !req.Type.valid() {
		return Request{}, fmt.Errorf("decode request: unknown type %q", req.Type)
	}
	return req, nil
}

func EncodeWire(w Wire) ([]byte, error) {
	if (w.Response == nil) == (w.Event == nil) {
		return nil, fmt.Errorf("encode wire: exactly one of response or event must be set")
	}
	payload, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode wire: %w", err)
	}
	return payload, nil
}

func DecodeWire(payload []byte) (Wire, error) {
	var w Wire
	if err := json.Unmarshal(payload, &w); err != nil {
		return Wire{}, fmt.Errorf("decode wire: %w", err)
	}
	switch {
	case w.Response != nil && w.Event == nil:
		if !w.Response.Type.valid() {
			return Wire{}, fmt.Errorf("decode wire: unknown response type %q", w.Response.Type)
		}
	case w.Event != nil && w.Response == nil:
		if !w.Event.Type.valid() {
			return Wire{}, fmt.Errorf("decode wire: unknown event type %q", w.Event.Type)
		}
	default:
		return Wire{}, fmt.Errorf("decode wire: expected exactly one of response or event")
	}
	return w, nil
}
