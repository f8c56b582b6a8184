package core

import "fmt"

// TargetKind discriminates the Target union on the wire.
type TargetKind string

const (
	TargetAllScreens   TargetKind = "all-screens"
	TargetOutputName   TargetKind = "output-name"
	TargetOutputIndex  TargetKind = "output-index"
	TargetActiveWindow TargetKind = "active-window"
)

// Target narrows a capture to a part of the desktop. Exactly one kind is
// set; Name and Index are only meaningful for their matching kinds.
type Target struct {
	Kind TargetKind `json:"kind"`

	// Name is a stable compositor output name, e.g. "DP-1".
	Name string `json:"name,omitempty"`

	// Index is a fallback when no stable name is known; it refers to the
	// daemon's reported output order.
	Index uint32 `json:"index,omitempty"`
}

func AllScreens() Target             { return Target{Kind: TargetAllScreens} }
func OutputByName(name string) Target { return Target{Kind: TargetOutputName, Name: name} }
func OutputByIndex(i uint32) Target  { return Target{Kind: TargetOutputIndex, Index: i} }
func ActiveWindow() Target           { return Target{Kind: TargetActiveWindow} }

func (t Target) String() string {
	switch t.Kind {
	case TargetOutputName:
		return fmt.Sprintf("output %s", t.Name)
	case TargetOutputIndex:
		return fmt.Sprintf("output #%d", t.Index)
	case TargetActiveWindow:
		return "active window"
	default:
		return "all screens"
	}
}
