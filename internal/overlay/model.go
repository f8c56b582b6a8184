package overlay

import "github.com/dpilgrim/capit/internal/core"

// Publisher is the channel over which the overlay reports selection
// progress back to the daemon.
type Publisher interface {
	SetSelection(rect core.Rect) error
	ConfirmSelection() error
	Cancel() error
}

// Model is the interactive state of a region picker: the output layout,
// the current selection rect and whatever drag is in flight. It is driven
// by pointer events and queried by the renderer each frame.
type Model struct {
	Outputs   []core.OutputInfo
	Bounds    core.Rect
	Selection core.Rect
	Cursor    Point

	dragMode   DragMode
	grabCursor Point
	grabRect   core.Rect
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// NewModel builds a picker over the given outputs, starting with a
// selection centered on targetIdx (or the first output when targetIdx is
// out of range). Bounds span the union of all outputs.
func NewModel(outputs []core.OutputInfo, targetIdx int) *Model {
	m := &Model{Outputs: outputs}
	if len(outputs) == 0 {
		m.Bounds = core.Rect{W: 1, H: 1}
		m.Selection = core.Rect{W: MinW, H: MinH}
		return m
	}

	minX, minY := outputs[0].X, outputs[0].Y
	maxX, maxY := outputs[0].X+outputs[0].Width, outputs[0].Y+outputs[0].Height
	for _, out := range outputs[1:] {
		if out.X < minX {
			minX = out.X
		}
		if out.Y < minY {
			minY = out.Y
		}
		if out.X+out.Width > maxX {
			maxX = out.X + out.Width
		}
		if out.Y+out.Height > maxY {
			maxY = out.Y + out.Height
		}
	}
	m.Bounds = core.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}

	if targetIdx < 0 || targetIdx >= len(outputs) {
		targetIdx = 0
	}
	out := outputs[targetIdx]
	w := clampInt(out.Width/2, 260, out.Width)
	h := clampInt(out.Height/2, 180, out.Height)
	m.Selection = core.Rect{
		X: out.X + (out.Width-w)/2,
		Y: out.Y + (out.Height-h)/2,
		W: w,
		H: h,
	}
	return m
}

// PointerDown begins a drag at p. A resize grab that starts outside the
// selection anchors its reference cursor at the selection's bottom-right
// corner so the first motion resizes smoothly instead of jumping.
func (m *Model) PointerDown(p Point) {
	m.Cursor = p
	m.grabCursor = p
	m.grabRect = m.Selection
	m.dragMode = HitTest(m.Selection, p)
	if m.dragMode.Kind == DragResize && !Contains(m.Selection, p) {
		m.grabCursor = Point{X: m.grabRect.X + m.grabRect.W, Y: m.grabRect.Y + m.grabRect.H}
	}
}

// PointerMove updates the cursor and, while a drag is in flight, the
// selection rect.
func (m *Model) PointerMove(p Point) {
	m.Cursor = p
	if m.dragMode.Kind == DragNone {
		return
	}
	m.Selection = ApplyDrag(m.dragMode, m.grabRect, m.grabCursor, p, m.Bounds)
}

// PointerUp ends the drag in flight, if any.
func (m *Model) PointerUp() {
	m.dragMode = DragMode{}
}

// Dragging reports whether a pointer grab is in flight.
func (m *Model) Dragging() bool { return m.dragMode.Kind != DragNone }

// SelectionRect returns the current selection clamped to the layout.
func (m *Model) SelectionRect() core.Rect {
	return ClampTo(m.Selection, m.Bounds)
}

// Session couples a Model to a Publisher: pointer releases publish the
// rect, and the terminal actions forward confirm or cancel.
type Session struct {
	Model     *Model
	Publisher Publisher
}

// Release ends the drag and publishes the resulting rect.
func (s *Session) Release() error {
	wasDragging := s.Model.Dragging()
	s.Model.PointerUp()
	if !wasDragging {
		return nil
	}
	return s.Publisher.SetSelection(s.Model.SelectionRect())
}

// Confirm publishes the final rect and confirms the selection.
func (s *Session) Confirm() error {
	if err := s.Publisher.SetSelection(s.Model.SelectionRect()); err != nil {
		return err
	}
	return s.Publisher.ConfirmSelection()
}

// Cancel abandons the selection.
func (s *Session) Cancel() error {
	return s.Publisher.Cancel()
}
