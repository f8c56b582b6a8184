// Package overlay holds the pointer-driven selection model shared by the
// region picker surfaces. The geometry here is pure: hit-testing, drag
// arithmetic and clamping, with no rendering attached.
package overlay

import "github.com/dpilgrim/capit/internal/core"

const (
	// BorderThickness is the visual selection border width in pixels.
	BorderThickness = 2
	// HandleSize is the drawn size of a corner handle.
	HandleSize = 12
	// HandleHit is the grab radius around a corner, slightly larger than
	// the drawn handle.
	HandleHit = 14
	// MinW and MinH are the smallest selection a drag may produce.
	MinW = 8
	MinH = 8
)

// Point is a cursor position in the overlay's coordinate space.
type Point struct {
	X int
	Y int
}

// DragKind says what a pointer grab is doing to the selection.
type DragKind int

const (
	DragNone DragKind = iota
	DragMove
	DragResize
)

// ResizeDir marks which edges a resize drag controls. Corner grabs set
// two flags, edge grabs one.
type ResizeDir struct {
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// Any reports whether the direction controls at least one edge.
func (d ResizeDir) Any() bool { return d.Left || d.Right || d.Top || d.Bottom }

// DragMode is the result of hit-testing a pointer-down position.
type DragMode struct {
	Kind DragKind
	Dir  ResizeDir
}

// Contains reports whether p lies inside r.
func Contains(r core.Rect, p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// ClampTo grows r to the minimum selection size, then shifts it to fit
// inside bounds without shrinking it. A rect larger than bounds is
// pinned to the bounds origin on that axis. Idempotent.
func ClampTo(r, bounds core.Rect) core.Rect {
	if r.W < MinW {
		r.W = MinW
	}
	if r.H < MinH {
		r.H = MinH
	}
	if r.X+r.W > bounds.X+bounds.W {
		r.X = bounds.X + bounds.W - r.W
	}
	if r.Y+r.H > bounds.Y+bounds.H {
		r.Y = bounds.Y + bounds.H - r.H
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	return r
}

func dist2(a, b Point) int64 {
	dx := int64(a.X - b.X)
	dy := int64(a.Y - b.Y)
	return dx*dx + dy*dy
}

var cornerDirs = [4]ResizeDir{
	{Left: true, Top: true},
	{Right: true, Top: true},
	{Left: true, Bottom: true},
	{Right: true, Bottom: true},
}

func corners(r core.Rect) [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X, r.Y + r.H},
		{r.X + r.W, r.Y + r.H},
	}
}

// nearestCorner picks the corner direction closest to p, used when the
// grab starts outside the selection.
func nearestCorner(r core.Rect, p Point) ResizeDir {
	pts := corners(r)
	best := 0
	bestDist := dist2(pts[0], p)
	for i := 1; i < 4; i++ {
		if d := dist2(pts[i], p); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return cornerDirs[best]
}

// HitTest classifies a pointer-down at p against selection r. Corners win
// over edges, edges over the interior. A press outside the selection
// resizes from the nearest corner.
func HitTest(r core.Rect, p Point) DragMode {
	radius := HandleHit
	if HandleSize/2 > radius {
		radius = HandleSize / 2
	}
	r2 := int64(radius) * int64(radius)

	pts := corners(r)
	for i, c := range pts {
		if dist2(c, p) <= r2 {
			return DragMode{Kind: DragResize, Dir: cornerDirs[i]}
		}
	}

	// A point in two bands at once resizes both edges.
	band := HandleHit
	withinX := p.X >= r.X-band && p.X <= r.X+r.W+band
	withinY := p.Y >= r.Y-band && p.Y <= r.Y+r.H+band
	var dir ResizeDir
	if withinY {
		if p.X >= r.X-band && p.X <= r.X+band {
			dir.Left = true
		}
		if p.X >= r.X+r.W-band && p.X <= r.X+r.W+band {
			dir.Right = true
		}
	}
	if withinX {
		if p.Y >= r.Y-band && p.Y <= r.Y+band {
			dir.Top = true
		}
		if p.Y >= r.Y+r.H-band && p.Y <= r.Y+r.H+band {
			dir.Bottom = true
		}
	}
	if dir.Any() {
		return DragMode{Kind: DragResize, Dir: dir}
	}

	if Contains(r, p) {
		return DragMode{Kind: DragMove}
	}
	return DragMode{Kind: DragResize, Dir: nearestCorner(r, p)}
}

// ApplyDrag computes the selection for the current cursor given the rect
// and cursor captured at pointer-down. Moves translate and clamp. Resizes
// place each controlled edge at the absolute cursor position, swapping
// edges when the drag crosses the opposite side, then enforce the minimum
// size and clamp to bounds.
func ApplyDrag(mode DragMode, grabRect core.Rect, grabCursor, cursor Point, bounds core.Rect) core.Rect {
	switch mode.Kind {
	case DragMove:
		r := grabRect
		r.X += cursor.X - grabCursor.X
		r.Y += cursor.Y - grabCursor.Y
		return ClampTo(r, bounds)

	case DragResize:
		left := grabRect.X
		right := grabRect.X + grabRect.W
		top := grabRect.Y
		bottom := grabRect.Y + grabRect.H

		if mode.Dir.Left {
			left = cursor.X
		}
		if mode.Dir.Right {
			right = cursor.X
		}
		if mode.Dir.Top {
			top = cursor.Y
		}
		if mode.Dir.Bottom {
			bottom = cursor.Y
		}

		if left > right {
			left, right = right, left
		}
		if top > bottom {
			top, bottom = bottom, top
		}

		// ClampTo supplies the minimum-size floor.
		r := core.Rect{X: left, Y: top, W: right - left, H: bottom - top}
		return ClampTo(r, bounds)
	}
	return grabRect
}
