package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpilgrim/capit/internal/core"
)

var wideBounds = core.Rect{X: 0, Y: 0, W: 2560, H: 1440}

func TestClampTo(t *testing.T) {
	bounds := core.Rect{X: 0, Y: 0, W: 1920, H: 1080}

	tests := []struct {
		name string
		in   core.Rect
		want core.Rect
	}{
		{name: "already inside", in: core.Rect{X: 100, Y: 100, W: 300, H: 200}, want: core.Rect{X: 100, Y: 100, W: 300, H: 200}},
		{name: "shifted from right edge", in: core.Rect{X: 1800, Y: 0, W: 300, H: 200}, want: core.Rect{X: 1620, Y: 0, W: 300, H: 200}},
		{name: "shifted from bottom edge", in: core.Rect{X: 0, Y: 1000, W: 300, H: 200}, want: core.Rect{X: 0, Y: 880, W: 300, H: 200}},
		{name: "shifted from origin", in: core.Rect{X: -50, Y: -20, W: 300, H: 200}, want: core.Rect{X: 0, Y: 0, W: 300, H: 200}},
		{name: "oversized pins to origin", in: core.Rect{X: 100, Y: 100, W: 4000, H: 3000}, want: core.Rect{X: 0, Y: 0, W: 4000, H: 3000}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampTo(tc.in, bounds)
			require.Equal(t, tc.want, got)
			// Clamping never resizes and clamping twice changes nothing.
			require.Equal(t, tc.in.W, got.W)
			require.Equal(t, tc.in.H, got.H)
			require.Equal(t, got, ClampTo(got, bounds))
		})
	}
}

func TestClampToEnforcesMinimumSize(t *testing.T) {
	bounds := core.Rect{X: 0, Y: 0, W: 1920, H: 1080}

	got := ClampTo(core.Rect{X: 10, Y: 10, W: 2, H: 3}, bounds)
	require.Equal(t, core.Rect{X: 10, Y: 10, W: MinW, H: MinH}, got)
	require.Equal(t, got, ClampTo(got, bounds))

	// The floor applies even when growth pushes past the bounds edge.
	got = ClampTo(core.Rect{X: 1918, Y: 1079, W: 1, H: 1}, bounds)
	require.Equal(t, core.Rect{X: 1912, Y: 1072, W: MinW, H: MinH}, got)
}

func TestHitTest(t *testing.T) {
	r := core.Rect{X: 100, Y: 100, W: 400, H: 300}

	tests := []struct {
		name string
		p    Point
		want DragMode
	}{
		{name: "top-left corner", p: Point{100, 100}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Left: true, Top: true}}},
		{name: "near bottom-right corner", p: Point{508, 392}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Right: true, Bottom: true}}},
		{name: "left edge", p: Point{102, 250}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Left: true}}},
		{name: "right edge", p: Point{498, 250}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Right: true}}},
		{name: "top edge", p: Point{300, 104}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Top: true}}},
		{name: "bottom edge", p: Point{300, 396}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Bottom: true}}},
		{name: "interior", p: Point{300, 250}, want: DragMode{Kind: DragMove}},
		{name: "ambiguous past top-left radius gets both flags", p: Point{112, 112}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Left: true, Top: true}}},
		{name: "ambiguous past bottom-right radius gets both flags", p: Point{488, 388}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Right: true, Bottom: true}}},
		{name: "far outside resolves to nearest corner", p: Point{900, 700}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Right: true, Bottom: true}}},
		{name: "outside past origin", p: Point{10, 10}, want: DragMode{Kind: DragResize, Dir: ResizeDir{Left: true, Top: true}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, HitTest(r, tc.p))
		})
	}
}

func TestApplyDragMove(t *testing.T) {
	grab := core.Rect{X: 10, Y: 10, W: 100, H: 80}
	mode := DragMode{Kind: DragMove}

	got := ApplyDrag(mode, grab, Point{50, 50}, Point{80, 40}, wideBounds)
	require.Equal(t, core.Rect{X: 40, Y: 0, W: 100, H: 80}, got)

	// A move dragged past the layout edge shifts, never shrinks.
	got = ApplyDrag(mode, grab, Point{50, 50}, Point{-500, -500}, wideBounds)
	require.Equal(t, core.Rect{X: 0, Y: 0, W: 100, H: 80}, got)
}

func TestApplyDragResizeAbsoluteCursor(t *testing.T) {
	grab := core.Rect{X: 10, Y: 10, W: 100, H: 80}
	mode := DragMode{Kind: DragResize, Dir: ResizeDir{Right: true, Bottom: true}}

	// Controlled edges land exactly where the cursor is.
	got := ApplyDrag(mode, grab, Point{110, 90}, Point{150, 130}, wideBounds)
	require.Equal(t, core.Rect{X: 10, Y: 10, W: 140, H: 120}, got)
}

func TestApplyDragResizeInversionSwapsEdges(t *testing.T) {
	grab := core.Rect{X: 100, Y: 100, W: 200, H: 150}
	mode := DragMode{Kind: DragResize, Dir: ResizeDir{Right: true, Bottom: true}}

	// Dragging the right/bottom corner past the opposite edges flips the
	// rect instead of producing negative size.
	got := ApplyDrag(mode, grab, Point{300, 250}, Point{40, 60}, wideBounds)
	require.Equal(t, core.Rect{X: 40, Y: 60, W: 60, H: 40}, got)
}

func TestApplyDragResizeEnforcesMinimumSize(t *testing.T) {
	grab := core.Rect{X: 100, Y: 100, W: 200, H: 150}
	mode := DragMode{Kind: DragResize, Dir: ResizeDir{Right: true, Bottom: true}}

	got := ApplyDrag(mode, grab, Point{300, 250}, Point{101, 102}, wideBounds)
	require.Equal(t, MinW, got.W)
	require.Equal(t, MinH, got.H)
	require.Equal(t, core.Rect{X: 100, Y: 100, W: MinW, H: MinH}, got)
}

func TestApplyDragSingleEdge(t *testing.T) {
	grab := core.Rect{X: 100, Y: 100, W: 200, H: 150}

	got := ApplyDrag(DragMode{Kind: DragResize, Dir: ResizeDir{Left: true}}, grab, Point{100, 175}, Point{60, 400}, wideBounds)
	require.Equal(t, core.Rect{X: 60, Y: 100, W: 240, H: 150}, got)

	got = ApplyDrag(DragMode{Kind: DragResize, Dir: ResizeDir{Top: true}}, grab, Point{200, 100}, Point{0, 130}, wideBounds)
	require.Equal(t, core.Rect{X: 100, Y: 130, W: 200, H: 120}, got)
}

func TestApplyDragNone(t *testing.T) {
	grab := core.Rect{X: 1, Y: 2, W: 30, H: 40}
	require.Equal(t, grab, ApplyDrag(DragMode{}, grab, Point{}, Point{999, 999}, wideBounds))
}
