// Package layout computes window geometry from the container tree.
//
// Compute is a pure function of the tree and the gap settings: calling it
// twice without mutating the tree yields identical rects. Split edges are
// derived from the rounded cumulative sum of tiling sizes on every call, so
// repeated layouts never accumulate rounding drift.
package layout

import (
	"math"

	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
	"github.com/mj1618/tilewm/internal/units"
)

// Gaps configures the spacing between tiled windows (Inner) and between
// windows and the monitor edge (Outer).
type Gaps struct {
	Inner units.LengthValue
	Outer units.RectDelta
}

// Layout maps container ids to screen rects. Minimized windows have no
// entry.
type Layout map[container.ID]platform.Rect

// Compute lays out every workspace on every monitor.
func Compute(tree *container.Tree, gaps Gaps) Layout {
	out := make(Layout)
	for _, mon := range tree.Monitors() {
		monRect := mon.Monitor.Rect
		out[mon.ID()] = monRect
		for _, ws := range tree.ChildrenOf(mon) {
			wsRect := WorkspaceRect(monRect, gaps)
			out[ws.ID()] = wsRect
			place(tree, ws, wsRect, monRect, gaps, out)
		}
	}
	return out
}

// WorkspaceRect is the monitor's working area minus the outer gap.
func WorkspaceRect(monitor platform.Rect, gaps Gaps) platform.Rect {
	top, right, bottom, left := gaps.Outer.Pixels(monitor.Width, monitor.Height)
	return monitor.Inset(top, right, bottom, left)
}

func place(tree *container.Tree, c *container.Container, rect, monRect platform.Rect, gaps Gaps, out Layout) {
	dir, _ := c.TilingDirection()
	tiling := tree.TilingChildren(c)
	for i, r := range divide(rect, dir, tiling, gaps.Inner) {
		child := tiling[i]
		if child.IsWindow() {
			out[child.ID()] = withBorder(child, r)
			continue
		}
		out[child.ID()] = r
		place(tree, child, r, monRect, gaps, out)
	}

	for _, child := range tree.ChildrenOf(c) {
		if !child.IsWindow() || child.ParticipatesInTiling() {
			continue
		}
		switch child.Window.State {
		case container.Floating:
			out[child.ID()] = withBorder(child, child.Window.FloatingPlacement)
		case container.Fullscreen:
			out[child.ID()] = monRect
		}
	}
}

// divide splits rect along dir. Each child spans from the rounded
// cumulative size before it to the rounded cumulative size after it; the
// last edge always lands exactly on the available extent.
func divide(rect platform.Rect, dir container.TilingDirection, children []*container.Container, inner units.LengthValue) []platform.Rect {
	n := len(children)
	if n == 0 {
		return nil
	}

	extent := rect.Width
	if dir == container.Vertical {
		extent = rect.Height
	}
	gap := inner.ToPixels(extent)
	available := max(extent-gap*(n-1), 0)

	rects := make([]platform.Rect, n)
	cum := 0.0
	start := 0
	for i, child := range children {
		cum += child.TilingSize()
		end := int(math.Round(cum * float64(available)))
		if i == n-1 {
			end = available
		}
		end = min(max(end, start), available)

		offset := start + i*gap
		length := end - start
		if dir == container.Vertical {
			rects[i] = platform.Rect{X: rect.X, Y: rect.Y + offset, Width: rect.Width, Height: length}
		} else {
			rects[i] = platform.Rect{X: rect.X + offset, Y: rect.Y, Width: length, Height: rect.Height}
		}
		start = end
	}
	return rects
}

// withBorder grows r by the window's border delta.
func withBorder(w *container.Container, r platform.Rect) platform.Rect {
	top, right, bottom, left := w.Window.BorderDelta.Pixels(r.Width, r.Height)
	if top == 0 && right == 0 && bottom == 0 && left == 0 {
		return r
	}
	return r.Inset(-top, -right, -bottom, -left)
}
