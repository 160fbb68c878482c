package wm

import (
	"fmt"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/layout"
	"github.com/mj1618/tilewm/internal/platform"
	"github.com/mj1618/tilewm/internal/units"
)

// setState moves win into state. Tiling windows rejoin their workspace
// next to the most recently focused tiling window.
func (w *WM) setState(win *container.Container, state container.TilingState) error {
	t := w.tree
	old := win.Window.State
	if old == state {
		return nil
	}
	ws := t.WorkspaceOf(win)
	target, index := ws, -1
	if state == container.Tiling {
		target, index = w.tilingInsertionPoint(ws, win)
	}
	focused := t.Focused() == win
	if err := t.SetTilingState(win, state, target, index); err != nil {
		return err
	}
	if old == container.Tiling || old == container.Floating {
		win.Window.PrevState = old
	}

	if state == container.Minimized {
		w.unmanagedOrMinimizedAt = w.now()
		if focused {
			w.setFocus(w.focusTargetAfterRemoval(win))
		}
	}
	w.pending.QueueContainerToRedraw(ws)
	w.pending.QueueWorkspaceToReorder(ws)
	w.pending.QueueFocusedEffectUpdate()
	return nil
}

// restoreState is the state a window returns to when leaving fullscreen or
// minimized.
func restoreState(win *container.Container) container.TilingState {
	if p := win.Window.PrevState; p == container.Tiling || p == container.Floating {
		return p
	}
	return container.Tiling
}

func (w *WM) setFloating(win *container.Container, cmd command.SetFloating) error {
	defaults := w.cfg.WindowBehavior.StateDefaults.Floating
	monRect := w.tree.MonitorOf(win).Monitor.Rect
	r := win.Window.FloatingPlacement
	if cmd.Width != nil {
		r.Width = resolveExtent(*cmd.Width, r.Width, monRect.Width)
	}
	if cmd.Height != nil {
		r.Height = resolveExtent(*cmd.Height, r.Height, monRect.Height)
	}
	if boolOr(cmd.Centered, defaults.Centered) {
		r = r.TranslateToCenter(monRect)
	}
	if cmd.XPos != nil {
		r.X = *cmd.XPos
	}
	if cmd.YPos != nil {
		r.Y = *cmd.YPos
	}
	win.Window.FloatingPlacement = r
	win.Window.ShownOnTop = boolOr(cmd.ShownOnTop, defaults.ShownOnTop)
	w.pending.QueueContainerToRedraw(win)
	return w.setState(win, container.Floating)
}

func (w *WM) setFullscreen(win *container.Container, shownOnTop, maximized *bool) error {
	defaults := w.cfg.WindowBehavior.StateDefaults.Fullscreen
	win.Window.ShownOnTop = boolOr(shownOnTop, defaults.ShownOnTop)
	win.Window.Maximized = boolOr(maximized, defaults.Maximized)
	w.pending.QueueContainerToRedraw(win)
	return w.setState(win, container.Fullscreen)
}

func (w *WM) toggleState(win *container.Container, state container.TilingState, set func() error) error {
	if win.Window.State == state {
		if state == container.Tiling {
			return w.setFloating(win, command.SetFloating{})
		}
		return w.setState(win, restoreStateFrom(win, state))
	}
	return set()
}

// restoreStateFrom picks the state to leave state for on a toggle.
func restoreStateFrom(win *container.Container, state container.TilingState) container.TilingState {
	if state == container.Floating {
		return container.Tiling
	}
	return restoreState(win)
}

// position places a floating window. Other states are left alone.
func (w *WM) position(win *container.Container, cmd command.Position) {
	if win.Window.State != container.Floating {
		return
	}
	r := win.Window.FloatingPlacement
	if cmd.Centered {
		r = r.TranslateToCenter(w.tree.MonitorOf(win).Monitor.Rect)
	}
	if cmd.XPos != nil {
		r.X = *cmd.XPos
	}
	if cmd.YPos != nil {
		r.Y = *cmd.YPos
	}
	win.Window.FloatingPlacement = r
	w.pending.QueueContainerToRedraw(win)
}

// resize changes a window's width and/or height. Tiling windows resize by
// changing the tiling size of the nearest container laid out along the
// requested axis.
func (w *WM) resize(win *container.Container, cmd command.Resize) error {
	switch win.Window.State {
	case container.Tiling:
		if cmd.Width != nil {
			w.resizeTilingAxis(win, container.Horizontal, *cmd.Width)
		}
		if cmd.Height != nil {
			w.resizeTilingAxis(win, container.Vertical, *cmd.Height)
		}
		w.pending.QueueContainerToRedraw(w.tree.WorkspaceOf(win))
	case container.Floating:
		monRect := w.tree.MonitorOf(win).Monitor.Rect
		r := win.Window.FloatingPlacement
		if cmd.Width != nil {
			r.Width = resolveExtent(*cmd.Width, r.Width, monRect.Width)
		}
		if cmd.Height != nil {
			r.Height = resolveExtent(*cmd.Height, r.Height, monRect.Height)
		}
		win.Window.FloatingPlacement = r
		w.pending.QueueContainerToRedraw(win)
	default:
		return fmt.Errorf("%w: cannot resize a %s window", container.ErrInvalidOperation, win.Window.State)
	}
	return nil
}

// resizeTilingAxis applies v along axis to the closest container at or above
// c whose parent arranges along axis and that has tiling siblings.
func (w *WM) resizeTilingAxis(c *container.Container, axis container.TilingDirection, v units.LengthValue) {
	t := w.tree
	target := c
	for target != nil && !target.IsWorkspace() {
		p := t.Parent(target)
		if dir, ok := p.TilingDirection(); ok && dir == axis && len(t.TilingSiblings(target)) > 0 {
			break
		}
		target = p
	}
	if target == nil || target.IsWorkspace() {
		return
	}

	parent := t.Parent(target)
	rect := layout.Compute(t, w.gaps)[parent.ID()]
	extent := rect.Width
	if axis == container.Vertical {
		extent = rect.Height
	}
	gap := w.gaps.Inner.ToPixels(extent)
	available := max(extent-gap*len(t.TilingSiblings(target)), 1)

	size := v.ToFraction(available)
	if v.Relative {
		size += target.TilingSize()
	}
	if err := t.SetTilingSize(target, size); err != nil {
		w.logger.Warn("resize failed", "id", target.ID(), "err", err)
	}
}

// resolveExtent applies a length to a floating window's current extent.
func resolveExtent(v units.LengthValue, current, monitorExtent int) int {
	px := v.ToPixels(monitorExtent)
	if v.Relative {
		px += current
	}
	return max(px, 1)
}

// adjustBorders changes the border delta. Signed values add to the current
// edge when the units agree; unsigned values replace it.
func (w *WM) adjustBorders(win *container.Container, cmd command.AdjustBorders) {
	d := &win.Window.BorderDelta
	apply := func(cur *units.LengthValue, v *units.LengthValue) {
		if v == nil {
			return
		}
		if v.Relative && v.Unit == cur.Unit {
			cur.Amount += v.Amount
			return
		}
		*cur = units.LengthValue{Amount: v.Amount, Unit: v.Unit}
	}
	apply(&d.Top, cmd.Top)
	apply(&d.Right, cmd.Right)
	apply(&d.Bottom, cmd.Bottom)
	apply(&d.Left, cmd.Left)
	w.pending.QueueContainerToRedraw(win)
}

func (w *WM) setOpacity(win *container.Container, v units.OpacityValue) {
	win.Window.Opacity = v.Apply(win.Window.Opacity)
	h := win.Window.Handle
	w.nativeCall("opacity", h, w.native.SetOpacity(h, win.Window.Opacity))
}

// ignore stops managing win and makes sure it stays visible.
func (w *WM) ignore(win *container.Container) error {
	h := win.Window.Handle
	if err := w.unmanageWindow(win); err != nil {
		return err
	}
	w.ignored[h] = true
	w.nativeCall("show", h, w.native.SetWindowState(h, platform.StateShow))
	w.logger.Info("window ignored", "window", h)
	return nil
}

// directionContainerOf returns c when it arranges children along an axis,
// otherwise the container c is laid out in.
func (w *WM) directionContainerOf(c *container.Container) *container.Container {
	if c.IsDirectionContainer() {
		return c
	}
	if p := w.tree.Parent(c); p != nil && p.IsDirectionContainer() {
		return p
	}
	return w.tree.WorkspaceOf(c)
}

// setTilingDirection changes the axis c's direction container arranges
// its children along.
func (w *WM) setTilingDirection(c *container.Container, dir container.TilingDirection) error {
	dc := w.directionContainerOf(c)
	if dc == nil {
		return fmt.Errorf("%w: %s has no tiling direction", container.ErrInvalidOperation, c.ID())
	}
	if cur, _ := dc.TilingDirection(); cur == dir {
		return nil
	}
	dc.SetTilingDirection(dir)
	w.pending.QueueContainerToRedraw(w.tree.WorkspaceOf(dc))
	w.emit(Event{Type: EventTilingDirectionChanged, Container: ptr(w.snapshot(dc)), TilingDirection: dir.String()})
	return nil
}

func (w *WM) toggleTilingDirection(c *container.Container) error {
	dc := w.directionContainerOf(c)
	if dc == nil {
		return fmt.Errorf("%w: %s has no tiling direction", container.ErrInvalidOperation, c.ID())
	}
	dir, _ := dc.TilingDirection()
	return w.setTilingDirection(c, dir.Inverse())
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func ptr[T any](v T) *T { return &v }
