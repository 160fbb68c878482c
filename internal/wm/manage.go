package wm

import (
	"fmt"

	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
)

// manageWindow wraps a native window in a container and attaches it. With
// placeByRect the window joins the workspace displayed on the monitor it
// sits on (used at startup); otherwise it joins the focused workspace. It
// returns nil without error when the window is skipped.
func (w *WM) manageWindow(info platform.WindowInfo, placeByRect bool) (*container.Container, error) {
	t := w.tree
	if !info.Manageable || w.ignored[info.Handle] || t.WindowByHandle(info.Handle) != nil {
		return nil, nil
	}

	state := container.Tiling
	if w.cfg.WindowBehavior.InitialState == "floating" || !info.Resizable {
		state = container.Floating
	}
	win := container.NewWindow(info, state)
	if info.Minimized {
		win.Window.PrevState = state
		win.Window.State = container.Minimized
	}

	ws := t.WorkspaceOf(t.Focused())
	if placeByRect {
		if mon := w.monitorForRect(info.Rect); mon != nil {
			ws = t.DisplayedWorkspace(mon)
		}
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: no workspace to manage window %d in", container.ErrInvalidOperation, info.Handle)
	}

	parent, index := ws, -1
	if win.ParticipatesInTiling() {
		parent, index = w.tilingInsertionPoint(ws, nil)
	} else {
		defaults := w.cfg.WindowBehavior.StateDefaults.Floating
		win.Window.ShownOnTop = defaults.ShownOnTop
		monRect := t.MonitorOf(ws).Monitor.Rect
		if defaults.Centered || !monRect.Contains(info.Rect.Center()) {
			win.Window.FloatingPlacement = info.Rect.TranslateToCenter(monRect)
		}
	}
	if err := t.Insert(parent, win, index); err != nil {
		return nil, err
	}
	if info.Maximized {
		w.nativeState[info.Handle] = platform.StateMaximize
	}
	if !info.Minimized {
		w.focusContainer(win)
	}
	w.emitContainer(EventWindowManaged, win)
	w.logger.Debug("window managed", "window", info.Handle, "process", info.ProcessName, "state", win.Window.State)

	w.runWindowRules(win, config.OnManage)
	if !t.Contains(win) {
		return nil, nil
	}
	w.pending.QueueContainerToRedraw(t.WorkspaceOf(win))
	w.pending.QueueFocusChange()
	w.pending.QueueFocusedEffectUpdate()
	return win, nil
}

// unmanageWindow detaches win. When it held focus, focus moves to the next
// window of its workspace.
func (w *WM) unmanageWindow(win *container.Container) error {
	t := w.tree
	if !t.Contains(win) {
		return fmt.Errorf("%w: %s", container.ErrContainerNotFound, win.ID())
	}
	ws := t.WorkspaceOf(win)
	wasFocused := t.Focused() == win
	var next *container.Container
	if wasFocused {
		next = w.focusTargetAfterRemoval(win)
	}

	snap := w.snapshot(win)
	h := win.Window.Handle
	if _, err := t.Detach(win); err != nil {
		return err
	}
	delete(w.nativeState, h)
	w.unmanagedOrMinimizedAt = w.now()
	if wasFocused {
		w.setFocus(next)
	}

	w.pending.QueueContainerToRedraw(ws)
	w.pending.QueueFocusedEffectUpdate()
	id := snap.ID
	w.emit(Event{Type: EventWindowUnmanaged, Container: &snap, RemovedID: &id})
	w.logger.Debug("window unmanaged", "window", h)
	w.cleanupWorkspace(ws)
	return nil
}

// focusTargetAfterRemoval returns the container that should take focus
// once win leaves: the most recently focused other window of the
// workspace that is not minimized, or the workspace itself.
func (w *WM) focusTargetAfterRemoval(win *container.Container) *container.Container {
	ws := w.tree.WorkspaceOf(win)
	for _, c := range w.windowsByFocus(ws) {
		if c != win && c.Window.State != container.Minimized {
			return c
		}
	}
	return ws
}

// windowsByFocus returns the windows below c, most recently focused first.
func (w *WM) windowsByFocus(c *container.Container) []*container.Container {
	var out []*container.Container
	var walk func(*container.Container)
	walk = func(n *container.Container) {
		for _, ch := range w.tree.FocusOrder(n) {
			if ch.IsWindow() {
				out = append(out, ch)
				continue
			}
			walk(ch)
		}
	}
	walk(c)
	return out
}

// tilingInsertionPoint returns where a new tiling window goes in ws: next
// to the most recently focused tiling window, or at the end of ws.
func (w *WM) tilingInsertionPoint(ws, exclude *container.Container) (*container.Container, int) {
	for _, c := range w.windowsByFocus(ws) {
		if c == exclude || !c.IsTilingWindow() {
			continue
		}
		return w.tree.Parent(c), w.tree.Index(c) + 1
	}
	return ws, -1
}

// windowsIn returns c if it is a window, else the windows below it.
func (w *WM) windowsIn(c *container.Container) []*container.Container {
	if c.IsWindow() {
		return []*container.Container{c}
	}
	return w.tree.WindowsOf(c)
}
