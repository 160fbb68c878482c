package wm

import (
	"slices"

	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/layout"
	"github.com/mj1618/tilewm/internal/platform"
)

// Flush applies the effects queued during the current cycle to the native
// desktop, publishes buffered events and clears the queues. Failed native
// calls are logged and skipped.
func (w *WM) Flush() {
	t := w.tree
	w.lastLayout = layout.Compute(t, w.gaps)

	for _, ws := range t.Workspaces() {
		if t.IsDisplayed(ws) {
			ws.Workspace.Display = container.Shown
		} else {
			ws.Workspace.Display = container.Hidden
		}
	}

	for _, win := range w.windowsToRedraw() {
		w.redrawWindow(win)
	}
	for _, id := range w.pending.WorkspacesToReorder() {
		if ws, err := t.Get(id); err == nil && ws.IsWorkspace() && t.IsDisplayed(ws) {
			w.reorderWorkspace(ws)
		}
	}

	focused := t.Focused()
	if w.pending.NeedsFocusChange() {
		w.applyFocus(focused)
	}
	if w.pending.NeedsCursorJump() {
		w.jumpCursor(focused)
	}
	w.applyEffects(focused)

	if focused.ID() != w.lastFocused {
		w.emitContainer(EventFocusChanged, focused)
	}
	w.lastFocused = focused.ID()
	if mon := t.MonitorOf(focused); mon != nil {
		w.lastFocusedMon = mon.ID()
	}

	w.pending.Clear()
	w.publishOutbox()
}

// windowsToRedraw expands the queued containers into windows, once each.
func (w *WM) windowsToRedraw() []*container.Container {
	t := w.tree
	if w.pending.NeedsFullRedraw() {
		return t.Windows()
	}
	seen := make(map[container.ID]bool)
	var out []*container.Container
	for _, id := range w.pending.ContainersToRedraw() {
		c, err := t.Get(id)
		if err != nil {
			continue
		}
		for _, win := range w.windowsIn(c) {
			if !seen[win.ID()] {
				seen[win.ID()] = true
				out = append(out, win)
			}
		}
	}
	return out
}

// redrawWindow makes a window's native visibility, show state and rect
// match the tree. Each window gets at most one rect update.
func (w *WM) redrawWindow(win *container.Container) {
	t := w.tree
	h := win.Window.Handle

	if !t.IsDisplayed(win) {
		if win.Window.Display == container.Shown {
			if w.nativeCall("hide", h, w.native.SetWindowState(h, platform.StateHide)) {
				win.Window.Display = container.Hiding
			}
		}
		return
	}
	if win.Window.Display != container.Shown {
		if w.nativeCall("show", h, w.native.SetWindowState(h, platform.StateShow)) {
			win.Window.Display = container.Shown
		}
	}

	desired := platform.StateRestore
	switch {
	case win.Window.State == container.Minimized:
		desired = platform.StateMinimize
	case win.Window.State == container.Fullscreen && win.Window.Maximized:
		desired = platform.StateMaximize
	}
	if cur, ok := w.nativeState[h]; (ok && cur != desired) || (!ok && desired != platform.StateRestore) {
		if w.nativeCall("window state", h, w.native.SetWindowState(h, desired)) {
			w.nativeState[h] = desired
		}
	}
	if desired != platform.StateRestore {
		return
	}
	if r, ok := w.lastLayout[win.ID()]; ok {
		w.nativeCall("set rect", h, w.native.SetRect(h, r))
	}
}

// reorderWorkspace restacks a workspace's windows: tiling at the bottom,
// then floating, then fullscreen, with shown-on-top windows above all of
// them. Within a layer the most recently focused window is highest.
func (w *WM) reorderWorkspace(ws *container.Container) {
	windows := w.windowsByFocus(ws)
	slices.Reverse(windows)
	layer := func(c *container.Container) int {
		l := 0
		switch c.Window.State {
		case container.Floating:
			l = 1
		case container.Fullscreen:
			l = 2
		}
		if c.Window.ShownOnTop {
			l += 3
		}
		return l
	}
	slices.SortStableFunc(windows, func(a, b *container.Container) int {
		return layer(a) - layer(b)
	})

	handles := make([]platform.Handle, 0, len(windows))
	for _, c := range windows {
		if c.Window.State != container.Minimized {
			handles = append(handles, c.Window.Handle)
		}
	}
	if len(handles) > 0 {
		w.nativeCall("z-order", 0, w.native.SetZOrder(handles))
	}
}

// applyFocus moves native focus to focused.
func (w *WM) applyFocus(focused *container.Container) {
	var h platform.Handle
	if focused.IsWindow() && focused.Window.State != container.Minimized {
		h = focused.Window.Handle
	}
	w.nativeCall("set foreground", h, w.native.SetForeground(h))
}

// jumpCursor centers the cursor on the focused window, or its monitor.
// With the monitor_focus trigger it only moves when focus changed monitor.
func (w *WM) jumpCursor(focused *container.Container) {
	jump := w.cfg.General.CursorJump
	if !jump.Enabled || focused.ID() == w.lastFocused {
		return
	}
	mon := w.tree.MonitorOf(focused)
	if mon == nil || (jump.Trigger != config.JumpOnWindowFocus && mon.ID() == w.lastFocusedMon) {
		return
	}
	target := mon.Monitor.Rect
	if r, ok := w.lastLayout[focused.ID()]; ok && focused.IsWindow() {
		target = r
	}
	w.nativeCall("set cursor position", 0, w.native.SetCursorPosition(target.Center()))
}

// applyEffects updates the focus effect and transparency. A full update
// touches every window; otherwise only the windows gaining or losing
// focus are touched.
func (w *WM) applyEffects(focused *container.Container) {
	t := w.tree
	if w.pending.NeedsAllEffectsUpdate() {
		for _, win := range t.Windows() {
			w.applyWindowEffect(win, win == focused)
		}
	} else if w.pending.NeedsFocusedEffectUpdate() {
		if prev, err := t.Get(w.effectWindow); err == nil && prev != focused && prev.IsWindow() {
			w.applyWindowEffect(prev, false)
		}
		if focused.IsWindow() && focused.ID() != w.effectWindow {
			w.applyWindowEffect(focused, true)
		}
	} else {
		return
	}
	w.effectWindow = focused.ID()
}

func (w *WM) applyWindowEffect(win *container.Container, focused bool) {
	h := win.Window.Handle
	effects := w.cfg.WindowEffects.OtherWindows
	if focused {
		effects = w.cfg.WindowEffects.FocusedWindow
	}
	effect := platform.FocusEffect{Focused: focused}
	if effects.Border.Enabled {
		effect.BorderColor = effects.Border.Color
	}
	w.nativeCall("focus effect", h, w.native.SetFocusEffect(h, effect))

	if opacity := win.Window.Opacity; effects.Transparency.Enabled {
		w.nativeCall("opacity", h, w.native.SetOpacity(h, effects.Transparency.Opacity.Apply(opacity)))
	} else if opacity != 1 {
		w.nativeCall("opacity", h, w.native.SetOpacity(h, opacity))
	}
	if effects.HideTitleBar.Enabled {
		w.nativeCall("title bar", h, w.native.SetTitleBarVisible(h, false))
	}
}
