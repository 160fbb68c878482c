package wm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
	"github.com/mj1618/tilewm/internal/units"
)

// HandleEvent runs the handler for one native event to completion. Effects
// are queued; the caller flushes.
func (w *WM) HandleEvent(ev platform.Event) error {
	switch ev.Kind {
	case platform.EventWindowShown:
		return w.onWindowShown(ev.Handle)
	case platform.EventWindowHidden:
		return w.onWindowHidden(ev.Handle)
	case platform.EventWindowDestroyed:
		return w.onWindowDestroyed(ev.Handle)
	case platform.EventWindowFocused:
		return w.onWindowFocused(ev.Handle)
	case platform.EventWindowMinimized:
		return w.onWindowMinimized(ev.Handle)
	case platform.EventWindowMinimizeEnded:
		return w.onWindowMinimizeEnded(ev.Handle)
	case platform.EventWindowMovedOrResizedStart:
		return w.onMoveOrResizeStart(ev.Handle)
	case platform.EventWindowLocationChanged:
		return w.onLocationChanged(ev.Handle)
	case platform.EventWindowMovedOrResizedEnd:
		return w.onMoveOrResizeEnd(ev.Handle)
	case platform.EventWindowTitleChanged:
		return w.onTitleChanged(ev.Handle)
	case platform.EventDisplaySettingsChanged:
		return w.refreshMonitors()
	case platform.EventKeybindingTriggered:
		return w.onKeybinding(ev.Binding)
	case platform.EventCursorMoved:
		return w.onCursorMoved(ev.Cursor)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Kind)
	}
}

func (w *WM) onWindowShown(h platform.Handle) error {
	if w.paused {
		return nil
	}
	if win := w.tree.WindowByHandle(h); win != nil {
		if win.Window.Display != container.Shown && w.tree.IsDisplayed(win) {
			w.pending.QueueContainerToRedraw(win)
		}
		return nil
	}
	info, err := w.reader.WindowInfo(h)
	if err != nil {
		return platform.NativeError("window info", h, err)
	}
	_, err = w.manageWindow(info, false)
	return err
}

func (w *WM) onWindowHidden(h platform.Handle) error {
	win := w.tree.WindowByHandle(h)
	if win == nil {
		return nil
	}
	// A hide the WM asked for completes the transition; any other hide
	// means the application went away.
	switch win.Window.Display {
	case container.Hiding:
		win.Window.Display = container.Hidden
		return nil
	case container.Shown:
		if w.paused {
			return nil
		}
		return w.unmanageWindow(win)
	}
	return nil
}

func (w *WM) onWindowDestroyed(h platform.Handle) error {
	delete(w.ignored, h)
	win := w.tree.WindowByHandle(h)
	if win == nil {
		return nil
	}
	return w.unmanageWindow(win)
}

func (w *WM) onWindowFocused(h platform.Handle) error {
	if w.paused {
		return nil
	}
	t := w.tree
	focused := t.Focused()
	found := t.WindowByHandle(h)

	// A foreign focus change right after an unmanage or minimize is the OS
	// picking its own replacement; restore ours instead.
	if !focused.IsWorkspace() && found != focused && w.withinFocusOverride() {
		w.logger.Debug("overriding native focus", "window", h)
		w.pending.QueueFocusChange()
		return nil
	}
	if found != nil && found.Window.Display == container.Hiding {
		return nil
	}
	w.pending.QueueFocusedEffectUpdate()
	if found == nil {
		return nil
	}
	if found == focused {
		w.pending.QueueWorkspaceToReorder(t.WorkspaceOf(found))
		return nil
	}

	if found.Window.Display == container.Hidden {
		w.focusWorkspace(t.WorkspaceOf(found))
	}
	w.focusContainer(found)
	w.runWindowRules(found, config.OnFocus)
	if t.Contains(found) {
		w.pending.QueueWorkspaceToReorder(t.WorkspaceOf(found))
	}
	return nil
}

func (w *WM) withinFocusOverride() bool {
	if w.unmanagedOrMinimizedAt.IsZero() {
		return false
	}
	return w.now().Sub(w.unmanagedOrMinimizedAt) < focusOverrideWindow
}

func (w *WM) onWindowMinimized(h platform.Handle) error {
	win := w.tree.WindowByHandle(h)
	if win == nil || w.paused || win.Window.State == container.Minimized {
		return nil
	}
	w.nativeState[h] = platform.StateMinimize
	return w.setState(win, container.Minimized)
}

func (w *WM) onWindowMinimizeEnded(h platform.Handle) error {
	win := w.tree.WindowByHandle(h)
	if win == nil || w.paused || win.Window.State != container.Minimized {
		return nil
	}
	delete(w.nativeState, h)
	if err := w.setState(win, restoreState(win)); err != nil {
		return err
	}
	w.focusContainer(win)
	return nil
}

func (w *WM) onMoveOrResizeStart(h platform.Handle) error {
	if w.paused {
		return nil
	}
	win := w.tree.WindowByHandle(h)
	if win == nil {
		return nil
	}
	win.Window.ActiveDrag = &container.ActiveDrag{
		Operation:    container.DragNone,
		IsFromTiling: win.IsTilingWindow(),
	}
	return nil
}

// onLocationChanged classifies an in-progress drag once the window has
// actually changed size or position.
func (w *WM) onLocationChanged(h platform.Handle) error {
	win := w.tree.WindowByHandle(h)
	if win == nil || win.Window.ActiveDrag == nil || win.Window.ActiveDrag.Operation != container.DragNone {
		return nil
	}
	info, err := w.reader.WindowInfo(h)
	if err != nil {
		return platform.NativeError("window info", h, err)
	}
	prev := w.rectOf(win)
	switch {
	case info.Rect.Width != prev.Width || info.Rect.Height != prev.Height:
		win.Window.ActiveDrag.Operation = container.DragResize
	case info.Rect.X != prev.X || info.Rect.Y != prev.Y:
		win.Window.ActiveDrag.Operation = container.DragMove
	}
	return nil
}

func (w *WM) onMoveOrResizeEnd(h platform.Handle) error {
	t := w.tree
	win := t.WindowByHandle(h)
	if win == nil {
		return nil
	}
	drag := win.Window.ActiveDrag
	win.Window.ActiveDrag = nil
	if w.paused || drag == nil {
		return nil
	}
	info, err := w.reader.WindowInfo(h)
	if err != nil {
		return platform.NativeError("window info", h, err)
	}

	switch win.Window.State {
	case container.Floating:
		win.Window.FloatingPlacement = info.Rect
		target := t.DisplayedWorkspace(w.monitorForRect(info.Rect))
		if target != nil && target != t.WorkspaceOf(win) {
			src := t.WorkspaceOf(win)
			if err := t.Move(win, target, -1); err != nil {
				return err
			}
			w.focusContainer(win)
			w.pending.QueueContainerToRedraw(src)
			w.emitContainer(EventFocusedContainerMoved, win)
			w.cleanupWorkspace(src)
		}
		w.pending.QueueContainerToRedraw(win)
	case container.Tiling:
		switch drag.Operation {
		case container.DragResize:
			w.resizeFromRect(win, info.Rect)
		case container.DragMove:
			if err := w.swapWithWindowUnderCursor(win); err != nil {
				return err
			}
		}
		w.pending.QueueContainerToRedraw(t.WorkspaceOf(win))
	}
	return nil
}

// resizeFromRect turns a finished interactive resize of a tiling window into
// tiling size changes along each axis.
func (w *WM) resizeFromRect(win *container.Container, r platform.Rect) {
	prev := w.rectOf(win)
	if dw := r.Width - prev.Width; dw != 0 {
		w.resizeTilingAxis(win, container.Horizontal, units.LengthValue{Amount: float64(dw), Relative: true})
	}
	if dh := r.Height - prev.Height; dh != 0 {
		w.resizeTilingAxis(win, container.Vertical, units.LengthValue{Amount: float64(dh), Relative: true})
	}
}

// swapWithWindowUnderCursor swaps a dragged tiling window with the tiling
// window under the cursor on the same or another workspace.
func (w *WM) swapWithWindowUnderCursor(win *container.Container) error {
	p, err := w.reader.CursorPosition()
	if err != nil {
		return platform.NativeError("cursor position", 0, err)
	}
	t := w.tree
	for _, other := range t.Windows() {
		if other == win || !other.IsTilingWindow() || !t.IsDisplayed(other) {
			continue
		}
		if r, ok := w.lastLayout[other.ID()]; ok && r.Contains(p) {
			src, dst := t.WorkspaceOf(win), t.WorkspaceOf(other)
			if err := t.Swap(win, other); err != nil {
				return err
			}
			w.pending.QueueContainersToRedraw(src, dst)
			return nil
		}
	}
	return nil
}

func (w *WM) onTitleChanged(h platform.Handle) error {
	win := w.tree.WindowByHandle(h)
	if win == nil {
		return nil
	}
	info, err := w.reader.WindowInfo(h)
	if err != nil {
		return platform.NativeError("window info", h, err)
	}
	if info.Title == win.Window.Title {
		return nil
	}
	win.Window.Title = info.Title
	if w.paused {
		return nil
	}
	w.runWindowRules(win, config.OnTitleChange)
	return nil
}

// onCursorMoved focuses the window under the cursor when
// focus_follows_cursor is on. The cursor itself is left alone.
func (w *WM) onCursorMoved(p platform.Point) error {
	if w.paused || !w.cfg.General.FocusFollowsCursor {
		return nil
	}
	focused := w.tree.Focused()
	if focused.IsWindow() && focused.Window.ActiveDrag != nil {
		return nil
	}
	win := w.windowAt(p)
	if win == nil || win == focused {
		return nil
	}
	w.focusContainer(win)
	w.pending.QueueFocusChange()
	return nil
}

// windowAt returns the displayed window under p. Floating and fullscreen
// windows sit above tiling ones; within a layer the most recently focused
// wins.
func (w *WM) windowAt(p platform.Point) *container.Container {
	var tiling *container.Container
	for _, mon := range w.tree.Monitors() {
		ws := w.tree.DisplayedWorkspace(mon)
		if ws == nil || !mon.Monitor.Rect.Contains(p) {
			continue
		}
		for _, win := range w.windowsByFocus(ws) {
			if win.Window.State == container.Minimized || !w.rectOf(win).Contains(p) {
				continue
			}
			if !win.IsTilingWindow() {
				return win
			}
			if tiling == nil {
				tiling = win
			}
		}
	}
	return tiling
}

// onKeybinding runs the commands bound to binding. Active binding modes
// are searched before the global keybindings.
func (w *WM) onKeybinding(binding string) error {
	if kb, ok := w.resolveBinding(binding); ok {
		return w.runCommandStrings(kb.Commands, nil)
	}
	w.logger.Debug("no keybinding matched", "binding", binding)
	return nil
}

func (w *WM) resolveBinding(binding string) (config.KeybindingConfig, bool) {
	want := normalizeKeys(binding)
	for _, mode := range w.bindingModes {
		if kb, ok := findBinding(mode.Keybindings, want); ok {
			return kb, true
		}
	}
	return findBinding(w.cfg.Keybindings, want)
}

func findBinding(kbs []config.KeybindingConfig, want string) (config.KeybindingConfig, bool) {
	for _, kb := range kbs {
		for _, b := range kb.Bindings {
			if normalizeKeys(b) == want {
				return kb, true
			}
		}
	}
	return config.KeybindingConfig{}, false
}

// normalizeKeys makes "Shift+Alt+H" and "alt+shift+h" compare equal.
func normalizeKeys(binding string) string {
	keys := strings.Split(strings.ToLower(binding), "+")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	slices.Sort(keys)
	return strings.Join(keys, "+")
}
