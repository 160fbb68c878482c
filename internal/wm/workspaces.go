package wm

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/mj1618/tilewm/internal/container"
)

// nextWorkspaceName picks the workspace to activate on the monitor at
// index: a configured workspace bound to it first, then any unbound one.
func (w *WM) nextWorkspaceName(monitorIndex int) string {
	t := w.tree
	for _, ws := range w.cfg.Workspaces {
		if ws.BindToMonitor != nil && *ws.BindToMonitor == monitorIndex && t.WorkspaceByName(ws.Name) == nil {
			return ws.Name
		}
	}
	for _, ws := range w.cfg.Workspaces {
		if ws.BindToMonitor == nil && t.WorkspaceByName(ws.Name) == nil {
			return ws.Name
		}
	}
	for i := len(w.cfg.Workspaces) + 1; ; i++ {
		name := strconv.Itoa(i)
		if t.WorkspaceByName(name) == nil {
			return name
		}
	}
}

// activateWorkspace creates the named workspace on mon. It does not focus
// it unless mon had no workspace before.
func (w *WM) activateWorkspace(name string, mon *container.Container) *container.Container {
	r := mon.Monitor.Rect
	dir := container.Horizontal
	if r.Height > r.Width {
		dir = container.Vertical
	}
	wsCfg, _ := w.cfg.Workspace(name)
	ws := container.NewWorkspace(name, wsCfg.DisplayName, wsCfg.KeepAlive, dir)
	if err := w.tree.Insert(mon, ws, w.workspaceIndex(mon, name)); err != nil {
		// Only reachable with a detached monitor.
		panic(fmt.Sprintf("activate workspace %q: %v", name, err))
	}
	w.emitContainer(EventWorkspaceActivated, ws)
	w.logger.Debug("workspace activated", "workspace", name, "monitor", mon.Monitor.DeviceName)
	return ws
}

// workspaceIndex keeps a monitor's workspaces sorted in config order.
func (w *WM) workspaceIndex(mon *container.Container, name string) int {
	rank := w.workspaceRank(name)
	for i, ws := range w.tree.ChildrenOf(mon) {
		if w.workspaceRank(ws.Workspace.Name) > rank {
			return i
		}
	}
	return -1
}

// workspaceRank orders workspaces by their position in the config. Names
// missing from the config sort last.
func (w *WM) workspaceRank(name string) int {
	for i, ws := range w.cfg.Workspaces {
		if ws.Name == name {
			return i
		}
	}
	return len(w.cfg.Workspaces)
}

// sortedWorkspaces returns ws sorted in config order.
func (w *WM) sortedWorkspaces(ws []*container.Container) []*container.Container {
	out := slices.Clone(ws)
	slices.SortStableFunc(out, func(a, b *container.Container) int {
		return w.workspaceRank(a.Workspace.Name) - w.workspaceRank(b.Workspace.Name)
	})
	return out
}

// cleanupWorkspace deactivates ws when it is empty, hidden and not kept
// alive.
func (w *WM) cleanupWorkspace(ws *container.Container) {
	t := w.tree
	if ws == nil || !t.Contains(ws) || ws.Workspace.KeepAlive || ws.ChildCount() > 0 || t.IsDisplayed(ws) {
		return
	}
	id, name := ws.ID(), ws.Workspace.Name
	if _, err := t.Detach(ws); err != nil {
		w.logger.Warn("failed to deactivate workspace", "workspace", name, "err", err)
		return
	}
	w.emitRemoved(EventWorkspaceDeactivated, id, name)
	w.logger.Debug("workspace deactivated", "workspace", name)
}

// focusContainer puts c on the focus path and queues the redraws that
// follow from a change of displayed workspace. It does not move native
// focus; setFocus does.
func (w *WM) focusContainer(c *container.Container) {
	t := w.tree
	prevWs := t.WorkspaceOf(t.Focused())
	mon := t.MonitorOf(c)
	prevDisplayed := t.DisplayedWorkspace(mon)

	if err := t.SetFocusedDescendant(c); err != nil {
		w.logger.Warn("failed to focus container", "id", c.ID(), "err", err)
		return
	}

	ws := t.WorkspaceOf(c)
	if prevDisplayed != nil && prevDisplayed != ws {
		w.pending.QueueContainersToRedraw(prevDisplayed, ws)
	}
	if prevWs != nil && prevWs != ws {
		w.recentWorkspace = prevWs.Workspace.Name
		w.cleanupWorkspace(prevWs)
		if prevDisplayed != nil && prevDisplayed != prevWs {
			w.cleanupWorkspace(prevDisplayed)
		}
	}
	w.pending.QueueWorkspaceToReorder(ws)
	w.pending.QueueFocusedEffectUpdate()
}

// setFocus focuses c and queues native focus, and the cursor when
// cursor_jump is on, to follow.
func (w *WM) setFocus(c *container.Container) {
	w.focusContainer(c)
	w.pending.QueueFocusChange()
	if w.cfg.General.CursorJump.Enabled {
		w.pending.QueueCursorJump()
	}
}

// focusWorkspace focuses the most recently focused descendant of ws.
func (w *WM) focusWorkspace(ws *container.Container) {
	w.setFocus(w.tree.FocusedDescendant(ws))
}

// focusWorkspaceByName focuses the named workspace, activating it first
// on its bound monitor (or the focused one) when needed.
func (w *WM) focusWorkspaceByName(name string) error {
	ws, err := w.workspaceForName(name)
	if err != nil {
		return err
	}
	w.focusWorkspace(ws)
	return nil
}

// workspaceForName returns the named workspace, activating it if it is
// configured but not active.
func (w *WM) workspaceForName(name string) (*container.Container, error) {
	t := w.tree
	if ws := t.WorkspaceByName(name); ws != nil {
		return ws, nil
	}
	wsCfg, ok := w.cfg.Workspace(name)
	if !ok {
		return nil, fmt.Errorf("%w: no workspace named %q in config", container.ErrInvalidOperation, name)
	}
	mon := t.MonitorOf(t.Focused())
	if wsCfg.BindToMonitor != nil {
		if mons := t.Monitors(); *wsCfg.BindToMonitor < len(mons) {
			mon = mons[*wsCfg.BindToMonitor]
		}
	}
	return w.activateWorkspace(name, mon), nil
}

// activeWorkspaces returns the displayed workspaces in config order.
func (w *WM) activeWorkspaces() []*container.Container {
	var out []*container.Container
	for _, mon := range w.tree.Monitors() {
		if ws := w.tree.DisplayedWorkspace(mon); ws != nil {
			out = append(out, ws)
		}
	}
	return w.sortedWorkspaces(out)
}

// cycleWorkspace returns the workspace delta steps away from current in
// list, wrapping around.
func cycleWorkspace(list []*container.Container, current *container.Container, delta int) *container.Container {
	if len(list) == 0 {
		return nil
	}
	i := slices.Index(list, current)
	if i < 0 {
		return list[0]
	}
	return list[((i+delta)%len(list)+len(list))%len(list)]
}

// workspaceTarget resolves the workspace named by a focus or move target.
// A nil result with a nil error means there is nothing to do.
func (w *WM) workspaceTarget(name string, nextActive, prevActive, next, prev, recent bool) (*container.Container, error) {
	t := w.tree
	current := t.WorkspaceOf(t.Focused())
	switch {
	case name != "":
		return w.workspaceForName(name)
	case nextActive:
		return cycleWorkspace(w.activeWorkspaces(), current, 1), nil
	case prevActive:
		return cycleWorkspace(w.activeWorkspaces(), current, -1), nil
	case next:
		return cycleWorkspace(w.sortedWorkspaces(t.Workspaces()), current, 1), nil
	case prev:
		return cycleWorkspace(w.sortedWorkspaces(t.Workspaces()), current, -1), nil
	case recent:
		_, configured := w.cfg.Workspace(w.recentWorkspace)
		if w.recentWorkspace == "" || (!configured && t.WorkspaceByName(w.recentWorkspace) == nil) {
			return nil, nil
		}
		return w.workspaceForName(w.recentWorkspace)
	}
	return nil, nil
}
