package wm

import (
	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/container"
)

func (w *WM) move(win *container.Container, cmd command.Move) error {
	if cmd.Direction != nil {
		return w.moveInDirection(win, *cmd.Direction)
	}
	ws, err := w.workspaceTarget(cmd.Workspace, cmd.NextActiveWorkspace, cmd.PrevActiveWorkspace,
		cmd.NextWorkspace, cmd.PrevWorkspace, cmd.RecentWorkspace)
	if err != nil || ws == nil {
		return err
	}
	return w.moveToWorkspace(win, ws)
}

func (w *WM) moveInDirection(win *container.Container, dir container.Direction) error {
	switch win.Window.State {
	case container.Tiling:
		return w.moveTilingWindow(win, dir)
	case container.Floating:
		return w.moveFloatingWindow(win, dir)
	case container.Fullscreen:
		if mon := w.monitorInDirection(w.tree.MonitorOf(win), dir); mon != nil {
			return w.moveToWorkspaceOnMonitor(win, mon, dir)
		}
	}
	return nil
}

// moveTilingWindow moves win one step in dir: past or into its neighbour
// when its container lies along dir, onto the next monitor from the edge
// of a workspace, or out into the nearest ancestor laid out along dir.
func (w *WM) moveTilingWindow(win *container.Container, dir container.Direction) error {
	t := w.tree
	parent := t.Parent(win)
	pd, _ := parent.TilingDirection()
	matching := pd == dir.Axis()

	if matching {
		if sib := w.tilingNeighbour(win, dir); sib != nil {
			return w.moveIntoSibling(win, sib, dir)
		}
		if parent.IsWorkspace() {
			mon := w.monitorInDirection(t.MonitorOf(win), dir)
			if mon == nil {
				return nil
			}
			return w.moveToWorkspaceOnMonitor(win, mon, dir)
		}
	}
	if parent.IsWorkspace() {
		return w.changeWorkspaceDirection(win, dir)
	}

	// Find the closest ancestor laid out along dir and the child of it
	// that holds win.
	child := parent
	for anc := t.Parent(parent); anc != nil && !anc.IsRoot(); anc = t.Parent(anc) {
		if d, ok := anc.TilingDirection(); ok && d == dir.Axis() {
			index := t.Index(child)
			if !dir.Backward() {
				index++
			}
			if err := t.Move(win, anc, index); err != nil {
				return err
			}
			w.pending.QueueContainerToRedraw(t.WorkspaceOf(win))
			return nil
		}
		if anc.IsWorkspace() {
			break
		}
		child = anc
	}
	return w.changeWorkspaceDirection(win, dir)
}

// moveIntoSibling moves win past a tiling window sibling, or into the edge
// of a split sibling facing win.
func (w *WM) moveIntoSibling(win, sib *container.Container, dir container.Direction) error {
	t := w.tree
	if sib.IsWindow() {
		if err := t.Move(win, t.Parent(win), t.Index(sib)); err != nil {
			return err
		}
		w.pending.QueueContainerToRedraw(t.WorkspaceOf(win))
		return nil
	}

	target := w.descendantInDirection(sib, dir.Inverse())
	tp := t.Parent(target)
	index := t.Index(target) + 1
	if d, _ := tp.TilingDirection(); d == dir.Axis() && !dir.Backward() {
		index = t.Index(target)
	}
	if err := t.Move(win, tp, index); err != nil {
		return err
	}
	w.pending.QueueContainerToRedraw(t.WorkspaceOf(win))
	return nil
}

// changeWorkspaceDirection turns win's workspace to lay out along dir and
// puts win on that edge. The other children keep their arrangement inside
// a split of the old direction.
func (w *WM) changeWorkspaceDirection(win *container.Container, dir container.Direction) error {
	t := w.tree
	ws := t.WorkspaceOf(win)
	old, _ := ws.TilingDirection()

	if t.Parent(win) != ws {
		if err := t.Move(win, ws, -1); err != nil {
			return err
		}
	}
	var others []*container.Container
	for _, c := range t.TilingChildren(ws) {
		if c != win {
			others = append(others, c)
		}
	}
	if len(others) > 1 {
		split, err := t.WrapInSplit(others[0], old)
		if err != nil {
			return err
		}
		for _, c := range others[1:] {
			if err := t.Move(c, split, -1); err != nil {
				return err
			}
		}
	}
	ws.SetTilingDirection(dir.Axis())
	index := -1
	if dir.Backward() {
		index = 0
	}
	if err := t.Move(win, ws, index); err != nil {
		return err
	}
	w.pending.QueueContainerToRedraw(ws)
	if old != dir.Axis() {
		w.emit(Event{Type: EventTilingDirectionChanged, Container: ptr(w.snapshot(ws)), TilingDirection: dir.Axis().String()})
	}
	return nil
}

// moveToWorkspaceOnMonitor moves win onto the workspace displayed on mon,
// entering from the edge opposite dir.
func (w *WM) moveToWorkspaceOnMonitor(win, mon *container.Container, dir container.Direction) error {
	t := w.tree
	target := t.DisplayedWorkspace(mon)
	if target == nil {
		return nil
	}
	src := t.WorkspaceOf(win)
	index := 0
	if dir.Backward() {
		index = -1
	}
	if !win.IsTilingWindow() {
		index = -1
	}
	if err := t.Move(win, target, index); err != nil {
		return err
	}
	win.Window.FloatingPlacement = win.Window.FloatingPlacement.TranslateToCenter(mon.Monitor.Rect)
	w.setFocus(win)
	w.pending.QueueContainersToRedraw(src, target)
	w.emitContainer(EventFocusedContainerMoved, win)
	w.cleanupWorkspace(src)
	return nil
}

// moveFloatingWindow shifts a floating window by floating_move_amount. A
// window whose center would leave its monitor jumps to the monitor in dir,
// or stays put when there is none.
func (w *WM) moveFloatingWindow(win *container.Container, dir container.Direction) error {
	t := w.tree
	mon := t.MonitorOf(win)
	monRect := mon.Monitor.Rect
	amount := w.cfg.WindowBehavior.FloatingMoveAmount
	r := win.Window.FloatingPlacement
	switch dir {
	case container.Left:
		r.X -= amount.ToPixels(monRect.Width)
	case container.Right:
		r.X += amount.ToPixels(monRect.Width)
	case container.Up:
		r.Y -= amount.ToPixels(monRect.Height)
	case container.Down:
		r.Y += amount.ToPixels(monRect.Height)
	}

	if !monRect.Contains(r.Center()) {
		next := w.monitorInDirection(mon, dir)
		if next == nil {
			return nil
		}
		target := t.DisplayedWorkspace(next)
		src := t.WorkspaceOf(win)
		if target != nil && target != src {
			if err := t.Move(win, target, -1); err != nil {
				return err
			}
			w.setFocus(win)
			w.pending.QueueContainerToRedraw(src)
			w.emitContainer(EventFocusedContainerMoved, win)
			w.cleanupWorkspace(src)
		}
	}
	win.Window.FloatingPlacement = r
	w.pending.QueueContainerToRedraw(win)
	return nil
}

// moveToWorkspace sends win to ws without following it. Focus stays on the
// source workspace.
func (w *WM) moveToWorkspace(win, ws *container.Container) error {
	t := w.tree
	src := t.WorkspaceOf(win)
	if src == ws {
		return nil
	}
	var next *container.Container
	if t.Focused() == win {
		next = w.focusTargetAfterRemoval(win)
	}

	parent, index := ws, -1
	if win.IsTilingWindow() {
		parent, index = w.tilingInsertionPoint(ws, win)
	}
	if err := t.Move(win, parent, index); err != nil {
		return err
	}
	if from, to := t.MonitorOf(src), t.MonitorOf(ws); from != to {
		win.Window.FloatingPlacement = win.Window.FloatingPlacement.TranslateToCenter(to.Monitor.Rect)
	}
	// win is now the focused descendant of ws.
	if err := t.SetFocusedDescendantWithin(win, ws); err != nil {
		return err
	}
	if next != nil {
		w.setFocus(next)
	}

	w.pending.QueueContainersToRedraw(src, ws)
	w.pending.QueueWorkspaceToReorder(ws)
	w.cleanupWorkspace(src)
	return nil
}

// moveWorkspace moves ws to the monitor in dir. The source monitor gets a
// new workspace if ws was its only one.
func (w *WM) moveWorkspace(ws *container.Container, dir container.Direction) error {
	t := w.tree
	src := t.MonitorOf(ws)
	target := w.monitorInDirection(src, dir)
	if target == nil {
		return nil
	}
	if src.ChildCount() == 1 {
		w.activateWorkspace(w.nextWorkspaceName(t.Index(src)), src)
	}
	if err := t.Move(ws, target, w.workspaceIndex(target, ws.Workspace.Name)); err != nil {
		return err
	}
	for _, win := range t.WindowsOf(ws) {
		win.Window.FloatingPlacement = win.Window.FloatingPlacement.TranslateToCenter(target.Monitor.Rect)
	}
	w.focusWorkspace(ws)
	w.pending.QueueFullRedraw()
	w.emitContainer(EventWorkspaceUpdated, ws)
	return nil
}
