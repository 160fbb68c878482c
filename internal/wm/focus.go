package wm

import (
	"fmt"
	"math"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/container"
)

func (w *WM) focus(subject *container.Container, cmd command.Focus) error {
	t := w.tree
	switch {
	case cmd.Direction != nil:
		if target := w.focusTargetInDirection(subject, *cmd.Direction); target != nil {
			w.setFocus(target)
		}
		return nil
	case cmd.Monitor != nil:
		mons := t.Monitors()
		if *cmd.Monitor < 0 || *cmd.Monitor >= len(mons) {
			return fmt.Errorf("%w: no monitor at index %d", container.ErrInvalidOperation, *cmd.Monitor)
		}
		w.focusWorkspace(t.DisplayedWorkspace(mons[*cmd.Monitor]))
		return nil
	}

	ws, err := w.workspaceTarget(cmd.Workspace, cmd.NextActiveWorkspace, cmd.PrevActiveWorkspace,
		cmd.NextWorkspace, cmd.PrevWorkspace, cmd.RecentWorkspace)
	if err != nil || ws == nil {
		return err
	}
	w.focusWorkspace(ws)
	return nil
}

// focusTargetInDirection finds the container focus should move to from
// origin in dir, or nil when there is none.
func (w *WM) focusTargetInDirection(origin *container.Container, dir container.Direction) *container.Container {
	t := w.tree
	// Monitors and the root have no siblings to move between; start from
	// the workspace they display.
	switch origin.Kind() {
	case container.KindRoot:
		origin = t.WorkspaceOf(t.Focused())
	case container.KindMonitor:
		origin = t.DisplayedWorkspace(origin)
	}
	if origin == nil {
		return nil
	}
	if origin.IsWindow() && !origin.IsTilingWindow() {
		return w.nonTilingInDirection(origin, dir)
	}

	if !origin.IsWorkspace() {
		// Climb until an ancestor lies along dir and has a neighbour on
		// that side.
		for c := origin; c != nil && !c.IsWorkspace(); c = t.Parent(c) {
			p := t.Parent(c)
			if p == nil {
				break
			}
			if pd, ok := p.TilingDirection(); !ok || pd != dir.Axis() {
				continue
			}
			if sib := w.tilingNeighbour(c, dir); sib != nil {
				return w.descendantInDirection(sib, dir.Inverse())
			}
		}
	}

	mon := w.monitorInDirection(t.MonitorOf(origin), dir)
	if mon == nil {
		return nil
	}
	ws := t.DisplayedWorkspace(mon)
	if ws == nil {
		return nil
	}
	return w.descendantInDirection(ws, dir.Inverse())
}

// tilingNeighbour returns the nearest tiling sibling of c in dir.
func (w *WM) tilingNeighbour(c *container.Container, dir container.Direction) *container.Container {
	kids := w.tree.TilingChildren(w.tree.Parent(c))
	for i, k := range kids {
		if k != c {
			continue
		}
		if dir.Backward() && i > 0 {
			return kids[i-1]
		}
		if !dir.Backward() && i < len(kids)-1 {
			return kids[i+1]
		}
		return nil
	}
	return nil
}

// descendantInDirection descends from c towards the edge facing edge: along
// a matching axis it takes the child on that edge, otherwise the most
// recently focused child.
func (w *WM) descendantInDirection(c *container.Container, edge container.Direction) *container.Container {
	t := w.tree
	for {
		kids := t.TilingChildren(c)
		if len(kids) == 0 {
			if c.IsWorkspace() {
				// Fall back to the last focused non-tiling window.
				if fd := t.FocusedDescendant(c); fd != c {
					return fd
				}
			}
			return c
		}
		var next *container.Container
		if dir, ok := c.TilingDirection(); ok && dir == edge.Axis() {
			if edge.Backward() {
				next = kids[0]
			} else {
				next = kids[len(kids)-1]
			}
		} else {
			for _, f := range t.FocusOrder(c) {
				if f.ParticipatesInTiling() {
					next = f
					break
				}
			}
		}
		c = next
	}
}

// nonTilingInDirection picks the closest floating or fullscreen window of
// the same workspace whose center lies in dir.
func (w *WM) nonTilingInDirection(origin *container.Container, dir container.Direction) *container.Container {
	t := w.tree
	oc := w.rectOf(origin).Center()
	var best *container.Container
	bestDist := math.MaxInt
	for _, c := range t.ChildrenOf(t.WorkspaceOf(origin)) {
		if c == origin || !c.IsWindow() || c.IsTilingWindow() || c.Window.State == container.Minimized {
			continue
		}
		cc := w.rectOf(c).Center()
		var along, across int
		switch dir {
		case container.Left:
			along, across = oc.X-cc.X, cc.Y-oc.Y
		case container.Right:
			along, across = cc.X-oc.X, cc.Y-oc.Y
		case container.Up:
			along, across = oc.Y-cc.Y, cc.X-oc.X
		case container.Down:
			along, across = cc.Y-oc.Y, cc.X-oc.X
		}
		if along <= 0 {
			continue
		}
		if d := along + abs(across); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// cycleFocus moves focus to the next category of window in the focused
// workspace: tiling, then floating, then fullscreen, then minimized.
func (w *WM) cycleFocus(cmd command.WmCycleFocus) error {
	t := w.tree
	focused := t.Focused()
	ws := t.WorkspaceOf(focused)
	if ws == nil {
		return nil
	}

	order := []container.TilingState{container.Tiling, container.Floating}
	if !cmd.OmitFullscreen {
		order = append(order, container.Fullscreen)
	}
	if !cmd.OmitMinimized {
		order = append(order, container.Minimized)
	}

	start := 0
	if focused.IsWindow() {
		for i, s := range order {
			if s == focused.Window.State {
				start = i
			}
		}
	}
	windows := w.windowsByFocus(ws)
	for step := 1; step <= len(order); step++ {
		want := order[(start+step)%len(order)]
		for _, win := range windows {
			if win.Window.State != want || win == focused {
				continue
			}
			if want == container.Minimized {
				if err := w.setState(win, restoreState(win)); err != nil {
					return err
				}
			}
			w.setFocus(win)
			return nil
		}
	}
	return nil
}
