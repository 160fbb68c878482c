package wm

import (
	"math"

	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
)

// addMonitor inserts a monitor and activates a workspace on it.
func (w *WM) addMonitor(info platform.MonitorInfo) *container.Container {
	t := w.tree
	mon := container.NewMonitor(info)
	_ = t.Insert(t.Root(), mon, -1)

	index := len(t.Monitors()) - 1
	w.activateWorkspace(w.nextWorkspaceName(index), mon)
	w.emitContainer(EventMonitorAdded, mon)
	w.logger.Info("monitor added", "device", info.DeviceName, "rect", info.Rect)
	return mon
}

// removeMonitor moves the monitor's workspaces to another monitor and
// detaches it. The last monitor is never removed.
func (w *WM) removeMonitor(mon *container.Container) {
	t := w.tree
	var target *container.Container
	for _, m := range t.Monitors() {
		if m != mon {
			target = m
			break
		}
	}
	if target == nil {
		return
	}
	for _, ws := range t.ChildrenOf(mon) {
		if err := t.Move(ws, target, -1); err != nil {
			w.logger.Warn("failed to move workspace off removed monitor", "workspace", ws.Workspace.Name, "err", err)
		}
	}
	id, name := mon.ID(), mon.Monitor.DeviceName
	if _, err := t.Detach(mon); err != nil {
		w.logger.Warn("failed to remove monitor", "device", name, "err", err)
		return
	}
	w.emitRemoved(EventMonitorRemoved, id, name)
	w.logger.Info("monitor removed", "device", name)
}

// refreshMonitors reconciles monitors with the connected displays: new
// displays are added, changed ones updated and missing ones removed.
func (w *WM) refreshMonitors() error {
	infos, err := w.reader.Monitors()
	if err != nil {
		return platform.NativeError("monitors", 0, err)
	}
	if len(infos) == 0 {
		w.logger.Warn("display change reported no monitors; keeping current state")
		return nil
	}

	t := w.tree
	connected := make(map[string]bool, len(infos))
	for _, info := range infos {
		connected[info.DeviceName] = true
		mon := w.monitorByDevice(info.DeviceName)
		if mon == nil {
			w.addMonitor(info)
			continue
		}
		if mon.Monitor.Rect != info.Rect || mon.Monitor.Primary != info.Primary {
			mon.Monitor.Rect = info.Rect
			mon.Monitor.Primary = info.Primary
			w.emitContainer(EventMonitorUpdated, mon)
		}
	}
	for _, mon := range t.Monitors() {
		if !connected[mon.Monitor.DeviceName] {
			w.removeMonitor(mon)
		}
	}

	// Floating windows stranded outside their monitor are re-centered.
	for _, win := range t.Windows() {
		monRect := t.MonitorOf(win).Monitor.Rect
		if !monRect.Contains(win.Window.FloatingPlacement.Center()) {
			win.Window.FloatingPlacement = win.Window.FloatingPlacement.TranslateToCenter(monRect)
		}
	}
	w.pending.QueueFullRedraw()
	w.pending.QueueFocusChange()
	return nil
}

func (w *WM) monitorByDevice(name string) *container.Container {
	for _, m := range w.tree.Monitors() {
		if m.Monitor.DeviceName == name {
			return m
		}
	}
	return nil
}

// monitorForRect returns the monitor overlapping r the most, falling back
// to the monitor nearest to r's center.
func (w *WM) monitorForRect(r platform.Rect) *container.Container {
	var best *container.Container
	bestArea := 0
	for _, m := range w.tree.Monitors() {
		if a := m.Monitor.Rect.IntersectionArea(r); a > bestArea {
			best, bestArea = m, a
		}
	}
	if best != nil {
		return best
	}
	c := r.Center()
	bestDist := math.MaxInt
	for _, m := range w.tree.Monitors() {
		mc := m.Monitor.Rect.Center()
		if d := abs(mc.X-c.X) + abs(mc.Y-c.Y); d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

// monitorInDirection returns the closest monitor lying entirely beyond
// origin's edge in dir. Monitors overlapping origin on the other axis win
// over diagonal ones.
func (w *WM) monitorInDirection(origin *container.Container, dir container.Direction) *container.Container {
	o := origin.Monitor.Rect
	var best *container.Container
	bestDist := math.MaxInt
	for _, m := range w.tree.Monitors() {
		if m == origin {
			continue
		}
		r := m.Monitor.Rect
		var dist int
		switch dir {
		case container.Left:
			if r.Right() > o.X {
				continue
			}
			dist = o.X - r.Right()
		case container.Right:
			if r.X < o.Right() {
				continue
			}
			dist = r.X - o.Right()
		case container.Up:
			if r.Bottom() > o.Y {
				continue
			}
			dist = o.Y - r.Bottom()
		case container.Down:
			if r.Y < o.Bottom() {
				continue
			}
			dist = r.Y - o.Bottom()
		}
		if !overlapsOnCrossAxis(o, r, dir.Axis()) {
			dist += 1 << 20
		}
		if dist < bestDist {
			best, bestDist = m, dist
		}
	}
	return best
}

func overlapsOnCrossAxis(a, b platform.Rect, axis container.TilingDirection) bool {
	if axis == container.Horizontal {
		return a.Y < b.Bottom() && b.Y < a.Bottom()
	}
	return a.X < b.Right() && b.X < a.Right()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
