// Package pendingsync collects the side effects queued while one event or
// command is processed. The WM loop flushes them once per cycle, so repeated
// requests for the same container collapse into a single native call.
package pendingsync

import (
	"github.com/mj1618/tilewm/internal/container"
)

// PendingSync is a set of deduplicated, insertion-ordered queues plus flags.
// The zero value is ready to use.
type PendingSync struct {
	redraw     orderedSet
	reorder    orderedSet
	fullRedraw bool

	focusChange         bool
	focusedEffectUpdate bool
	allEffectsUpdate    bool
	cursorJump          bool
}

// QueueContainerToRedraw marks c (and, when flushed, its descendants) for a
// rect update.
func (p *PendingSync) QueueContainerToRedraw(c *container.Container) {
	p.redraw.add(c.ID())
}

// QueueContainersToRedraw marks several containers at once.
func (p *PendingSync) QueueContainersToRedraw(cs ...*container.Container) {
	for _, c := range cs {
		p.redraw.add(c.ID())
	}
}

// QueueFullRedraw asks the flush to redraw every container.
func (p *PendingSync) QueueFullRedraw() { p.fullRedraw = true }

// QueueWorkspaceToReorder marks a workspace for a z-order update.
func (p *PendingSync) QueueWorkspaceToReorder(ws *container.Container) {
	p.reorder.add(ws.ID())
}

// QueueFocusChange requests that native focus be set to the focused
// container.
func (p *PendingSync) QueueFocusChange() { p.focusChange = true }

// QueueFocusedEffectUpdate requests that focus effects be re-applied to the
// previously and currently focused windows.
func (p *PendingSync) QueueFocusedEffectUpdate() { p.focusedEffectUpdate = true }

// QueueAllEffectsUpdate requests that effects be re-applied to every window,
// e.g. after a config reload.
func (p *PendingSync) QueueAllEffectsUpdate() { p.allEffectsUpdate = true }

// QueueCursorJump requests that the cursor be moved to the focused window.
func (p *PendingSync) QueueCursorJump() { p.cursorJump = true }

// ContainersToRedraw returns the queued container ids in queue order.
func (p *PendingSync) ContainersToRedraw() []container.ID { return p.redraw.items() }

// WorkspacesToReorder returns the queued workspace ids in queue order.
func (p *PendingSync) WorkspacesToReorder() []container.ID { return p.reorder.items() }

func (p *PendingSync) NeedsFullRedraw() bool          { return p.fullRedraw }
func (p *PendingSync) NeedsFocusChange() bool         { return p.focusChange }
func (p *PendingSync) NeedsFocusedEffectUpdate() bool { return p.focusedEffectUpdate }
func (p *PendingSync) NeedsAllEffectsUpdate() bool    { return p.allEffectsUpdate }
func (p *PendingSync) NeedsCursorJump() bool          { return p.cursorJump }

// IsEmpty reports whether nothing is queued.
func (p *PendingSync) IsEmpty() bool {
	return p.redraw.len() == 0 && p.reorder.len() == 0 && !p.fullRedraw &&
		!p.focusChange && !p.focusedEffectUpdate && !p.allEffectsUpdate && !p.cursorJump
}

// Clear drops everything queued.
func (p *PendingSync) Clear() {
	*p = PendingSync{}
}

type orderedSet struct {
	order []container.ID
	seen  map[container.ID]struct{}
}

func (s *orderedSet) add(id container.ID) {
	if s.seen == nil {
		s.seen = make(map[container.ID]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *orderedSet) items() []container.ID {
	out := make([]container.ID, len(s.order))
	copy(out, s.order)
	return out
}

func (s *orderedSet) len() int { return len(s.order) }
