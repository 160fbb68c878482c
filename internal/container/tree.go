package container

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/mj1618/tilewm/internal/platform"
)

var (
	// ErrContainerNotFound is returned when an id does not resolve.
	ErrContainerNotFound = errors.New("container not found")

	// ErrInvalidOperation is returned for mutations that would break the
	// tree, such as detaching the root or moving a container into itself.
	ErrInvalidOperation = errors.New("invalid operation")
)

// RatioEpsilon is the tolerance used when checking that sibling tiling
// sizes sum to one.
const RatioEpsilon = 1e-6

// MinTilingSize is the smallest share a resize may leave a container with.
const MinTilingSize = 0.01

// Tree is an arena of containers rooted at a single Root.
type Tree struct {
	nodes map[ID]*Container
	root  ID
}

// NewTree creates a tree holding only the root container.
func NewTree() *Tree {
	root := newContainer(KindRoot)
	return &Tree{
		nodes: map[ID]*Container{root.id: root},
		root:  root.id,
	}
}

// Root returns the root container.
func (t *Tree) Root() *Container { return t.nodes[t.root] }

// Len returns the number of attached containers, the root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Get resolves an id.
func (t *Tree) Get(id ID) (*Container, error) {
	c, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContainerNotFound, id)
	}
	return c, nil
}

// Contains reports whether c is attached to the tree.
func (t *Tree) Contains(c *Container) bool {
	if c == nil {
		return false
	}
	n, ok := t.nodes[c.id]
	return ok && n == c
}

func (t *Tree) node(id ID) *Container {
	if id == uuid.Nil {
		return nil
	}
	return t.nodes[id]
}

// Parent returns c's parent, or nil for the root.
func (t *Tree) Parent(c *Container) *Container {
	return t.node(c.parent)
}

// ChildrenOf returns c's children in order.
func (t *Tree) ChildrenOf(c *Container) []*Container {
	out := make([]*Container, 0, len(c.children))
	for _, id := range c.children {
		out = append(out, t.nodes[id])
	}
	return out
}

// TilingChildren returns the children of c that take part in ratio division.
func (t *Tree) TilingChildren(c *Container) []*Container {
	var out []*Container
	for _, id := range c.children {
		if ch := t.nodes[id]; ch.ParticipatesInTiling() {
			out = append(out, ch)
		}
	}
	return out
}

// FocusOrder returns c's children, most recently focused first.
func (t *Tree) FocusOrder(c *Container) []*Container {
	out := make([]*Container, 0, len(c.focusOrder))
	for _, id := range c.focusOrder {
		out = append(out, t.nodes[id])
	}
	return out
}

// Index returns c's position among its siblings, or -1 for the root.
func (t *Tree) Index(c *Container) int {
	p := t.Parent(c)
	if p == nil {
		return -1
	}
	return indexOf(p.children, c.id)
}

// FocusIndex returns c's position in its parent's focus order.
func (t *Tree) FocusIndex(c *Container) int {
	p := t.Parent(c)
	if p == nil {
		return -1
	}
	return indexOf(p.focusOrder, c.id)
}

// Siblings returns the other children of c's parent.
func (t *Tree) Siblings(c *Container) []*Container {
	p := t.Parent(c)
	if p == nil {
		return nil
	}
	var out []*Container
	for _, id := range p.children {
		if id != c.id {
			out = append(out, t.nodes[id])
		}
	}
	return out
}

// TilingSiblings returns the siblings of c that take part in ratio division.
func (t *Tree) TilingSiblings(c *Container) []*Container {
	var out []*Container
	for _, s := range t.Siblings(c) {
		if s.ParticipatesInTiling() {
			out = append(out, s)
		}
	}
	return out
}

// Ancestors returns c's ancestors from its parent up to the root.
func (t *Tree) Ancestors(c *Container) []*Container {
	var out []*Container
	for p := t.Parent(c); p != nil; p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// AncestorOfKind returns the nearest strict ancestor of c with the given
// kind, or nil.
func (t *Tree) AncestorOfKind(c *Container, kind Kind) *Container {
	for p := t.Parent(c); p != nil; p = t.Parent(p) {
		if p.kind == kind {
			return p
		}
	}
	return nil
}

// WorkspaceOf returns the workspace c belongs to (c itself if it is one).
func (t *Tree) WorkspaceOf(c *Container) *Container {
	if c.kind == KindWorkspace {
		return c
	}
	return t.AncestorOfKind(c, KindWorkspace)
}

// MonitorOf returns the monitor c belongs to (c itself if it is one).
func (t *Tree) MonitorOf(c *Container) *Container {
	if c.kind == KindMonitor {
		return c
	}
	return t.AncestorOfKind(c, KindMonitor)
}

// IsDescendant reports whether c lies in the subtree rooted at of (c == of
// counts).
func (t *Tree) IsDescendant(c, of *Container) bool {
	for n := c; n != nil; n = t.Parent(n) {
		if n.id == of.id {
			return true
		}
	}
	return false
}

// Descendants returns every container below c in depth-first pre-order.
func (t *Tree) Descendants(c *Container) []*Container {
	var out []*Container
	var walk func(*Container)
	walk = func(n *Container) {
		for _, id := range n.children {
			ch := t.nodes[id]
			out = append(out, ch)
			walk(ch)
		}
	}
	walk(c)
	return out
}

func (t *Tree) descendantsOfKind(c *Container, kind Kind) []*Container {
	var out []*Container
	for _, d := range t.Descendants(c) {
		if d.kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Monitors returns all monitors in order.
func (t *Tree) Monitors() []*Container { return t.ChildrenOf(t.Root()) }

// Workspaces returns all workspaces, grouped by monitor.
func (t *Tree) Workspaces() []*Container { return t.descendantsOfKind(t.Root(), KindWorkspace) }

// Windows returns all managed windows.
func (t *Tree) Windows() []*Container { return t.descendantsOfKind(t.Root(), KindWindow) }

// WindowsOf returns the windows below c.
func (t *Tree) WindowsOf(c *Container) []*Container { return t.descendantsOfKind(c, KindWindow) }

// WindowByHandle finds the managed window wrapping h.
func (t *Tree) WindowByHandle(h platform.Handle) *Container {
	for _, w := range t.Windows() {
		if w.Window.Handle == h {
			return w
		}
	}
	return nil
}

// WorkspaceByName finds a workspace by name.
func (t *Tree) WorkspaceByName(name string) *Container {
	for _, ws := range t.Workspaces() {
		if ws.Workspace.Name == name {
			return ws
		}
	}
	return nil
}

// FocusedDescendant follows the focus order down from c and returns the
// deepest container reached. A container without children returns itself.
func (t *Tree) FocusedDescendant(c *Container) *Container {
	cur := c
	for len(cur.focusOrder) > 0 {
		cur = t.nodes[cur.focusOrder[0]]
	}
	return cur
}

// Focused returns the globally focused container.
func (t *Tree) Focused() *Container {
	return t.FocusedDescendant(t.Root())
}

// IsFocusPath reports whether c lies on the global focus path.
func (t *Tree) IsFocusPath(c *Container) bool {
	return t.IsDescendant(t.Focused(), c)
}

// DisplayedWorkspace returns the workspace a monitor currently shows: the
// most recently focused one.
func (t *Tree) DisplayedWorkspace(monitor *Container) *Container {
	if monitor == nil || len(monitor.focusOrder) == 0 {
		return nil
	}
	return t.nodes[monitor.focusOrder[0]]
}

// IsDisplayed reports whether c's workspace is the displayed one on its
// monitor.
func (t *Tree) IsDisplayed(c *Container) bool {
	ws := t.WorkspaceOf(c)
	if ws == nil {
		return false
	}
	return t.DisplayedWorkspace(t.Parent(ws)) == ws
}

// SetFocusedDescendant puts c on the global focus path by moving every
// container between c and the root to the front of its parent's focus
// order.
func (t *Tree) SetFocusedDescendant(c *Container) error {
	return t.SetFocusedDescendantWithin(c, nil)
}

// SetFocusedDescendantWithin updates focus orders from c up to, but not
// past, end. A nil end walks to the root.
func (t *Tree) SetFocusedDescendantWithin(c, end *Container) error {
	if !t.Contains(c) {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, c.id)
	}
	for n := c; ; {
		p := t.Parent(n)
		if p == nil {
			return nil
		}
		p.focusOrder = moveToFront(p.focusOrder, n.id)
		if end != nil && p.id == end.id {
			return nil
		}
		n = p
	}
}

// ValidateRatios checks that the tiling children of every container sum to
// one.
func (t *Tree) ValidateRatios() error {
	for _, c := range t.nodes {
		kids := t.TilingChildren(c)
		if len(kids) == 0 {
			continue
		}
		sum := 0.0
		for _, k := range kids {
			sum += k.tilingSize
		}
		if math.Abs(sum-1) > RatioEpsilon {
			return fmt.Errorf("tiling sizes under %s %s sum to %f", c.kind, c.id, sum)
		}
	}
	return nil
}

func indexOf(ids []ID, id ID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeID(ids []ID, id ID) []ID {
	i := indexOf(ids, id)
	if i < 0 {
		return ids
	}
	return append(ids[:i:i], ids[i+1:]...)
}

func insertID(ids []ID, id ID, index int) []ID {
	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	out := make([]ID, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	return append(out, ids[index:]...)
}

func moveToFront(ids []ID, id ID) []ID {
	return insertID(removeID(ids, id), id, 0)
}
