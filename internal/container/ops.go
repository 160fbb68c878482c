package container

import (
	"fmt"

	"github.com/google/uuid"
)

// Subtree is a detached container together with its descendants. It can be
// re-attached with Attach.
type Subtree struct {
	Root  *Container
	nodes []*Container
}

// Insert attaches a newly created container under parent at index (out of
// range appends). A container that participates in tiling gets an equal
// share and its new siblings are scaled down proportionally.
func (t *Tree) Insert(parent, child *Container, index int) error {
	if !t.Contains(parent) {
		return fmt.Errorf("%w: parent %s", ErrContainerNotFound, parent.id)
	}
	if t.Contains(child) || len(child.children) > 0 {
		return fmt.Errorf("%w: %s %s is already attached", ErrInvalidOperation, child.kind, child.id)
	}
	return t.Attach(parent, &Subtree{Root: child, nodes: []*Container{child}}, index)
}

// Attach re-inserts a previously detached subtree.
func (t *Tree) Attach(parent *Container, sub *Subtree, index int) error {
	if !t.Contains(parent) {
		return fmt.Errorf("%w: parent %s", ErrContainerNotFound, parent.id)
	}
	if sub == nil || sub.Root == nil || sub.Root.kind == KindRoot {
		return fmt.Errorf("%w: cannot attach an empty subtree or a root", ErrInvalidOperation)
	}
	if !canContain(parent, sub.Root) {
		return fmt.Errorf("%w: %s cannot contain %s", ErrInvalidOperation, parent.kind, sub.Root.kind)
	}
	for _, n := range sub.nodes {
		if _, ok := t.nodes[n.id]; ok {
			return fmt.Errorf("%w: %s is already attached", ErrInvalidOperation, n.id)
		}
	}
	for _, n := range sub.nodes {
		t.nodes[n.id] = n
	}
	t.insertRaw(parent, sub.Root, index)
	return nil
}

// Detach removes c and its descendants from the tree. Remaining tiling
// siblings are rescaled to fill the freed space and a split left with zero
// or one child collapses into its parent.
func (t *Tree) Detach(c *Container) (*Subtree, error) {
	if !t.Contains(c) {
		return nil, fmt.Errorf("%w: %s", ErrContainerNotFound, c.id)
	}
	if c.kind == KindRoot {
		return nil, fmt.Errorf("%w: cannot detach the root container", ErrInvalidOperation)
	}

	sub := &Subtree{Root: c, nodes: append([]*Container{c}, t.Descendants(c)...)}
	parent := t.detachRaw(c)
	for _, n := range sub.nodes {
		delete(t.nodes, n.id)
	}
	t.collapse(parent)
	return sub, nil
}

// Move re-parents c under parent at index. Moving within the same parent
// only reorders. Ratios are recomputed in both source and destination and
// c keeps its place on the focus path.
func (t *Tree) Move(c, parent *Container, index int) error {
	if !t.Contains(c) {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, c.id)
	}
	if !t.Contains(parent) {
		return fmt.Errorf("%w: parent %s", ErrContainerNotFound, parent.id)
	}
	if c.kind == KindRoot {
		return fmt.Errorf("%w: cannot move the root container", ErrInvalidOperation)
	}
	if t.IsDescendant(parent, c) {
		return fmt.Errorf("%w: cannot move %s into its own subtree", ErrInvalidOperation, c.id)
	}
	if !canContain(parent, c) {
		return fmt.Errorf("%w: %s cannot contain %s", ErrInvalidOperation, parent.kind, c.kind)
	}

	old := t.Parent(c)
	if old == parent {
		parent.children = insertID(removeID(parent.children, c.id), c.id, index)
		return nil
	}

	focused := t.IsFocusPath(c)
	t.detachRaw(c)
	t.insertRaw(parent, c, index)
	if focused {
		parent.focusOrder = moveToFront(parent.focusOrder, c.id)
	}
	t.collapse(old)
	return nil
}

// Swap exchanges the positions and tiling sizes of a and b. The focused
// container stays focused.
func (t *Tree) Swap(a, b *Container) error {
	if !t.Contains(a) {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, a.id)
	}
	if !t.Contains(b) {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, b.id)
	}
	if a.id == b.id {
		return nil
	}
	if a.kind == KindRoot || b.kind == KindRoot {
		return fmt.Errorf("%w: cannot swap the root container", ErrInvalidOperation)
	}
	if t.IsDescendant(a, b) || t.IsDescendant(b, a) {
		return fmt.Errorf("%w: cannot swap a container with its ancestor", ErrInvalidOperation)
	}
	if a.ParticipatesInTiling() != b.ParticipatesInTiling() {
		return fmt.Errorf("%w: cannot swap a tiling and a non-tiling container", ErrInvalidOperation)
	}
	pa, pb := t.Parent(a), t.Parent(b)
	if !canContain(pa, b) || !canContain(pb, a) {
		return fmt.Errorf("%w: %s and %s cannot trade places", ErrInvalidOperation, a.kind, b.kind)
	}

	focused := t.Focused()
	ia, ib := indexOf(pa.children, a.id), indexOf(pb.children, b.id)
	if pa == pb {
		pa.children[ia], pa.children[ib] = b.id, a.id
	} else {
		fa, fb := indexOf(pa.focusOrder, a.id), indexOf(pb.focusOrder, b.id)
		pa.children[ia], pb.children[ib] = b.id, a.id
		pa.focusOrder[fa], pb.focusOrder[fb] = b.id, a.id
		a.parent, b.parent = pb.id, pa.id
	}
	a.tilingSize, b.tilingSize = b.tilingSize, a.tilingSize

	if focused != nil && (t.IsDescendant(focused, a) || t.IsDescendant(focused, b)) {
		return t.SetFocusedDescendant(focused)
	}
	return nil
}

// SetTilingSize gives c the requested share of its parent and scales its
// tiling siblings proportionally so the total stays one. A container
// without tiling siblings always fills its parent.
func (t *Tree) SetTilingSize(c *Container, size float64) error {
	if !t.Contains(c) {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, c.id)
	}
	if !c.ParticipatesInTiling() {
		return fmt.Errorf("%w: %s %s does not take part in tiling", ErrInvalidOperation, c.kind, c.id)
	}
	siblings := t.TilingSiblings(c)
	if len(siblings) == 0 {
		return nil
	}

	size = min(max(size, MinTilingSize), 1-MinTilingSize*float64(len(siblings)))
	rest := 1 - c.tilingSize
	for _, s := range siblings {
		if rest > RatioEpsilon {
			s.tilingSize = s.tilingSize * (1 - size) / rest
		} else {
			s.tilingSize = (1 - size) / float64(len(siblings))
		}
	}
	c.tilingSize = size
	return nil
}

// SetTilingState changes a window's state and re-homes it: windows that stop
// tiling move directly under their workspace, windows that start tiling are
// inserted into target at index (nil target means the workspace).
func (t *Tree) SetTilingState(w *Container, state TilingState, target *Container, index int) error {
	if !t.Contains(w) {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, w.id)
	}
	if w.kind != KindWindow {
		return fmt.Errorf("%w: %s is not a window", ErrInvalidOperation, w.id)
	}
	ws := t.WorkspaceOf(w)
	if target == nil || state != Tiling {
		target = ws
	}
	if !t.Contains(target) {
		return fmt.Errorf("%w: target %s", ErrContainerNotFound, target.id)
	}
	if !target.IsDirectionContainer() || t.WorkspaceOf(target) != ws {
		return fmt.Errorf("%w: %s is not a tiling target in the window's workspace", ErrInvalidOperation, target.id)
	}

	if w.Window.State == state {
		return nil
	}
	wasTiling := w.ParticipatesInTiling()
	if wasTiling == (state == Tiling) {
		w.Window.State = state
		return nil
	}

	old := t.Parent(w)
	focused := t.IsFocusPath(w)
	t.detachRaw(w)
	w.Window.State = state
	t.insertRaw(target, w, index)
	if focused {
		target.focusOrder = moveToFront(target.focusOrder, w.id)
	}
	t.collapse(old)
	return nil
}

// WrapInSplit replaces c with a new split container of the given direction
// holding c as its only child. The split inherits c's slot, tiling size
// and focus position.
func (t *Tree) WrapInSplit(c *Container, dir TilingDirection) (*Container, error) {
	if !t.Contains(c) {
		return nil, fmt.Errorf("%w: %s", ErrContainerNotFound, c.id)
	}
	if !c.ParticipatesInTiling() {
		return nil, fmt.Errorf("%w: only tiling containers can be wrapped", ErrInvalidOperation)
	}
	p := t.Parent(c)
	split := NewSplit(dir)
	split.parent = p.id
	split.tilingSize = c.tilingSize
	p.children[indexOf(p.children, c.id)] = split.id
	p.focusOrder[indexOf(p.focusOrder, c.id)] = split.id

	split.children = []ID{c.id}
	split.focusOrder = []ID{c.id}
	c.parent = split.id
	c.tilingSize = 1
	t.nodes[split.id] = split
	return split, nil
}

func (t *Tree) insertRaw(parent, c *Container, index int) {
	if c.ParticipatesInTiling() {
		kids := t.TilingChildren(parent)
		share := 1 / float64(len(kids)+1)
		for _, k := range kids {
			k.tilingSize *= 1 - share
		}
		c.tilingSize = share
	} else {
		c.tilingSize = 0
	}
	parent.children = insertID(parent.children, c.id, index)
	parent.focusOrder = append(parent.focusOrder, c.id)
	c.parent = parent.id
}

func (t *Tree) detachRaw(c *Container) *Container {
	p := t.Parent(c)
	p.children = removeID(p.children, c.id)
	p.focusOrder = removeID(p.focusOrder, c.id)
	c.parent = uuid.Nil
	if c.ParticipatesInTiling() {
		t.normalizeSizes(p)
	}
	return p
}

// normalizeSizes rescales p's tiling children to sum to one.
func (t *Tree) normalizeSizes(p *Container) {
	kids := t.TilingChildren(p)
	if len(kids) == 0 {
		return
	}
	sum := 0.0
	for _, k := range kids {
		sum += k.tilingSize
	}
	for _, k := range kids {
		if sum > RatioEpsilon {
			k.tilingSize /= sum
		} else {
			k.tilingSize = 1 / float64(len(kids))
		}
	}
}

// collapse removes a split left empty and replaces a split left with a
// single child by that child, walking upwards as needed.
func (t *Tree) collapse(p *Container) {
	if p == nil || p.kind != KindSplit {
		return
	}
	switch len(p.children) {
	case 0:
		gp := t.detachRaw(p)
		delete(t.nodes, p.id)
		t.collapse(gp)
	case 1:
		t.replaceWithChild(p)
	}
}

func (t *Tree) replaceWithChild(p *Container) {
	ch := t.nodes[p.children[0]]
	gp := t.Parent(p)

	gp.children[indexOf(gp.children, p.id)] = ch.id
	gp.focusOrder[indexOf(gp.focusOrder, p.id)] = ch.id
	ch.parent = gp.id
	ch.tilingSize = p.tilingSize
	delete(t.nodes, p.id)

	if ch.kind != KindSplit {
		return
	}
	if dir, ok := gp.TilingDirection(); ok && dir == ch.Split.Direction {
		t.flatten(ch)
	}
}

// flatten splices the children of split s into its parent, which arranges
// along the same axis.
func (t *Tree) flatten(s *Container) {
	p := t.Parent(s)
	for _, id := range s.children {
		k := t.nodes[id]
		k.parent = p.id
		k.tilingSize *= s.tilingSize
	}
	p.children = splice(p.children, indexOf(p.children, s.id), s.children)
	p.focusOrder = splice(p.focusOrder, indexOf(p.focusOrder, s.id), s.focusOrder)
	delete(t.nodes, s.id)
}

func splice(ids []ID, at int, repl []ID) []ID {
	out := make([]ID, 0, len(ids)+len(repl)-1)
	out = append(out, ids[:at]...)
	out = append(out, repl...)
	return append(out, ids[at+1:]...)
}
