package container

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/tilewm/internal/platform"
)

// fixture builds root > monitor > workspace "1" (horizontal).
func fixture(t *testing.T) (*Tree, *Container, *Container) {
	t.Helper()
	tree := NewTree()
	mon := NewMonitor(platform.MonitorInfo{DeviceName: "DISPLAY1", Rect: platform.Rect{Width: 1000, Height: 800}, Primary: true})
	require.NoError(t, tree.Insert(tree.Root(), mon, 0))
	ws := NewWorkspace("1", "", false, Horizontal)
	require.NoError(t, tree.Insert(mon, ws, 0))
	return tree, mon, ws
}

func addWindow(t *testing.T, tree *Tree, parent *Container, h platform.Handle) *Container {
	t.Helper()
	w := NewWindow(platform.WindowInfo{Handle: h, Title: "w"}, Tiling)
	require.NoError(t, tree.Insert(parent, w, -1))
	require.NoError(t, tree.ValidateRatios())
	return w
}

func TestInsert_EqualShares(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	assert.InDelta(t, 1.0, a.TilingSize(), RatioEpsilon)

	b := addWindow(t, tree, ws, 2)
	c := addWindow(t, tree, ws, 3)
	for _, w := range []*Container{a, b, c} {
		assert.InDelta(t, 1.0/3, w.TilingSize(), RatioEpsilon)
	}
}

func TestInsert_NonTilingWindowHasNoShare(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	f := NewWindow(platform.WindowInfo{Handle: 2}, Floating)
	require.NoError(t, tree.Insert(ws, f, -1))

	assert.Zero(t, f.TilingSize())
	assert.InDelta(t, 1.0, a.TilingSize(), RatioEpsilon)
	assert.Len(t, tree.TilingChildren(ws), 1)
}

func TestInsert_RejectsBadNesting(t *testing.T) {
	tree, mon, ws := fixture(t)

	err := tree.Insert(tree.Root(), NewWindow(platform.WindowInfo{Handle: 1}, Tiling), 0)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	err = tree.Insert(mon, NewSplit(Vertical), 0)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	w := addWindow(t, tree, ws, 1)
	err = tree.Insert(ws, w, 0)
	assert.ErrorIs(t, err, ErrInvalidOperation, "already attached")
}

func TestDetach_RootIsInvalid(t *testing.T) {
	tree, _, _ := fixture(t)
	_, err := tree.Detach(tree.Root())
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestDetach_RescalesSiblings(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	b := addWindow(t, tree, ws, 2)
	c := addWindow(t, tree, ws, 3)
	require.NoError(t, tree.SetTilingSize(a, 0.5))

	_, err := tree.Detach(c)
	require.NoError(t, err)
	require.NoError(t, tree.ValidateRatios())
	assert.Greater(t, a.TilingSize(), b.TilingSize())
	assert.False(t, tree.Contains(c))
}

func TestDetach_CollapsesSingleChildSplit(t *testing.T) {
	tree, _, ws := fixture(t)
	split := NewSplit(Vertical)
	require.NoError(t, tree.Insert(ws, split, 0))
	a := addWindow(t, tree, split, 1)
	b := addWindow(t, tree, split, 2)

	_, err := tree.Detach(a)
	require.NoError(t, err)

	assert.False(t, tree.Contains(split), "split should collapse")
	assert.Equal(t, ws, tree.Parent(b))
	assert.InDelta(t, 1.0, b.TilingSize(), RatioEpsilon)
	require.NoError(t, tree.ValidateRatios())
}

func TestDetach_CollapseKeepsSlotRatio(t *testing.T) {
	tree, _, ws := fixture(t)
	left := addWindow(t, tree, ws, 1)
	split := NewSplit(Vertical)
	require.NoError(t, tree.Insert(ws, split, -1))
	a := addWindow(t, tree, split, 2)
	b := addWindow(t, tree, split, 3)
	require.NoError(t, tree.SetTilingSize(split, 0.7))

	_, err := tree.Detach(a)
	require.NoError(t, err)

	assert.Equal(t, []*Container{left, b}, tree.ChildrenOf(ws))
	assert.InDelta(t, 0.7, b.TilingSize(), RatioEpsilon)
	assert.InDelta(t, 0.3, left.TilingSize(), RatioEpsilon)
}

func TestDetach_FlattensSameDirectionSplit(t *testing.T) {
	tree, _, ws := fixture(t)
	outer := NewSplit(Vertical)
	require.NoError(t, tree.Insert(ws, outer, 0))
	a := addWindow(t, tree, outer, 1)
	inner := NewSplit(Horizontal)
	require.NoError(t, tree.Insert(outer, inner, -1))
	b := addWindow(t, tree, inner, 2)
	c := addWindow(t, tree, inner, 3)

	// Removing a leaves outer with only inner; inner has the workspace's
	// direction and is flattened into it.
	_, err := tree.Detach(a)
	require.NoError(t, err)

	assert.False(t, tree.Contains(outer))
	assert.False(t, tree.Contains(inner))
	assert.Equal(t, []*Container{b, c}, tree.ChildrenOf(ws))
	require.NoError(t, tree.ValidateRatios())
}

func TestDetach_FocusFallsBackToSibling(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	b := addWindow(t, tree, ws, 2)
	require.NoError(t, tree.SetFocusedDescendant(a))
	require.NoError(t, tree.SetFocusedDescendant(b))

	_, err := tree.Detach(b)
	require.NoError(t, err)
	assert.Equal(t, a, tree.Focused())
}

func TestMove_IntoOwnSubtreeIsInvalid(t *testing.T) {
	tree, _, ws := fixture(t)
	split := NewSplit(Vertical)
	require.NoError(t, tree.Insert(ws, split, 0))
	addWindow(t, tree, split, 1)
	inner := NewSplit(Horizontal)
	require.NoError(t, tree.Insert(split, inner, -1))
	addWindow(t, tree, inner, 2)

	err := tree.Move(split, inner, 0)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	err = tree.Move(split, split, 0)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	err = tree.Move(tree.Root(), ws, 0)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestMove_RecomputesRatios(t *testing.T) {
	tree, mon, ws := fixture(t)
	ws2 := NewWorkspace("2", "", false, Horizontal)
	require.NoError(t, tree.Insert(mon, ws2, -1))

	a := addWindow(t, tree, ws, 1)
	b := addWindow(t, tree, ws, 2)
	c := addWindow(t, tree, ws2, 3)

	require.NoError(t, tree.Move(b, ws2, 0))
	require.NoError(t, tree.ValidateRatios())

	assert.InDelta(t, 1.0, a.TilingSize(), RatioEpsilon)
	assert.Equal(t, []*Container{b, c}, tree.ChildrenOf(ws2))
	assert.InDelta(t, 0.5, b.TilingSize(), RatioEpsilon)
}

func TestMove_SameParentReorders(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	b := addWindow(t, tree, ws, 2)
	c := addWindow(t, tree, ws, 3)

	require.NoError(t, tree.Move(a, ws, 2))
	assert.Equal(t, []*Container{b, c, a}, tree.ChildrenOf(ws))
}

func TestMove_KeepsFocus(t *testing.T) {
	tree, mon, ws := fixture(t)
	ws2 := NewWorkspace("2", "", false, Horizontal)
	require.NoError(t, tree.Insert(mon, ws2, -1))
	a := addWindow(t, tree, ws, 1)
	addWindow(t, tree, ws2, 2)
	require.NoError(t, tree.SetFocusedDescendant(a))

	require.NoError(t, tree.Move(a, ws2, -1))
	assert.Equal(t, a, tree.FocusedDescendant(ws2))
}

func TestMove_UnknownContainer(t *testing.T) {
	tree, _, ws := fixture(t)
	stray := NewWindow(platform.WindowInfo{Handle: 9}, Tiling)
	assert.ErrorIs(t, tree.Move(stray, ws, 0), ErrContainerNotFound)
}

func TestSwap(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	b := addWindow(t, tree, ws, 2)
	require.NoError(t, tree.SetTilingSize(a, 0.3))
	require.NoError(t, tree.SetFocusedDescendant(a))

	require.NoError(t, tree.Swap(a, b))
	assert.Equal(t, []*Container{b, a}, tree.ChildrenOf(ws))
	assert.InDelta(t, 0.3, b.TilingSize(), RatioEpsilon)
	assert.InDelta(t, 0.7, a.TilingSize(), RatioEpsilon)
	assert.Equal(t, a, tree.Focused())
}

func TestSwap_AcrossParents(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	split := NewSplit(Vertical)
	require.NoError(t, tree.Insert(ws, split, -1))
	b := addWindow(t, tree, split, 2)
	c := addWindow(t, tree, split, 3)
	require.NoError(t, tree.SetFocusedDescendant(a))

	require.NoError(t, tree.Swap(a, c))
	assert.Equal(t, split, tree.Parent(a))
	assert.Equal(t, ws, tree.Parent(c))
	assert.Equal(t, []*Container{b, a}, tree.ChildrenOf(split))
	assert.Equal(t, a, tree.Focused())
	require.NoError(t, tree.ValidateRatios())
}

func TestSwap_MixedTilingIsInvalid(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	f := NewWindow(platform.WindowInfo{Handle: 2}, Floating)
	require.NoError(t, tree.Insert(ws, f, -1))

	assert.ErrorIs(t, tree.Swap(a, f), ErrInvalidOperation)
}

func TestSetTilingSize(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	b := addWindow(t, tree, ws, 2)
	c := addWindow(t, tree, ws, 3)

	require.NoError(t, tree.SetTilingSize(a, 0.5))
	require.NoError(t, tree.ValidateRatios())
	assert.InDelta(t, 0.25, b.TilingSize(), RatioEpsilon)
	assert.InDelta(t, 0.25, c.TilingSize(), RatioEpsilon)

	require.NoError(t, tree.SetTilingSize(a, 5))
	require.NoError(t, tree.ValidateRatios())
	assert.InDelta(t, 1-2*MinTilingSize, a.TilingSize(), RatioEpsilon)
}

func TestSetTilingState_MovesToWorkspace(t *testing.T) {
	tree, _, ws := fixture(t)
	split := NewSplit(Vertical)
	require.NoError(t, tree.Insert(ws, split, 0))
	a := addWindow(t, tree, split, 1)
	b := addWindow(t, tree, split, 2)
	require.NoError(t, tree.SetFocusedDescendant(a))

	require.NoError(t, tree.SetTilingState(a, Floating, nil, -1))
	require.NoError(t, tree.ValidateRatios())

	assert.Equal(t, ws, tree.Parent(a))
	assert.False(t, tree.Contains(split))
	assert.InDelta(t, 1.0, b.TilingSize(), RatioEpsilon)
	assert.Equal(t, a, tree.Focused())

	require.NoError(t, tree.SetTilingState(a, Tiling, nil, -1))
	require.NoError(t, tree.ValidateRatios())
	assert.InDelta(t, 0.5, a.TilingSize(), RatioEpsilon)
}

func TestSetTilingState_NonTilingToNonTiling(t *testing.T) {
	tree, _, ws := fixture(t)
	f := NewWindow(platform.WindowInfo{Handle: 1}, Floating)
	require.NoError(t, tree.Insert(ws, f, -1))

	require.NoError(t, tree.SetTilingState(f, Fullscreen, nil, -1))
	assert.Equal(t, Fullscreen, f.Window.State)
	assert.Zero(t, f.TilingSize())
}

func TestWrapInSplit(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 1)
	b := addWindow(t, tree, ws, 2)
	require.NoError(t, tree.SetFocusedDescendant(b))

	split, err := tree.WrapInSplit(b, Vertical)
	require.NoError(t, err)
	assert.Equal(t, []*Container{a, split}, tree.ChildrenOf(ws))
	assert.InDelta(t, 0.5, split.TilingSize(), RatioEpsilon)
	assert.InDelta(t, 1.0, b.TilingSize(), RatioEpsilon)
	assert.Equal(t, b, tree.Focused())
	require.NoError(t, tree.ValidateRatios())
}

func TestFocus_SinglePath(t *testing.T) {
	tree, mon, ws := fixture(t)
	ws2 := NewWorkspace("2", "", false, Horizontal)
	require.NoError(t, tree.Insert(mon, ws2, -1))
	a := addWindow(t, tree, ws, 1)
	b := addWindow(t, tree, ws2, 2)

	require.NoError(t, tree.SetFocusedDescendant(b))
	assert.Equal(t, b, tree.Focused())
	assert.Equal(t, ws2, tree.DisplayedWorkspace(mon))
	assert.True(t, tree.IsFocusPath(ws2))
	assert.False(t, tree.IsFocusPath(a))

	require.NoError(t, tree.SetFocusedDescendant(a))
	assert.Equal(t, a, tree.Focused())
	assert.Equal(t, ws, tree.DisplayedWorkspace(mon))
	assert.Equal(t, b, tree.FocusedDescendant(ws2), "ws2 remembers its last focus")
}

func TestFocus_WithinDoesNotChangeGlobalFocus(t *testing.T) {
	tree, mon, ws := fixture(t)
	ws2 := NewWorkspace("2", "", false, Horizontal)
	require.NoError(t, tree.Insert(mon, ws2, -1))
	a := addWindow(t, tree, ws, 1)
	addWindow(t, tree, ws2, 2)
	c := addWindow(t, tree, ws2, 3)
	require.NoError(t, tree.SetFocusedDescendant(a))

	require.NoError(t, tree.SetFocusedDescendantWithin(c, ws2))
	assert.Equal(t, a, tree.Focused())
	assert.Equal(t, c, tree.FocusedDescendant(ws2))
}

func TestAncestorOfKind(t *testing.T) {
	tree, mon, ws := fixture(t)
	split := NewSplit(Vertical)
	require.NoError(t, tree.Insert(ws, split, 0))
	a := addWindow(t, tree, split, 1)

	assert.Equal(t, ws, tree.AncestorOfKind(a, KindWorkspace))
	assert.Equal(t, mon, tree.AncestorOfKind(a, KindMonitor))
	assert.Nil(t, tree.AncestorOfKind(mon, KindWorkspace))
	assert.Equal(t, ws, tree.WorkspaceOf(ws))
}

func TestGet(t *testing.T) {
	tree, _, ws := fixture(t)
	got, err := tree.Get(ws.ID())
	require.NoError(t, err)
	assert.Equal(t, ws, got)

	_, err = tree.Get(uuid.New())
	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestLookups(t *testing.T) {
	tree, _, ws := fixture(t)
	a := addWindow(t, tree, ws, 42)

	assert.Equal(t, a, tree.WindowByHandle(42))
	assert.Nil(t, tree.WindowByHandle(7))
	assert.Equal(t, ws, tree.WorkspaceByName("1"))
	assert.Nil(t, tree.WorkspaceByName("nope"))
	assert.Len(t, tree.Windows(), 1)
}
