package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
	"github.com/mj1618/tilewm/internal/units"
)

func newWorkspace(t *testing.T, width, height int) (*container.Tree, *container.Container) {
	t.Helper()
	tree := container.NewTree()
	mon := container.NewMonitor(platform.MonitorInfo{Rect: platform.Rect{Width: width, Height: height}})
	require.NoError(t, tree.Insert(tree.Root(), mon, 0))
	ws := container.NewWorkspace("1", "", false, container.Horizontal)
	require.NoError(t, tree.Insert(mon, ws, 0))
	return tree, ws
}

func tile(t *testing.T, tree *container.Tree, parent *container.Container, h platform.Handle) *container.Container {
	t.Helper()
	w := container.NewWindow(platform.WindowInfo{Handle: h}, container.Tiling)
	require.NoError(t, tree.Insert(parent, w, -1))
	return w
}

func TestCompute_HalfAndHalfThenResize(t *testing.T) {
	tree, ws := newWorkspace(t, 1000, 600)
	a := tile(t, tree, ws, 1)
	b := tile(t, tree, ws, 2)

	l := Compute(tree, Gaps{})
	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 500, Height: 600}, l[a.ID()])
	assert.Equal(t, platform.Rect{X: 500, Y: 0, Width: 500, Height: 600}, l[b.ID()])

	require.NoError(t, tree.SetTilingSize(a, 0.3))
	l = Compute(tree, Gaps{})
	assert.Equal(t, 300, l[a.ID()].Width)
	assert.Equal(t, 700, l[b.ID()].Width)
	assert.Equal(t, 300, l[b.ID()].X)
}

func TestCompute_Idempotent(t *testing.T) {
	tree, ws := newWorkspace(t, 1001, 777)
	tile(t, tree, ws, 1)
	split := container.NewSplit(container.Vertical)
	require.NoError(t, tree.Insert(ws, split, -1))
	tile(t, tree, split, 2)
	tile(t, tree, split, 3)
	tile(t, tree, split, 4)

	gaps := Gaps{Inner: units.Px(7), Outer: units.UniformDelta(units.Px(5))}
	first := Compute(tree, gaps)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(tree, gaps))
	}
}

func TestCompute_NoDriftWithThirds(t *testing.T) {
	tree, ws := newWorkspace(t, 1000, 600)
	a := tile(t, tree, ws, 1)
	b := tile(t, tree, ws, 2)
	c := tile(t, tree, ws, 3)

	l := Compute(tree, Gaps{})
	total := l[a.ID()].Width + l[b.ID()].Width + l[c.ID()].Width
	assert.Equal(t, 1000, total)
	assert.Equal(t, l[a.ID()].Right(), l[b.ID()].X)
	assert.Equal(t, l[b.ID()].Right(), l[c.ID()].X)
	assert.Equal(t, 1000, l[c.ID()].Right())
}

func TestCompute_Gaps(t *testing.T) {
	tree, ws := newWorkspace(t, 1000, 600)
	a := tile(t, tree, ws, 1)
	b := tile(t, tree, ws, 2)

	l := Compute(tree, Gaps{Inner: units.Px(20), Outer: units.UniformDelta(units.Px(10))})
	assert.Equal(t, platform.Rect{X: 10, Y: 10, Width: 980, Height: 580}, l[ws.ID()])
	assert.Equal(t, platform.Rect{X: 10, Y: 10, Width: 480, Height: 580}, l[a.ID()])
	assert.Equal(t, platform.Rect{X: 510, Y: 10, Width: 480, Height: 580}, l[b.ID()])
}

func TestCompute_NestedSplit(t *testing.T) {
	tree, ws := newWorkspace(t, 1000, 600)
	a := tile(t, tree, ws, 1)
	split := container.NewSplit(container.Vertical)
	require.NoError(t, tree.Insert(ws, split, -1))
	b := tile(t, tree, split, 2)
	c := tile(t, tree, split, 3)

	l := Compute(tree, Gaps{})
	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 500, Height: 600}, l[a.ID()])
	assert.Equal(t, platform.Rect{X: 500, Y: 0, Width: 500, Height: 300}, l[b.ID()])
	assert.Equal(t, platform.Rect{X: 500, Y: 300, Width: 500, Height: 300}, l[c.ID()])
}

func TestCompute_NonTilingWindows(t *testing.T) {
	tree, ws := newWorkspace(t, 1000, 600)
	a := tile(t, tree, ws, 1)

	placement := platform.Rect{X: 100, Y: 100, Width: 300, Height: 200}
	f := container.NewWindow(platform.WindowInfo{Handle: 2, Rect: placement}, container.Floating)
	require.NoError(t, tree.Insert(ws, f, -1))
	fs := container.NewWindow(platform.WindowInfo{Handle: 3}, container.Fullscreen)
	require.NoError(t, tree.Insert(ws, fs, -1))
	m := container.NewWindow(platform.WindowInfo{Handle: 4}, container.Minimized)
	require.NoError(t, tree.Insert(ws, m, -1))

	l := Compute(tree, Gaps{Outer: units.UniformDelta(units.Px(10))})
	assert.Equal(t, 980, l[a.ID()].Width, "non-tiling windows take no share")
	assert.Equal(t, placement, l[f.ID()])
	assert.Equal(t, platform.Rect{Width: 1000, Height: 600}, l[fs.ID()])
	_, ok := l[m.ID()]
	assert.False(t, ok, "minimized windows are not laid out")
}

func TestCompute_BorderDelta(t *testing.T) {
	tree, ws := newWorkspace(t, 1000, 600)
	a := tile(t, tree, ws, 1)
	a.Window.BorderDelta = units.UniformDelta(units.Px(2))

	l := Compute(tree, Gaps{})
	assert.Equal(t, platform.Rect{X: -2, Y: -2, Width: 1004, Height: 604}, l[a.ID()])
}
