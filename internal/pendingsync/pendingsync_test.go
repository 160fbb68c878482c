package pendingsync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
)

func TestPendingSync_ZeroValueIsEmpty(t *testing.T) {
	var p PendingSync
	assert.True(t, p.IsEmpty())
	assert.Empty(t, p.ContainersToRedraw())
}

func TestPendingSync_DeduplicatesInOrder(t *testing.T) {
	a := container.NewWindow(platform.WindowInfo{Handle: 1}, container.Tiling)
	b := container.NewWindow(platform.WindowInfo{Handle: 2}, container.Tiling)

	var p PendingSync
	p.QueueContainerToRedraw(b)
	p.QueueContainerToRedraw(a)
	p.QueueContainersToRedraw(b, a, b)

	assert.Equal(t, []container.ID{b.ID(), a.ID()}, p.ContainersToRedraw())
	assert.False(t, p.IsEmpty())
}

func TestPendingSync_WorkspacesToReorder(t *testing.T) {
	ws := container.NewWorkspace("1", "", false, container.Horizontal)

	var p PendingSync
	p.QueueWorkspaceToReorder(ws)
	p.QueueWorkspaceToReorder(ws)
	assert.Equal(t, []container.ID{ws.ID()}, p.WorkspacesToReorder())
}

func TestPendingSync_FlagsAndClear(t *testing.T) {
	var p PendingSync
	p.QueueFocusChange()
	p.QueueFocusedEffectUpdate()
	p.QueueFocusedEffectUpdate()
	p.QueueCursorJump()
	p.QueueFullRedraw()
	p.QueueAllEffectsUpdate()

	assert.True(t, p.NeedsFocusChange())
	assert.True(t, p.NeedsFocusedEffectUpdate())
	assert.True(t, p.NeedsCursorJump())
	assert.True(t, p.NeedsFullRedraw())
	assert.True(t, p.NeedsAllEffectsUpdate())

	p.Clear()
	assert.True(t, p.IsEmpty())

	// Queues are usable again after Clear.
	ws := container.NewWorkspace("1", "", false, container.Horizontal)
	p.QueueContainerToRedraw(ws)
	assert.Len(t, p.ContainersToRedraw(), 1)
}
