package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/tilewm/internal/platform"
)

func TestDesktop_AddWindowAssignsHandle(t *testing.T) {
	d := New()
	h1 := d.AddWindow(platform.WindowInfo{Title: "one"})
	h2 := d.AddWindow(platform.WindowInfo{Title: "two"})

	assert.NotZero(t, h1)
	assert.NotEqual(t, h1, h2)

	windows, err := d.ListWindows()
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "one", windows[0].Title)
}

func TestDesktop_SetRectUpdatesWindow(t *testing.T) {
	d := New()
	h := d.AddWindow(platform.WindowInfo{})

	r := platform.Rect{X: 1, Y: 2, Width: 3, Height: 4}
	require.NoError(t, d.SetRect(h, r))

	info, err := d.WindowInfo(h)
	require.NoError(t, err)
	assert.Equal(t, r, info.Rect)
	assert.Len(t, d.CallsFor("set_rect"), 1)
}

func TestDesktop_FailInjectsError(t *testing.T) {
	d := New()
	h := d.AddWindow(platform.WindowInfo{})
	boom := errors.New("boom")
	d.Fail(h, boom)

	assert.ErrorIs(t, d.SetRect(h, platform.Rect{}), boom)

	d.Fail(h, nil)
	assert.NoError(t, d.SetRect(h, platform.Rect{}))
}

func TestDesktop_UnknownHandleFails(t *testing.T) {
	d := New()
	assert.Error(t, d.SetWindowState(99, platform.StateHide))
}

func TestDesktop_HideShow(t *testing.T) {
	d := New()
	h := d.AddWindow(platform.WindowInfo{})

	require.NoError(t, d.SetWindowState(h, platform.StateHide))
	assert.True(t, d.IsHidden(h))
	require.NoError(t, d.SetWindowState(h, platform.StateShow))
	assert.False(t, d.IsHidden(h))
}

func TestDesktop_EventsForwardedInOrder(t *testing.T) {
	d := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := d.Events(ctx)
	require.NoError(t, err)

	d.Emit(platform.Event{Kind: platform.EventWindowShown, Handle: 1})
	d.Emit(platform.Event{Kind: platform.EventWindowFocused, Handle: 1})

	for _, want := range []platform.EventKind{platform.EventWindowShown, platform.EventWindowFocused} {
		select {
		case ev := <-events:
			assert.Equal(t, want, ev.Kind)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should close after cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
