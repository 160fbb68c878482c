package ipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/tilewm/internal/logging"
	"github.com/mj1618/tilewm/internal/wm"
)

func TestHub_FiltersByEventType(t *testing.T) {
	hub := NewHub(logging.Discard())
	focus := hub.Subscribe([]wm.EventType{wm.EventFocusChanged})
	all := hub.Subscribe([]wm.EventType{wm.EventAll})

	hub.Publish(wm.Event{Type: wm.EventWindowManaged})
	hub.Publish(wm.Event{Type: wm.EventFocusChanged})

	require.Len(t, focus.Events(), 1)
	assert.Equal(t, wm.EventFocusChanged, (<-focus.Events()).Type)
	require.Len(t, all.Events(), 2)
	assert.Equal(t, wm.EventWindowManaged, (<-all.Events()).Type)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(logging.Discard())
	sub := hub.Subscribe([]wm.EventType{wm.EventAll})

	require.True(t, hub.Unsubscribe(sub.ID))
	_, open := <-sub.Events()
	assert.False(t, open)
	assert.False(t, hub.Unsubscribe(sub.ID))

	// Publishing after close must not panic.
	hub.Publish(wm.Event{Type: wm.EventPauseChanged})
	assert.Equal(t, 0, hub.Len())
}

func TestHub_DropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub(logging.Discard())
	sub := hub.Subscribe([]wm.EventType{wm.EventAll})

	for range subscriptionBuffer + 10 {
		hub.Publish(wm.Event{Type: wm.EventFocusChanged})
	}
	assert.Len(t, sub.Events(), subscriptionBuffer)
}
