package ipc

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/logging"
	"github.com/mj1618/tilewm/internal/platform"
	"github.com/mj1618/tilewm/internal/platform/memory"
	"github.com/mj1618/tilewm/internal/wm"
)

const testConfig = `
general:
  cursor_jump:
    enabled: false
workspaces:
  - name: "1"
  - name: "2"
`

type harness struct {
	desk   *memory.Desktop
	hub    *Hub
	client *Client
}

// startHarness runs a WM on an in-memory desktop behind an httptest
// websocket server and connects a client to it.
func startHarness(t *testing.T) (*harness, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)
	desk := memory.New(platform.MonitorInfo{DeviceName: "DISPLAY1", Rect: platform.Rect{Width: 1000, Height: 800}, Primary: true})
	logger := logging.Discard()
	hub := NewHub(logger)
	w, err := wm.New(wm.Options{Provider: desk.Provider(), Config: cfg, Publisher: hub, Logger: logger})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	srv := httptest.NewServer(NewServer(w, hub, logger).Handler())
	t.Cleanup(srv.Close)

	client, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return &harness{desk: desk, hub: hub, client: client}, ctx
}

func TestServer_SubscribeManagedUnsubscribe(t *testing.T) {
	h, ctx := startHarness(t)

	resp, err := h.client.Request(ctx, "sub -e window_managed")
	require.NoError(t, err)
	var sub SubscribeResult
	require.NoError(t, json.Unmarshal(resp.Data, &sub))
	require.NotEqual(t, uuid.Nil, sub.SubscriptionID)

	handle := h.desk.AddWindow(platform.WindowInfo{Title: "editor", Manageable: true, Resizable: true})
	h.desk.Emit(platform.Event{Kind: platform.EventWindowShown, Handle: handle})

	ev, err := h.client.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, TypeEventSubscription, ev.MessageType)
	require.NotNil(t, ev.SubscriptionID)
	assert.Equal(t, sub.SubscriptionID, *ev.SubscriptionID)
	var payload struct {
		EventType string `json:"eventType"`
		Container struct {
			Type  string `json:"type"`
			Title string `json:"title"`
		} `json:"container"`
	}
	require.NoError(t, json.Unmarshal(ev.Data, &payload))
	assert.Equal(t, "window_managed", payload.EventType)
	assert.Equal(t, "window", payload.Container.Type)

	require.NoError(t, h.client.Send(ctx, "unsub --id "+sub.SubscriptionID.String()))
	var gotResponse, gotEnd bool
	for !gotResponse || !gotEnd {
		m, err := h.client.Next(ctx)
		require.NoError(t, err)
		switch {
		case m.MessageType == TypeClientResponse:
			assert.True(t, m.Success)
			gotResponse = true
		case m.IsEndOfStream():
			assert.Equal(t, sub.SubscriptionID, *m.SubscriptionID)
			gotEnd = true
		default:
			t.Fatalf("unexpected message %+v", m)
		}
	}
	assert.Equal(t, 0, h.hub.Len())
}

func TestServer_CommandWithMissingSubject(t *testing.T) {
	h, ctx := startHarness(t)

	before, err := h.client.Request(ctx, "query workspaces")
	require.NoError(t, err)

	resp, err := h.client.Request(ctx, "command --id "+uuid.NewString()+" focus --direction left")
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "not found")

	after, err := h.client.Request(ctx, "query workspaces")
	require.NoError(t, err)
	assert.JSONEq(t, string(before.Data), string(after.Data))
}

func TestServer_CommandReturnsSubject(t *testing.T) {
	h, ctx := startHarness(t)

	focused, err := h.client.Request(ctx, "query focused")
	require.NoError(t, err)
	var f struct {
		Focused struct {
			ID uuid.UUID `json:"id"`
		} `json:"focused"`
	}
	require.NoError(t, json.Unmarshal(focused.Data, &f))

	resp, err := h.client.Request(ctx, "c wm-redraw")
	require.NoError(t, err)
	var res CommandResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, f.Focused.ID, res.SubjectContainerID)
}

func TestServer_RejectsBadMessages(t *testing.T) {
	h, ctx := startHarness(t)

	for _, msg := range []string{
		"bogus",
		"query",
		"query nope",
		"command focus --direction sideways",
		"command --id not-a-uuid wm-redraw",
		"sub -e no_such_event",
		"sub",
		"unsub --id " + uuid.NewString(),
	} {
		resp, err := h.client.Request(ctx, msg)
		assert.ErrorIs(t, err, ErrRequestFailed, msg)
		assert.Equal(t, msg, resp.ClientMessage)
		assert.Equal(t, "null", string(resp.Data), msg)
	}
}

func TestServer_QueryPaused(t *testing.T) {
	h, ctx := startHarness(t)

	_, err := h.client.Request(ctx, "command wm-toggle-pause")
	require.NoError(t, err)
	resp, err := h.client.Request(ctx, "query paused")
	require.NoError(t, err)
	assert.JSONEq(t, `{"paused": true}`, string(resp.Data))
}
