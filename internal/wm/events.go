package wm

import (
	"fmt"
	"slices"

	"github.com/mj1618/tilewm/internal/container"
)

// EventType names a subscribable WM event.
type EventType string

const (
	EventAll                    EventType = "all"
	EventApplicationExiting     EventType = "application_exiting"
	EventBindingModesChanged    EventType = "binding_modes_changed"
	EventFocusChanged           EventType = "focus_changed"
	EventFocusedContainerMoved  EventType = "focused_container_moved"
	EventMonitorAdded           EventType = "monitor_added"
	EventMonitorUpdated         EventType = "monitor_updated"
	EventMonitorRemoved         EventType = "monitor_removed"
	EventPauseChanged           EventType = "pause_changed"
	EventTilingDirectionChanged EventType = "tiling_direction_changed"
	EventUserConfigChanged      EventType = "user_config_changed"
	EventWindowManaged          EventType = "window_managed"
	EventWindowUnmanaged        EventType = "window_unmanaged"
	EventWorkspaceActivated     EventType = "workspace_activated"
	EventWorkspaceDeactivated   EventType = "workspace_deactivated"
	EventWorkspaceUpdated       EventType = "workspace_updated"
)

// EventTypes lists every subscribable event, "all" first.
var EventTypes = []EventType{
	EventAll,
	EventApplicationExiting,
	EventBindingModesChanged,
	EventFocusChanged,
	EventFocusedContainerMoved,
	EventMonitorAdded,
	EventMonitorUpdated,
	EventMonitorRemoved,
	EventPauseChanged,
	EventTilingDirectionChanged,
	EventUserConfigChanged,
	EventWindowManaged,
	EventWindowUnmanaged,
	EventWorkspaceActivated,
	EventWorkspaceDeactivated,
	EventWorkspaceUpdated,
}

// ParseEventType validates a subscription event name.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !slices.Contains(EventTypes, t) {
		return "", fmt.Errorf("unknown event %q", s)
	}
	return t, nil
}

// Event is published to subscribers at the end of a flush. Only the fields
// relevant to Type are set.
type Event struct {
	Type EventType `json:"eventType"`

	// Container is the managed window, focused container, activated
	// workspace or added monitor, serialized at publish time.
	Container *Container `json:"container,omitempty"`

	// RemovedID identifies an unmanaged window, deactivated workspace or
	// removed monitor.
	RemovedID   *container.ID `json:"removedId,omitempty"`
	RemovedName string        `json:"removedName,omitempty"`

	BindingModes    []BindingMode `json:"bindingModes,omitempty"`
	TilingDirection string        `json:"tilingDirection,omitempty"`
	Paused          *bool         `json:"isPaused,omitempty"`
	ConfigPath      string        `json:"configPath,omitempty"`
}

// Publisher receives WM events, typically the IPC subscription hub.
type Publisher interface {
	Publish(Event)
}

type discardPublisher struct{}

func (discardPublisher) Publish(Event) {}

// emit buffers ev until the end of the current flush.
func (w *WM) emit(ev Event) {
	w.outbox = append(w.outbox, ev)
}

// emitContainer buffers an event carrying a snapshot of c. The snapshot is
// taken now because c may be detached before the flush.
func (w *WM) emitContainer(t EventType, c *container.Container) {
	dto := w.snapshot(c)
	w.emit(Event{Type: t, Container: &dto})
}

func (w *WM) emitRemoved(t EventType, id container.ID, name string) {
	w.emit(Event{Type: t, RemovedID: &id, RemovedName: name})
}

func (w *WM) publishOutbox() {
	out := w.outbox
	w.outbox = nil
	for _, ev := range out {
		w.publisher.Publish(ev)
	}
}
