package ipc

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mj1618/tilewm/internal/wm"
)

// subscriptionBuffer bounds how far a slow client may fall behind before
// its events are dropped.
const subscriptionBuffer = 256

// Subscription receives the events it was opened for until it is closed.
type Subscription struct {
	ID     uuid.UUID
	events map[wm.EventType]bool
	ch     chan wm.Event
}

// Events yields matching events. It is closed on unsubscribe.
func (s *Subscription) Events() <-chan wm.Event { return s.ch }

func (s *Subscription) wants(t wm.EventType) bool {
	return s.events[wm.EventAll] || s.events[t]
}

// Hub fans WM events out to subscriptions. It implements wm.Publisher and
// never blocks the WM loop.
type Hub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*Subscription
	logger *log.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{subs: make(map[uuid.UUID]*Subscription), logger: logger}
}

// Subscribe opens a subscription for the given event types.
func (h *Hub) Subscribe(types []wm.EventType) *Subscription {
	s := &Subscription{
		ID:     uuid.New(),
		events: make(map[wm.EventType]bool, len(types)),
		ch:     make(chan wm.Event, subscriptionBuffer),
	}
	for _, t := range types {
		s.events[t] = true
	}
	h.mu.Lock()
	h.subs[s.ID] = s
	h.mu.Unlock()
	h.logger.Debug("subscribed", "subscription", s.ID, "events", types)
	return s
}

// Unsubscribe closes the subscription with id. It reports false when no
// such subscription exists.
func (h *Hub) Unsubscribe(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.subs[id]
	if !ok {
		return false
	}
	delete(h.subs, id)
	close(s.ch)
	h.logger.Debug("unsubscribed", "subscription", id)
	return true
}

// Len returns the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish implements wm.Publisher.
func (h *Hub) Publish(ev wm.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		if !s.wants(ev.Type) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			h.logger.Warn("subscriber too slow, dropping event", "subscription", s.ID, "event", ev.Type)
		}
	}
}
