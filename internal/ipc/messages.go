// Package ipc exposes the window manager over a local websocket: clients
// send shell-style text messages (query, command, subscribe, unsubscribe)
// and receive JSON envelopes.
package ipc

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Message types carried in the messageType field.
const (
	TypeClientResponse    = "client_response"
	TypeEventSubscription = "event_subscription"
)

// ClientResponse answers one client message.
type ClientResponse struct {
	MessageType   string  `json:"messageType"`
	ClientMessage string  `json:"clientMessage"`
	Data          any     `json:"data"`
	Error         *string `json:"error"`
	Success       bool    `json:"success"`
}

// EventSubscription carries one event for a subscription. A null Data is
// the end-of-stream marker sent after unsubscribing.
type EventSubscription struct {
	MessageType    string    `json:"messageType"`
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	Data           any       `json:"data"`
}

// Message is the client-side view of either envelope.
type Message struct {
	MessageType    string          `json:"messageType"`
	ClientMessage  string          `json:"clientMessage,omitempty"`
	SubscriptionID *uuid.UUID      `json:"subscriptionId,omitempty"`
	Data           json.RawMessage `json:"data"`
	Error          *string         `json:"error,omitempty"`
	Success        bool            `json:"success,omitempty"`
}

// IsEndOfStream reports whether m is the final message of a subscription.
func (m Message) IsEndOfStream() bool {
	return m.MessageType == TypeEventSubscription && (len(m.Data) == 0 || string(m.Data) == "null")
}

// SubscribeResult is the data of a successful subscribe response.
type SubscribeResult struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
}

// CommandResult is the data of a successful command response.
type CommandResult struct {
	SubjectContainerID uuid.UUID `json:"subjectContainerId"`
}

func response(msg string, data any, err error) ClientResponse {
	r := ClientResponse{MessageType: TypeClientResponse, ClientMessage: msg, Data: data, Success: err == nil}
	if err != nil {
		s := err.Error()
		r.Error = &s
		r.Data = nil
	}
	return r
}
