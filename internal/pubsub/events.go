// Package pubsub provides a type-safe pub/sub broker and the hub that wires
// the session, request and notice brokers together.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event.
type EventType string

// Standard event types.
const (
	EventCreated  EventType = "created"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
	EventStarted  EventType = "started"
	EventFinished EventType = "finished"
	EventNotified EventType = "notified"
)

// Event is a typed payload with the time it was published.
type Event[T any] struct { //nolint:govet // fieldalignment: preserving logical field order
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Publisher publishes events of one payload type.
type Publisher[T any] interface {
	Publish(EventType, T)
}

// Subscriber hands out context-scoped event channels.
type Subscriber[T any] interface {
	Subscribe(context.Context) <-chan Event[T]
}

// PubSub combines Publisher and Subscriber interfaces.
type PubSub[T any] interface {
	Publisher[T]
	Subscriber[T]
}
