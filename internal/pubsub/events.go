// Package pubsub provides a generic publish/subscribe event system.
//
// Every registry item and every collection owns its own broker, so
// subscribers receive a typed payload instead of a generic dispatch key.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// ChangedEvent fires after an item's attributes are mutated.
	ChangedEvent EventType = "changed"
	// DestroyedEvent fires when an item is destroyed; the item accepts no
	// further mutation afterwards.
	DestroyedEvent EventType = "destroyed"
	// AddedEvent fires when a collection gains a new member.
	AddedEvent EventType = "added"
	// RemovedEvent fires when a membership set drops a member without
	// destroying it (cart detach).
	RemovedEvent EventType = "removed"
	// ResetEvent fires once after a collection reloads from storage.
	// Consumers must treat it as a bulk replace, never as N adds.
	ResetEvent EventType = "reset"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
