package registry

import (
	"sync"

	"github.com/google/uuid"

	"giftwell/internal/pubsub"
)

// DefaultTitle is the placeholder title for items created without one.
const DefaultTitle = "empty registry..."

// Attrs is a flat snapshot of an item's attributes. It is the payload
// handed to views and templates; mutating a snapshot has no effect on the
// item it came from.
type Attrs struct {
	Title       string
	Description string
	Image       string
	Price       float64
	Order       int
	Purchased   bool
}

// Patch is a partial attribute update. Nil fields are left untouched,
// mirroring an attribute merge.
type Patch struct {
	Title       *string
	Description *string
	Image       *string
	Price       *float64
	Order       *int
	Purchased   *bool
}

// String returns a pointer to s, for building patches inline.
func String(s string) *string { return &s }

// Float returns a pointer to f, for building patches inline.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i, for building patches inline.
func Int(i int) *int { return &i }

// Bool returns a pointer to b, for building patches inline.
func Bool(b bool) *bool { return &b }

// ItemEvent is the payload published on an item's broker for changed and
// destroyed events.
type ItemEvent struct {
	GUID  string
	ID    int64
	Attrs Attrs
}

// persistSink receives persistence work scheduled by an item. The owning
// collection installs itself as the sink when the item is added, and is
// told synchronously when the item destroys itself so membership drops
// before Destroy returns.
type persistSink interface {
	scheduleWrite(*Item)
	scheduleDelete(*Item)
	dropMembership(*Item)
}

// Item is a single registry entry. All fields are unexported; use the
// constructor and accessors. The numeric id stays 0 until the storage
// adapter mints one on first persist; the guid is the stable in-memory
// identity from the moment of construction.
type Item struct {
	mu        sync.Mutex
	guid      string
	id        int64
	attrs     Attrs
	destroyed bool
	sink      persistSink
	broker    *pubsub.Broker[ItemEvent]
}

// NewItem creates an item by merging the given patch over the defaults.
// Order is left at 0 when the patch does not carry one; the collection
// assigns the next order number during Add.
func NewItem(p Patch) *Item {
	it := &Item{
		guid: uuid.NewString(),
		attrs: Attrs{
			Title: DefaultTitle,
		},
		broker: pubsub.NewBroker[ItemEvent](),
	}
	it.attrs = mergePatch(it.attrs, p)
	return it
}

// reconstituteItem rebuilds an item from a persisted record during load.
// The stored order is preserved, never recomputed.
func reconstituteItem(rec Record) *Item {
	return &Item{
		guid: uuid.NewString(),
		id:   rec.ID,
		attrs: Attrs{
			Title:       rec.Title,
			Description: rec.Description,
			Image:       rec.Image,
			Price:       rec.Price,
			Order:       rec.Order,
			Purchased:   rec.Purchased,
		},
		broker: pubsub.NewBroker[ItemEvent](),
	}
}

// GUID returns the stable in-memory identity of the item.
func (it *Item) GUID() string { return it.guid }

// ID returns the storage-assigned identifier, 0 until the first persist
// completes.
func (it *Item) ID() int64 {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.id
}

// Snapshot returns a point-in-time copy of the item's attributes.
func (it *Item) Snapshot() Attrs {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.attrs
}

// Destroyed reports whether Destroy has been called.
func (it *Item) Destroyed() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.destroyed
}

// Events exposes the item's broker so views can subscribe to changed and
// destroyed notifications.
func (it *Item) Events() *pubsub.Broker[ItemEvent] { return it.broker }

// Set merges the patch into the item's attributes, publishes one changed
// event to every current subscriber before returning, and schedules
// exactly one asynchronous persistence write of the post-merge state.
// Calling Set on a destroyed item is a no-op.
func (it *Item) Set(p Patch) {
	it.mu.Lock()
	if it.destroyed {
		it.mu.Unlock()
		return
	}
	it.attrs = mergePatch(it.attrs, p)
	ev := ItemEvent{GUID: it.guid, ID: it.id, Attrs: it.attrs}
	sink := it.sink
	it.mu.Unlock()

	it.broker.Publish(pubsub.ChangedEvent, ev)
	if sink != nil {
		sink.scheduleWrite(it)
	}
}

// Toggle flips the purchased flag. The read-negate-write happens under the
// item's lock, so overlapping toggles can never lose an update. Like Set,
// it publishes one changed event and schedules one persistence write.
func (it *Item) Toggle() {
	it.mu.Lock()
	if it.destroyed {
		it.mu.Unlock()
		return
	}
	it.attrs.Purchased = !it.attrs.Purchased
	ev := ItemEvent{GUID: it.guid, ID: it.id, Attrs: it.attrs}
	sink := it.sink
	it.mu.Unlock()

	it.broker.Publish(pubsub.ChangedEvent, ev)
	if sink != nil {
		sink.scheduleWrite(it)
	}
}

// Destroy publishes a destroyed event to every subscriber, drops the item
// from its owning collection, schedules the storage delete, and marks the
// item inert. The broker is closed once the destroyed event is enqueued,
// so no subscriber can observe a changed event after destruction.
func (it *Item) Destroy() {
	it.mu.Lock()
	if it.destroyed {
		it.mu.Unlock()
		return
	}
	it.destroyed = true
	ev := ItemEvent{GUID: it.guid, ID: it.id, Attrs: it.attrs}
	sink := it.sink
	it.mu.Unlock()

	it.broker.Publish(pubsub.DestroyedEvent, ev)
	it.broker.Close()
	if sink != nil {
		sink.dropMembership(it)
		sink.scheduleDelete(it)
	}
}

// adoptID records the identity minted by the storage adapter on first
// persist. Called from the persistence writer only.
func (it *Item) adoptID(id int64) {
	it.mu.Lock()
	if it.id == 0 {
		it.id = id
	}
	it.mu.Unlock()
}

// setSink installs the owning collection's persistence queue.
func (it *Item) setSink(s persistSink) {
	it.mu.Lock()
	it.sink = s
	it.mu.Unlock()
}

// setOrder assigns the insertion-order number. Used once, during Add, for
// items constructed without an explicit order.
func (it *Item) setOrder(order int) {
	it.mu.Lock()
	it.attrs.Order = order
	it.mu.Unlock()
}

// record builds the persisted form of the item's current state.
func (it *Item) record() Record {
	it.mu.Lock()
	defer it.mu.Unlock()
	return Record{
		ID:          it.id,
		Title:       it.attrs.Title,
		Description: it.attrs.Description,
		Image:       it.attrs.Image,
		Price:       it.attrs.Price,
		Order:       it.attrs.Order,
		Purchased:   it.attrs.Purchased,
	}
}

// mergePatch applies non-nil patch fields over base. Prices are clamped at
// zero to hold the non-negative invariant.
func mergePatch(base Attrs, p Patch) Attrs {
	if p.Title != nil {
		base.Title = *p.Title
	}
	if p.Description != nil {
		base.Description = *p.Description
	}
	if p.Image != nil {
		base.Image = *p.Image
	}
	if p.Price != nil {
		base.Price = *p.Price
		if base.Price < 0 {
			base.Price = 0
		}
	}
	if p.Order != nil {
		base.Order = *p.Order
	}
	if p.Purchased != nil {
		base.Purchased = *p.Purchased
	}
	return base
}
