package registry

import (
	"context"
	"sync"

	"giftwell/internal/log"
	"giftwell/internal/pubsub"
)

// Cart is a membership set of items selected for purchase. Items are
// shared by reference with the primary collection; the cart never owns
// them and has no persistence namespace.
//
// Detach removes an item's cart presentation only. It is deliberately a
// different call with a different signature than Item.Destroy, so the two
// cannot be swapped by accident.
type Cart struct {
	mu     sync.Mutex
	ctx    context.Context
	items  []*Item
	broker *pubsub.Broker[CollectionEvent]
}

// NewCart creates an empty cart. The context bounds the per-item
// destroyed-event subscriptions the cart takes out on Put.
func NewCart(ctx context.Context) *Cart {
	return &Cart{
		ctx:    ctx,
		broker: pubsub.NewBroker[CollectionEvent](),
	}
}

// Events exposes the cart broker. Put publishes an added event, Detach a
// removed event.
func (c *Cart) Events() *pubsub.Broker[CollectionEvent] { return c.broker }

// Put adds the item to the cart. The cart subscribes to the item's own
// destroyed event, so destroying the source item drops its cart membership
// without any coordination code in the controller.
func (c *Cart) Put(it *Item) error {
	if it.Destroyed() {
		return &DuplicateIdentityError{GUID: it.GUID(), ID: it.ID()}
	}

	c.mu.Lock()
	for _, have := range c.items {
		if have == it {
			c.mu.Unlock()
			return &DuplicateIdentityError{GUID: it.GUID(), ID: it.ID()}
		}
	}
	c.items = append(c.items, it)
	c.mu.Unlock()

	ch := it.Events().Subscribe(c.ctx)
	go func() {
		for ev := range ch {
			if ev.Type == pubsub.DestroyedEvent {
				c.Detach(it)
				return
			}
		}
	}()

	c.broker.Publish(pubsub.AddedEvent, CollectionEvent{Item: it})
	log.Debug(log.CatCart, "item put in cart", "guid", it.GUID())
	return nil
}

// Detach removes the item's cart membership. It never destroys the item
// and never fires a destroyed event; removing from the cart is not
// deleting the registry entry.
func (c *Cart) Detach(it *Item) {
	c.mu.Lock()
	found := false
	for i, have := range c.items {
		if have == it {
			c.items = append(c.items[:i], c.items[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()

	if found {
		c.broker.Publish(pubsub.RemovedEvent, CollectionEvent{Item: it})
		log.Debug(log.CatCart, "item detached from cart", "guid", it.GUID())
	}
}

// Contains reports whether the item is currently in the cart.
func (c *Cart) Contains(it *Item) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, have := range c.items {
		if have == it {
			return true
		}
	}
	return false
}

// Items returns the cart membership in arrival order.
func (c *Cart) Items() []*Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Each applies fn to every cart member in arrival order.
func (c *Cart) Each(fn func(*Item)) {
	for _, it := range c.Items() {
		fn(it)
	}
}

// Len returns the number of items in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close releases the cart broker.
func (c *Cart) Close() {
	c.broker.Close()
}
