package registry

import (
	"context"
	"sort"
	"sync"

	"giftwell/internal/log"
	"giftwell/internal/pubsub"
)

// CollectionEvent is the payload published on a collection's broker.
// Added events carry the new item; reset events carry the full ordered
// membership after a reload.
type CollectionEvent struct {
	Item  *Item
	Items []*Item
}

// member pairs an item with its arrival sequence. The sequence breaks ties
// between equal order numbers: the member encountered later sorts after.
type member struct {
	item *Item
	seq  int
}

// Collection is an in-memory ordered set of items, unique by identity,
// iterated in ascending order. It owns the namespace used when talking to
// the store, and all mutations schedule their persistence through a single
// writer goroutine.
type Collection struct {
	mu        sync.Mutex
	namespace string
	store     Store
	writer    *persistWriter
	members   []member
	byGUID    map[string]*Item
	byID      map[int64]*Item
	seq       int
	highOrder int // high-water mark; deleted order numbers are never reused
	broker    *pubsub.Broker[CollectionEvent]
}

// NewCollection creates an empty collection persisting under the given
// namespace.
func NewCollection(namespace string, store Store) *Collection {
	return &Collection{
		namespace: namespace,
		store:     store,
		writer:    newPersistWriter(),
		byGUID:    make(map[string]*Item),
		byID:      make(map[int64]*Item),
		broker:    pubsub.NewBroker[CollectionEvent](),
	}
}

// Namespace returns the storage bucket this collection persists under.
func (c *Collection) Namespace() string { return c.namespace }

// Events exposes the collection broker for added and reset notifications.
func (c *Collection) Events() *pubsub.Broker[CollectionEvent] { return c.broker }

// Failures exposes the broker carrying best-effort storage failures.
func (c *Collection) Failures() *pubsub.Broker[StoreFailure] { return c.writer.failures }

// Add inserts an existing item into the collection. Items without an order
// number receive the next one. The added event is published to every
// current subscriber before Add returns, and a persistence write for the
// new record is scheduled.
func (c *Collection) Add(it *Item) error {
	c.mu.Lock()
	if _, ok := c.byGUID[it.GUID()]; ok {
		c.mu.Unlock()
		return &DuplicateIdentityError{GUID: it.GUID(), ID: it.ID()}
	}
	if id := it.ID(); id != 0 {
		if _, ok := c.byID[id]; ok {
			c.mu.Unlock()
			return &DuplicateIdentityError{GUID: it.GUID(), ID: id}
		}
	}

	if it.Snapshot().Order == 0 {
		it.setOrder(c.nextOrderLocked())
	}
	if o := it.Snapshot().Order; o > c.highOrder {
		c.highOrder = o
	}
	it.setSink(c)

	c.seq++
	c.insertLocked(member{item: it, seq: c.seq})
	c.byGUID[it.GUID()] = it
	if id := it.ID(); id != 0 {
		c.byID[id] = it
	}
	c.mu.Unlock()

	c.broker.Publish(pubsub.AddedEvent, CollectionEvent{Item: it})
	c.scheduleWrite(it)
	log.Debug(log.CatRegistry, "item added", "guid", it.GUID(), "order", it.Snapshot().Order)
	return nil
}

// Create constructs an item from the patch and adds it. The item is
// addressable immediately; persistence confirmation is asynchronous.
func (c *Collection) Create(p Patch) (*Item, error) {
	it := NewItem(p)
	if err := c.Add(it); err != nil {
		return nil, err
	}
	return it, nil
}

// Remove drops the item from the in-memory set. It does not destroy the
// item; set membership and destruction are separate concerns.
func (c *Collection) Remove(it *Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(it)
}

func (c *Collection) removeLocked(it *Item) {
	for i, m := range c.members {
		if m.item == it {
			c.members = append(c.members[:i], c.members[i+1:]...)
			break
		}
	}
	delete(c.byGUID, it.GUID())
	if id := it.ID(); id != 0 {
		delete(c.byID, id)
	}
}

// Each applies fn to every member in ascending order. The iteration runs
// over a snapshot, so fn may mutate the collection.
func (c *Collection) Each(fn func(*Item)) {
	for _, it := range c.Items() {
		fn(it)
	}
}

// Items returns the membership as a point-in-time slice in ascending order.
func (c *Collection) Items() []*Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Item, len(c.members))
	for i, m := range c.members {
		out[i] = m.item
	}
	return out
}

// Done returns the items already purchased. Point-in-time, not live.
func (c *Collection) Done() []*Item {
	return c.where(true)
}

// Remaining returns the items not yet purchased. Point-in-time, not live.
func (c *Collection) Remaining() []*Item {
	return c.where(false)
}

func (c *Collection) where(purchased bool) []*Item {
	var out []*Item
	for _, it := range c.Items() {
		if it.Snapshot().Purchased == purchased {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of members.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.members)
}

// NextOrder returns 1 for an empty collection, otherwise one past the
// highest order number ever seen. Orders of deleted items are never
// reused.
func (c *Collection) NextOrder() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextOrderLocked()
}

func (c *Collection) nextOrderLocked() int {
	return c.highOrder + 1
}

// Get returns the member with the given guid, or nil.
func (c *Collection) Get(guid string) *Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byGUID[guid]
}

// Load clears the in-memory membership, reads every record under the
// collection's namespace, reconstructs items preserving their stored
// order, and publishes a single reset event once the whole set is in
// place. A read failure degrades to an empty collection; the app stays
// interactive.
func (c *Collection) Load(ctx context.Context) {
	records, err := c.store.ReadAll(ctx, c.namespace)
	if err != nil {
		log.ErrorErr(log.CatRegistry, "load failed, starting empty", err, "namespace", c.namespace)
		records = nil
	}

	c.mu.Lock()
	c.members = nil
	c.byGUID = make(map[string]*Item)
	c.byID = make(map[int64]*Item)
	c.seq = 0
	for _, rec := range records {
		it := reconstituteItem(rec)
		it.setSink(c)
		c.seq++
		c.insertLocked(member{item: it, seq: c.seq})
		c.byGUID[it.GUID()] = it
		if rec.ID != 0 {
			c.byID[rec.ID] = it
		}
		if rec.Order > c.highOrder {
			c.highOrder = rec.Order
		}
	}
	items := make([]*Item, len(c.members))
	for i, m := range c.members {
		items[i] = m.item
	}
	c.mu.Unlock()

	c.broker.Publish(pubsub.ResetEvent, CollectionEvent{Items: items})
	log.Info(log.CatRegistry, "collection loaded", "namespace", c.namespace, "count", len(items))
}

// Flush blocks until every persistence operation scheduled so far has been
// attempted. Intended for shutdown and tests.
func (c *Collection) Flush() {
	c.writer.Flush()
}

// Close flushes pending writes and releases the writer and broker.
func (c *Collection) Close() {
	c.writer.Close()
	c.broker.Close()
}

// insertLocked places m at its sorted position: ascending order, equal
// orders resolved by arrival sequence.
func (c *Collection) insertLocked(m member) {
	order := m.item.Snapshot().Order
	i := sort.Search(len(c.members), func(i int) bool {
		o := c.members[i].item.Snapshot().Order
		if o != order {
			return o > order
		}
		return c.members[i].seq > m.seq
	})
	c.members = append(c.members, member{})
	copy(c.members[i+1:], c.members[i:])
	c.members[i] = m
}

// scheduleWrite enqueues an asynchronous upsert of the item's final state.
// Implements persistSink.
func (c *Collection) scheduleWrite(it *Item) {
	c.writer.schedule(func(ctx context.Context) {
		rec := it.record()
		id, err := c.store.Write(ctx, c.namespace, rec)
		if err != nil {
			c.writer.fail("write", it.GUID(), err)
			return
		}
		if rec.ID == 0 {
			it.adoptID(id)
			c.mu.Lock()
			if _, present := c.byGUID[it.GUID()]; present {
				c.byID[id] = it
			}
			c.mu.Unlock()
		}
	})
}

// dropMembership removes a destroyed item from the membership before its
// Destroy call returns. Implements persistSink.
func (c *Collection) dropMembership(it *Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(it)
}

// scheduleDelete enqueues the storage delete for a destroyed item.
// Implements persistSink.
func (c *Collection) scheduleDelete(it *Item) {
	c.writer.schedule(func(ctx context.Context) {
		id := it.ID()
		if id == 0 {
			// Never persisted, nothing to delete.
			return
		}
		if err := c.store.Delete(ctx, c.namespace, id); err != nil {
			c.writer.fail("delete", it.GUID(), err)
		}
	})
}
