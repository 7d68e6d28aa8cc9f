package registry

import "context"

// Record is the persisted form of an item: the flat attribute set plus
// identity, stored under a namespace. One record per item.
type Record struct {
	ID          int64
	Title       string
	Description string
	Image       string
	Price       float64
	Order       int
	Purchased   bool
}

// Store is the port the persistence adapters implement. Implementations
// must be safe for use from the collection's single writer goroutine.
//
// Storage is a durability side-channel, not a consistency authority: a
// failed operation is logged by the caller and never rolls back in-memory
// state.
type Store interface {
	// Write upserts a record under the namespace. When rec.ID is 0 the
	// store mints an identifier and returns it so the item can adopt a
	// permanent identity. Writing the same id repeatedly is idempotent
	// last-write-wins.
	Write(ctx context.Context, namespace string, rec Record) (int64, error)

	// ReadAll returns a snapshot of every record stored under the
	// namespace. Enumeration order is unspecified; callers re-sort by the
	// order attribute.
	ReadAll(ctx context.Context, namespace string) ([]Record, error)

	// Delete removes the record. Deleting an id that does not exist is
	// not an error.
	Delete(ctx context.Context, namespace string, id int64) error
}
