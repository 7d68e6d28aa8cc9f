package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builder accumulates test rows and inserts them in arrival order, so
// the autoincrement ids reflect the order items were declared.
type Builder struct {
	t     *testing.T
	db    *sql.DB
	items []itemData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithItem adds an item with optional configuration.
func (b *Builder) WithItem(title string, opts ...ItemOption) *Builder {
	item := defaultItem(title)
	for _, opt := range opts {
		opt(&item)
	}
	b.items = append(b.items, item)
	return b
}

// Build inserts all accumulated rows into the database.
func (b *Builder) Build() {
	b.t.Helper()
	for _, item := range b.items {
		b.insertItem(item)
	}
}

func (b *Builder) insertItem(item itemData) {
	b.t.Helper()

	var err error
	if item.id != 0 {
		_, err = b.db.Exec(`
			INSERT INTO items (id, namespace, title, description, image, price, item_order, purchased, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.id, item.namespace, item.title, item.description, item.image,
			item.price, item.order, boolToInt(item.purchased),
			item.createdAt.Unix(), item.updatedAt.Unix())
	} else {
		_, err = b.db.Exec(`
			INSERT INTO items (namespace, title, description, image, price, item_order, purchased, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.namespace, item.title, item.description, item.image,
			item.price, item.order, boolToInt(item.purchased),
			item.createdAt.Unix(), item.updatedAt.Unix())
	}
	require.NoError(b.t, err)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
