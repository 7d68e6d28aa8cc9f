package sqlite

import (
	"time"

	"giftwell/internal/registry"
)

// ItemModel represents a database row of the items table. Timestamps are
// Unix seconds and exist only at the storage layer; the domain record does
// not carry them.
type ItemModel struct {
	ID          int64
	Namespace   string
	Title       string
	Description string
	Image       string
	Price       float64
	Order       int
	Purchased   bool
	CreatedAt   int64
	UpdatedAt   int64
}

// toItemModel converts a domain record into its row form.
func toItemModel(namespace string, rec registry.Record) ItemModel {
	now := time.Now().Unix()
	return ItemModel{
		ID:          rec.ID,
		Namespace:   namespace,
		Title:       rec.Title,
		Description: rec.Description,
		Image:       rec.Image,
		Price:       rec.Price,
		Order:       rec.Order,
		Purchased:   rec.Purchased,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// toRecord converts a row back into the domain record shape.
func (m ItemModel) toRecord() registry.Record {
	return registry.Record{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Image:       m.Image,
		Price:       m.Price,
		Order:       m.Order,
		Purchased:   m.Purchased,
	}
}
