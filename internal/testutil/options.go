package testutil

import "time"

// itemData holds all data for a registry item row to be inserted.
type itemData struct {
	id          int64
	namespace   string
	title       string
	description string
	image       string
	price       float64
	order       int
	purchased   bool
	createdAt   time.Time
	updatedAt   time.Time
}

// defaultItem returns an itemData with sensible defaults.
func defaultItem(title string) itemData {
	now := time.Now()
	return itemData{
		namespace: "registry",
		title:     title,
		createdAt: now,
		updatedAt: now,
	}
}

// ItemOption configures an item during builder setup.
type ItemOption func(*itemData)

// ID pins the row id instead of letting the database mint one.
func ID(id int64) ItemOption {
	return func(i *itemData) { i.id = id }
}

// Namespace sets the namespace the row is stored under.
func Namespace(ns string) ItemOption {
	return func(i *itemData) { i.namespace = ns }
}

// Description sets the item description.
func Description(desc string) ItemOption {
	return func(i *itemData) { i.description = desc }
}

// Image sets the item image reference.
func Image(image string) ItemOption {
	return func(i *itemData) { i.image = image }
}

// Price sets the item price.
func Price(p float64) ItemOption {
	return func(i *itemData) { i.price = p }
}

// Order sets the explicit ordering slot.
func Order(o int) ItemOption {
	return func(i *itemData) { i.order = o }
}

// Purchased marks the item as already bought.
func Purchased() ItemOption {
	return func(i *itemData) { i.purchased = true }
}

// CreatedAt sets the created_at timestamp.
func CreatedAt(t time.Time) ItemOption {
	return func(i *itemData) { i.createdAt = t }
}

// UpdatedAt sets the updated_at timestamp.
func UpdatedAt(t time.Time) ItemOption {
	return func(i *itemData) { i.updatedAt = t }
}
