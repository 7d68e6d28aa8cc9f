package testutil

// WithStarterRegistry adds the default starter wishlist: four
// un-purchased items in ascending order slots.
func (b *Builder) WithStarterRegistry() *Builder {
	return b.
		WithItem("Green Dishes",
			Description("A set of eight dinner plates in a sage green glaze."),
			Price(25.95), Order(1)).
		WithItem("Curtains",
			Description("Blackout curtains, two panels, 84 inch."),
			Price(99.99), Order(2)).
		WithItem("20 Piece Flatware Set",
			Description("Service for four in brushed stainless steel."),
			Price(29.99), Order(3)).
		WithItem("Red Toolbox",
			Description("Steel toolbox with a removable tray."),
			Price(49.99), Order(4))
}

// WithMixedPurchases adds a registry where some items are bought, for
// filter and summary tests.
func (b *Builder) WithMixedPurchases() *Builder {
	return b.
		WithItem("Stand Mixer", Price(299.00), Order(1), Purchased()).
		WithItem("Dutch Oven", Price(89.50), Order(2)).
		WithItem("Knife Block", Price(129.99), Order(3), Purchased()).
		WithItem("Salad Spinner", Price(19.99), Order(4))
}

// WithOrderGaps adds items whose order slots are non-contiguous, for
// verifying that new items slot after the highest order rather than
// filling gaps.
func (b *Builder) WithOrderGaps() *Builder {
	return b.
		WithItem("First", Order(1)).
		WithItem("Fifth", Order(5)).
		WithItem("Ninth", Order(9))
}
