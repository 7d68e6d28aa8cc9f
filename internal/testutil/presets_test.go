package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithStarterRegistry_FourUnpurchasedItems(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()

	NewBuilder(t, db).WithStarterRegistry().Build()

	var count, purchased int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items WHERE purchased = 1`).Scan(&purchased))
	require.Equal(t, 4, count)
	require.Equal(t, 0, purchased)
}

func TestWithMixedPurchases_SplitsEvenly(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()

	NewBuilder(t, db).WithMixedPurchases().Build()

	var purchased, remaining int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items WHERE purchased = 1`).Scan(&purchased))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items WHERE purchased = 0`).Scan(&remaining))
	require.Equal(t, 2, purchased)
	require.Equal(t, 2, remaining)
}

func TestWithOrderGaps_PreservesSlots(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()

	NewBuilder(t, db).WithOrderGaps().Build()

	var maxOrder int
	require.NoError(t, db.QueryRow(`SELECT MAX(item_order) FROM items`).Scan(&maxOrder))
	require.Equal(t, 9, maxOrder)
}
