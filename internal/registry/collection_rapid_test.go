package registry

import (
	"context"
	"testing"

	"pgregory.net/rapid"
)

// Property: for any sequence of creates, iteration is strictly ascending
// by order and matches the insertion sequence.
func TestCollection_OrderingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		coll := NewCollection("registry", newFakeStore())
		defer coll.Close()

		n := rapid.IntRange(0, 32).Draw(t, "n")
		var created []*Item
		for i := 0; i < n; i++ {
			title := rapid.StringMatching(`[a-z]{1,12}`).Draw(t, "title")
			it, err := coll.Create(Patch{Title: String(title)})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			created = append(created, it)
		}

		var walked []*Item
		coll.Each(func(it *Item) { walked = append(walked, it) })

		if len(walked) != len(created) {
			t.Fatalf("each visited %d of %d members", len(walked), len(created))
		}
		prev := 0
		for i, it := range walked {
			o := it.Snapshot().Order
			if o <= prev {
				t.Fatalf("order %d at position %d is not strictly ascending (prev %d)", o, i, prev)
			}
			prev = o
			if it != created[i] {
				t.Fatalf("iteration order diverges from insertion order at %d", i)
			}
		}
	})
}

// Property: done and remaining always partition the membership, for any
// interleaving of creates, toggles, and removals.
func TestCollection_PartitionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		coll := NewCollection("registry", newFakeStore())
		defer coll.Close()

		var live []*Item
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				it, err := coll.Create(Patch{})
				if err != nil {
					t.Fatalf("create: %v", err)
				}
				live = append(live, it)
			case 1:
				if len(live) > 0 {
					idx := rapid.IntRange(0, len(live)-1).Draw(t, "toggleIdx")
					live[idx].Toggle()
				}
			case 2:
				if len(live) > 0 {
					idx := rapid.IntRange(0, len(live)-1).Draw(t, "removeIdx")
					coll.Remove(live[idx])
					live = append(live[:idx], live[idx+1:]...)
				}
			}

			done := coll.Done()
			remaining := coll.Remaining()
			if len(done)+len(remaining) != coll.Len() {
				t.Fatalf("partition broken: %d done + %d remaining != %d members",
					len(done), len(remaining), coll.Len())
			}
			seen := make(map[*Item]bool, len(done))
			for _, it := range done {
				if !it.Snapshot().Purchased {
					t.Fatal("done() returned an unpurchased item")
				}
				seen[it] = true
			}
			for _, it := range remaining {
				if it.Snapshot().Purchased {
					t.Fatal("remaining() returned a purchased item")
				}
				if seen[it] {
					t.Fatal("done and remaining overlap")
				}
			}
		}
	})
}

// Property: a write/delete/load round-trip reconstructs exactly the
// surviving records, iterated in ascending stored order.
func TestCollection_LoadRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := newFakeStore()

		seed := NewCollection("registry", store)
		n := rapid.IntRange(1, 16).Draw(t, "n")
		var items []*Item
		for i := 0; i < n; i++ {
			it, err := seed.Create(Patch{})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			items = append(items, it)
		}
		seed.Flush()

		destroyed := make(map[int]bool)
		for i := range items {
			if rapid.Bool().Draw(t, "destroy") {
				items[i].Destroy()
				destroyed[i] = true
			}
		}
		seed.Close()

		coll := NewCollection("registry", store)
		defer coll.Close()
		coll.Load(context.Background())

		var wantOrders []int
		for i, it := range items {
			if !destroyed[i] {
				wantOrders = append(wantOrders, it.Snapshot().Order)
			}
		}
		gotOrders := orders(coll.Items())
		if len(gotOrders) != len(wantOrders) {
			t.Fatalf("loaded %d records, want %d", len(gotOrders), len(wantOrders))
		}
		for i := range wantOrders {
			if gotOrders[i] != wantOrders[i] {
				t.Fatalf("order mismatch at %d: got %d want %d", i, gotOrders[i], wantOrders[i])
			}
		}
	})
}
