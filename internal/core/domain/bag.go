package domain

import (
	"fmt"
	"sort"
)

// ItemBag is a multiset of ticket classes: class name -> quantity.
// Quantities are always non-negative.
type ItemBag map[string]int64

// Validate checks that every quantity in the bag is non-negative.
func (b ItemBag) Validate() error {
	for class, qty := range b {
		if qty < 0 {
			return fmt.Errorf("negative quantity %d for item class %q", qty, class)
		}
	}
	return nil
}

// Contains reports whether b holds at least the quantities of other,
// entrywise. An empty bag is contained in every bag.
func (b ItemBag) Contains(other ItemBag) bool {
	for class, qty := range other {
		if b[class] < qty {
			return false
		}
	}
	return true
}

// Add returns a new bag with the quantities of other added to b.
// Neither input is modified.
func (b ItemBag) Add(other ItemBag) ItemBag {
	out := b.Clone()
	for class, qty := range other {
		out[class] += qty
	}
	return out
}

// Subtract returns a new bag with the quantities of other removed from b.
// Returns an error if any entry would go negative; b is never modified.
func (b ItemBag) Subtract(other ItemBag) (ItemBag, error) {
	if !b.Contains(other) {
		return nil, fmt.Errorf("bag does not contain requested quantities")
	}
	out := b.Clone()
	for class, qty := range other {
		out[class] -= qty
		if out[class] == 0 {
			delete(out, class)
		}
	}
	return out, nil
}

// Clone returns a deep copy of the bag. Zero-quantity entries are dropped.
func (b ItemBag) Clone() ItemBag {
	out := make(ItemBag, len(b))
	for class, qty := range b {
		if qty != 0 {
			out[class] = qty
		}
	}
	return out
}

// IsEmpty reports whether the bag holds no items.
func (b ItemBag) IsEmpty() bool {
	for _, qty := range b {
		if qty > 0 {
			return false
		}
	}
	return true
}

// Classes returns the item classes present in the bag, sorted.
// Used wherever a deterministic iteration order matters (locking, SQL).
func (b ItemBag) Classes() []string {
	classes := make([]string, 0, len(b))
	for class := range b {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}
