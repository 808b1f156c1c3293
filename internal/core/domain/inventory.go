package domain

import (
	"fmt"
	"sort"
)

// ItemClass describes one ticket class in the price table: a fixed unit
// price in the inventory's currency and the maximum quantity ever minted.
type ItemClass struct {
	UnitPrice   int64
	MaxQuantity int64
	Currency    string
}

// Inventory is the immutable price table supplied at startup. All trades
// are priced against it; it never changes after construction.
type Inventory struct {
	currency string
	items    map[string]ItemClass
}

// NewInventory validates and builds the price table. It fails when the
// table is empty, a price or quantity is negative, or the item classes are
// not denominated in a single currency.
func NewInventory(items map[string]ItemClass) (*Inventory, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("inventory must not be empty")
	}

	currency := ""
	for class, item := range items {
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("item class %q has negative unit price %d", class, item.UnitPrice)
		}
		if item.MaxQuantity < 0 {
			return nil, fmt.Errorf("item class %q has negative max quantity %d", class, item.MaxQuantity)
		}
		if item.Currency == "" {
			return nil, fmt.Errorf("item class %q has no currency", class)
		}
		if currency == "" {
			currency = item.Currency
		} else if item.Currency != currency {
			return nil, fmt.Errorf("inventory must have one currency for all item classes: found %q and %q", currency, item.Currency)
		}
	}

	copied := make(map[string]ItemClass, len(items))
	for class, item := range items {
		copied[class] = item
	}

	return &Inventory{currency: currency, items: copied}, nil
}

// Currency returns the single currency all unit prices are denominated in.
func (inv *Inventory) Currency() string {
	return inv.currency
}

// Item returns the price table entry for a class.
func (inv *Inventory) Item(class string) (ItemClass, bool) {
	item, ok := inv.items[class]
	return item, ok
}

// Classes returns all item class names, sorted.
func (inv *Inventory) Classes() []string {
	classes := make([]string, 0, len(inv.items))
	for class := range inv.items {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// InitialAllocation returns the bag minted once at startup: every item
// class at its maximum quantity.
func (inv *Inventory) InitialAllocation() ItemBag {
	bag := make(ItemBag, len(inv.items))
	for class, item := range inv.items {
		if item.MaxQuantity > 0 {
			bag[class] = item.MaxQuantity
		}
	}
	return bag
}
