package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventory_Valid(t *testing.T) {
	inv, err := NewInventory(map[string]ItemClass{
		"frontRow":  {UnitPrice: 3, MaxQuantity: 3, Currency: "IST"},
		"middleRow": {UnitPrice: 2, MaxQuantity: 5, Currency: "IST"},
	})
	require.NoError(t, err)

	assert.Equal(t, "IST", inv.Currency())
	assert.Equal(t, []string{"frontRow", "middleRow"}, inv.Classes())

	item, ok := inv.Item("frontRow")
	require.True(t, ok)
	assert.Equal(t, int64(3), item.UnitPrice)

	_, ok = inv.Item("backRow")
	assert.False(t, ok)
}

func TestNewInventory_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		items map[string]ItemClass
	}{
		{"empty", map[string]ItemClass{}},
		{"nil", nil},
		{"negative price", map[string]ItemClass{
			"frontRow": {UnitPrice: -1, MaxQuantity: 3, Currency: "IST"},
		}},
		{"negative max quantity", map[string]ItemClass{
			"frontRow": {UnitPrice: 3, MaxQuantity: -3, Currency: "IST"},
		}},
		{"missing currency", map[string]ItemClass{
			"frontRow": {UnitPrice: 3, MaxQuantity: 3},
		}},
		{"mixed currencies", map[string]ItemClass{
			"frontRow":  {UnitPrice: 3, MaxQuantity: 3, Currency: "IST"},
			"middleRow": {UnitPrice: 2, MaxQuantity: 5, Currency: "USD"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInventory(tt.items)
			assert.Error(t, err)
		})
	}
}

func TestInventory_InitialAllocation(t *testing.T) {
	inv, err := NewInventory(map[string]ItemClass{
		"frontRow":  {UnitPrice: 3, MaxQuantity: 3, Currency: "IST"},
		"middleRow": {UnitPrice: 2, MaxQuantity: 0, Currency: "IST"},
	})
	require.NoError(t, err)

	assert.Equal(t, ItemBag{"frontRow": 3}, inv.InitialAllocation())
}

func TestInventory_ImmutableAfterConstruction(t *testing.T) {
	source := map[string]ItemClass{
		"frontRow": {UnitPrice: 3, MaxQuantity: 3, Currency: "IST"},
	}
	inv, err := NewInventory(source)
	require.NoError(t, err)

	// mutating the source map must not affect the inventory
	source["frontRow"] = ItemClass{UnitPrice: 99, MaxQuantity: 99, Currency: "IST"}

	item, _ := inv.Item("frontRow")
	assert.Equal(t, int64(3), item.UnitPrice)
}
