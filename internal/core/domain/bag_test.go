package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemBag_Validate(t *testing.T) {
	tests := []struct {
		name    string
		bag     ItemBag
		wantErr bool
	}{
		{"empty", ItemBag{}, false},
		{"positive", ItemBag{"frontRow": 2, "middleRow": 1}, false},
		{"zero quantity", ItemBag{"frontRow": 0}, false},
		{"negative quantity", ItemBag{"frontRow": -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bag.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItemBag_Contains(t *testing.T) {
	holding := ItemBag{"frontRow": 3, "middleRow": 5}

	tests := []struct {
		name string
		want ItemBag
		ok   bool
	}{
		{"exact", ItemBag{"frontRow": 3, "middleRow": 5}, true},
		{"subset", ItemBag{"frontRow": 2}, true},
		{"empty", ItemBag{}, true},
		{"too many of one class", ItemBag{"frontRow": 4}, false},
		{"unknown class", ItemBag{"backRow": 1}, false},
		{"mixed, one short", ItemBag{"frontRow": 1, "middleRow": 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, holding.Contains(tt.want))
		})
	}
}

func TestItemBag_Subtract(t *testing.T) {
	holding := ItemBag{"frontRow": 3, "middleRow": 5}

	remaining, err := holding.Subtract(ItemBag{"frontRow": 2, "middleRow": 5})
	require.NoError(t, err)
	assert.Equal(t, ItemBag{"frontRow": 1}, remaining)
	// original is untouched
	assert.Equal(t, ItemBag{"frontRow": 3, "middleRow": 5}, holding)

	_, err = holding.Subtract(ItemBag{"frontRow": 4})
	assert.Error(t, err)
}

func TestItemBag_Add(t *testing.T) {
	a := ItemBag{"frontRow": 1}
	b := ItemBag{"frontRow": 2, "middleRow": 3}

	sum := a.Add(b)
	assert.Equal(t, ItemBag{"frontRow": 3, "middleRow": 3}, sum)
	assert.Equal(t, ItemBag{"frontRow": 1}, a)
}

func TestItemBag_Classes_Sorted(t *testing.T) {
	bag := ItemBag{"middleRow": 1, "backRow": 2, "frontRow": 3}
	assert.Equal(t, []string{"backRow", "frontRow", "middleRow"}, bag.Classes())
}

func TestItemBag_IsEmpty(t *testing.T) {
	assert.True(t, ItemBag{}.IsEmpty())
	assert.True(t, ItemBag{"frontRow": 0}.IsEmpty())
	assert.False(t, ItemBag{"frontRow": 1}.IsEmpty())
}
