package service

import (
	"ticket-box-office/internal/core/domain"
	"ticket-box-office/pkg/apperror"
)

// surchargeRate is the markup applied over the listed price. The product
// is truncated toward zero, so e.g. a listed price of 6 charges 6.
const surchargeRate = 1.1

// BagPrice computes the total listed price of a requested bag against the
// price table. Each entry contributes its unit price added quantity times;
// amounts stay in the currency's native addition the whole way, so the
// total is invariant under reordering of the bag.
//
// A class missing from the price table is a contract violation: shape
// validation upstream is supposed to make it impossible.
func BagPrice(bag domain.ItemBag, inventory *domain.Inventory) (int64, error) {
	var total int64
	for class, qty := range bag {
		item, ok := inventory.Item(class)
		if !ok {
			return 0, apperror.ErrUnknownItemClass(class)
		}
		for i := int64(0); i < qty; i++ {
			total += item.UnitPrice
		}
	}
	return total, nil
}

// RequiredPayment applies the 10% surcharge to a listed price. This is the
// single place integer amounts pass through floating point; the conversion
// truncates toward zero.
func RequiredPayment(totalPrice int64) int64 {
	return int64(float64(totalPrice) * surchargeRate)
}
