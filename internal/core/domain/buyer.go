package domain

import (
	"time"

	"github.com/google/uuid"
)

// BuyerStatus represents the lifecycle state of a buyer account.
type BuyerStatus string

const (
	BuyerStatusActive    BuyerStatus = "ACTIVE"
	BuyerStatusSuspended BuyerStatus = "SUSPENDED"
)

// Buyer is an account holder. Its ID is the stable handle every ledger
// entry is keyed by.
type Buyer struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	DisplayName  string      `json:"display_name"`
	Status       BuyerStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsActive returns true if the buyer may trade.
func (b *Buyer) IsActive() bool {
	return b.Status == BuyerStatusActive
}

// PurchaseRecord is one entry in a buyer's ordered purchase history.
// Records are append-only and never mutated. Expired is carried for a
// future ticket-expiry feature and is never evaluated.
type PurchaseRecord struct {
	ID          uuid.UUID `json:"id"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	Items       ItemBag   `json:"items"`
	PurchasedAt time.Time `json:"purchased_at"`
	Expired     bool      `json:"expired"`
}
