package domain

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus represents the terminal state of a trade request.
type TradeStatus string

const (
	TradeStatusSettled  TradeStatus = "SETTLED"
	TradeStatusRejected TradeStatus = "REJECTED"
)

// Payment is a single-currency amount offered by a buyer.
type Payment struct {
	Amount   int64
	Currency string
}

// Trade is the completion record of a settled trade: what was bought, the
// listed price, the surcharge-inclusive amount actually charged, and the
// overpayment credited back to the buyer.
type Trade struct {
	ID            uuid.UUID   `json:"id"`
	BuyerID       uuid.UUID   `json:"buyer_id"`
	ReferenceID   string      `json:"reference_id"`
	Items         ItemBag     `json:"items"`
	TotalPrice    int64       `json:"total_price"`
	ChargedAmount int64       `json:"charged_amount"`
	Credit        int64       `json:"credit"`
	Currency      string      `json:"currency"`
	Status        TradeStatus `json:"status"`
	SettledAt     time.Time   `json:"settled_at"`
}
