package dto

// RegisterRequest is the request body for buyer registration.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
}

// LoginRequest is the request body for buyer login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	BuyerID  string `json:"buyer_id"`
	Username string `json:"username"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// PaymentDTO is the give side of a trade offer.
type PaymentDTO struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency" binding:"required,len=3"`
}

// TradeRequest is the request body for a trade: the payment offered and
// the bag of ticket classes wanted.
type TradeRequest struct {
	ReferenceID string           `json:"reference_id" binding:"required,max=100,safe_id"`
	Payment     PaymentDTO       `json:"payment" binding:"required"`
	Items       map[string]int64 `json:"items" binding:"required,min=1,dive,gte=0"`
}

// TradeResponse is the acknowledgment body for a settled trade.
type TradeResponse struct {
	ID            string           `json:"id"`
	ReferenceID   string           `json:"reference_id"`
	Items         map[string]int64 `json:"items"`
	TotalPrice    int64            `json:"total_price"`
	ChargedAmount int64            `json:"charged_amount"`
	Credit        int64            `json:"credit"`
	Currency      string           `json:"currency"`
	Status        string           `json:"status"`
	SettledAt     string           `json:"settled_at"`
	Message       string           `json:"message"`
}

// PurchaseResponse is one entry of a buyer's purchase history.
type PurchaseResponse struct {
	ID          string           `json:"id"`
	Items       map[string]int64 `json:"items"`
	PurchasedAt string           `json:"purchased_at"`
	Expired     bool             `json:"expired"`
}

// BalanceResponse is the response for a credit balance query. Present is
// false when the buyer has never been credited.
type BalanceResponse struct {
	Balance  int64  `json:"balance"`
	Present  bool   `json:"present"`
	Currency string `json:"currency"`
}

// DrawRequest is the request body for a credit draw-down.
type DrawRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// DrawResponse reports the balance left after a draw-down.
type DrawResponse struct {
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// InventoryItemResponse is one price-table row with live availability.
type InventoryItemResponse struct {
	Class       string `json:"class"`
	UnitPrice   int64  `json:"unit_price"`
	MaxQuantity int64  `json:"max_quantity"`
	Remaining   int64  `json:"remaining"`
}

// InventoryResponse is the response for the inventory view.
type InventoryResponse struct {
	Currency string                  `json:"currency"`
	Items    []InventoryItemResponse `json:"items"`
}
