package ports

import (
	"context"
	"time"

	"ticket-box-office/internal/core/domain"

	"github.com/google/uuid"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(buyerID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	BuyerID  uuid.UUID
	Username string
}

// TradeCache is the Redis-layer trade idempotency check (fast path).
type TradeCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached acknowledgment JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// TradeService defines the core trade engine: the single trade entry point
// plus the buyer-ledger queries.
type TradeService interface {
	ExecuteTrade(ctx context.Context, req TradeRequest) (*domain.Trade, error)
	// Verify returns the buyer's ordered purchase history. Unknown buyers
	// yield an empty history, never an error.
	Verify(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error)
	// GetBalance returns nil when the buyer holds no credit.
	GetBalance(ctx context.Context, buyerID uuid.UUID) (*int64, error)
	// DrawBalance decrements the buyer's credit by amount. The draw must
	// be strictly below the current balance.
	DrawBalance(ctx context.Context, buyerID uuid.UUID, amount int64) (int64, error)
	// RemainingInventory returns the price table merged with the current
	// allocation.
	RemainingInventory(ctx context.Context) (*InventoryView, error)
}

// TradeRequest holds validated input for a trade: what the buyer gives and
// the bag of ticket classes they want.
type TradeRequest struct {
	BuyerID     uuid.UUID
	ReferenceID string
	Give        domain.Payment
	Want        domain.ItemBag
	ClientIP    string
}

// InventoryView is a read-only merge of the price table and the remaining
// allocation.
type InventoryView struct {
	Currency string
	Items    []InventoryViewItem
}

// InventoryViewItem is one price-table row with live availability.
type InventoryViewItem struct {
	Class       string
	UnitPrice   int64
	MaxQuantity int64
	Remaining   int64
}

// AuthService defines buyer account creation and login. The buyer ID
// carried in the issued token is the stable handle all ledger state is
// keyed by.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for buyer registration.
type RegisterRequest struct {
	Username    string
	Password    string
	DisplayName string
}

// RegisterResponse holds the registration result.
type RegisterResponse struct {
	BuyerID  uuid.UUID
	Username string
}
