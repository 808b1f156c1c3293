package ports

import (
	"context"

	"ticket-box-office/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BuyerRepository defines persistence operations for buyer accounts.
type BuyerRepository interface {
	Create(ctx context.Context, buyer *domain.Buyer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Buyer, error)
	GetByUsername(ctx context.Context, username string) (*domain.Buyer, error)
}

// AllocationRepository holds the single pre-minted ticket allocation.
// Methods accepting pgx.Tx run inside a settlement transaction so the
// sufficiency check and the transfer see the same snapshot.
type AllocationRepository interface {
	// Seed mints the initial allocation. Idempotent: classes already
	// present are left untouched.
	Seed(ctx context.Context, bag domain.ItemBag) error
	Get(ctx context.Context) (domain.ItemBag, error)
	// GetForUpdate reads the allocation with the rows locked for the
	// duration of the transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx) (domain.ItemBag, error)
	// Subtract removes the bag from the allocation. Must be called after
	// GetForUpdate within the same transaction.
	Subtract(ctx context.Context, tx pgx.Tx, bag domain.ItemBag) error
}

// LedgerRepository owns per-buyer purchase histories and credit balances.
type LedgerRepository interface {
	AppendPurchase(ctx context.Context, tx pgx.Tx, record *domain.PurchaseRecord) error
	// ListPurchases returns the buyer's history in insertion order.
	// An unknown buyer yields an empty slice, not an error.
	ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error)
	// SetCredit overwrites the stored credit balance.
	SetCredit(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID, credit int64) error
	// GetCredit returns nil when the buyer has never been credited.
	GetCredit(ctx context.Context, buyerID uuid.UUID) (*int64, error)
	GetCreditForUpdate(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID) (*int64, error)
	UpdateCredit(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID, credit int64) error
}

// ProceedsRepository accumulates payments received from settled trades.
// Write-only from the trade engine's perspective: no draw-down exists.
type ProceedsRepository interface {
	Init(ctx context.Context) error
	Add(ctx context.Context, tx pgx.Tx, amount int64) error
	Total(ctx context.Context) (int64, error)
}

// DBTransactor provides database transaction management. A transaction is
// the atomic-rearrangement boundary: every settlement leg commits together
// or not at all.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
