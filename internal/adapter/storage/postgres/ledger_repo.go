package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ticket-box-office/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository on two tables: purchases
// (append-only, seq preserves insertion order) and credit_balances (one
// row per buyer).
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// AppendPurchase inserts a purchase record within a settlement transaction.
func (r *LedgerRepo) AppendPurchase(ctx context.Context, tx pgx.Tx, record *domain.PurchaseRecord) error {
	items, err := json.Marshal(record.Items)
	if err != nil {
		return fmt.Errorf("marshal purchase items: %w", err)
	}

	query := `INSERT INTO purchases (id, buyer_id, items, purchased_at, expired)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, query,
		record.ID, record.BuyerID, items, record.PurchasedAt, record.Expired,
	); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ListPurchases returns the buyer's history in insertion order. An unknown
// buyer yields an empty slice.
func (r *LedgerRepo) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	query := `SELECT id, buyer_id, items, purchased_at, expired
		FROM purchases WHERE buyer_id = $1 ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	records := []domain.PurchaseRecord{}
	for rows.Next() {
		var rec domain.PurchaseRecord
		var items []byte
		if err := rows.Scan(&rec.ID, &rec.BuyerID, &items, &rec.PurchasedAt, &rec.Expired); err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		if err := json.Unmarshal(items, &rec.Items); err != nil {
			return nil, fmt.Errorf("unmarshal purchase items: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase rows: %w", err)
	}
	return records, nil
}

// SetCredit overwrites the stored credit balance, creating the row on the
// buyer's first settled trade.
func (r *LedgerRepo) SetCredit(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID, credit int64) error {
	query := `INSERT INTO credit_balances (buyer_id, credit, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (buyer_id) DO UPDATE SET credit = $2, updated_at = NOW()`

	if _, err := tx.Exec(ctx, query, buyerID, credit); err != nil {
		return fmt.Errorf("set credit: %w", err)
	}
	return nil
}

// GetCredit returns nil when the buyer has never been credited.
func (r *LedgerRepo) GetCredit(ctx context.Context, buyerID uuid.UUID) (*int64, error) {
	query := `SELECT credit FROM credit_balances WHERE buyer_id = $1`

	var credit int64
	err := r.pool.QueryRow(ctx, query, buyerID).Scan(&credit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit: %w", err)
	}
	return &credit, nil
}

// GetCreditForUpdate locks the buyer's credit row for the duration of the
// transaction. Returns nil when no row exists.
func (r *LedgerRepo) GetCreditForUpdate(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID) (*int64, error) {
	query := `SELECT credit FROM credit_balances WHERE buyer_id = $1 FOR UPDATE`

	var credit int64
	err := tx.QueryRow(ctx, query, buyerID).Scan(&credit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit for update: %w", err)
	}
	return &credit, nil
}

// UpdateCredit writes a new balance for an existing credit row.
func (r *LedgerRepo) UpdateCredit(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID, credit int64) error {
	query := `UPDATE credit_balances SET credit = $1, updated_at = NOW() WHERE buyer_id = $2`

	tag, err := tx.Exec(ctx, query, credit, buyerID)
	if err != nil {
		return fmt.Errorf("update credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("credit row not found: %s", buyerID)
	}
	return nil
}
