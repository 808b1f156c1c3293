package postgres

import (
	"context"
	"errors"
	"fmt"

	"ticket-box-office/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BuyerRepo implements ports.BuyerRepository.
type BuyerRepo struct {
	pool Pool
}

// NewBuyerRepo creates a new BuyerRepo.
func NewBuyerRepo(pool Pool) *BuyerRepo {
	return &BuyerRepo{pool: pool}
}

const buyerColumns = `id, username, password_hash, display_name, status, created_at, updated_at`

// Create inserts a new buyer account.
func (r *BuyerRepo) Create(ctx context.Context, b *domain.Buyer) error {
	query := `INSERT INTO buyers (` + buyerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.Username, b.PasswordHash, b.DisplayName,
		b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert buyer: %w", err)
	}
	return nil
}

// GetByID fetches a buyer by UUID. Returns nil when no buyer exists.
func (r *BuyerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id = $1`
	return r.scanBuyer(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches a buyer by username. Returns nil when no buyer
// exists.
func (r *BuyerRepo) GetByUsername(ctx context.Context, username string) (*domain.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE username = $1`
	return r.scanBuyer(r.pool.QueryRow(ctx, query, username))
}

func (r *BuyerRepo) scanBuyer(row pgx.Row) (*domain.Buyer, error) {
	b := &domain.Buyer{}
	err := row.Scan(
		&b.ID, &b.Username, &b.PasswordHash, &b.DisplayName,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get buyer: %w", err)
	}
	return b, nil
}
