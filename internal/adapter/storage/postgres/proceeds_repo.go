package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ProceedsRepo implements ports.ProceedsRepository on a single-row table.
// The trade engine only ever adds to it.
type ProceedsRepo struct {
	pool Pool
}

// NewProceedsRepo creates a new ProceedsRepo.
func NewProceedsRepo(pool Pool) *ProceedsRepo {
	return &ProceedsRepo{pool: pool}
}

// Init creates the proceeds row if it does not exist yet.
func (r *ProceedsRepo) Init(ctx context.Context) error {
	query := `INSERT INTO proceeds (id, total) VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("init proceeds: %w", err)
	}
	return nil
}

// Add credits the proceeds holder within a settlement transaction.
func (r *ProceedsRepo) Add(ctx context.Context, tx pgx.Tx, amount int64) error {
	query := `UPDATE proceeds SET total = total + $1 WHERE id = 1`

	tag, err := tx.Exec(ctx, query, amount)
	if err != nil {
		return fmt.Errorf("add proceeds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("proceeds row not initialized")
	}
	return nil
}

// Total returns the accumulated proceeds.
func (r *ProceedsRepo) Total(ctx context.Context) (int64, error) {
	query := `SELECT total FROM proceeds WHERE id = 1`

	var total int64
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("get proceeds total: %w", err)
	}
	return total, nil
}
