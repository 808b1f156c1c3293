package postgres

import (
	"context"
	"fmt"

	"ticket-box-office/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AllocationRepo implements ports.AllocationRepository. The allocation is
// one row per item class; remaining carries a CHECK (remaining >= 0)
// constraint as a last line of defense under the locking protocol.
type AllocationRepo struct {
	pool Pool
}

// NewAllocationRepo creates a new AllocationRepo.
func NewAllocationRepo(pool Pool) *AllocationRepo {
	return &AllocationRepo{pool: pool}
}

// Seed mints the initial allocation. Classes already present keep their
// current remaining count, so a restart never re-mints sold tickets.
func (r *AllocationRepo) Seed(ctx context.Context, bag domain.ItemBag) error {
	query := `INSERT INTO ticket_allocation (item_class, remaining)
		VALUES ($1, $2)
		ON CONFLICT (item_class) DO NOTHING`

	for _, class := range bag.Classes() {
		if _, err := r.pool.Exec(ctx, query, class, bag[class]); err != nil {
			return fmt.Errorf("seed allocation for %s: %w", class, err)
		}
	}
	return nil
}

// Get reads the current allocation without locking.
func (r *AllocationRepo) Get(ctx context.Context) (domain.ItemBag, error) {
	query := `SELECT item_class, remaining FROM ticket_allocation`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	defer rows.Close()

	return scanAllocation(rows)
}

// GetForUpdate reads the allocation with every row locked until the
// transaction ends. Rows are locked in item_class order so concurrent
// settlements never deadlock on each other.
func (r *AllocationRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (domain.ItemBag, error) {
	query := `SELECT item_class, remaining FROM ticket_allocation
		ORDER BY item_class FOR UPDATE`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lock allocation: %w", err)
	}
	defer rows.Close()

	return scanAllocation(rows)
}

// Subtract removes the bag from the allocation. Must run inside the same
// transaction that locked the rows via GetForUpdate.
func (r *AllocationRepo) Subtract(ctx context.Context, tx pgx.Tx, bag domain.ItemBag) error {
	query := `UPDATE ticket_allocation SET remaining = remaining - $1
		WHERE item_class = $2 AND remaining >= $1`

	for _, class := range bag.Classes() {
		tag, err := tx.Exec(ctx, query, bag[class], class)
		if err != nil {
			return fmt.Errorf("subtract allocation for %s: %w", class, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("allocation underflow for %s", class)
		}
	}
	return nil
}

func scanAllocation(rows pgx.Rows) (domain.ItemBag, error) {
	bag := domain.ItemBag{}
	for rows.Next() {
		var class string
		var remaining int64
		if err := rows.Scan(&class, &remaining); err != nil {
			return nil, fmt.Errorf("scan allocation row: %w", err)
		}
		bag[class] = remaining
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocation rows: %w", err)
	}
	return bag, nil
}
