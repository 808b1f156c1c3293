package integration

import (
	"context"
	"fmt"
	"sync"

	"ticket-box-office/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Buyer Repo ---

type inMemoryBuyerRepo struct {
	mu     sync.RWMutex
	buyers map[uuid.UUID]*domain.Buyer
}

func newInMemoryBuyerRepo() *inMemoryBuyerRepo {
	return &inMemoryBuyerRepo{buyers: make(map[uuid.UUID]*domain.Buyer)}
}

func (r *inMemoryBuyerRepo) Create(ctx context.Context, b *domain.Buyer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.buyers {
		if existing.Username == b.Username {
			return fmt.Errorf("username already exists")
		}
	}
	r.buyers[b.ID] = b
	return nil
}

func (r *inMemoryBuyerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.buyers[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (r *inMemoryBuyerRepo) GetByUsername(ctx context.Context, username string) (*domain.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.buyers {
		if b.Username == username {
			return b, nil
		}
	}
	return nil, nil
}

// --- In-Memory Allocation Repo ---

type inMemoryAllocationRepo struct {
	mu         sync.RWMutex
	allocation domain.ItemBag
}

func newInMemoryAllocationRepo() *inMemoryAllocationRepo {
	return &inMemoryAllocationRepo{allocation: make(domain.ItemBag)}
}

func (r *inMemoryAllocationRepo) Seed(ctx context.Context, bag domain.ItemBag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for class, qty := range bag {
		if _, ok := r.allocation[class]; !ok {
			r.allocation[class] = qty
		}
	}
	return nil
}

func (r *inMemoryAllocationRepo) Get(ctx context.Context) (domain.ItemBag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allocation.Clone(), nil
}

func (r *inMemoryAllocationRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (domain.ItemBag, error) {
	return r.Get(ctx)
}

func (r *inMemoryAllocationRepo) Subtract(ctx context.Context, tx pgx.Tx, bag domain.ItemBag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for class, qty := range bag {
		if r.allocation[class] < qty {
			return fmt.Errorf("allocation underflow for class %q", class)
		}
	}
	for class, qty := range bag {
		r.allocation[class] -= qty
	}
	return nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu        sync.RWMutex
	purchases map[uuid.UUID][]domain.PurchaseRecord
	credits   map[uuid.UUID]int64
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{
		purchases: make(map[uuid.UUID][]domain.PurchaseRecord),
		credits:   make(map[uuid.UUID]int64),
	}
}

func (r *inMemoryLedgerRepo) AppendPurchase(ctx context.Context, tx pgx.Tx, record *domain.PurchaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases[record.BuyerID] = append(r.purchases[record.BuyerID], *record)
	return nil
}

func (r *inMemoryLedgerRepo) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.purchases[buyerID]
	out := make([]domain.PurchaseRecord, len(records))
	copy(out, records)
	return out, nil
}

func (r *inMemoryLedgerRepo) SetCredit(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID, credit int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credits[buyerID] = credit
	return nil
}

func (r *inMemoryLedgerRepo) GetCredit(ctx context.Context, buyerID uuid.UUID) (*int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	credit, ok := r.credits[buyerID]
	if !ok {
		return nil, nil
	}
	return &credit, nil
}

func (r *inMemoryLedgerRepo) GetCreditForUpdate(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID) (*int64, error) {
	return r.GetCredit(ctx, buyerID)
}

func (r *inMemoryLedgerRepo) UpdateCredit(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID, credit int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.credits[buyerID]; !ok {
		return fmt.Errorf("no credit balance for buyer")
	}
	r.credits[buyerID] = credit
	return nil
}

// --- In-Memory Proceeds Repo ---

type inMemoryProceedsRepo struct {
	mu    sync.RWMutex
	total int64
}

func newInMemoryProceedsRepo() *inMemoryProceedsRepo {
	return &inMemoryProceedsRepo{}
}

func (r *inMemoryProceedsRepo) Init(ctx context.Context) error {
	return nil
}

func (r *inMemoryProceedsRepo) Add(ctx context.Context, tx pgx.Tx, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total += amount
	return nil
}

func (r *inMemoryProceedsRepo) Total(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total, nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serialises settlements with a single mutex, standing
// in for row-level locking. The lock is taken on Begin and released once
// on the first Commit or Rollback, so the service's deferred Rollback
// after a successful Commit stays a no-op.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockedTx{release: t.mu.Unlock}, nil
}

// lockedTx is a pgx.Tx implementation whose only job is releasing the
// transactor's lock exactly once.
type lockedTx struct {
	mu       sync.Mutex
	release  func()
	finished bool
}

func (t *lockedTx) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.finished {
		t.finished = true
		t.release()
	}
}

func (t *lockedTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *lockedTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *lockedTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *lockedTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockedTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockedTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockedTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockedTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *lockedTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *lockedTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *lockedTx) Conn() *pgx.Conn { return nil }
