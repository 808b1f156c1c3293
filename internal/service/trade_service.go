package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ticket-box-office/internal/core/domain"
	"ticket-box-office/internal/core/ports"
	"ticket-box-office/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const tradeAckTTL = 24 * time.Hour

// TradeServiceImpl implements ports.TradeService. One instance owns the
// immutable price table and the custodial ledgers; there is no package
// state.
type TradeServiceImpl struct {
	inventory  *domain.Inventory
	allocRepo  ports.AllocationRepository
	ledgerRepo ports.LedgerRepository
	proceeds   ports.ProceedsRepository
	tradeCache ports.TradeCache
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewTradeService creates a new TradeServiceImpl.
func NewTradeService(
	inventory *domain.Inventory,
	allocRepo ports.AllocationRepository,
	ledgerRepo ports.LedgerRepository,
	proceeds ports.ProceedsRepository,
	tradeCache ports.TradeCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TradeServiceImpl {
	return &TradeServiceImpl{
		inventory:  inventory,
		allocRepo:  allocRepo,
		ledgerRepo: ledgerRepo,
		proceeds:   proceeds,
		tradeCache: tradeCache,
		transactor: transactor,
		log:        log,
	}
}

// ExecuteTrade runs one request through the trade state machine:
// validated -> priced -> inventory check -> price check -> settlement ->
// bookkeeping. A rejection at any step leaves every ledger untouched.
func (s *TradeServiceImpl) ExecuteTrade(ctx context.Context, req ports.TradeRequest) (*domain.Trade, error) {
	if err := req.Want.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if req.Give.Amount < 0 {
		return nil, apperror.Validation("payment amount must be non-negative")
	}
	if req.Give.Currency != s.inventory.Currency() {
		return nil, apperror.ErrCurrencyMismatch(s.inventory.Currency(), req.Give.Currency)
	}

	cacheKey := buildTradeCacheKey(req.BuyerID, req.ReferenceID)

	// Replay check: a repeated reference returns the original acknowledgment.
	cached, err := s.tradeCache.Get(ctx, cacheKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("trade cache check failed, processing normally")
	}
	if cached != nil {
		return unmarshalCachedTrade(cached)
	}

	// Priced: repeated addition over the bag, then the surcharge.
	totalPrice, err := BagPrice(req.Want, s.inventory)
	if err != nil {
		return nil, err
	}
	required := RequiredPayment(totalPrice)

	// Settlement transaction. Everything from the inventory check to the
	// last bookkeeping write commits atomically or rolls back whole.
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Inventory check against the locked allocation: the same snapshot the
	// transfer below will mutate.
	allocation, err := s.allocRepo.GetForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock allocation: %w", err))
	}
	if !allocation.Contains(req.Want) {
		return nil, apperror.ErrInsufficientInventory()
	}

	// Price check: explicit reject when the given payment is short.
	if req.Give.Amount < required {
		return nil, apperror.ErrInsufficientPayment(required, req.Give.Amount)
	}

	now := time.Now().UTC()
	credit := required - totalPrice

	// Leg 1: tickets out of the inventory allocation.
	if err := s.allocRepo.Subtract(ctx, dbTx, req.Want); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("subtract allocation: %w", err))
	}

	// Leg 2: the charged payment into the proceeds holder.
	if err := s.proceeds.Add(ctx, dbTx, required); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit proceeds: %w", err))
	}

	// Bookkeeping: purchase history entry plus the overpayment credit.
	record := &domain.PurchaseRecord{
		ID:          uuid.New(),
		BuyerID:     req.BuyerID,
		Items:       req.Want.Clone(),
		PurchasedAt: now,
		Expired:     false,
	}
	if err := s.ledgerRepo.AppendPurchase(ctx, dbTx, record); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append purchase: %w", err))
	}

	// The stored credit is overwritten with this trade's overpayment, not
	// accumulated. Deliberate; see DESIGN.md before changing it.
	if err := s.ledgerRepo.SetCredit(ctx, dbTx, req.BuyerID, credit); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("set credit: %w", err))
	}

	trade := &domain.Trade{
		ID:            uuid.New(),
		BuyerID:       req.BuyerID,
		ReferenceID:   req.ReferenceID,
		Items:         req.Want.Clone(),
		TotalPrice:    totalPrice,
		ChargedAmount: required,
		Credit:        credit,
		Currency:      s.inventory.Currency(),
		Status:        domain.TradeStatusSettled,
		SettledAt:     now,
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-process: cache the acknowledgment (best-effort).
	if ack, err := json.Marshal(trade); err == nil {
		if err := s.tradeCache.Set(ctx, cacheKey, ack, tradeAckTTL); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache trade acknowledgment")
		}
	}

	s.log.Info().
		Str("trade_id", trade.ID.String()).
		Str("buyer_id", req.BuyerID.String()).
		Int64("total_price", totalPrice).
		Int64("charged", required).
		Int64("credit", credit).
		Msg("trade settled")

	return trade, nil
}

// Verify returns the buyer's ordered purchase history. Unknown buyers get
// an empty history.
func (s *TradeServiceImpl) Verify(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	records, err := s.ledgerRepo.ListPurchases(ctx, buyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list purchases: %w", err))
	}
	if records == nil {
		records = []domain.PurchaseRecord{}
	}
	return records, nil
}

// GetBalance returns the buyer's credit balance, or nil if the buyer has
// never been credited.
func (s *TradeServiceImpl) GetBalance(ctx context.Context, buyerID uuid.UUID) (*int64, error) {
	credit, err := s.ledgerRepo.GetCredit(ctx, buyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get credit: %w", err))
	}
	return credit, nil
}

// DrawBalance draws amount from the buyer's credit. The draw succeeds only
// when amount is strictly below the current balance; an exact-equal draw
// is rejected. Returns the new balance.
func (s *TradeServiceImpl) DrawBalance(ctx context.Context, buyerID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperror.Validation("draw amount must be positive")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	credit, err := s.ledgerRepo.GetCreditForUpdate(ctx, dbTx, buyerID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock credit: %w", err))
	}
	if credit == nil || amount >= *credit {
		return 0, apperror.ErrInsufficientBalance()
	}

	newBalance := *credit - amount
	if err := s.ledgerRepo.UpdateCredit(ctx, dbTx, buyerID, newBalance); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("update credit: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("buyer_id", buyerID.String()).
		Int64("amount", amount).
		Int64("balance", newBalance).
		Msg("credit drawn")

	return newBalance, nil
}

// RemainingInventory merges the price table with the live allocation.
func (s *TradeServiceImpl) RemainingInventory(ctx context.Context) (*ports.InventoryView, error) {
	allocation, err := s.allocRepo.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get allocation: %w", err))
	}

	view := &ports.InventoryView{Currency: s.inventory.Currency()}
	for _, class := range s.inventory.Classes() {
		item, _ := s.inventory.Item(class)
		view.Items = append(view.Items, ports.InventoryViewItem{
			Class:       class,
			UnitPrice:   item.UnitPrice,
			MaxQuantity: item.MaxQuantity,
			Remaining:   allocation[class],
		})
	}
	return view, nil
}

// buildTradeCacheKey scopes replay detection per buyer.
func buildTradeCacheKey(buyerID uuid.UUID, referenceID string) string {
	return fmt.Sprintf("%s:%s", buyerID, referenceID)
}

// unmarshalCachedTrade deserializes a cached acknowledgment.
func unmarshalCachedTrade(data []byte) (*domain.Trade, error) {
	trade := &domain.Trade{}
	if err := json.Unmarshal(data, trade); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached trade: %w", err))
	}
	return trade, nil
}
