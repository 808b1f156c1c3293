package handler

import (
	"time"

	"ticket-box-office/internal/adapter/http/dto"
	"ticket-box-office/internal/adapter/http/middleware"
	"ticket-box-office/internal/core/ports"
	"ticket-box-office/pkg/apperror"
	"ticket-box-office/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BuyerHandler handles the buyer ledger endpoints: purchase history and
// credit balance.
type BuyerHandler struct {
	tradeSvc ports.TradeService
	currency string
}

// NewBuyerHandler creates a new BuyerHandler.
func NewBuyerHandler(tradeSvc ports.TradeService, currency string) *BuyerHandler {
	return &BuyerHandler{tradeSvc: tradeSvc, currency: currency}
}

// ListPurchases handles GET /api/v1/buyers/me/purchases. A buyer with no
// history gets an empty list.
func (h *BuyerHandler) ListPurchases(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxBuyerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	records, err := h.tradeSvc.Verify(c.Request.Context(), buyerID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PurchaseResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.PurchaseResponse{
			ID:          rec.ID.String(),
			Items:       map[string]int64(rec.Items),
			PurchasedAt: rec.PurchasedAt.Format(time.RFC3339),
			Expired:     rec.Expired,
		})
	}

	response.OK(c, items)
}

// GetBalance handles GET /api/v1/buyers/me/balance.
func (h *BuyerHandler) GetBalance(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxBuyerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.tradeSvc.GetBalance(c.Request.Context(), buyerID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.BalanceResponse{Currency: h.currency}
	if balance != nil {
		resp.Balance = *balance
		resp.Present = true
	}

	response.OK(c, resp)
}

// DrawBalance handles POST /api/v1/buyers/me/balance/draw.
func (h *BuyerHandler) DrawBalance(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxBuyerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	newBalance, err := h.tradeSvc.DrawBalance(c.Request.Context(), buyerID.(uuid.UUID), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DrawResponse{
		Balance:  newBalance,
		Currency: h.currency,
	})
}
