package handler

import (
	"time"

	"ticket-box-office/internal/adapter/http/dto"
	"ticket-box-office/internal/adapter/http/middleware"
	"ticket-box-office/internal/core/domain"
	"ticket-box-office/internal/core/ports"
	"ticket-box-office/pkg/apperror"
	"ticket-box-office/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TradeHandler handles the trade endpoint.
type TradeHandler struct {
	tradeSvc ports.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc ports.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// ExecuteTrade handles POST /api/v1/trades.
func (h *TradeHandler) ExecuteTrade(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxBuyerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.tradeSvc.ExecuteTrade(c.Request.Context(), ports.TradeRequest{
		BuyerID:     buyerID.(uuid.UUID),
		ReferenceID: req.ReferenceID,
		Give: domain.Payment{
			Amount:   req.Payment.Amount,
			Currency: req.Payment.Currency,
		},
		Want:     domain.ItemBag(req.Items),
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTradeResponse(result))
}

// toTradeResponse converts domain.Trade to DTO.
func toTradeResponse(trade *domain.Trade) dto.TradeResponse {
	return dto.TradeResponse{
		ID:            trade.ID.String(),
		ReferenceID:   trade.ReferenceID,
		Items:         map[string]int64(trade.Items),
		TotalPrice:    trade.TotalPrice,
		ChargedAmount: trade.ChargedAmount,
		Credit:        trade.Credit,
		Currency:      trade.Currency,
		Status:        string(trade.Status),
		SettledAt:     trade.SettledAt.Format(time.RFC3339),
		Message:       "trade complete",
	}
}
