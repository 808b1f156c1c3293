package handler

import (
	"ticket-box-office/internal/adapter/http/dto"
	"ticket-box-office/internal/core/ports"
	"ticket-box-office/pkg/response"

	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes the read-only inventory view: the price table
// merged with the remaining allocation.
type InventoryHandler struct {
	tradeSvc ports.TradeService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(tradeSvc ports.TradeService) *InventoryHandler {
	return &InventoryHandler{tradeSvc: tradeSvc}
}

// GetInventory handles GET /api/v1/inventory.
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	view, err := h.tradeSvc.RemainingInventory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.InventoryItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, dto.InventoryItemResponse{
			Class:       item.Class,
			UnitPrice:   item.UnitPrice,
			MaxQuantity: item.MaxQuantity,
			Remaining:   item.Remaining,
		})
	}

	response.OK(c, dto.InventoryResponse{
		Currency: view.Currency,
		Items:    items,
	})
}
