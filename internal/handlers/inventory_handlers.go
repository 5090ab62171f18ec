package handlers

import (
	"net/http"
	"strconv"
	"time"

	"stockbook/internal/common"
	"stockbook/internal/models"
	"stockbook/internal/services"

	"github.com/labstack/echo/v4"
)

// maxMovementQuantity bounds a single stock movement.
const maxMovementQuantity = 1000000.0

// InventoryHandlers handles stock operations and inventory reads
type InventoryHandlers struct {
	inventoryService services.InventoryService
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{
		inventoryService: inventoryService,
	}
}

// InventoryItemResponse is an inventory item with its derived total value
type InventoryItemResponse struct {
	*models.InventoryItem
	TotalValue float64 `json:"total_value"`
}

func toItemResponse(item *models.InventoryItem) *InventoryItemResponse {
	return &InventoryItemResponse{
		InventoryItem: item,
		TotalValue:    item.TotalValue(),
	}
}

// ReceiveStockRequest represents the stock receipt request payload
type ReceiveStockRequest struct {
	MaterialID   int64      `json:"material_id"`
	Quantity     float64    `json:"quantity"`
	UnitCost     float64    `json:"unit_cost"`
	MovementDate *time.Time `json:"movement_date"`
	Reference    *string    `json:"reference"`
	Notes        *string    `json:"notes"`
}

// ReceiveStock handles booking incoming stock
func (h *InventoryHandlers) ReceiveStock(c echo.Context) error {
	ctx := c.Request().Context()

	var req ReceiveStockRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.MaterialID <= 0 {
		return common.SendValidationError(c, "material_id", "material_id must be positive")
	}
	if err := common.ValidatePositiveFloat(req.Quantity, "quantity", maxMovementQuantity); err != nil {
		return common.SendValidationError(c, "quantity", err.Error())
	}
	if req.UnitCost < 0 {
		return common.SendValidationError(c, "unit_cost", "unit_cost cannot be negative")
	}

	in := services.ReceiveStockInput{
		MaterialID: req.MaterialID,
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
		Reference:  req.Reference,
		Notes:      req.Notes,
	}
	if req.MovementDate != nil {
		in.MovementDate = *req.MovementDate
	}

	result, err := h.inventoryService.ReceiveStock(ctx, in)
	if err != nil {
		return handleServiceError(c, "receive stock", err)
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	return c.JSON(status, map[string]interface{}{
		"item":     toItemResponse(result.Item),
		"movement": result.Movement,
	})
}

// IssueStockRequest represents the stock issue request payload
type IssueStockRequest struct {
	MaterialID   int64      `json:"material_id"`
	Quantity     float64    `json:"quantity"`
	MovementDate *time.Time `json:"movement_date"`
	Reference    *string    `json:"reference"`
	Notes        *string    `json:"notes"`
}

// IssueStock handles booking outgoing stock
func (h *InventoryHandlers) IssueStock(c echo.Context) error {
	ctx := c.Request().Context()

	var req IssueStockRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.MaterialID <= 0 {
		return common.SendValidationError(c, "material_id", "material_id must be positive")
	}
	if err := common.ValidatePositiveFloat(req.Quantity, "quantity", maxMovementQuantity); err != nil {
		return common.SendValidationError(c, "quantity", err.Error())
	}

	in := services.IssueStockInput{
		MaterialID: req.MaterialID,
		Quantity:   req.Quantity,
		Reference:  req.Reference,
		Notes:      req.Notes,
	}
	if req.MovementDate != nil {
		in.MovementDate = *req.MovementDate
	}

	result, err := h.inventoryService.IssueStock(ctx, in)
	if err != nil {
		return handleServiceError(c, "issue stock", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"item":     toItemResponse(result.Item),
		"movement": result.Movement,
	})
}

// AdjustStockRequest represents the stock adjustment request payload
type AdjustStockRequest struct {
	MaterialID      int64      `json:"material_id"`
	CountedQuantity float64    `json:"counted_quantity"`
	MovementDate    *time.Time `json:"movement_date"`
	Notes           *string    `json:"notes"`
}

// AdjustStock handles reconciling recorded stock with a physical count
func (h *InventoryHandlers) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.MaterialID <= 0 {
		return common.SendValidationError(c, "material_id", "material_id must be positive")
	}
	if req.CountedQuantity < 0 {
		return common.SendValidationError(c, "counted_quantity", "counted_quantity cannot be negative")
	}

	in := services.AdjustStockInput{
		MaterialID:      req.MaterialID,
		CountedQuantity: req.CountedQuantity,
		Notes:           req.Notes,
	}
	if req.MovementDate != nil {
		in.MovementDate = *req.MovementDate
	}

	result, err := h.inventoryService.AdjustStock(ctx, in)
	if err != nil {
		return handleServiceError(c, "adjust stock", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"item":     toItemResponse(result.Item),
		"movement": result.Movement,
	})
}

// ListInventoryRequest represents query parameters for listing inventory
type ListInventoryRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListInventory handles getting the current stock position of all materials
func (h *InventoryHandlers) ListInventory(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListInventoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}

	items, err := h.inventoryService.ListItems(ctx, limit, offset)
	if err != nil {
		return handleServiceError(c, "list inventory", err)
	}

	responses := make([]*InventoryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toItemResponse(item))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  responses,
		"limit":  limit,
		"offset": offset,
	})
}

// GetInventoryItem handles getting the stock position of one material
func (h *InventoryHandlers) GetInventoryItem(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := strconv.ParseInt(c.Param("materialID"), 10, 64)
	if err != nil {
		return common.SendValidationError(c, "materialID", "materialID must be an integer")
	}

	item, err := h.inventoryService.GetItemByMaterial(ctx, materialID)
	if err != nil {
		return handleServiceError(c, "get inventory item", err)
	}

	return c.JSON(http.StatusOK, toItemResponse(item))
}

// GetMovementsRequest represents query parameters for the movement ledger
type GetMovementsRequest struct {
	Limit int `query:"limit"`
}

// GetMovements handles getting the movement ledger for one material,
// most recent first
func (h *InventoryHandlers) GetMovements(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := strconv.ParseInt(c.Param("materialID"), 10, 64)
	if err != nil {
		return common.SendValidationError(c, "materialID", "materialID must be an integer")
	}

	var req GetMovementsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	movements, err := h.inventoryService.GetMovementsByMaterial(ctx, materialID, limit)
	if err != nil {
		return handleServiceError(c, "get movements", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"limit":     limit,
	})
}
