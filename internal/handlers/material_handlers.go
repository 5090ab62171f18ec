package handlers

import (
	"net/http"
	"strconv"

	"stockbook/internal/common"
	"stockbook/internal/models"
	"stockbook/internal/services"

	"github.com/labstack/echo/v4"
)

// MaterialHandlers handles material catalog HTTP requests
type MaterialHandlers struct {
	materialService services.MaterialService
}

// NewMaterialHandlers creates a new material handlers instance
func NewMaterialHandlers(materialService services.MaterialService) *MaterialHandlers {
	return &MaterialHandlers{
		materialService: materialService,
	}
}

// CreateMaterialRequest represents the material creation request payload
type CreateMaterialRequest struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// CreateMaterial handles creating a new material
func (h *MaterialHandlers) CreateMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateMaterialRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if err := common.ValidateRequiredString(req.Unit, "unit"); err != nil {
		return common.SendValidationError(c, "unit", err.Error())
	}
	if err := common.ValidateOptionalString(req.Category, "category", 100); err != nil {
		return common.SendValidationError(c, "category", err.Error())
	}
	if err := common.ValidateOptionalString(req.Description, "description", 1000); err != nil {
		return common.SendValidationError(c, "description", err.Error())
	}

	material := &models.Material{
		Name:        req.Name,
		Unit:        req.Unit,
		Category:    req.Category,
		Description: req.Description,
	}

	if err := h.materialService.Create(ctx, material); err != nil {
		return handleServiceError(c, "create material", err)
	}

	return c.JSON(http.StatusCreated, material)
}

// GetMaterial handles getting material details by ID
func (h *MaterialHandlers) GetMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendValidationError(c, "id", "id must be an integer")
	}

	material, err := h.materialService.GetByID(ctx, id)
	if err != nil {
		return handleServiceError(c, "get material", err)
	}

	return c.JSON(http.StatusOK, material)
}

// UpdateMaterialRequest represents the material update request payload
type UpdateMaterialRequest struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// UpdateMaterial handles updating an existing material
func (h *MaterialHandlers) UpdateMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendValidationError(c, "id", "id must be an integer")
	}

	var req UpdateMaterialRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if err := common.ValidateRequiredString(req.Unit, "unit"); err != nil {
		return common.SendValidationError(c, "unit", err.Error())
	}
	if err := common.ValidateOptionalString(req.Category, "category", 100); err != nil {
		return common.SendValidationError(c, "category", err.Error())
	}
	if err := common.ValidateOptionalString(req.Description, "description", 1000); err != nil {
		return common.SendValidationError(c, "description", err.Error())
	}

	material := &models.Material{
		ID:          id,
		Name:        req.Name,
		Unit:        req.Unit,
		Category:    req.Category,
		Description: req.Description,
	}

	if err := h.materialService.Update(ctx, material); err != nil {
		return handleServiceError(c, "update material", err)
	}

	return c.JSON(http.StatusOK, material)
}

// DeleteMaterial handles deleting a material
func (h *MaterialHandlers) DeleteMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendValidationError(c, "id", "id must be an integer")
	}

	if err := h.materialService.Delete(ctx, id); err != nil {
		return handleServiceError(c, "delete material", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListMaterialsRequest represents query parameters for listing materials
type ListMaterialsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListMaterials handles getting a list of materials
func (h *MaterialHandlers) ListMaterials(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListMaterialsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}

	materials, err := h.materialService.List(ctx, limit, offset)
	if err != nil {
		return handleServiceError(c, "list materials", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"materials": materials,
		"limit":     limit,
		"offset":    offset,
	})
}
