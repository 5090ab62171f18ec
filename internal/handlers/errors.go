package handlers

import (
	"errors"

	"stockbook/internal/apperrors"
	"stockbook/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// handleServiceError translates service errors into HTTP responses
func handleServiceError(c echo.Context, operation string, err error) error {
	var materialNotFound *apperrors.MaterialNotFound
	var itemNotFound *apperrors.InventoryItemNotFound
	var insufficientStock *apperrors.InsufficientStock

	switch {
	case errors.As(err, &materialNotFound):
		return common.SendNotFoundError(c, "Material")
	case errors.As(err, &itemNotFound):
		return common.SendNotFoundError(c, "Inventory item")
	case errors.As(err, &insufficientStock):
		return common.SendConflictError(c, "INSUFFICIENT_STOCK", insufficientStock.Error())
	default:
		log.Error().Err(err).Str("operation", operation).Msg("request failed")
		return common.SendServerError(c, "Operation could not be completed")
	}
}
