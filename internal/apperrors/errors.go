// Package apperrors defines the error kinds the stock operations surface to
// callers. Each kind is a distinct struct so handlers can match with
// errors.As and render the structured detail it carries.
package apperrors

import "fmt"

// MaterialNotFound means the referenced material does not exist in the
// catalog. Raised before any write.
type MaterialNotFound struct {
	MaterialID int64
}

func (e *MaterialNotFound) Error() string {
	return fmt.Sprintf("material %d not found", e.MaterialID)
}

// InventoryItemNotFound means no stock position exists for the material being
// issued or sold. Receiving never raises this: it creates the item on demand.
type InventoryItemNotFound struct {
	MaterialID int64
}

func (e *InventoryItemNotFound) Error() string {
	return fmt.Sprintf("no inventory item for material %d", e.MaterialID)
}

// InsufficientStock means the requested quantity exceeds what is on hand.
type InsufficientStock struct {
	MaterialID int64
	Requested  float64
	Available  float64
}

func (e *InsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for material %d: requested %g, available %g",
		e.MaterialID, e.Requested, e.Available)
}
