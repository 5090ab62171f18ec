package models

import (
	"time"
)

// InventoryItem is the current stock position for one material. There is at
// most one row per material; the quantity and weighted average cost are
// mutated by stock operations, never by reads.
type InventoryItem struct {
	ID               int64     `json:"id" db:"id"`
	MaterialID       int64     `json:"material_id" db:"material_id"`
	QuantityOnHand   float64   `json:"quantity_on_hand" db:"quantity_on_hand"`
	AvgCost          float64   `json:"avg_cost" db:"avg_cost"`
	LastMovementDate time.Time `json:"last_movement_date" db:"last_movement_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// TotalValue is derived on read and never persisted.
func (i *InventoryItem) TotalValue() float64 {
	return i.QuantityOnHand * i.AvgCost
}
