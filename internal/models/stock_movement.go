package models

import (
	"time"
)

const (
	MovementTypeIn     = "IN"
	MovementTypeOut    = "OUT"
	MovementTypeAdjust = "ADJUST"
)

// StockMovement is one append-only ledger entry. Quantity is always a positive
// magnitude; the direction lives in MovementType. For IN movements UnitCost is
// the purchase cost, for OUT and ADJUST it is the item's avg cost at the time
// of the movement.
type StockMovement struct {
	ID              int64     `json:"id" db:"id"`
	InventoryItemID int64     `json:"inventory_item_id" db:"inventory_item_id"`
	MovementType    string    `json:"movement_type" db:"movement_type"`
	Quantity        float64   `json:"quantity" db:"quantity"`
	UnitCost        float64   `json:"unit_cost" db:"unit_cost"`
	Reference       *string   `json:"reference" db:"reference"`
	Notes           *string   `json:"notes" db:"notes"`
	MovementDate    time.Time `json:"movement_date" db:"movement_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
