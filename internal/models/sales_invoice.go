package models

import (
	"time"
)

type SalesInvoice struct {
	ID            int64               `json:"id" db:"id"`
	InvoiceNumber string              `json:"invoice_number" db:"invoice_number"`
	CustomerName  string              `json:"customer_name" db:"customer_name"`
	SaleDate      time.Time           `json:"sale_date" db:"sale_date"`
	Subtotal      float64             `json:"subtotal" db:"subtotal"`
	TaxAmount     float64             `json:"tax_amount" db:"tax_amount"`
	TotalAmount   float64             `json:"total_amount" db:"total_amount"`
	TotalCost     float64             `json:"total_cost" db:"total_cost"`
	TotalProfit   float64             `json:"total_profit" db:"total_profit"`
	Notes         *string             `json:"notes" db:"notes"`
	Items         []*SalesInvoiceItem `json:"items" db:"-"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
}

// SalesInvoiceItem is one line of a sales invoice. Lines are inserted with
// their invoice and immutable afterwards. CostBasis is the avg cost at sale
// time multiplied by quantity; LineTotal and Profit are derived on read.
type SalesInvoiceItem struct {
	ID              int64   `json:"id" db:"id"`
	InvoiceID       int64   `json:"invoice_id" db:"invoice_id"`
	InventoryItemID int64   `json:"inventory_item_id" db:"inventory_item_id"`
	MaterialID      int64   `json:"material_id" db:"material_id"`
	Description     string  `json:"description" db:"description"`
	Quantity        float64 `json:"quantity" db:"quantity"`
	UnitPrice       float64 `json:"unit_price" db:"unit_price"`
	CostBasis       float64 `json:"cost_basis" db:"cost_basis"`
}

func (i *SalesInvoiceItem) LineTotal() float64 {
	return i.UnitPrice * i.Quantity
}

func (i *SalesInvoiceItem) Profit() float64 {
	return i.LineTotal() - i.CostBasis
}
