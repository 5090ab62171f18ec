package repositories

import (
	"context"

	"stockbook/internal/models"

	"github.com/jackc/pgx/v5"
)

type SalesRepository interface {
	// CreateInvoice persists an invoice and its line items as one unit inside
	// the caller's transaction, assigning ids to both.
	CreateInvoice(ctx context.Context, tx pgx.Tx, invoice *models.SalesInvoice) error
	GetInvoiceByID(ctx context.Context, id int64) (*models.SalesInvoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error)
}

type salesRepo struct {
	db Database
}

func NewSalesRepo(db Database) SalesRepository {
	return &salesRepo{db: db}
}

func (r *salesRepo) CreateInvoice(ctx context.Context, tx pgx.Tx, invoice *models.SalesInvoice) error {
	query := `
		INSERT INTO local_sales_invoices (invoice_number, customer_name, sale_date, subtotal, tax_amount, total_amount, total_cost, total_profit, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`
	err := tx.QueryRow(ctx, query,
		invoice.InvoiceNumber, invoice.CustomerName, invoice.SaleDate,
		invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount,
		invoice.TotalCost, invoice.TotalProfit, invoice.Notes).
		Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO local_sales_items (invoice_id, inventory_item_id, material_id, description, quantity, unit_price, cost_basis)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, item := range invoice.Items {
		item.InvoiceID = invoice.ID
		if err := tx.QueryRow(ctx, itemQuery,
			item.InvoiceID, item.InventoryItemID, item.MaterialID,
			item.Description, item.Quantity, item.UnitPrice, item.CostBasis).
			Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

const invoiceColumns = `id, invoice_number, customer_name, sale_date, subtotal, tax_amount, total_amount, total_cost, total_profit, notes, created_at`

func (r *salesRepo) GetInvoiceByID(ctx context.Context, id int64) (*models.SalesInvoice, error) {
	invoice := &models.SalesInvoice{}
	query := `
		SELECT ` + invoiceColumns + `
		FROM local_sales_invoices
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.CustomerName, &invoice.SaleDate,
		&invoice.Subtotal, &invoice.TaxAmount, &invoice.TotalAmount,
		&invoice.TotalCost, &invoice.TotalProfit, &invoice.Notes, &invoice.CreatedAt)
	if err != nil {
		return nil, err
	}

	itemQuery := `
		SELECT id, invoice_id, inventory_item_id, material_id, description, quantity, unit_price, cost_basis
		FROM local_sales_items
		WHERE invoice_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.SalesInvoiceItem{}
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.InventoryItemID, &item.MaterialID, &item.Description, &item.Quantity, &item.UnitPrice, &item.CostBasis); err != nil {
			return nil, err
		}
		invoice.Items = append(invoice.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *salesRepo) ListInvoices(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM local_sales_invoices
		ORDER BY sale_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.SalesInvoice
	for rows.Next() {
		invoice := &models.SalesInvoice{}
		if err := rows.Scan(
			&invoice.ID, &invoice.InvoiceNumber, &invoice.CustomerName, &invoice.SaleDate,
			&invoice.Subtotal, &invoice.TaxAmount, &invoice.TotalAmount,
			&invoice.TotalCost, &invoice.TotalProfit, &invoice.Notes, &invoice.CreatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}
