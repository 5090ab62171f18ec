package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockbook/internal/apperrors"
	"stockbook/internal/caching"
	"stockbook/internal/models"
	"stockbook/internal/repositories"
	"stockbook/internal/valuation"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

type SalesLineInput struct {
	MaterialID  int64
	Description string
	Quantity    float64
	UnitPrice   float64
}

type CreateSalesInvoiceInput struct {
	InvoiceNumber string
	CustomerName  string
	SaleDate      time.Time // zero value defaults to now
	TaxAmount     float64
	Notes         *string
	Lines         []SalesLineInput
}

type SalesService interface {
	CreateInvoice(ctx context.Context, in CreateSalesInvoiceInput) (*models.SalesInvoice, error)
	GetInvoiceByID(ctx context.Context, id int64) (*models.SalesInvoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error)
}

type salesService struct {
	salesRepo     repositories.SalesRepository
	inventoryRepo repositories.InventoryRepository
	txManager     repositories.TxManager
	cacheService  caching.CacheService
}

func NewSalesService(salesRepo repositories.SalesRepository, inventoryRepo repositories.InventoryRepository, txManager repositories.TxManager, cacheService caching.CacheService) SalesService {
	return &salesService{
		salesRepo:     salesRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		cacheService:  cacheService,
	}
}

// CreateInvoice sells stock to a local customer. Every line's stock
// deduction, its OUT movement, and the invoice with its items are written in
// one top-level transaction: a failure on any line rolls the whole sale back,
// so no deduction is ever left behind without its invoice.
//
// Lines are processed in request order. The cost basis of each line is the
// item's avg cost at the moment the line is processed; sales read the avg
// cost, they never change it.
func (s *salesService) CreateInvoice(ctx context.Context, in CreateSalesInvoiceInput) (*models.SalesInvoice, error) {
	if in.InvoiceNumber == "" {
		return nil, fmt.Errorf("invoice number is required")
	}
	if in.CustomerName == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("invoice needs at least one line")
	}
	if in.TaxAmount < 0 {
		return nil, fmt.Errorf("tax amount cannot be negative")
	}
	for i, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity must be positive", i+1)
		}
		if line.UnitPrice < 0 {
			return nil, fmt.Errorf("line %d: unit price cannot be negative", i+1)
		}
	}

	saleDate := in.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}
	saleNotes := fmt.Sprintf("Sale to %s", in.CustomerName)

	var invoice *models.SalesInvoice
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		items := make([]*models.SalesInvoiceItem, 0, len(in.Lines))
		pricing := make([]valuation.InvoiceLine, 0, len(in.Lines))

		for _, line := range in.Lines {
			item, err := s.inventoryRepo.GetItemByMaterialForUpdate(ctx, tx, line.MaterialID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return &apperrors.InventoryItemNotFound{MaterialID: line.MaterialID}
				}
				return err
			}
			if item.QuantityOnHand < line.Quantity {
				return &apperrors.InsufficientStock{
					MaterialID: line.MaterialID,
					Requested:  line.Quantity,
					Available:  item.QuantityOnHand,
				}
			}

			// Captured before the deduction; the deduction itself does not
			// touch avg cost, but the order matters if that ever changes.
			costBasis := item.AvgCost * line.Quantity

			item.QuantityOnHand -= line.Quantity
			item.LastMovementDate = saleDate
			if err := s.inventoryRepo.UpdateItem(ctx, tx, item); err != nil {
				return err
			}

			reference := in.InvoiceNumber
			notes := saleNotes
			movement := &models.StockMovement{
				InventoryItemID: item.ID,
				MovementType:    models.MovementTypeOut,
				Quantity:        line.Quantity,
				UnitCost:        item.AvgCost,
				Reference:       &reference,
				Notes:           &notes,
				MovementDate:    saleDate,
			}
			if err := s.inventoryRepo.AddMovement(ctx, tx, movement); err != nil {
				return err
			}

			items = append(items, &models.SalesInvoiceItem{
				InventoryItemID: item.ID,
				MaterialID:      line.MaterialID,
				Description:     line.Description,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				CostBasis:       costBasis,
			})
			pricing = append(pricing, valuation.InvoiceLine{
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
				CostBasis: costBasis,
			})
		}

		totals := valuation.InvoiceTotals(pricing, in.TaxAmount)
		invoice = &models.SalesInvoice{
			InvoiceNumber: in.InvoiceNumber,
			CustomerName:  in.CustomerName,
			SaleDate:      saleDate,
			Subtotal:      totals.Subtotal,
			TaxAmount:     in.TaxAmount,
			TotalAmount:   totals.TotalAmount,
			TotalCost:     totals.TotalCost,
			TotalProfit:   totals.TotalProfit,
			Notes:         in.Notes,
			Items:         items,
		}
		return s.salesRepo.CreateInvoice(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	for _, line := range in.Lines {
		if err := s.cacheService.DeleteItem(ctx, line.MaterialID); err != nil {
			log.Warn().Err(err).Int64("material_id", line.MaterialID).Msg("item cache invalidation failed")
		}
	}
	return invoice, nil
}

func (s *salesService) GetInvoiceByID(ctx context.Context, id int64) (*models.SalesInvoice, error) {
	return s.salesRepo.GetInvoiceByID(ctx, id)
}

func (s *salesService) ListInvoices(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error) {
	return s.salesRepo.ListInvoices(ctx, limit, offset)
}
