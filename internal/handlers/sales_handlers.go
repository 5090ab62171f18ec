package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stockbook/internal/common"
	"stockbook/internal/models"
	"stockbook/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// SalesHandlers handles sales invoice HTTP requests
type SalesHandlers struct {
	salesService services.SalesService
}

// NewSalesHandlers creates a new sales handlers instance
func NewSalesHandlers(salesService services.SalesService) *SalesHandlers {
	return &SalesHandlers{
		salesService: salesService,
	}
}

// SalesInvoiceItemResponse is an invoice line with its derived totals
type SalesInvoiceItemResponse struct {
	*models.SalesInvoiceItem
	LineTotal float64 `json:"line_total"`
	Profit    float64 `json:"profit"`
}

// SalesInvoiceResponse is an invoice with derived line fields filled in
type SalesInvoiceResponse struct {
	*models.SalesInvoice
	Items []*SalesInvoiceItemResponse `json:"items"`
}

func toInvoiceResponse(invoice *models.SalesInvoice) *SalesInvoiceResponse {
	items := make([]*SalesInvoiceItemResponse, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, &SalesInvoiceItemResponse{
			SalesInvoiceItem: item,
			LineTotal:        item.LineTotal(),
			Profit:           item.Profit(),
		})
	}
	return &SalesInvoiceResponse{
		SalesInvoice: invoice,
		Items:        items,
	}
}

// SalesInvoiceLineRequest represents one line of an invoice creation request
type SalesInvoiceLineRequest struct {
	MaterialID  int64   `json:"material_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CreateSalesInvoiceRequest represents the invoice creation request payload
type CreateSalesInvoiceRequest struct {
	InvoiceNumber string                     `json:"invoice_number"`
	CustomerName  string                     `json:"customer_name"`
	SaleDate      *time.Time                 `json:"sale_date"`
	TaxAmount     float64                    `json:"tax_amount"`
	Notes         *string                    `json:"notes"`
	Lines         []*SalesInvoiceLineRequest `json:"lines"`
}

// CreateInvoice handles creating a sales invoice, deducting stock for every
// line in one transaction
func (h *SalesHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateSalesInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.InvoiceNumber, "invoice_number"); err != nil {
		return common.SendValidationError(c, "invoice_number", err.Error())
	}
	if err := common.ValidateRequiredString(req.CustomerName, "customer_name"); err != nil {
		return common.SendValidationError(c, "customer_name", err.Error())
	}
	if req.TaxAmount < 0 {
		return common.SendValidationError(c, "tax_amount", "tax_amount cannot be negative")
	}
	if len(req.Lines) == 0 {
		return common.SendValidationError(c, "lines", "at least one line is required")
	}

	in := services.CreateSalesInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		CustomerName:  req.CustomerName,
		TaxAmount:     req.TaxAmount,
		Notes:         req.Notes,
		Lines:         make([]services.SalesLineInput, 0, len(req.Lines)),
	}
	if req.SaleDate != nil {
		in.SaleDate = *req.SaleDate
	}

	for _, line := range req.Lines {
		if line.MaterialID <= 0 {
			return common.SendValidationError(c, "lines", "material_id must be positive")
		}
		if err := common.ValidatePositiveFloat(line.Quantity, "quantity", maxMovementQuantity); err != nil {
			return common.SendValidationError(c, "lines", err.Error())
		}
		if line.UnitPrice < 0 {
			return common.SendValidationError(c, "lines", "unit_price cannot be negative")
		}
		in.Lines = append(in.Lines, services.SalesLineInput{
			MaterialID:  line.MaterialID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	invoice, err := h.salesService.CreateInvoice(ctx, in)
	if err != nil {
		return handleServiceError(c, "create sales invoice", err)
	}

	return c.JSON(http.StatusCreated, toInvoiceResponse(invoice))
}

// GetInvoice handles getting a sales invoice with its lines by ID
func (h *SalesHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendValidationError(c, "id", "id must be an integer")
	}

	invoice, err := h.salesService.GetInvoiceByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Sales invoice")
	}
	if err != nil {
		return handleServiceError(c, "get sales invoice", err)
	}

	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// ListInvoicesRequest represents query parameters for listing invoices
type ListInvoicesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListInvoices handles getting a list of sales invoices, most recent first
func (h *SalesHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListInvoicesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}

	invoices, err := h.salesService.ListInvoices(ctx, limit, offset)
	if err != nil {
		return handleServiceError(c, "list sales invoices", err)
	}

	responses := make([]*SalesInvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		responses = append(responses, toInvoiceResponse(invoice))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": responses,
		"limit":    limit,
		"offset":   offset,
	})
}
