package jobs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"stockbook/internal/models"
	"stockbook/internal/repositories"
	"stockbook/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LedgerExporter writes movement ledger CSVs to object storage, one file per
// exported day.
type LedgerExporter struct {
	inventoryRepo repositories.InventoryRepository
	storage       services.StorageService
	bucket        string
}

type ExportResult struct {
	ObjectName      string
	RecordsExported int
}

func NewLedgerExporter(inventoryRepo repositories.InventoryRepository, storage services.StorageService, bucket string) *LedgerExporter {
	return &LedgerExporter{
		inventoryRepo: inventoryRepo,
		storage:       storage,
		bucket:        bucket,
	}
}

// ExportDay exports all movements whose movement_date falls on the given day.
func (e *LedgerExporter) ExportDay(ctx context.Context, day time.Time) (*ExportResult, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	movements, err := e.inventoryRepo.GetMovementsByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}

	content, err := buildMovementCSV(movements)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("ledger/%s-%s.csv", from.Format("2006-01-02"), uuid.New().String())
	if err := e.storage.EnsureBucketExists(ctx, e.bucket); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	if err := e.storage.Upload(ctx, e.bucket, objectName, bytes.NewReader(content), int64(len(content)), "text/csv"); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	return &ExportResult{ObjectName: objectName, RecordsExported: len(movements)}, nil
}

func buildMovementCSV(movements []*models.StockMovement) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "inventory_item_id", "movement_type", "quantity", "unit_cost", "reference", "notes", "movement_date"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, m := range movements {
		record := []string{
			strconv.FormatInt(m.ID, 10),
			strconv.FormatInt(m.InventoryItemID, 10),
			m.MovementType,
			strconv.FormatFloat(m.Quantity, 'f', -1, 64),
			strconv.FormatFloat(m.UnitCost, 'f', -1, 64),
			derefOrEmpty(m.Reference),
			derefOrEmpty(m.Notes),
			m.MovementDate.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ScheduledExport exports yesterday's ledger. Scheduler entry point.
func (e *LedgerExporter) ScheduledExport(ctx context.Context) error {
	day := time.Now().AddDate(0, 0, -1)
	result, err := e.ExportDay(ctx, day)
	if err != nil {
		log.Error().Err(err).Msg("ledger export failed")
		return err
	}
	log.Info().
		Str("object", result.ObjectName).
		Int("records", result.RecordsExported).
		Msg("ledger export completed")
	return nil
}
