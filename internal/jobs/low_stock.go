package jobs

import (
	"context"

	"stockbook/internal/repositories"

	"github.com/rs/zerolog/log"
)

const defaultLowStockThreshold = 10.0

// LowStockService sweeps the inventory for items at or under a quantity
// threshold. It only reads and logs; replenishment is somebody else's job.
type LowStockService struct {
	inventoryRepo repositories.InventoryRepository
	materialRepo  repositories.MaterialRepository
	threshold     float64
}

type LowStockAlert struct {
	MaterialID     int64
	MaterialName   string
	Unit           string
	QuantityOnHand float64
	Threshold      float64
}

func NewLowStockService(inventoryRepo repositories.InventoryRepository, materialRepo repositories.MaterialRepository, threshold float64) *LowStockService {
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}
	return &LowStockService{
		inventoryRepo: inventoryRepo,
		materialRepo:  materialRepo,
		threshold:     threshold,
	}
}

func (s *LowStockService) CheckLowStock(ctx context.Context) ([]LowStockAlert, error) {
	items, err := s.inventoryRepo.ListItems(ctx, 1000, 0) // should paginate for very large catalogs
	if err != nil {
		log.Error().Err(err).Msg("low stock sweep: failed to list items")
		return nil, err
	}

	var alerts []LowStockAlert
	for _, item := range items {
		if item.QuantityOnHand > s.threshold {
			continue
		}
		material, err := s.materialRepo.GetByID(ctx, item.MaterialID)
		if err != nil {
			log.Warn().Err(err).Int64("material_id", item.MaterialID).Msg("low stock sweep: material lookup failed")
			continue
		}
		alerts = append(alerts, LowStockAlert{
			MaterialID:     item.MaterialID,
			MaterialName:   material.Name,
			Unit:           material.Unit,
			QuantityOnHand: item.QuantityOnHand,
			Threshold:      s.threshold,
		})
	}
	return alerts, nil
}

func (s *LowStockService) LogAlerts(alerts []LowStockAlert) {
	if len(alerts) == 0 {
		log.Info().Msg("low stock sweep: no items under threshold")
		return
	}
	for _, alert := range alerts {
		log.Warn().
			Int64("material_id", alert.MaterialID).
			Str("material", alert.MaterialName).
			Float64("on_hand", alert.QuantityOnHand).
			Str("unit", alert.Unit).
			Float64("threshold", alert.Threshold).
			Msg("low stock")
	}
}

// ScheduledCheck is the scheduler entry point.
func (s *LowStockService) ScheduledCheck(ctx context.Context) error {
	alerts, err := s.CheckLowStock(ctx)
	if err != nil {
		return err
	}
	s.LogAlerts(alerts)
	return nil
}
