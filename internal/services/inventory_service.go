package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"stockbook/internal/apperrors"
	"stockbook/internal/caching"
	"stockbook/internal/models"
	"stockbook/internal/repositories"
	"stockbook/internal/valuation"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// itemCacheTTL is short because stock positions change on every movement.
const itemCacheTTL = 5 * time.Minute

type ReceiveStockInput struct {
	MaterialID   int64
	Quantity     float64
	UnitCost     float64
	MovementDate time.Time // zero value defaults to now
	Reference    *string
	Notes        *string
}

type ReceiveStockResult struct {
	Item     *models.InventoryItem
	Movement *models.StockMovement
	Created  bool
}

type IssueStockInput struct {
	MaterialID   int64
	Quantity     float64
	MovementDate time.Time
	Reference    *string
	Notes        *string
}

type IssueStockResult struct {
	Item     *models.InventoryItem
	Movement *models.StockMovement
}

type AdjustStockInput struct {
	MaterialID      int64
	CountedQuantity float64
	MovementDate    time.Time
	Notes           *string
}

// AdjustStockResult carries a nil Movement when the counted quantity matched
// the recorded one and nothing was written.
type AdjustStockResult struct {
	Item     *models.InventoryItem
	Movement *models.StockMovement
}

type InventoryService interface {
	ReceiveStock(ctx context.Context, in ReceiveStockInput) (*ReceiveStockResult, error)
	IssueStock(ctx context.Context, in IssueStockInput) (*IssueStockResult, error)
	AdjustStock(ctx context.Context, in AdjustStockInput) (*AdjustStockResult, error)
	GetItemByMaterial(ctx context.Context, materialID int64) (*models.InventoryItem, error)
	ListItems(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error)
	GetMovementsByMaterial(ctx context.Context, materialID int64, limit int) ([]*models.StockMovement, error)
}

type inventoryService struct {
	materialRepo  repositories.MaterialRepository
	inventoryRepo repositories.InventoryRepository
	txManager     repositories.TxManager
	cacheService  caching.CacheService
}

func NewInventoryService(materialRepo repositories.MaterialRepository, inventoryRepo repositories.InventoryRepository, txManager repositories.TxManager, cacheService caching.CacheService) InventoryService {
	return &inventoryService{
		materialRepo:  materialRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		cacheService:  cacheService,
	}
}

// ReceiveStock books incoming stock against a material, creating the
// inventory item on first receipt and recalculating the weighted average
// cost. The item update and the IN movement commit together; the row lock
// taken inside the transaction serializes concurrent movements on the same
// material.
func (s *inventoryService) ReceiveStock(ctx context.Context, in ReceiveStockInput) (*ReceiveStockResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("receive quantity must be positive")
	}
	if in.UnitCost < 0 {
		return nil, fmt.Errorf("unit cost cannot be negative")
	}

	// Hard stop before any write: the material must exist in the catalog.
	if _, err := s.materialRepo.GetByID(ctx, in.MaterialID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperrors.MaterialNotFound{MaterialID: in.MaterialID}
		}
		return nil, err
	}

	movementDate := in.MovementDate
	if movementDate.IsZero() {
		movementDate = time.Now()
	}

	result := &ReceiveStockResult{}
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		item, err := s.inventoryRepo.GetItemByMaterialForUpdate(ctx, tx, in.MaterialID)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			item = &models.InventoryItem{
				MaterialID:       in.MaterialID,
				LastMovementDate: movementDate,
			}
			if err := s.inventoryRepo.CreateItem(ctx, tx, item); err != nil {
				return err
			}
			result.Created = true
		}

		// Recalculate against the pre-receipt quantity, then add the stock.
		item.AvgCost = valuation.WeightedAverageCost(item.QuantityOnHand, item.AvgCost, in.Quantity, in.UnitCost)
		item.QuantityOnHand += in.Quantity
		item.LastMovementDate = movementDate
		if err := s.inventoryRepo.UpdateItem(ctx, tx, item); err != nil {
			return err
		}

		movement := &models.StockMovement{
			InventoryItemID: item.ID,
			MovementType:    models.MovementTypeIn,
			Quantity:        in.Quantity,
			UnitCost:        in.UnitCost,
			Reference:       in.Reference,
			Notes:           in.Notes,
			MovementDate:    movementDate,
		}
		if err := s.inventoryRepo.AddMovement(ctx, tx, movement); err != nil {
			return err
		}

		result.Item = item
		result.Movement = movement
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateItemCache(ctx, in.MaterialID)
	return result, nil
}

// IssueStock deducts stock for internal consumption. The average cost is
// never changed by an issue; the OUT movement records the avg cost held at
// the moment of deduction.
func (s *inventoryService) IssueStock(ctx context.Context, in IssueStockInput) (*IssueStockResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("issue quantity must be positive")
	}

	movementDate := in.MovementDate
	if movementDate.IsZero() {
		movementDate = time.Now()
	}

	result := &IssueStockResult{}
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		item, err := s.inventoryRepo.GetItemByMaterialForUpdate(ctx, tx, in.MaterialID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &apperrors.InventoryItemNotFound{MaterialID: in.MaterialID}
			}
			return err
		}
		if item.QuantityOnHand < in.Quantity {
			return &apperrors.InsufficientStock{
				MaterialID: in.MaterialID,
				Requested:  in.Quantity,
				Available:  item.QuantityOnHand,
			}
		}

		item.QuantityOnHand -= in.Quantity
		item.LastMovementDate = movementDate
		if err := s.inventoryRepo.UpdateItem(ctx, tx, item); err != nil {
			return err
		}

		movement := &models.StockMovement{
			InventoryItemID: item.ID,
			MovementType:    models.MovementTypeOut,
			Quantity:        in.Quantity,
			UnitCost:        item.AvgCost,
			Reference:       in.Reference,
			Notes:           in.Notes,
			MovementDate:    movementDate,
		}
		if err := s.inventoryRepo.AddMovement(ctx, tx, movement); err != nil {
			return err
		}

		result.Item = item
		result.Movement = movement
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateItemCache(ctx, in.MaterialID)
	return result, nil
}

// AdjustStock reconciles the recorded quantity with a physical count. The
// ADJUST movement carries the magnitude of the correction priced at the
// current avg cost; adjustments never recost the item.
func (s *inventoryService) AdjustStock(ctx context.Context, in AdjustStockInput) (*AdjustStockResult, error) {
	if in.CountedQuantity < 0 {
		return nil, fmt.Errorf("counted quantity cannot be negative")
	}

	movementDate := in.MovementDate
	if movementDate.IsZero() {
		movementDate = time.Now()
	}

	result := &AdjustStockResult{}
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		item, err := s.inventoryRepo.GetItemByMaterialForUpdate(ctx, tx, in.MaterialID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &apperrors.InventoryItemNotFound{MaterialID: in.MaterialID}
			}
			return err
		}

		delta := in.CountedQuantity - item.QuantityOnHand
		if delta == 0 {
			result.Item = item
			return nil
		}

		item.QuantityOnHand = in.CountedQuantity
		item.LastMovementDate = movementDate
		if err := s.inventoryRepo.UpdateItem(ctx, tx, item); err != nil {
			return err
		}

		movement := &models.StockMovement{
			InventoryItemID: item.ID,
			MovementType:    models.MovementTypeAdjust,
			Quantity:        math.Abs(delta),
			UnitCost:        item.AvgCost,
			Notes:           in.Notes,
			MovementDate:    movementDate,
		}
		if err := s.inventoryRepo.AddMovement(ctx, tx, movement); err != nil {
			return err
		}

		result.Item = item
		result.Movement = movement
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Movement != nil {
		s.invalidateItemCache(ctx, in.MaterialID)
	}
	return result, nil
}

func (s *inventoryService) GetItemByMaterial(ctx context.Context, materialID int64) (*models.InventoryItem, error) {
	if cached, err := s.cacheService.GetItem(ctx, materialID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Int64("material_id", materialID).Msg("item cache read failed")
	}

	item, err := s.inventoryRepo.GetItemByMaterial(ctx, materialID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperrors.InventoryItemNotFound{MaterialID: materialID}
		}
		return nil, err
	}

	if err := s.cacheService.SetItem(ctx, item, itemCacheTTL); err != nil {
		log.Warn().Err(err).Int64("material_id", materialID).Msg("item cache write failed")
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	return s.inventoryRepo.ListItems(ctx, limit, offset)
}

func (s *inventoryService) GetMovementsByMaterial(ctx context.Context, materialID int64, limit int) ([]*models.StockMovement, error) {
	item, err := s.inventoryRepo.GetItemByMaterial(ctx, materialID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperrors.InventoryItemNotFound{MaterialID: materialID}
		}
		return nil, err
	}
	return s.inventoryRepo.GetMovements(ctx, item.ID, limit)
}

func (s *inventoryService) invalidateItemCache(ctx context.Context, materialID int64) {
	if err := s.cacheService.DeleteItem(ctx, materialID); err != nil {
		log.Warn().Err(err).Int64("material_id", materialID).Msg("item cache invalidation failed")
	}
}
