package repositories

import (
	"context"
	"time"

	"stockbook/internal/models"

	"github.com/jackc/pgx/v5"
)

// InventoryRepository persists inventory items and their movement ledger.
// Mutating methods take the operation's transaction: the item update and the
// movement append of one stock operation must land in the same tx, and
// GetItemByMaterialForUpdate holds the row lock that serializes concurrent
// operations on the same material.
type InventoryRepository interface {
	CreateItem(ctx context.Context, tx pgx.Tx, item *models.InventoryItem) error
	GetItemByMaterial(ctx context.Context, materialID int64) (*models.InventoryItem, error)
	GetItemByMaterialForUpdate(ctx context.Context, tx pgx.Tx, materialID int64) (*models.InventoryItem, error)
	UpdateItem(ctx context.Context, tx pgx.Tx, item *models.InventoryItem) error
	AddMovement(ctx context.Context, tx pgx.Tx, movement *models.StockMovement) error
	ListItems(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error)
	GetMovements(ctx context.Context, itemID int64, limit int) ([]*models.StockMovement, error)
	GetMovementsByDateRange(ctx context.Context, from, to time.Time) ([]*models.StockMovement, error)
}

type inventoryRepo struct {
	db Database
}

func NewInventoryRepo(db Database) InventoryRepository {
	return &inventoryRepo{db: db}
}

const itemColumns = `id, material_id, quantity_on_hand, avg_cost, last_movement_date, created_at, updated_at`

func scanItem(row pgx.Row) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	err := row.Scan(&item.ID, &item.MaterialID, &item.QuantityOnHand, &item.AvgCost, &item.LastMovementDate, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *inventoryRepo) CreateItem(ctx context.Context, tx pgx.Tx, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (material_id, quantity_on_hand, avg_cost, last_movement_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return tx.QueryRow(ctx, query, item.MaterialID, item.QuantityOnHand, item.AvgCost, item.LastMovementDate).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *inventoryRepo) GetItemByMaterial(ctx context.Context, materialID int64) (*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE material_id = $1
	`
	return scanItem(r.db.QueryRow(ctx, query, materialID))
}

// GetItemByMaterialForUpdate locks the item row for the rest of the
// transaction. Concurrent receives, issues and sale lines against the same
// material block here; different materials never contend.
func (r *inventoryRepo) GetItemByMaterialForUpdate(ctx context.Context, tx pgx.Tx, materialID int64) (*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE material_id = $1
		FOR UPDATE
	`
	return scanItem(tx.QueryRow(ctx, query, materialID))
}

func (r *inventoryRepo) UpdateItem(ctx context.Context, tx pgx.Tx, item *models.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET quantity_on_hand = $1, avg_cost = $2, last_movement_date = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := tx.Exec(ctx, query, item.QuantityOnHand, item.AvgCost, item.LastMovementDate, item.ID)
	return err
}

// AddMovement appends to the ledger. Movements are never updated or deleted.
func (r *inventoryRepo) AddMovement(ctx context.Context, tx pgx.Tx, movement *models.StockMovement) error {
	query := `
		INSERT INTO stock_movements (inventory_item_id, movement_type, quantity, unit_cost, reference, notes, movement_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`
	return tx.QueryRow(ctx, query, movement.InventoryItemID, movement.MovementType, movement.Quantity, movement.UnitCost, movement.Reference, movement.Notes, movement.MovementDate).
		Scan(&movement.ID, &movement.CreatedAt)
}

func (r *inventoryRepo) ListItems(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		ORDER BY last_movement_date DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item := &models.InventoryItem{}
		if err := rows.Scan(&item.ID, &item.MaterialID, &item.QuantityOnHand, &item.AvgCost, &item.LastMovementDate, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const movementColumns = `id, inventory_item_id, movement_type, quantity, unit_cost, reference, notes, movement_date, created_at`

// GetMovements returns the most recent movements for an item, newest first.
// Ids are store-assigned and monotonic, so they break ties within a day.
func (r *inventoryRepo) GetMovements(ctx context.Context, itemID int64, limit int) ([]*models.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE inventory_item_id = $1
		ORDER BY movement_date DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovements(rows)
}

func (r *inventoryRepo) GetMovementsByDateRange(ctx context.Context, from, to time.Time) ([]*models.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE movement_date >= $1 AND movement_date < $2
		ORDER BY movement_date, id
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*models.StockMovement, error) {
	var movements []*models.StockMovement
	for rows.Next() {
		movement := &models.StockMovement{}
		if err := rows.Scan(&movement.ID, &movement.InventoryItemID, &movement.MovementType, &movement.Quantity, &movement.UnitCost, &movement.Reference, &movement.Notes, &movement.MovementDate, &movement.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, rows.Err()
}
