package repositories

import (
	"context"
	"testing"
	"time"

	"stockbook/internal/models"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InventoryRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InventoryRepository
	context context.Context
}

func (suite *InventoryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInventoryRepo(mock)
	suite.context = context.Background()
}

func (suite *InventoryRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInventoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryRepoTestSuite))
}

func (suite *InventoryRepoTestSuite) begin() pgx.Tx {
	suite.mock.ExpectBegin()
	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)
	return tx
}

func (suite *InventoryRepoTestSuite) TestCreateItem_AssignsStoreID() {
	tx := suite.begin()
	now := time.Now()
	item := &models.InventoryItem{
		MaterialID:       7,
		QuantityOnHand:   100,
		AvgCost:          10.0,
		LastMovementDate: now,
	}

	suite.mock.ExpectQuery(`INSERT INTO inventory_items \(material_id, quantity_on_hand, avg_cost, last_movement_date, created_at, updated_at\)\s+VALUES \(\$1, \$2, \$3, \$4, NOW\(\), NOW\(\)\)\s+RETURNING id, created_at, updated_at`).
		WithArgs(item.MaterialID, item.QuantityOnHand, item.AvgCost, item.LastMovementDate).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	err := suite.repo.CreateItem(suite.context, tx, item)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), item.ID)
}

func (suite *InventoryRepoTestSuite) TestGetItemByMaterialForUpdate_LocksRow() {
	tx := suite.begin()
	now := time.Now()

	suite.mock.ExpectQuery(`SELECT id, material_id, quantity_on_hand, avg_cost, last_movement_date, created_at, updated_at\s+FROM inventory_items\s+WHERE material_id = \$1\s+FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "material_id", "quantity_on_hand", "avg_cost", "last_movement_date", "created_at", "updated_at"}).
			AddRow(int64(3), int64(7), 100.0, 10.0, now, now, now))

	item, err := suite.repo.GetItemByMaterialForUpdate(suite.context, tx, 7)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), item.ID)
	assert.Equal(suite.T(), 100.0, item.QuantityOnHand)
	assert.Equal(suite.T(), 10.0, item.AvgCost)
}

func (suite *InventoryRepoTestSuite) TestGetItemByMaterialForUpdate_NoRows() {
	tx := suite.begin()

	suite.mock.ExpectQuery(`FROM inventory_items\s+WHERE material_id = \$1\s+FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	item, err := suite.repo.GetItemByMaterialForUpdate(suite.context, tx, 42)
	assert.Nil(suite.T(), item)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *InventoryRepoTestSuite) TestUpdateItem() {
	tx := suite.begin()
	now := time.Now()
	item := &models.InventoryItem{
		ID:               3,
		QuantityOnHand:   150,
		AvgCost:          10.666667,
		LastMovementDate: now,
	}

	suite.mock.ExpectExec(`UPDATE inventory_items\s+SET quantity_on_hand = \$1, avg_cost = \$2, last_movement_date = \$3, updated_at = NOW\(\)\s+WHERE id = \$4`).
		WithArgs(item.QuantityOnHand, item.AvgCost, item.LastMovementDate, item.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateItem(suite.context, tx, item)
	assert.NoError(suite.T(), err)
}

func (suite *InventoryRepoTestSuite) TestAddMovement_AppendsToLedger() {
	tx := suite.begin()
	now := time.Now()
	reference := "PO-889"
	movement := &models.StockMovement{
		InventoryItemID: 3,
		MovementType:    models.MovementTypeIn,
		Quantity:        50,
		UnitCost:        12.0,
		Reference:       &reference,
		MovementDate:    now,
	}

	suite.mock.ExpectQuery(`INSERT INTO stock_movements \(inventory_item_id, movement_type, quantity, unit_cost, reference, notes, movement_date, created_at\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\)\)\s+RETURNING id, created_at`).
		WithArgs(movement.InventoryItemID, movement.MovementType, movement.Quantity, movement.UnitCost, movement.Reference, movement.Notes, movement.MovementDate).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), now))

	err := suite.repo.AddMovement(suite.context, tx, movement)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(9), movement.ID)
}

func (suite *InventoryRepoTestSuite) TestGetMovements_NewestFirstWithIDTieBreak() {
	now := time.Now()

	suite.mock.ExpectQuery(`FROM stock_movements\s+WHERE inventory_item_id = \$1\s+ORDER BY movement_date DESC, id DESC\s+LIMIT \$2`).
		WithArgs(int64(3), 50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "inventory_item_id", "movement_type", "quantity", "unit_cost", "reference", "notes", "movement_date", "created_at"}).
			AddRow(int64(9), int64(3), models.MovementTypeOut, 20.0, 10.0, nil, nil, now, now).
			AddRow(int64(8), int64(3), models.MovementTypeIn, 100.0, 10.0, nil, nil, now, now))

	movements, err := suite.repo.GetMovements(suite.context, 3, 50)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), movements, 2)
	assert.Equal(suite.T(), int64(9), movements[0].ID)
	assert.Equal(suite.T(), models.MovementTypeOut, movements[0].MovementType)
	assert.Equal(suite.T(), int64(8), movements[1].ID)
}

func (suite *InventoryRepoTestSuite) TestGetMovementsByDateRange_HalfOpenWindow() {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	suite.mock.ExpectQuery(`FROM stock_movements\s+WHERE movement_date >= \$1 AND movement_date < \$2\s+ORDER BY movement_date, id`).
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"id", "inventory_item_id", "movement_type", "quantity", "unit_cost", "reference", "notes", "movement_date", "created_at"}).
			AddRow(int64(4), int64(3), models.MovementTypeIn, 10.0, 5.0, nil, nil, from, from))

	movements, err := suite.repo.GetMovementsByDateRange(suite.context, from, to)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), movements, 1)
	assert.Equal(suite.T(), int64(4), movements[0].ID)
}

func (suite *InventoryRepoTestSuite) TestListItems() {
	now := time.Now()

	suite.mock.ExpectQuery(`FROM inventory_items\s+ORDER BY last_movement_date DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "material_id", "quantity_on_hand", "avg_cost", "last_movement_date", "created_at", "updated_at"}).
			AddRow(int64(3), int64(7), 150.0, 10.666667, now, now, now).
			AddRow(int64(4), int64(8), 20.0, 2.0, now, now, now))

	items, err := suite.repo.ListItems(suite.context, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), items, 2)
	assert.Equal(suite.T(), int64(7), items[0].MaterialID)
}
