package jobs

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"stockbook/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockInventoryRepository mocks the InventoryRepository interface for testing
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) CreateItem(ctx context.Context, tx pgx.Tx, item *models.InventoryItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetItemByMaterial(ctx context.Context, materialID int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) GetItemByMaterialForUpdate(ctx context.Context, tx pgx.Tx, materialID int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, tx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) UpdateItem(ctx context.Context, tx pgx.Tx, item *models.InventoryItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) AddMovement(ctx context.Context, tx pgx.Tx, movement *models.StockMovement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

func (m *MockInventoryRepository) ListItems(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) GetMovements(ctx context.Context, itemID int64, limit int) ([]*models.StockMovement, error) {
	args := m.Called(ctx, itemID, limit)
	return args.Get(0).([]*models.StockMovement), args.Error(1)
}

func (m *MockInventoryRepository) GetMovementsByDateRange(ctx context.Context, from, to time.Time) ([]*models.StockMovement, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockMovement), args.Error(1)
}

// MockMaterialRepository mocks the MaterialRepository interface for testing
type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) Create(ctx context.Context, material *models.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) Update(ctx context.Context, material *models.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMaterialRepository) List(ctx context.Context, limit, offset int) ([]*models.Material, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Material), args.Error(1)
}

// MockStorageService mocks the StorageService interface for testing
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockStorageService) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) Delete(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type LowStockTestSuite struct {
	suite.Suite
	inventoryRepo *MockInventoryRepository
	materialRepo  *MockMaterialRepository
	service       *LowStockService
	ctx           context.Context
}

func (suite *LowStockTestSuite) SetupTest() {
	suite.inventoryRepo = new(MockInventoryRepository)
	suite.materialRepo = new(MockMaterialRepository)
	suite.service = NewLowStockService(suite.inventoryRepo, suite.materialRepo, 10.0)
	suite.ctx = context.Background()
}

func TestLowStockTestSuite(t *testing.T) {
	suite.Run(t, new(LowStockTestSuite))
}

func (suite *LowStockTestSuite) TestCheckLowStock_FlagsItemsAtOrUnderThreshold() {
	items := []*models.InventoryItem{
		{ID: 1, MaterialID: 7, QuantityOnHand: 5},
		{ID: 2, MaterialID: 8, QuantityOnHand: 10},
		{ID: 3, MaterialID: 9, QuantityOnHand: 200},
	}
	suite.inventoryRepo.On("ListItems", suite.ctx, 1000, 0).Return(items, nil)
	suite.materialRepo.On("GetByID", suite.ctx, int64(7)).Return(&models.Material{ID: 7, Name: "Cement", Unit: "bag"}, nil)
	suite.materialRepo.On("GetByID", suite.ctx, int64(8)).Return(&models.Material{ID: 8, Name: "Sand", Unit: "ton"}, nil)

	alerts, err := suite.service.CheckLowStock(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), alerts, 2)
	assert.Equal(suite.T(), "Cement", alerts[0].MaterialName)
	assert.Equal(suite.T(), 5.0, alerts[0].QuantityOnHand)
	assert.Equal(suite.T(), "Sand", alerts[1].MaterialName)
	suite.materialRepo.AssertNotCalled(suite.T(), "GetByID", suite.ctx, int64(9))
}

func (suite *LowStockTestSuite) TestCheckLowStock_SkipsItemWhenMaterialLookupFails() {
	items := []*models.InventoryItem{
		{ID: 1, MaterialID: 7, QuantityOnHand: 2},
		{ID: 2, MaterialID: 8, QuantityOnHand: 3},
	}
	suite.inventoryRepo.On("ListItems", suite.ctx, 1000, 0).Return(items, nil)
	suite.materialRepo.On("GetByID", suite.ctx, int64(7)).Return(nil, errors.New("connection reset"))
	suite.materialRepo.On("GetByID", suite.ctx, int64(8)).Return(&models.Material{ID: 8, Name: "Sand", Unit: "ton"}, nil)

	alerts, err := suite.service.CheckLowStock(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), alerts, 1)
	assert.Equal(suite.T(), int64(8), alerts[0].MaterialID)
}

func (suite *LowStockTestSuite) TestCheckLowStock_ListFailure() {
	suite.inventoryRepo.On("ListItems", suite.ctx, 1000, 0).Return(nil, errors.New("db down"))

	alerts, err := suite.service.CheckLowStock(suite.ctx)

	assert.Nil(suite.T(), alerts)
	assert.Error(suite.T(), err)
}
