package service

import (
	"errors"
	"testing"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalogService(db *gorm.DB) CatalogService {
	return NewCatalogService(
		repository.NewProductRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewUnitRepo(db),
		repository.NewAuditRepo(db),
		testNotifier(db),
	)
}

func TestValidateQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	product := seedProduct(t, db, "P001", "10", "3", true)

	check, err := svc.ValidateQuantity(product.ID, decimal.NewFromInt(8))
	require.NoError(t, err)
	assert.True(t, check.RemainingStock.Equal(decimal.NewFromInt(2)))
	assert.True(t, check.TotalPrice.Equal(decimal.RequireFromString("80.00")))
	assert.True(t, check.WillBeLowStock)
	assert.False(t, check.WillBeOutOfStock)

	check, err = svc.ValidateQuantity(product.ID, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, check.WillBeOutOfStock)

	_, err = svc.ValidateQuantity(product.ID, decimal.NewFromInt(11))
	assert.Error(t, err)

	_, err = svc.ValidateQuantity(product.ID, decimal.Zero)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
}

func TestValidateQuantityFractionRules(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	unitOnly := seedProduct(t, db, "P001", "10", "2", false)
	bulk := seedProduct(t, db, "P002", "10", "2", true)

	_, err := svc.ValidateQuantity(unitOnly.ID, decimal.RequireFromString("0.5"))
	assert.True(t, errors.Is(err, ErrFractionNotAllowed))

	check, err := svc.ValidateQuantity(bulk.ID, decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	assert.True(t, check.TotalPrice.Equal(decimal.RequireFromString("5.00")))
}

func TestDeleteCategoryInUse(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)
	product := seedProduct(t, db, "P001", "10", "2", true)

	err := svc.DeleteCategory(product.CategoryID, actorFor(admin))
	assert.True(t, errors.Is(err, ErrCategoryInUse))

	// An empty category can go
	empty := &model.Category{Name: "Vazia", IsActive: true}
	require.NoError(t, db.Create(empty).Error)
	require.NoError(t, svc.DeleteCategory(empty.ID, actorFor(admin)))
}

func TestSearchProductsMinLength(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	seedProduct(t, db, "P001", "10", "2", true)

	results, err := svc.SearchProducts("P")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.SearchProducts("P0")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestUpdateProductStockAudit(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)
	product := seedProduct(t, db, "P001", "10", "2", true)

	req := *product
	req.StockQuantity = decimal.NewFromInt(1)

	updated, err := svc.UpdateProduct(product.ID, &req, actorFor(admin))
	require.NoError(t, err)
	assert.Equal(t, model.StockLow, updated.StockStatus)

	var auditCount int64
	db.Model(&model.AuditLog{}).Where("action = ?", model.AuditStockUpdate).Count(&auditCount)
	assert.Equal(t, int64(1), auditCount)
}
