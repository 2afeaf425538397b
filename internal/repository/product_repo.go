package repository

import (
	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search     string // matches name, code or barcode
	CategoryID *uuid.UUID
	Status     string // stock status
	ActiveOnly bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	FindSellable() ([]model.Product, error)
	Search(query string, limit int) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	CountByStatus(status string) (int64, error)
	SaveStock(tx *gorm.DB, product *model.Product, updatedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Preload("Category").Preload("Unit")

	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR code LIKE ? OR barcode LIKE ?", like, like, like)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != "" {
		q = q.Where("stock_status = ?", filter.Status)
	}

	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Unit").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindSellable lists active products that still have stock, the set
// offered on the new-sale screen.
func (r *productRepo) FindSellable() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Preload("Unit").
		Where("is_active = ? AND stock_status IN ?", true, []string{model.StockInStock, model.StockLow}).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Search(query string, limit int) ([]model.Product, error) {
	var products []model.Product
	like := "%" + query + "%"
	err := r.db.Preload("Category").Preload("Unit").
		Where("is_active = ?", true).
		Where("name LIKE ? OR code LIKE ? OR barcode LIKE ?", like, like, like).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("stock_status = ? AND is_active = ?", status, true).
		Count(&count).Error
	return count, err
}

// SaveStock persists quantity, derived status and audit field inside
// the caller's transaction so it shares its row locks.
func (r *productRepo) SaveStock(tx *gorm.DB, product *model.Product, updatedBy string) error {
	product.RefreshStockStatus()
	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"stock_quantity": product.StockQuantity,
			"stock_status":   product.StockStatus,
			"updated_by":     updatedBy,
		}).Error
}
