package repository

import (
	"time"

	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// dayWindow bounds the calendar day containing t, in t's own zone.
// Truncating to 24h would pin the window to UTC midnight and shift the
// daily limit and "today" views in non-UTC deployments.
func dayWindow(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// SaleFilter narrows sale listings. SellerID scopes a seller to their
// own sales.
type SaleFilter struct {
	SellerID *uuid.UUID
	Status   string
	Date     *time.Time
}

type SaleRepository interface {
	FindAll(filter SaleFilter) ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	Update(sale *model.Sale) error
	LastNumberWithPrefix(tx *gorm.DB, prefix string) (string, error)
	CountSellerCompletedOn(sellerID uuid.UUID, day time.Time) (int64, error)
	CountSellerCompleted(sellerID uuid.UUID) (int64, error)
	FindCompletedBetween(start, end time.Time) ([]model.Sale, error)
	FindRecent(filter SaleFilter, limit int) ([]model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) apply(filter SaleFilter) *gorm.DB {
	q := r.db.Model(&model.Sale{})
	if filter.SellerID != nil {
		q = q.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != nil {
		start, end := dayWindow(*filter.Date)
		q = q.Where("created_at >= ? AND created_at < ?", start, end)
	}
	return q
}

func (r *saleRepo) FindAll(filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.apply(filter).
		Preload("Seller").Preload("Customer").Preload("Items").Preload("Items.Product").
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.
		Preload("Seller").Preload("Customer").Preload("Items").Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Preload("Items").Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) Update(sale *model.Sale) error {
	return r.db.Save(sale).Error
}

// LastNumberWithPrefix finds the highest sale number for a day prefix,
// used to continue the daily sequence. Runs inside the sale transaction
// so concurrent sales don't hand out the same number.
func (r *saleRepo) LastNumberWithPrefix(tx *gorm.DB, prefix string) (string, error) {
	var sale model.Sale
	err := tx.Where("sale_number LIKE ?", prefix+"%").
		Order("sale_number DESC").
		First(&sale).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sale.SaleNumber, nil
}

func (r *saleRepo) CountSellerCompletedOn(sellerID uuid.UUID, day time.Time) (int64, error) {
	var count int64
	start, end := dayWindow(day)
	err := r.db.Model(&model.Sale{}).
		Where("seller_id = ? AND status = ?", sellerID, model.SaleCompleted).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *saleRepo) CountSellerCompleted(sellerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).
		Where("seller_id = ? AND status = ?", sellerID, model.SaleCompleted).
		Count(&count).Error
	return count, err
}

func (r *saleRepo) FindCompletedBetween(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Preload("Seller").Preload("Items").Preload("Items.Product").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.SaleCompleted, start, end).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindRecent(filter SaleFilter, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.apply(filter).
		Preload("Seller").Preload("Customer").Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}
