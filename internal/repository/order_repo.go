package repository

import (
	"time"

	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings. When Date is set only orders
// created on that day are returned.
type OrderFilter struct {
	Search string // matches order code, customer name or phone
	Status string
	Date   *time.Time
}

// OrderStats are the per-status counters shown above the order list.
type OrderStats struct {
	Pending         int64 `json:"pending"`
	PaymentUploaded int64 `json:"payment_uploaded"`
	Confirmed       int64 `json:"confirmed"`
	Completed       int64 `json:"completed"`
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindAll(filter OrderFilter) ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindByCode(code string) (*model.Order, error)
	CodeExists(code string) (bool, error)
	Update(order *model.Order) error
	Stats(filter OrderFilter) (*OrderStats, error)
	CountPendingOn(day time.Time) (int64, error)
	FindRecentPending(limit int, day *time.Time) ([]model.Order, error)
	FindConfirmedBetween(start, end time.Time) ([]model.Order, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepo) apply(filter OrderFilter) *gorm.DB {
	q := r.db.Model(&model.Order{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("orders.order_code LIKE ? OR customers.full_name LIKE ? OR customers.phone LIKE ?", like, like, like)
	}
	if filter.Status != "" {
		q = q.Where("orders.status = ?", filter.Status)
	}
	if filter.Date != nil {
		start, end := dayWindow(*filter.Date)
		q = q.Where("orders.created_at >= ? AND orders.created_at < ?", start, end)
	}
	return q
}

func (r *orderRepo) FindAll(filter OrderFilter) ([]model.Order, error) {
	var orders []model.Order
	err := r.apply(filter).
		Preload("Customer").Preload("ConfirmedBy").Preload("Items").Preload("Items.Product").
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Customer").Preload("ConfirmedBy").Preload("Items").Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row inside the caller's
// transaction for the confirm/cancel flows.
func (r *orderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Preload("Items").Preload("Items.Product").Preload("Customer").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByCode(code string) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Customer").Preload("Items").Preload("Items.Product").
		First(&order, "order_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("order_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *orderRepo) Update(order *model.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepo) Stats(filter OrderFilter) (*OrderStats, error) {
	stats := &OrderStats{}
	counts := []struct {
		status string
		target *int64
	}{
		{model.OrderPending, &stats.Pending},
		{model.OrderPaymentUploaded, &stats.PaymentUploaded},
		{model.OrderConfirmed, &stats.Confirmed},
		{model.OrderCompleted, &stats.Completed},
	}
	for _, c := range counts {
		f := filter
		f.Status = c.status
		if err := r.apply(f).Count(c.target).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// CountPendingOn counts orders still waiting for attention on a day.
func (r *orderRepo) CountPendingOn(day time.Time) (int64, error) {
	var count int64
	start, end := dayWindow(day)
	err := r.db.Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Where("status IN ?", []string{model.OrderPending, model.OrderPaymentUploaded}).
		Count(&count).Error
	return count, err
}

func (r *orderRepo) FindRecentPending(limit int, day *time.Time) ([]model.Order, error) {
	var orders []model.Order
	q := r.db.Preload("Customer").
		Where("status IN ?", []string{model.OrderPending, model.OrderPaymentUploaded})
	if day != nil {
		start, end := dayWindow(*day)
		q = q.Where("created_at >= ? AND created_at < ?", start, end)
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&orders).Error
	return orders, err
}

// FindConfirmedBetween lists orders whose payment has been confirmed,
// whatever fulfillment stage they have reached since. Stock and revenue
// are committed at confirmation, so reports count from there.
func (r *orderRepo) FindConfirmedBetween(start, end time.Time) ([]model.Order, error) {
	confirmed := []string{model.OrderConfirmed, model.OrderProcessing, model.OrderReady, model.OrderCompleted}
	var orders []model.Order
	err := r.db.
		Preload("Customer").Preload("Items").Preload("Items.Product").
		Where("status IN ? AND created_at >= ? AND created_at < ?", confirmed, start, end).
		Find(&orders).Error
	return orders, err
}
