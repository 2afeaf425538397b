package repository

import (
	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll(search string, activeOnly bool) ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindByCPF(cpf string) (*model.Customer, error)
	Update(customer *model.Customer) error
	Delete(id uuid.UUID) error
	TotalPurchases(id uuid.UUID) (decimal.Decimal, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll(search string, activeOnly bool) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.Order("full_name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("full_name LIKE ? OR phone LIKE ? OR cpf LIKE ?", like, like, like)
	}
	err := q.Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindByCPF(cpf string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "cpf = ?", cpf).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Customer{}, "id = ?", id).Error
}

// TotalPurchases sums the completed orders of a customer.
func (r *customerRepo) TotalPurchases(id uuid.UUID) (decimal.Decimal, error) {
	var orders []model.Order
	err := r.db.Where("customer_id = ? AND status = ?", id, model.OrderCompleted).
		Find(&orders).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(order.TotalAmount)
	}
	return total, nil
}
