package service

import (
	"errors"
	"fmt"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/cpf"
	"pdv-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidCPF  = errors.New("invalid CPF")
	ErrCPFTaken    = errors.New("CPF already registered to another customer")
	ErrHasPurchase = errors.New("customer has purchase history and cannot be removed")
)

// CustomerRequest carries customer create/update payloads.
type CustomerRequest struct {
	FullName string `json:"full_name" validate:"required,min=3,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"required,min=8,max=20"`
	Address  string `json:"address"`
	CPF      string `json:"cpf"`
	Notes    string `json:"notes"`
}

// CustomerDetail is a customer plus the purchase total derived from
// their completed orders.
type CustomerDetail struct {
	model.Customer
	TotalPurchases decimal.Decimal `json:"total_purchases"`
}

type CustomerService interface {
	CreateCustomer(req *CustomerRequest, actor Actor) (*model.Customer, error)
	GetCustomers(search string, activeOnly bool) ([]model.Customer, error)
	GetCustomer(id uuid.UUID) (*CustomerDetail, error)
	UpdateCustomer(id uuid.UUID, req *CustomerRequest, actor Actor) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID, actor Actor) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, auditRepo repository.AuditRepository) CustomerService {
	return &customerService{customerRepo: customerRepo, auditRepo: auditRepo}
}

// normalizeCPF validates the checksum and checks uniqueness, returning
// the digits-only form. Empty input is allowed and stored as NULL.
func (s *customerService) normalizeCPF(raw string, selfID *uuid.UUID) (*string, error) {
	if raw == "" {
		return nil, nil
	}
	if !cpf.IsValid(raw) {
		return nil, ErrInvalidCPF
	}
	normalized := cpf.Normalize(raw)

	existing, err := s.customerRepo.FindByCPF(normalized)
	if err == nil && (selfID == nil || existing.ID != *selfID) {
		return nil, ErrCPFTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &normalized, nil
}

func (s *customerService) CreateCustomer(req *CustomerRequest, actor Actor) (*model.Customer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	normalized, err := s.normalizeCPF(req.CPF, nil)
	if err != nil {
		return nil, err
	}

	customer := &model.Customer{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		CPF:      normalized,
		Notes:    req.Notes,
		IsActive: true,
	}
	customer.CreatedBy = actor.ID.String()
	customer.UpdatedBy = actor.ID.String()

	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}

	id := customer.ID
	recordAudit(s.auditRepo, actor, model.AuditCreate, "Customer", &id,
		fmt.Sprintf("Customer %s registered", customer.FullName), nil)

	return customer, nil
}

func (s *customerService) GetCustomers(search string, activeOnly bool) ([]model.Customer, error) {
	return s.customerRepo.FindAll(search, activeOnly)
}

func (s *customerService) GetCustomer(id uuid.UUID) (*CustomerDetail, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}

	total, err := s.customerRepo.TotalPurchases(id)
	if err != nil {
		return nil, err
	}

	return &CustomerDetail{Customer: *customer, TotalPurchases: total}, nil
}

func (s *customerService) UpdateCustomer(id uuid.UUID, req *CustomerRequest, actor Actor) (*model.Customer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}

	normalized, err := s.normalizeCPF(req.CPF, &customer.ID)
	if err != nil {
		return nil, err
	}

	customer.FullName = req.FullName
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.CPF = normalized
	customer.Notes = req.Notes
	customer.UpdatedBy = actor.ID.String()

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}

	recordAudit(s.auditRepo, actor, model.AuditUpdate, "Customer", &id,
		fmt.Sprintf("Customer %s updated", customer.FullName), nil)

	return customer, nil
}

// DeleteCustomer soft-deletes. Customers with completed orders are kept
// so history stays consistent; deactivate them instead.
func (s *customerService) DeleteCustomer(id uuid.UUID, actor Actor) error {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return ErrCustomerNotFound
	}

	total, err := s.customerRepo.TotalPurchases(id)
	if err != nil {
		return err
	}
	if total.Sign() > 0 {
		return ErrHasPurchase
	}

	if err := s.customerRepo.Delete(id); err != nil {
		return err
	}

	recordAudit(s.auditRepo, actor, model.AuditDelete, "Customer", &id,
		fmt.Sprintf("Customer %s removed", customer.FullName), nil)

	return nil
}
