package service

import (
	"errors"
	"fmt"
	"time"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Non-admin sellers are limited to this many completed sales per day.
const maxDailySales = 5

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrNoItems           = errors.New("sale has no items")
	ErrDailyLimitReached = errors.New("daily limit reached: only 5 sales per day are allowed. Contact the administrator")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrSaleNotCancelable = errors.New("sale cannot be cancelled in its current status")
)

// SaleItemRequest is one line of a sale being rung up.
type SaleItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes"`
}

// ProcessSaleRequest carries everything needed to finalize an
// in-person sale.
type ProcessSaleRequest struct {
	CustomerID    *uuid.UUID        `json:"customer_id"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT PIX TRANSFER"`
	Discount      decimal.Decimal   `json:"discount"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"`
	Notes         string            `json:"notes"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type SaleService interface {
	ProcessSale(req *ProcessSaleRequest, actor Actor) (*model.Sale, error)
	CancelSale(id uuid.UUID, actor Actor) (*model.Sale, error)
	GetSales(filter repository.SaleFilter) ([]model.Sale, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	notifier     NotificationService
	db           *gorm.DB
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	notifier NotificationService,
	db *gorm.DB,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
		db:           db,
	}
}

// ProcessSale finalizes an in-person sale: validates the cart, locks
// and decrements stock, snapshots prices and computes totals and
// change, all inside one transaction. Any stock shortage aborts the
// whole sale.
func (s *saleService) ProcessSale(req *ProcessSaleRequest, actor Actor) (*model.Sale, error) {
	// 1. Validate input
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	if req.Discount.Sign() < 0 || req.AmountPaid.Sign() < 0 {
		return nil, errors.New("discount and amount paid cannot be negative")
	}

	// 2. Daily limit for non-admin users
	if !actor.IsAdmin() {
		count, err := s.saleRepo.CountSellerCompletedOn(actor.ID, time.Now())
		if err != nil {
			return nil, err
		}
		if count >= maxDailySales {
			return nil, ErrDailyLimitReached
		}
	}

	// 3. Resolve optional customer
	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(*req.CustomerID); err != nil {
			req.CustomerID = nil
		}
	}

	sale := &model.Sale{
		SellerID:      actor.ID,
		CustomerID:    req.CustomerID,
		Status:        model.SaleCompleted,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount,
		AmountPaid:    req.AmountPaid,
		Notes:         req.Notes,
	}
	sale.CreatedBy = actor.ID.String()
	sale.UpdatedBy = actor.ID.String()

	var touched []*model.Product

	// 4. Atomic: number allocation, stock checks and decrements, save
	err := s.db.Transaction(func(tx *gorm.DB) error {
		number, err := s.nextSaleNumber(tx)
		if err != nil {
			return err
		}
		sale.SaleNumber = number

		for _, itemReq := range req.Items {
			if itemReq.Quantity.Sign() <= 0 {
				return ErrInvalidQuantity
			}

			var product model.Product
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				Preload("Unit").
				First(&product, "id = ?", itemReq.ProductID).Error; err != nil {
				return ErrProductNotFound
			}

			if !product.AllowsBulkSale && !itemReq.Quantity.IsInteger() {
				return ErrFractionNotAllowed
			}
			if !product.HasSufficientStock(itemReq.Quantity) {
				return fmt.Errorf("%w for %s: available %s",
					ErrInsufficientStock, product.Name, product.StockQuantity.String())
			}

			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:  product.ID,
				Quantity:   itemReq.Quantity,
				UnitPrice:  product.UnitPrice,
				TotalPrice: product.TotalPrice(itemReq.Quantity),
				Notes:      itemReq.Notes,
			})

			product.StockQuantity = product.StockQuantity.Sub(itemReq.Quantity)
			if err := s.productRepo.SaveStock(tx, &product, actor.ID.String()); err != nil {
				return err
			}

			p := product
			touched = append(touched, &p)
		}

		sale.ComputeTotals()
		return tx.Create(sale).Error
	})
	if err != nil {
		return nil, err
	}

	// 5. Audit and notifications outside the transaction
	id := sale.ID
	recordAudit(s.auditRepo, actor, model.AuditSaleComplete, "Sale", &id,
		fmt.Sprintf("Sale %s completed", sale.SaleNumber),
		map[string]interface{}{
			"sale_number":  sale.SaleNumber,
			"total_amount": sale.TotalAmount,
			"items_count":  len(sale.Items),
		})

	for _, product := range touched {
		s.notifier.NotifyStockAlert(product)
	}

	if count, err := s.saleRepo.CountSellerCompleted(actor.ID); err == nil {
		s.notifier.NotifySaleMilestone(actor.ID, count)
	}

	return sale, nil
}

// nextSaleNumber continues the daily sequence: YYYYMMDD followed by a
// four-digit counter.
func (s *saleService) nextSaleNumber(tx *gorm.DB) (string, error) {
	prefix := time.Now().Format("20060102")
	last, err := s.saleRepo.LastNumberWithPrefix(tx, prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" && len(last) >= 4 {
		fmt.Sscanf(last[len(last)-4:], "%d", &seq)
		seq++
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// CancelSale reverses a completed sale, restoring the stock it took.
func (s *saleService) CancelSale(id uuid.UUID, actor Actor) (*model.Sale, error) {
	var cancelled *model.Sale

	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrSaleNotFound
		}
		if sale.Status != model.SaleCompleted {
			return ErrSaleNotCancelable
		}

		for _, item := range sale.Items {
			var product model.Product
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				continue // product removed since the sale; nothing to restore
			}
			product.StockQuantity = product.StockQuantity.Add(item.Quantity)
			if err := s.productRepo.SaveStock(tx, &product, actor.ID.String()); err != nil {
				return err
			}
		}

		sale.Status = model.SaleCancelled
		sale.UpdatedBy = actor.ID.String()
		if err := tx.Save(sale).Error; err != nil {
			return err
		}

		cancelled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	sid := cancelled.ID
	recordAudit(s.auditRepo, actor, model.AuditSaleCancel, "Sale", &sid,
		fmt.Sprintf("Sale %s cancelled", cancelled.SaleNumber),
		map[string]interface{}{"sale_number": cancelled.SaleNumber})

	return cancelled, nil
}

func (s *saleService) GetSales(filter repository.SaleFilter) ([]model.Sale, error) {
	return s.saleRepo.FindAll(filter)
}

func (s *saleService) GetSale(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}
