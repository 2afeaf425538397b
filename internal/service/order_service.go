package service

import (
	"crypto/rand"
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

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrOrderTerminal       = errors.New("order already reached a final status")
	ErrProofAlreadySent    = errors.New("payment proof can only be attached to pending orders")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrOrderCodeGeneration = errors.New("could not generate a unique order code")
)

const orderCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// OrderItemRequest is one line of an incoming remote order.
type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes"`
}

// CreateOrderRequest carries a remote order being placed.
type CreateOrderRequest struct {
	CustomerID    uuid.UUID          `json:"customer_id" validate:"uuid_required"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT PIX TRANSFER"`
	Discount      decimal.Decimal    `json:"discount"`
	Notes         string             `json:"notes"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderService interface {
	CreateOrder(req *CreateOrderRequest, actor Actor) (*model.Order, error)
	GetOrders(filter repository.OrderFilter, actor Actor) ([]model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	GetOrderByCode(code string) (*model.Order, error)
	GetOrderStats(filter repository.OrderFilter) (*repository.OrderStats, error)
	AttachPaymentProof(id uuid.UUID, proofPath string, actor Actor) (*model.Order, error)
	ConfirmOrder(id uuid.UUID, actor Actor) (*model.Order, error)
	AdvanceStatus(id uuid.UUID, newStatus string, actor Actor) (*model.Order, error)
	CancelOrder(id uuid.UUID, reason string, actor Actor) (*model.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	notifier     NotificationService
	db           *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	notifier NotificationService,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
		db:           db,
	}
}

// CreateOrder registers a remote order as PENDING. Stock is only
// reserved at confirmation, so availability is checked here but not
// decremented.
func (s *orderService) CreateOrder(req *CreateOrderRequest, actor Actor) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.Discount.Sign() < 0 {
		return nil, errors.New("discount cannot be negative")
	}

	if _, err := s.customerRepo.FindByID(req.CustomerID); err != nil {
		return nil, ErrCustomerNotFound
	}

	order := &model.Order{
		CustomerID:    req.CustomerID,
		Status:        model.OrderPending,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount,
		Notes:         req.Notes,
	}
	order.CreatedBy = actor.ID.String()
	order.UpdatedBy = actor.ID.String()

	for _, itemReq := range req.Items {
		if itemReq.Quantity.Sign() <= 0 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.productRepo.FindByID(itemReq.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		if !product.AllowsBulkSale && !itemReq.Quantity.IsInteger() {
			return nil, ErrFractionNotAllowed
		}
		if !product.CanSell() || !product.HasSufficientStock(itemReq.Quantity) {
			return nil, fmt.Errorf("%w for %s: available %s",
				ErrInsufficientStock, product.Name, product.StockQuantity.String())
		}

		order.Items = append(order.Items, model.OrderItem{
			ProductID:  product.ID,
			Quantity:   itemReq.Quantity,
			UnitPrice:  product.UnitPrice,
			TotalPrice: product.TotalPrice(itemReq.Quantity),
			Notes:      itemReq.Notes,
		})
	}
	order.ComputeTotals()

	code, err := s.newOrderCode()
	if err != nil {
		return nil, err
	}
	order.OrderCode = code

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	id := order.ID
	recordAudit(s.auditRepo, actor, model.AuditOrderCreate, "Order", &id,
		fmt.Sprintf("Order %s created", order.OrderCode),
		map[string]interface{}{
			"order_code":   order.OrderCode,
			"total_amount": order.TotalAmount,
			"items_count":  len(order.Items),
		})

	s.notifier.NotifyOrderReceived(order)

	return order, nil
}

// newOrderCode draws random 8-character codes until one is free.
func (s *orderService) newOrderCode() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for i, b := range buf {
			buf[i] = orderCodeAlphabet[int(b)%len(orderCodeAlphabet)]
		}
		code := string(buf)

		exists, err := s.orderRepo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrOrderCodeGeneration
}

// GetOrders lists orders. Sellers only see today's, so the counter can
// hand orders over without browsing history.
func (s *orderService) GetOrders(filter repository.OrderFilter, actor Actor) ([]model.Order, error) {
	if actor.Role == model.RoleSeller {
		today := time.Now()
		filter.Date = &today
	}
	return s.orderRepo.FindAll(filter)
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetOrderByCode(code string) (*model.Order, error) {
	order, err := s.orderRepo.FindByCode(code)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetOrderStats(filter repository.OrderFilter) (*repository.OrderStats, error) {
	return s.orderRepo.Stats(filter)
}

// AttachPaymentProof stores the uploaded proof path and moves the order
// to PAYMENT_UPLOADED.
func (s *orderService) AttachPaymentProof(id uuid.UUID, proofPath string, actor Actor) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != model.OrderPending {
		return nil, ErrProofAlreadySent
	}

	now := time.Now()
	order.PaymentProof = proofPath
	order.PaymentProofUploadedAt = &now
	order.Status = model.OrderPaymentUploaded
	order.UpdatedBy = actor.ID.String()

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	recordAudit(s.auditRepo, actor, model.AuditStatusChange, "Order", &id,
		fmt.Sprintf("Payment proof attached to order %s", order.OrderCode),
		map[string]interface{}{"order_code": order.OrderCode, "status": order.Status})

	s.notifier.NotifyPaymentUploaded(order)

	return order, nil
}

// ConfirmOrder is the manual check a manager does after verifying the
// payment: it locks and decrements stock for every item inside one
// transaction, then stamps who confirmed and when.
func (s *orderService) ConfirmOrder(id uuid.UUID, actor Actor) (*model.Order, error) {
	var confirmed *model.Order
	var touched []*model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrOrderNotFound
		}
		if !model.CanTransition(order.Status, model.OrderConfirmed) {
			return ErrInvalidTransition
		}

		for _, item := range order.Items {
			var product model.Product
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return ErrProductNotFound
			}
			if !product.HasSufficientStock(item.Quantity) {
				return fmt.Errorf("%w for %s: available %s",
					ErrInsufficientStock, product.Name, product.StockQuantity.String())
			}

			product.StockQuantity = product.StockQuantity.Sub(item.Quantity)
			if err := s.productRepo.SaveStock(tx, &product, actor.ID.String()); err != nil {
				return err
			}

			p := product
			touched = append(touched, &p)
		}

		now := time.Now()
		order.Status = model.OrderConfirmed
		order.ConfirmedByID = &actor.ID
		order.ConfirmedAt = &now
		order.UpdatedBy = actor.ID.String()
		if err := tx.Save(order).Error; err != nil {
			return err
		}

		confirmed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	oid := confirmed.ID
	recordAudit(s.auditRepo, actor, model.AuditOrderConfirm, "Order", &oid,
		fmt.Sprintf("Order %s confirmed", confirmed.OrderCode),
		map[string]interface{}{"order_code": confirmed.OrderCode})

	for _, product := range touched {
		s.notifier.NotifyStockAlert(product)
	}

	return confirmed, nil
}

// AdvanceStatus moves an order along the fulfillment chain. It handles
// the forward steps only; cancellation and confirmation have their own
// entry points because they touch stock.
func (s *orderService) AdvanceStatus(id uuid.UUID, newStatus string, actor Actor) (*model.Order, error) {
	if newStatus == model.OrderConfirmed || newStatus == model.OrderCancelled {
		return nil, ErrInvalidTransition
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.IsTerminal() {
		return nil, ErrOrderTerminal
	}
	if !model.CanTransition(order.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	previous := order.Status
	order.Status = newStatus
	order.UpdatedBy = actor.ID.String()
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	recordAudit(s.auditRepo, actor, model.AuditStatusChange, "Order", &id,
		fmt.Sprintf("Order %s moved from %s to %s", order.OrderCode, previous, newStatus),
		map[string]interface{}{"order_code": order.OrderCode, "from": previous, "to": newStatus})

	return order, nil
}

// CancelOrder cancels from any non-terminal status, restoring stock if
// confirmation already took it.
func (s *orderService) CancelOrder(id uuid.UUID, reason string, actor Actor) (*model.Order, error) {
	var cancelled *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrOrderNotFound
		}
		if order.IsTerminal() {
			return ErrOrderTerminal
		}

		if order.StockTaken() {
			for _, item := range order.Items {
				var product model.Product
				if err := tx.Set("gorm:query_option", "FOR UPDATE").
					First(&product, "id = ?", item.ProductID).Error; err != nil {
					continue
				}
				product.StockQuantity = product.StockQuantity.Add(item.Quantity)
				if err := s.productRepo.SaveStock(tx, &product, actor.ID.String()); err != nil {
					return err
				}
			}
		}

		order.Status = model.OrderCancelled
		if reason != "" {
			if order.Notes != "" {
				order.Notes += "\n"
			}
			order.Notes += "Cancelamento: " + reason
		}
		order.UpdatedBy = actor.ID.String()
		if err := tx.Save(order).Error; err != nil {
			return err
		}

		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	oid := cancelled.ID
	recordAudit(s.auditRepo, actor, model.AuditOrderCancel, "Order", &oid,
		fmt.Sprintf("Order %s cancelled", cancelled.OrderCode),
		map[string]interface{}{"order_code": cancelled.OrderCode, "reason": reason})

	return cancelled, nil
}
