package service

import (
	"errors"
	"fmt"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCodeExists         = errors.New("product code already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameTaken  = errors.New("category name already exists")
	ErrCategoryInUse      = errors.New("category has products and cannot be removed")
	ErrUnitNotFound       = errors.New("unit of measure not found")
	ErrUnitInUse          = errors.New("unit of measure has products and cannot be removed")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrFractionNotAllowed = errors.New("this product cannot be sold in fractions")
)

// QuantityCheck is the projection returned when validating a
// hypothetical sale quantity against current stock.
type QuantityCheck struct {
	RemainingStock   decimal.Decimal `json:"remaining_stock"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	WillBeLowStock   bool            `json:"will_be_low_stock"`
	WillBeOutOfStock bool            `json:"will_be_out_of_stock"`
}

type CatalogService interface {
	CreateProduct(req *model.Product, actor Actor) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor Actor) error
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetSellableProducts() ([]model.Product, error)
	SearchProducts(query string) ([]model.Product, error)
	ValidateQuantity(productID uuid.UUID, quantity decimal.Decimal) (*QuantityCheck, error)
	SetProductImage(id uuid.UUID, path string, actor Actor) (*model.Product, error)

	CreateCategory(req *model.Category, actor Actor) error
	UpdateCategory(id uuid.UUID, req *model.Category, actor Actor) (*model.Category, error)
	DeleteCategory(id uuid.UUID, actor Actor) error
	GetCategories(activeOnly bool) ([]model.Category, error)

	CreateUnit(req *model.UnitOfMeasure, actor Actor) error
	UpdateUnit(id uuid.UUID, req *model.UnitOfMeasure, actor Actor) (*model.UnitOfMeasure, error)
	DeleteUnit(id uuid.UUID, actor Actor) error
	GetUnits(activeOnly bool) ([]model.UnitOfMeasure, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
	auditRepo    repository.AuditRepository
	notifier     NotificationService
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
	auditRepo repository.AuditRepository,
	notifier NotificationService,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
	}
}

// ========== PRODUCTS ==========

func (s *catalogService) CreateProduct(req *model.Product, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.UnitPrice.Sign() <= 0 {
		return errors.New("unit price must be greater than zero")
	}

	existing, _ := s.productRepo.FindByCode(req.Code)
	if existing != nil {
		return ErrCodeExists
	}
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return ErrCategoryNotFound
	}
	if _, err := s.unitRepo.FindByID(req.UnitID); err != nil {
		return ErrUnitNotFound
	}

	req.RefreshStockStatus()
	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	id := req.ID
	recordAudit(s.auditRepo, actor, model.AuditCreate, "Product", &id,
		fmt.Sprintf("Product '%s' created", req.Name),
		map[string]interface{}{"code": req.Code, "stock": req.StockQuantity, "price": req.UnitPrice})

	s.notifier.NotifyProductAdded(req)
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if req.Code != existing.Code {
		dup, _ := s.productRepo.FindByCode(req.Code)
		if dup != nil {
			return nil, ErrCodeExists
		}
	}

	oldStock := existing.StockQuantity

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Description = req.Description
	existing.Barcode = req.Barcode
	existing.CategoryID = req.CategoryID
	existing.UnitID = req.UnitID
	existing.UnitPrice = req.UnitPrice
	existing.CostPrice = req.CostPrice
	existing.StockQuantity = req.StockQuantity
	existing.MinimumStock = req.MinimumStock
	existing.AllowsBulkSale = req.AllowsBulkSale
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor.ID.String()
	existing.RefreshStockStatus()

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	if !oldStock.Equal(existing.StockQuantity) {
		pid := existing.ID
		recordAudit(s.auditRepo, actor, model.AuditStockUpdate, "Product", &pid,
			fmt.Sprintf("Stock of '%s' changed", existing.Name),
			map[string]interface{}{"old_stock": oldStock, "new_stock": existing.StockQuantity})
	}

	s.notifier.NotifyStockAlert(existing)
	return existing, nil
}

func (s *catalogService) SetProductImage(id uuid.UUID, path string, actor Actor) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	product.Image = path
	product.UpdatedBy = actor.ID.String()
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	pid := product.ID
	recordAudit(s.auditRepo, actor, model.AuditUpdate, "Product", &pid,
		fmt.Sprintf("Image of '%s' updated", product.Name), nil)
	return product, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, actor Actor) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	pid := product.ID
	recordAudit(s.auditRepo, actor, model.AuditDelete, "Product", &pid,
		fmt.Sprintf("Product '%s' removed", product.Name), nil)
	return nil
}

func (s *catalogService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) GetSellableProducts() ([]model.Product, error) {
	return s.productRepo.FindSellable()
}

func (s *catalogService) SearchProducts(query string) ([]model.Product, error) {
	if len(query) < 2 {
		return []model.Product{}, nil
	}
	return s.productRepo.Search(query, 20)
}

// ValidateQuantity checks a hypothetical sale quantity against the
// current stock and fraction rules, projecting the stock level that
// would remain.
func (s *catalogService) ValidateQuantity(productID uuid.UUID, quantity decimal.Decimal) (*QuantityCheck, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !product.AllowsBulkSale && !quantity.IsInteger() {
		return nil, ErrFractionNotAllowed
	}

	remaining := product.StockQuantity.Sub(quantity)
	if remaining.Sign() < 0 {
		return nil, fmt.Errorf("insufficient stock: available %s", product.StockQuantity.String())
	}

	return &QuantityCheck{
		RemainingStock:   remaining,
		UnitPrice:        product.UnitPrice,
		TotalPrice:       product.TotalPrice(quantity),
		WillBeLowStock:   remaining.Sign() > 0 && remaining.Cmp(product.MinimumStock) <= 0,
		WillBeOutOfStock: remaining.Sign() == 0,
	}, nil
}

// ========== CATEGORIES ==========

func (s *catalogService) CreateCategory(req *model.Category, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.categoryRepo.FindByName(req.Name)
	if existing != nil {
		return ErrCategoryNameTaken
	}

	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()
	return s.categoryRepo.Create(req)
}

func (s *catalogService) UpdateCategory(id uuid.UUID, req *model.Category, actor Actor) (*model.Category, error) {
	existing, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	if req.Name != existing.Name {
		dup, _ := s.categoryRepo.FindByName(req.Name)
		if dup != nil {
			return nil, ErrCategoryNameTaken
		}
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor.ID.String()

	if err := s.categoryRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCategory refuses to remove categories still referenced by
// products (PROTECT semantics).
func (s *catalogService) DeleteCategory(id uuid.UUID, actor Actor) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return ErrCategoryNotFound
	}

	inUse, err := s.categoryRepo.HasProducts(id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}

	return s.categoryRepo.Delete(id)
}

func (s *catalogService) GetCategories(activeOnly bool) ([]model.Category, error) {
	return s.categoryRepo.FindAll(activeOnly)
}

// ========== UNITS OF MEASURE ==========

func (s *catalogService) CreateUnit(req *model.UnitOfMeasure, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()
	return s.unitRepo.Create(req)
}

func (s *catalogService) UpdateUnit(id uuid.UUID, req *model.UnitOfMeasure, actor Actor) (*model.UnitOfMeasure, error) {
	existing, err := s.unitRepo.FindByID(id)
	if err != nil {
		return nil, ErrUnitNotFound
	}

	existing.Name = req.Name
	existing.Abbreviation = req.Abbreviation
	existing.UnitType = req.UnitType
	existing.BaseConversion = req.BaseConversion
	existing.AllowsFraction = req.AllowsFraction
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor.ID.String()

	if err := s.unitRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteUnit(id uuid.UUID, actor Actor) error {
	if _, err := s.unitRepo.FindByID(id); err != nil {
		return ErrUnitNotFound
	}

	inUse, err := s.unitRepo.HasProducts(id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrUnitInUse
	}

	return s.unitRepo.Delete(id)
}

func (s *catalogService) GetUnits(activeOnly bool) ([]model.UnitOfMeasure, error) {
	return s.unitRepo.FindAll(activeOnly)
}
