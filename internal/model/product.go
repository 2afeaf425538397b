package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock status choices, derived from quantity vs minimum threshold.
const (
	StockInStock = "IN_STOCK"
	StockLow     = "LOW_STOCK"
	StockOut     = "OUT_OF_STOCK"
)

type Product struct {
	BaseModel
	Code        string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name        string  `gorm:"type:varchar(200);not null;index" json:"name" validate:"required"`
	Description string  `gorm:"type:text" json:"description"`
	Barcode     *string `gorm:"type:varchar(100);uniqueIndex" json:"barcode,omitempty"`
	Image       string  `gorm:"type:varchar(255)" json:"image,omitempty"`

	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`

	UnitID uuid.UUID      `gorm:"type:uuid;not null" json:"unit_id" validate:"uuid_required"`
	Unit   *UnitOfMeasure `gorm:"foreignKey:UnitID" json:"unit,omitempty" validate:"-"`

	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost_price"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"stock_quantity"`
	MinimumStock  decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"minimum_stock"`
	StockStatus   string          `gorm:"type:varchar(20);default:'IN_STOCK';index" json:"stock_status"`

	AllowsBulkSale bool `gorm:"default:true" json:"allows_bulk_sale"`
	IsActive       bool `gorm:"default:true" json:"is_active"`
}

// RefreshStockStatus recomputes the derived status from the current
// quantity. Called on every stock write.
func (p *Product) RefreshStockStatus() {
	switch {
	case p.StockQuantity.Sign() <= 0:
		p.StockStatus = StockOut
	case p.StockQuantity.Cmp(p.MinimumStock) <= 0:
		p.StockStatus = StockLow
	default:
		p.StockStatus = StockInStock
	}
}

// HasSufficientStock checks if there is enough stock for a quantity.
func (p *Product) HasSufficientStock(quantity decimal.Decimal) bool {
	return p.StockQuantity.Cmp(quantity) >= 0
}

// CanSell reports whether the product is sellable at all.
func (p *Product) CanSell() bool {
	return p.IsActive && p.StockQuantity.Sign() > 0 && p.StockStatus != StockOut
}

// TotalPrice calculates the price for a given quantity.
func (p *Product) TotalPrice(quantity decimal.Decimal) decimal.Decimal {
	return p.UnitPrice.Mul(quantity)
}
