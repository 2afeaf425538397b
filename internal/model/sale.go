package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale status choices. In-person sales are finalized immediately.
const (
	SaleCompleted = "COMPLETED"
	SaleCancelled = "CANCELLED"
	SaleRefunded  = "REFUNDED"
)

// Sale records an in-person transaction at the counter: items rung up,
// payment taken and change returned on the spot.
type Sale struct {
	BaseModel
	SaleNumber string `gorm:"type:varchar(20);uniqueIndex;not null" json:"sale_number"`

	SellerID uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	Seller   *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty" validate:"-"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty" validate:"-"`

	Status        string `gorm:"type:varchar(20);not null;default:'COMPLETED';index" json:"status"`
	PaymentMethod string `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT PIX TRANSFER"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"subtotal"`
	Discount     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_amount"`
	AmountPaid   decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"amount_paid"`
	ChangeAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"change_amount"`

	Notes string `gorm:"type:text" json:"notes"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty" validate:"-"`
}

// ComputeTotals recalculates subtotal, total and change from the loaded
// items. Change never goes negative.
func (s *Sale) ComputeTotals() {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	s.Subtotal = subtotal
	s.TotalAmount = subtotal.Sub(s.Discount)

	change := s.AmountPaid.Sub(s.TotalAmount)
	if change.Sign() < 0 {
		change = decimal.Zero
	}
	s.ChangeAmount = change
}

// SaleItem is a line in a sale with a price snapshot taken when the
// sale was rung up.
type SaleItem struct {
	BaseModel
	SaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`

	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	Quantity   decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Notes      string          `gorm:"type:text" json:"notes"`
}
