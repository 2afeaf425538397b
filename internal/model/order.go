package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status choices. Remote orders start PENDING and walk the chain
// until COMPLETED; CANCELLED is reachable from any non-terminal status.
const (
	OrderPending         = "PENDING"
	OrderPaymentUploaded = "PAYMENT_UPLOADED"
	OrderConfirmed       = "CONFIRMED"
	OrderProcessing      = "PROCESSING"
	OrderReady           = "READY"
	OrderCompleted       = "COMPLETED"
	OrderCancelled       = "CANCELLED"
)

// Payment method choices (shared by orders and sales).
const (
	PaymentCash     = "CASH"
	PaymentDebit    = "DEBIT"
	PaymentCredit   = "CREDIT"
	PaymentPix      = "PIX"
	PaymentTransfer = "TRANSFER"
)

// orderTransitions is the allowed forward movement. Confirmation may
// skip PAYMENT_UPLOADED (payment handed over in person), but COMPLETED
// is only reachable through PROCESSING and READY.
var orderTransitions = map[string][]string{
	OrderPending:         {OrderPaymentUploaded, OrderConfirmed, OrderCancelled},
	OrderPaymentUploaded: {OrderConfirmed, OrderCancelled},
	OrderConfirmed:       {OrderProcessing, OrderCancelled},
	OrderProcessing:      {OrderReady, OrderCancelled},
	OrderReady:           {OrderCompleted, OrderCancelled},
	OrderCompleted:       {},
	OrderCancelled:       {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a remote customer request: placed online, paid out of band,
// confirmed manually by a manager after checking the payment proof.
type Order struct {
	BaseModel
	OrderCode string `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_code"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`

	Status        string `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentMethod string `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT PIX TRANSFER"`

	PaymentProof           string     `gorm:"type:varchar(255)" json:"payment_proof,omitempty"`
	PaymentProofUploadedAt *time.Time `json:"payment_proof_uploaded_at,omitempty"`

	ConfirmedByID *uuid.UUID `gorm:"type:uuid" json:"confirmed_by_id,omitempty"`
	ConfirmedBy   *User      `gorm:"foreignKey:ConfirmedByID;constraint:OnDelete:SET NULL" json:"confirmed_by,omitempty" validate:"-"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"subtotal"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_amount"`

	Notes string `gorm:"type:text" json:"notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty" validate:"-"`
}

// ComputeTotals recalculates subtotal and total from the loaded items.
func (o *Order) ComputeTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Sub(o.Discount)
}

// IsTerminal reports whether the order reached a final status.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderCancelled
}

// StockTaken reports whether stock was already decremented for this
// order (happens at confirmation).
func (o *Order) StockTaken() bool {
	switch o.Status {
	case OrderConfirmed, OrderProcessing, OrderReady, OrderCompleted:
		return true
	}
	return false
}

// OrderItem is a line in an order with a price snapshot taken at
// creation time.
type OrderItem struct {
	BaseModel
	OrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`

	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	Quantity   decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Notes      string          `gorm:"type:text" json:"notes"`
}
