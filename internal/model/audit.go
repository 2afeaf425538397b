package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action choices
const (
	AuditCreate         = "CREATE"
	AuditUpdate         = "UPDATE"
	AuditDelete         = "DELETE"
	AuditLogin          = "LOGIN"
	AuditLogout         = "LOGOUT"
	AuditPaymentConfirm = "PAYMENT_CONFIRM"
	AuditSaleComplete   = "SALE_COMPLETE"
	AuditSaleCancel     = "SALE_CANCEL"
	AuditOrderCreate    = "ORDER_CREATE"
	AuditOrderConfirm   = "ORDER_CONFIRM"
	AuditOrderCancel    = "ORDER_CANCEL"
	AuditStockUpdate    = "STOCK_UPDATE"
	AuditStatusChange   = "STATUS_CHANGE"
)

// AuditLog is an append-only trail of significant actions. Rows are
// never updated or deleted, so it skips BaseModel's soft delete.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User   *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`

	Action     string     `gorm:"type:varchar(20);not null;index" json:"action"`
	EntityName string     `gorm:"type:varchar(100);not null" json:"entity_name"`
	EntityID   *uuid.UUID `gorm:"type:uuid" json:"entity_id,omitempty"`

	Description string `gorm:"type:text" json:"description"`
	IPAddress   string `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string `gorm:"type:text" json:"user_agent"`

	// Marshaled JSON payload describing what changed
	Changes string `gorm:"type:text" json:"changes,omitempty"`
}
