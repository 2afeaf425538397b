package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification type choices
const (
	NotifSaleMilestone   = "SALE_MILESTONE"
	NotifProductAdded    = "PRODUCT_ADDED"
	NotifLowStock        = "LOW_STOCK"
	NotifOutOfStock      = "OUT_OF_STOCK"
	NotifOrderReceived   = "ORDER_RECEIVED"
	NotifOrderConfirmed  = "ORDER_CONFIRMED"
	NotifPaymentUploaded = "PAYMENT_UPLOADED"
)

// Notification is an in-app message for staff about system events. The
// same payloads are broadcast over the websocket hub for connected
// clients.
type Notification struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	Type    string `gorm:"type:varchar(20);not null" json:"type"`
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`
	Link    string `gorm:"type:varchar(500)" json:"link,omitempty"`

	RelatedObjectType string     `gorm:"type:varchar(50)" json:"related_object_type,omitempty"`
	RelatedObjectID   *uuid.UUID `gorm:"type:uuid" json:"related_object_id,omitempty"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

// MarkAsRead flips the read flag once.
func (n *Notification) MarkAsRead() {
	if !n.IsRead {
		now := time.Now()
		n.IsRead = true
		n.ReadAt = &now
	}
}
