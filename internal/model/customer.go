package model

import "github.com/google/uuid"

// Customer holds buyer records. A customer may be linked to a login
// account or exist as a standalone (walk-in / guest) record.
type Customer struct {
	BaseModel
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User   *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty" validate:"-"`

	FullName string  `gorm:"type:varchar(200);not null;index" json:"full_name" validate:"required"`
	Email    string  `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone    string  `gorm:"type:varchar(20);not null;index" json:"phone" validate:"required"`
	Address  string  `gorm:"type:text" json:"address"`
	CPF      *string `gorm:"type:varchar(14);uniqueIndex" json:"cpf,omitempty" validate:"omitempty,cpf"`
	Notes    string  `gorm:"type:text" json:"notes"`
	IsActive bool    `gorm:"default:true" json:"is_active"`
}
