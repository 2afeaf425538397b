package model

// ContactMessage is a message left through the public contact endpoint.
type ContactMessage struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Email   string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	Message string `gorm:"type:text;not null" json:"message" validate:"required"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`
}
