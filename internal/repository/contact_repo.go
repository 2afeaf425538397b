package repository

import (
	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(message *model.ContactMessage) error
	FindAll() ([]model.ContactMessage, error)
	MarkRead(id uuid.UUID) error
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepository {
	return &contactRepo{db}
}

func (r *contactRepo) Create(message *model.ContactMessage) error {
	return r.db.Create(message).Error
}

func (r *contactRepo) FindAll() ([]model.ContactMessage, error) {
	var messages []model.ContactMessage
	err := r.db.Order("created_at DESC").Find(&messages).Error
	return messages, err
}

func (r *contactRepo) MarkRead(id uuid.UUID) error {
	return r.db.Model(&model.ContactMessage{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
