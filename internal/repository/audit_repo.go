package repository

import (
	"time"

	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	Action string
	UserID *uuid.UUID
	Limit  int
}

// AuditRepository is append-only: entries are created and listed, never
// updated or removed.
type AuditRepository interface {
	Create(entry *model.AuditLog) error
	FindAll(filter AuditFilter) ([]model.AuditLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) Create(entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

func (r *auditRepo) FindAll(filter AuditFilter) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	q := r.db.Preload("User").Order("created_at DESC")
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	err := q.Limit(limit).Find(&entries).Error
	return entries, err
}
