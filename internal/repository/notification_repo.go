package repository

import (
	"time"

	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindUnread(userID uuid.UUID, limit int) ([]model.Notification, error)
	FindByID(id uuid.UUID) (*model.Notification, error)
	Update(notification *model.Notification) error
	MarkAllRead(userID uuid.UUID) error
	CountUnread(userID uuid.UUID) (int64, error)
	UnreadExists(userID uuid.UUID, notifType string, relatedID uuid.UUID) (bool, error)
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db}
}

func (r *notificationRepo) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepo) FindUnread(userID uuid.UUID, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) FindByID(id uuid.UUID) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) Update(notification *model.Notification) error {
	return r.db.Save(notification).Error
}

func (r *notificationRepo) MarkAllRead(userID uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *notificationRepo) CountUnread(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// UnreadExists prevents stacking duplicate stock alerts for the same
// product while one is still unread.
func (r *notificationRepo) UnreadExists(userID uuid.UUID, notifType string, relatedID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND type = ? AND related_object_id = ? AND is_read = ?",
			userID, notifType, relatedID, false).
		Count(&count).Error
	return count > 0, err
}
