package repository

import (
	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindAll() ([]model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByCPF(cpf string) (*model.User, error)
	FindByRoles(roles []string) ([]model.User, error)
	Update(user *model.User) error
	Delete(id uuid.UUID) error
	UpdateTokenVersion(id uuid.UUID, version string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("full_name ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByCPF(cpf string) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "cpf = ?", cpf).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByRoles returns active users holding any of the given roles.
// Used for notification fan-out to staff.
func (r *userRepo) FindByRoles(roles []string) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("role IN ? AND is_active = ?", roles, true).Find(&users).Error
	return users, err
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.User{}, "id = ?", id).Error
}

func (r *userRepo) UpdateTokenVersion(id uuid.UUID, version string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("token_version", version).Error
}
