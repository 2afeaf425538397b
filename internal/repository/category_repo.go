package repository

import (
	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll(activeOnly bool) ([]model.Category, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
	Update(category *model.Category) error
	Delete(id uuid.UUID) error
	HasProducts(id uuid.UUID) (bool, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) FindAll(activeOnly bool) ([]model.Category, error) {
	var categories []model.Category
	q := r.db.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Category{}, "id = ?", id).Error
}

// HasProducts guards deletion: categories with products are protected.
func (r *categoryRepo) HasProducts(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count > 0, err
}
