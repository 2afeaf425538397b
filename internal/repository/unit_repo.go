package repository

import (
	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitRepository interface {
	Create(unit *model.UnitOfMeasure) error
	FindAll(activeOnly bool) ([]model.UnitOfMeasure, error)
	FindByID(id uuid.UUID) (*model.UnitOfMeasure, error)
	FindByAbbreviation(abbr string) (*model.UnitOfMeasure, error)
	Update(unit *model.UnitOfMeasure) error
	Delete(id uuid.UUID) error
	HasProducts(id uuid.UUID) (bool, error)
	SeedDefaults() error
}

type unitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db}
}

func (r *unitRepo) Create(unit *model.UnitOfMeasure) error {
	return r.db.Create(unit).Error
}

func (r *unitRepo) FindAll(activeOnly bool) ([]model.UnitOfMeasure, error) {
	var units []model.UnitOfMeasure
	q := r.db.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&units).Error
	return units, err
}

func (r *unitRepo) FindByID(id uuid.UUID) (*model.UnitOfMeasure, error) {
	var unit model.UnitOfMeasure
	err := r.db.First(&unit, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) FindByAbbreviation(abbr string) (*model.UnitOfMeasure, error) {
	var unit model.UnitOfMeasure
	err := r.db.First(&unit, "abbreviation = ?", abbr).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) Update(unit *model.UnitOfMeasure) error {
	return r.db.Save(unit).Error
}

func (r *unitRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.UnitOfMeasure{}, "id = ?", id).Error
}

func (r *unitRepo) HasProducts(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("unit_id = ?", id).Count(&count).Error
	return count > 0, err
}

// SeedDefaults inserts the standard units if they are missing.
func (r *unitRepo) SeedDefaults() error {
	for _, unit := range model.DefaultUnits {
		var existing model.UnitOfMeasure
		err := r.db.First(&existing, "abbreviation = ?", unit.Abbreviation).Error
		if err == gorm.ErrRecordNotFound {
			u := unit
			if err := r.db.Create(&u).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
