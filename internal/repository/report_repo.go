package repository

import (
	"time"

	"pdv-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	FindByYearWeek(year, week int) (*model.WeeklySalesReport, error)
	FindInRange(start, end time.Time) ([]model.WeeklySalesReport, error)
	Save(report *model.WeeklySalesReport) error
	ReplacePerformances(reportID uuid.UUID, performances []model.SellerPerformance) error
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) FindByYearWeek(year, week int) (*model.WeeklySalesReport, error) {
	var report model.WeeklySalesReport
	err := r.db.Preload("SellerPerformances").Preload("SellerPerformances.Seller").
		First(&report, "year = ? AND week_number = ?", year, week).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) FindInRange(start, end time.Time) ([]model.WeeklySalesReport, error) {
	var reports []model.WeeklySalesReport
	err := r.db.Preload("SellerPerformances").Preload("SellerPerformances.Seller").
		Where("start_date >= ? AND end_date <= ?", start, end).
		Order("year DESC, week_number DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepo) Save(report *model.WeeklySalesReport) error {
	return r.db.Save(report).Error
}

// ReplacePerformances swaps a report's per-seller rows for a freshly
// computed set. Regeneration is a full rewrite, not a merge.
func (r *reportRepo) ReplacePerformances(reportID uuid.UUID, performances []model.SellerPerformance) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("weekly_report_id = ?", reportID).
			Delete(&model.SellerPerformance{}).Error; err != nil {
			return err
		}
		for i := range performances {
			performances[i].WeeklyReportID = reportID
			if err := tx.Create(&performances[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
