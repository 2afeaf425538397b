package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WeeklySalesReport aggregates completed sales and confirmed orders by
// ISO week. Regenerating a week recomputes the totals in place until
// the report is finalized, which freezes it.
type WeeklySalesReport struct {
	BaseModel
	Year       int       `gorm:"not null;uniqueIndex:idx_report_week" json:"year"`
	WeekNumber int       `gorm:"not null;uniqueIndex:idx_report_week" json:"week_number"`
	StartDate  time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null" json:"end_date"`

	TotalSales   int             `gorm:"default:0" json:"total_sales"`
	TotalOrders  int             `gorm:"default:0" json:"total_orders"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_revenue"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_cost"`
	TotalProfit  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_profit"`

	IsFinalized bool `gorm:"default:false" json:"is_finalized"`

	SellerPerformances []SellerPerformance `gorm:"foreignKey:WeeklyReportID" json:"seller_performances,omitempty"`
}

// SellerPerformance tracks one seller's numbers inside a weekly report.
type SellerPerformance struct {
	BaseModel
	WeeklyReportID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_perf_week_seller" json:"weekly_report_id"`

	SellerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_perf_week_seller" json:"seller_id"`
	Seller   *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`

	TotalSales       int             `gorm:"default:0" json:"total_sales"`
	TotalRevenue     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_revenue"`
	TotalItemsSold   decimal.Decimal `gorm:"type:decimal(12,3);default:0" json:"total_items_sold"`
	AverageSaleValue decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"average_sale_value"`
}
