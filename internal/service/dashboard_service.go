package service

import (
	"time"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardData is the landing screen payload. Sellers get their own
// numbers; managers and admins see the whole store.
type DashboardData struct {
	TodaySales   int             `json:"today_sales"`
	TodayRevenue decimal.Decimal `json:"today_revenue"`

	PendingOrders int64 `json:"pending_orders"`
	LowStockCount int64 `json:"low_stock_count"`
	OutOfStock    int64 `json:"out_of_stock_count"`

	SalesRemaining *int `json:"sales_remaining,omitempty"`

	RecentSales   []model.Sale  `json:"recent_sales"`
	RecentPending []model.Order `json:"recent_pending_orders"`
}

type DashboardService interface {
	GetDashboard(actor Actor) (*DashboardData, error)
}

type dashboardService struct {
	saleRepo    repository.SaleRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewDashboardService(
	saleRepo repository.SaleRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) DashboardService {
	return &dashboardService{
		saleRepo:    saleRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *dashboardService) GetDashboard(actor Actor) (*DashboardData, error) {
	today := time.Now()
	data := &DashboardData{
		TodayRevenue: decimal.Zero,
	}

	filter := repository.SaleFilter{Status: model.SaleCompleted, Date: &today}
	if actor.Role == model.RoleSeller {
		filter.SellerID = &actor.ID
	}

	sales, err := s.saleRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}
	data.TodaySales = len(sales)
	for _, sale := range sales {
		data.TodayRevenue = data.TodayRevenue.Add(sale.TotalAmount)
	}

	// The daily cap is per seller, so the remaining figure comes from
	// the actor's own count even when TodaySales is store-wide.
	if !actor.IsAdmin() {
		own, err := s.saleRepo.CountSellerCompletedOn(actor.ID, today)
		if err != nil {
			return nil, err
		}
		remaining := maxDailySales - int(own)
		if remaining < 0 {
			remaining = 0
		}
		data.SalesRemaining = &remaining
	}

	if data.PendingOrders, err = s.orderRepo.CountPendingOn(today); err != nil {
		return nil, err
	}
	if data.LowStockCount, err = s.productRepo.CountByStatus(model.StockLow); err != nil {
		return nil, err
	}
	if data.OutOfStock, err = s.productRepo.CountByStatus(model.StockOut); err != nil {
		return nil, err
	}

	if data.RecentSales, err = s.saleRepo.FindRecent(filter, 10); err != nil {
		return nil, err
	}
	if data.RecentPending, err = s.orderRepo.FindRecentPending(5, &today); err != nil {
		return nil, err
	}

	return data, nil
}
