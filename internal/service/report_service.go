package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrReportFinalized = errors.New("report is finalized and cannot be regenerated")
)

// SellerRanking is one row of the top-sellers table in a period
// summary.
type SellerRanking struct {
	SellerID     uuid.UUID       `json:"seller_id"`
	SellerName   string          `json:"seller_name"`
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// ProductRanking is one row of the top-products table in a period
// summary.
type ProductRanking struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// PeriodSummary aggregates completed sales and orders over an
// arbitrary date range.
type PeriodSummary struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	TotalSales  int `json:"total_sales"`
	TotalOrders int `json:"total_orders"`

	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	AvgTicket    decimal.Decimal `json:"avg_ticket"`

	TopSellers  []SellerRanking  `json:"top_sellers"`
	TopProducts []ProductRanking `json:"top_products"`
}

type ReportService interface {
	Summary(start, end time.Time) (*PeriodSummary, error)
	GenerateWeekly(year, week int, actor Actor) (*model.WeeklySalesReport, error)
	FinalizeWeekly(year, week int, actor Actor) (*model.WeeklySalesReport, error)
	GetWeekly(year, week int) (*model.WeeklySalesReport, error)
	ListWeekly(start, end time.Time) ([]model.WeeklySalesReport, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	saleRepo   repository.SaleRepository
	orderRepo  repository.OrderRepository
	auditRepo  repository.AuditRepository
}

func NewReportService(
	reportRepo repository.ReportRepository,
	saleRepo repository.SaleRepository,
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		saleRepo:   saleRepo,
		orderRepo:  orderRepo,
		auditRepo:  auditRepo,
	}
}

// Summary walks every completed sale and confirmed order in the range
// once and accumulates revenue, cost, profit, average ticket and the
// seller and product rankings.
func (s *reportService) Summary(start, end time.Time) (*PeriodSummary, error) {
	sales, err := s.saleRepo.FindCompletedBetween(start, end)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindConfirmedBetween(start, end)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{
		StartDate:    start,
		EndDate:      end,
		TotalSales:   len(sales),
		TotalOrders:  len(orders),
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
		TotalProfit:  decimal.Zero,
		AvgTicket:    decimal.Zero,
	}

	sellerTotals := map[uuid.UUID]*SellerRanking{}
	productTotals := map[uuid.UUID]*ProductRanking{}

	accumulateItem := func(productID uuid.UUID, product *model.Product, qty, lineTotal decimal.Decimal) {
		summary.TotalRevenue = summary.TotalRevenue.Add(lineTotal)
		if product != nil {
			summary.TotalCost = summary.TotalCost.Add(product.CostPrice.Mul(qty))
		}

		row, ok := productTotals[productID]
		if !ok {
			row = &ProductRanking{ProductID: productID}
			if product != nil {
				row.ProductName = product.Name
			}
			productTotals[productID] = row
		}
		row.QuantitySold = row.QuantitySold.Add(qty)
		row.TotalRevenue = row.TotalRevenue.Add(lineTotal)
	}

	for i := range sales {
		sale := &sales[i]

		row, ok := sellerTotals[sale.SellerID]
		if !ok {
			row = &SellerRanking{SellerID: sale.SellerID}
			if sale.Seller != nil {
				row.SellerName = sale.Seller.FullName
			}
			sellerTotals[sale.SellerID] = row
		}
		row.TotalSales++
		row.TotalRevenue = row.TotalRevenue.Add(sale.TotalAmount)

		for _, item := range sale.Items {
			accumulateItem(item.ProductID, item.Product, item.Quantity, item.TotalPrice)
		}
		// Discounts live on the sale, not its lines
		summary.TotalRevenue = summary.TotalRevenue.Sub(sale.Discount)
	}

	for i := range orders {
		order := &orders[i]
		for _, item := range order.Items {
			accumulateItem(item.ProductID, item.Product, item.Quantity, item.TotalPrice)
		}
		summary.TotalRevenue = summary.TotalRevenue.Sub(order.Discount)
	}

	summary.TotalProfit = summary.TotalRevenue.Sub(summary.TotalCost)

	if total := summary.TotalSales + summary.TotalOrders; total > 0 {
		summary.AvgTicket = summary.TotalRevenue.DivRound(decimal.NewFromInt(int64(total)), 2)
	}

	for _, row := range sellerTotals {
		summary.TopSellers = append(summary.TopSellers, *row)
	}
	sort.Slice(summary.TopSellers, func(i, j int) bool {
		return summary.TopSellers[i].TotalRevenue.GreaterThan(summary.TopSellers[j].TotalRevenue)
	})
	if len(summary.TopSellers) > 5 {
		summary.TopSellers = summary.TopSellers[:5]
	}

	for _, row := range productTotals {
		summary.TopProducts = append(summary.TopProducts, *row)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		return summary.TopProducts[i].QuantitySold.GreaterThan(summary.TopProducts[j].QuantitySold)
	})
	if len(summary.TopProducts) > 10 {
		summary.TopProducts = summary.TopProducts[:10]
	}

	return summary, nil
}

// weekBounds returns the Monday 00:00 and the following Monday 00:00
// of an ISO week.
func weekBounds(year, week int) (time.Time, time.Time) {
	// Jan 4 is always in ISO week 1
	ref := time.Date(year, time.January, 4, 0, 0, 0, 0, time.Local)
	offset := int(ref.Weekday())
	if offset == 0 {
		offset = 7
	}
	monday := ref.AddDate(0, 0, 1-offset).AddDate(0, 0, (week-1)*7)
	return monday, monday.AddDate(0, 0, 7)
}

// GenerateWeekly computes (or recomputes) the report for one ISO week.
// Running it twice for the same week overwrites the previous numbers,
// unless the report has been finalized.
func (s *reportService) GenerateWeekly(year, week int, actor Actor) (*model.WeeklySalesReport, error) {
	start, end := weekBounds(year, week)

	summary, err := s.Summary(start, end)
	if err != nil {
		return nil, err
	}

	report, err := s.reportRepo.FindByYearWeek(year, week)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		report = &model.WeeklySalesReport{Year: year, WeekNumber: week}
	}
	if report.IsFinalized {
		return nil, ErrReportFinalized
	}

	report.StartDate = start
	report.EndDate = end.AddDate(0, 0, -1)
	report.TotalSales = summary.TotalSales
	report.TotalOrders = summary.TotalOrders
	report.TotalRevenue = summary.TotalRevenue
	report.TotalCost = summary.TotalCost
	report.TotalProfit = summary.TotalProfit
	report.UpdatedBy = actor.ID.String()
	if report.CreatedBy == "" {
		report.CreatedBy = actor.ID.String()
	}

	if err := s.reportRepo.Save(report); err != nil {
		return nil, err
	}

	performances, err := s.sellerPerformances(start, end)
	if err != nil {
		return nil, err
	}
	if err := s.reportRepo.ReplacePerformances(report.ID, performances); err != nil {
		return nil, err
	}

	id := report.ID
	recordAudit(s.auditRepo, actor, model.AuditCreate, "WeeklySalesReport", &id,
		fmt.Sprintf("Weekly report generated for %d-W%02d", year, week),
		map[string]interface{}{
			"year": year, "week": week,
			"total_revenue": report.TotalRevenue,
		})

	return s.reportRepo.FindByYearWeek(year, week)
}

// FinalizeWeekly freezes a generated report so later GenerateWeekly
// calls cannot rewrite its numbers.
func (s *reportService) FinalizeWeekly(year, week int, actor Actor) (*model.WeeklySalesReport, error) {
	report, err := s.reportRepo.FindByYearWeek(year, week)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if report.IsFinalized {
		return report, nil
	}

	report.IsFinalized = true
	report.UpdatedBy = actor.ID.String()
	if err := s.reportRepo.Save(report); err != nil {
		return nil, err
	}

	id := report.ID
	recordAudit(s.auditRepo, actor, model.AuditUpdate, "WeeklySalesReport", &id,
		fmt.Sprintf("Weekly report %d-W%02d finalized", year, week), nil)

	return report, nil
}

// sellerPerformances builds the per-seller breakdown for a week.
func (s *reportService) sellerPerformances(start, end time.Time) ([]model.SellerPerformance, error) {
	sales, err := s.saleRepo.FindCompletedBetween(start, end)
	if err != nil {
		return nil, err
	}

	bySeller := map[uuid.UUID]*model.SellerPerformance{}
	for i := range sales {
		sale := &sales[i]
		perf, ok := bySeller[sale.SellerID]
		if !ok {
			perf = &model.SellerPerformance{
				SellerID:         sale.SellerID,
				TotalRevenue:     decimal.Zero,
				TotalItemsSold:   decimal.Zero,
				AverageSaleValue: decimal.Zero,
			}
			bySeller[sale.SellerID] = perf
		}
		perf.TotalSales++
		perf.TotalRevenue = perf.TotalRevenue.Add(sale.TotalAmount)
		for _, item := range sale.Items {
			perf.TotalItemsSold = perf.TotalItemsSold.Add(item.Quantity)
		}
	}

	performances := make([]model.SellerPerformance, 0, len(bySeller))
	for _, perf := range bySeller {
		if perf.TotalSales > 0 {
			perf.AverageSaleValue = perf.TotalRevenue.DivRound(decimal.NewFromInt(int64(perf.TotalSales)), 2)
		}
		performances = append(performances, *perf)
	}

	sort.Slice(performances, func(i, j int) bool {
		return performances[i].TotalRevenue.GreaterThan(performances[j].TotalRevenue)
	})
	return performances, nil
}

func (s *reportService) GetWeekly(year, week int) (*model.WeeklySalesReport, error) {
	report, err := s.reportRepo.FindByYearWeek(year, week)
	if err != nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

func (s *reportService) ListWeekly(start, end time.Time) ([]model.WeeklySalesReport, error) {
	return s.reportRepo.FindInRange(start, end)
}
