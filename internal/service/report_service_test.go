package service

import (
	"errors"
	"testing"
	"time"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReportService(db *gorm.DB) ReportService {
	return NewReportService(
		repository.NewReportRepo(db),
		repository.NewSaleRepo(db),
		repository.NewOrderRepo(db),
		repository.NewAuditRepo(db),
	)
}

// ringUp runs a completed sale of qty units at the seeded 10.00 price.
func ringUp(t *testing.T, db *gorm.DB, seller *model.User, product *model.Product, qty int64) {
	t.Helper()
	svc := newSaleService(db)
	_, err := svc.ProcessSale(&ProcessSaleRequest{
		PaymentMethod: model.PaymentCash,
		AmountPaid:    decimal.NewFromInt(qty * 10),
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(qty)},
		},
	}, actorFor(seller))
	require.NoError(t, err)
}

func TestSummaryAggregation(t *testing.T) {
	db := setupTestDB(t)
	svc := newReportService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)
	sellerA := seedUser(t, db, "a@pdv.local", model.RoleSeller)
	product := seedProduct(t, db, "P001", "100", "2", true)

	// 3 units by the admin, 2 by seller A: 50.00 revenue, 30.00 cost
	ringUp(t, db, admin, product, 3)
	ringUp(t, db, sellerA, product, 2)

	start := time.Now().AddDate(0, 0, -1)
	end := time.Now().AddDate(0, 0, 1)
	summary, err := svc.Summary(start, end)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalSales)
	assert.Equal(t, 0, summary.TotalOrders)
	assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("50.00")), "revenue = %s", summary.TotalRevenue)
	assert.True(t, summary.TotalCost.Equal(decimal.RequireFromString("30.00")), "cost = %s", summary.TotalCost)
	assert.True(t, summary.TotalProfit.Equal(decimal.RequireFromString("20.00")), "profit = %s", summary.TotalProfit)
	assert.True(t, summary.AvgTicket.Equal(decimal.RequireFromString("25.00")), "avg = %s", summary.AvgTicket)

	require.Len(t, summary.TopSellers, 2)
	assert.Equal(t, admin.ID, summary.TopSellers[0].SellerID)
	assert.True(t, summary.TopSellers[0].TotalRevenue.Equal(decimal.RequireFromString("30.00")))

	require.Len(t, summary.TopProducts, 1)
	assert.True(t, summary.TopProducts[0].QuantitySold.Equal(decimal.NewFromInt(5)))
}

func TestSummaryCountsConfirmedOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := newReportService(db)
	orderSvc := newOrderService(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "100", "2", true)

	// A confirmed order counts as soon as its stock and payment are
	// committed, before fulfillment finishes.
	confirmed := placeOrder(t, orderSvc, customer, product, 2, actorFor(manager))
	_, err := orderSvc.ConfirmOrder(confirmed.ID, actorFor(manager))
	require.NoError(t, err)

	// A still-pending order does not.
	placeOrder(t, orderSvc, customer, product, 3, actorFor(manager))

	summary, err := svc.Summary(time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalOrders)
	assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("20.00")), "revenue = %s", summary.TotalRevenue)
}

func TestGenerateWeeklyIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newReportService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)
	product := seedProduct(t, db, "P001", "100", "2", true)

	ringUp(t, db, admin, product, 2)

	year, week := time.Now().ISOWeek()

	first, err := svc.GenerateWeekly(year, week, actorFor(admin))
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalSales)
	assert.True(t, first.TotalRevenue.Equal(decimal.RequireFromString("20.00")))
	require.Len(t, first.SellerPerformances, 1)
	assert.Equal(t, admin.ID, first.SellerPerformances[0].SellerID)

	// Another sale, then regenerate: same row, fresh numbers
	ringUp(t, db, admin, product, 1)

	second, err := svc.GenerateWeekly(year, week, actorFor(admin))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.TotalSales)
	assert.True(t, second.TotalRevenue.Equal(decimal.RequireFromString("30.00")))
	require.Len(t, second.SellerPerformances, 1)
	assert.True(t, second.SellerPerformances[0].AverageSaleValue.Equal(decimal.RequireFromString("15.00")))

	var reportCount int64
	db.Model(&model.WeeklySalesReport{}).Count(&reportCount)
	assert.Equal(t, int64(1), reportCount)
}

func TestFinalizeWeeklyBlocksRegeneration(t *testing.T) {
	db := setupTestDB(t)
	svc := newReportService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)
	product := seedProduct(t, db, "P001", "100", "2", true)

	ringUp(t, db, admin, product, 2)

	year, week := time.Now().ISOWeek()
	_, err := svc.GenerateWeekly(year, week, actorFor(admin))
	require.NoError(t, err)

	report, err := svc.FinalizeWeekly(year, week, actorFor(admin))
	require.NoError(t, err)
	assert.True(t, report.IsFinalized)

	// Frozen numbers survive regeneration attempts
	_, err = svc.GenerateWeekly(year, week, actorFor(admin))
	assert.True(t, errors.Is(err, ErrReportFinalized))

	stored, err := svc.GetWeekly(year, week)
	require.NoError(t, err)
	assert.True(t, stored.IsFinalized)
	assert.Equal(t, 1, stored.TotalSales)

	// Finalizing a week that was never generated fails
	_, err = svc.FinalizeWeekly(year+1, week, actorFor(admin))
	assert.True(t, errors.Is(err, ErrReportNotFound))
}

func TestWeekBounds(t *testing.T) {
	start, end := weekBounds(2026, 1)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 7, int(end.Sub(start).Hours()/24))

	year, week := start.AddDate(0, 0, 3).ISOWeek()
	assert.Equal(t, 2026, year)
	assert.Equal(t, 1, week)
}
