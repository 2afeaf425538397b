package service

import (
	"errors"
	"regexp"
	"testing"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, svc OrderService, customer *model.Customer, product *model.Product, qty int64, actor Actor) *model.Order {
	t.Helper()
	order, err := svc.CreateOrder(&CreateOrderRequest{
		CustomerID:    customer.ID,
		PaymentMethod: model.PaymentPix,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(qty)},
		},
	}, actor)
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	seller := seedUser(t, db, "seller@pdv.local", model.RoleSeller)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "10", "2", true)

	order := placeOrder(t, svc, customer, product, 3, actorFor(seller))

	assert.Equal(t, model.OrderPending, order.Status)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), order.OrderCode)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("30.00")))

	// Stock is only reserved at confirmation
	var stored model.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.True(t, stored.StockQuantity.Equal(decimal.NewFromInt(10)))
}

func TestConfirmOrderTakesStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "10", "2", true)

	order := placeOrder(t, svc, customer, product, 4, actorFor(manager))

	confirmed, err := svc.ConfirmOrder(order.ID, actorFor(manager))
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedByID)
	assert.Equal(t, manager.ID, *confirmed.ConfirmedByID)
	assert.NotNil(t, confirmed.ConfirmedAt)

	var stored model.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.True(t, stored.StockQuantity.Equal(decimal.NewFromInt(6)), "stock = %s", stored.StockQuantity)

	// Confirming again is an invalid transition
	_, err = svc.ConfirmOrder(order.ID, actorFor(manager))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestConfirmOrderInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "5", "1", true)

	order := placeOrder(t, svc, customer, product, 5, actorFor(manager))

	// Stock drained by a sale between placement and confirmation
	require.NoError(t, db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("stock_quantity", decimal.NewFromInt(2)).Error)

	_, err := svc.ConfirmOrder(order.ID, actorFor(manager))
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	// Order stays where it was
	stored, findErr := svc.GetOrder(order.ID)
	require.NoError(t, findErr)
	assert.Equal(t, model.OrderPending, stored.Status)
}

func TestAttachPaymentProof(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	seller := seedUser(t, db, "seller@pdv.local", model.RoleSeller)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "10", "2", true)

	order := placeOrder(t, svc, customer, product, 1, actorFor(seller))

	updated, err := svc.AttachPaymentProof(order.ID, "payment_proofs/2026/08/30/x.png", actorFor(seller))
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaymentUploaded, updated.Status)
	assert.NotNil(t, updated.PaymentProofUploadedAt)

	// A second proof on a non-pending order is rejected
	_, err = svc.AttachPaymentProof(order.ID, "payment_proofs/2026/08/30/y.png", actorFor(seller))
	assert.True(t, errors.Is(err, ErrProofAlreadySent))
}

func TestOrderFulfillmentChain(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "10", "2", true)

	order := placeOrder(t, svc, customer, product, 1, actorFor(manager))
	_, err := svc.ConfirmOrder(order.ID, actorFor(manager))
	require.NoError(t, err)

	// Skipping PROCESSING is not allowed
	_, err = svc.AdvanceStatus(order.ID, model.OrderCompleted, actorFor(manager))
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	for _, status := range []string{model.OrderProcessing, model.OrderReady, model.OrderCompleted} {
		updated, err := svc.AdvanceStatus(order.ID, status, actorFor(manager))
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// Terminal orders cannot move
	_, err = svc.AdvanceStatus(order.ID, model.OrderProcessing, actorFor(manager))
	assert.True(t, errors.Is(err, ErrOrderTerminal))
	_, err = svc.CancelOrder(order.ID, "", actorFor(manager))
	assert.True(t, errors.Is(err, ErrOrderTerminal))
}

func TestCancelOrderRestoresStockWhenTaken(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "10", "2", true)

	order := placeOrder(t, svc, customer, product, 4, actorFor(manager))
	_, err := svc.ConfirmOrder(order.ID, actorFor(manager))
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(order.ID, "cliente desistiu", actorFor(manager))
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "cliente desistiu")

	var stored model.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.True(t, stored.StockQuantity.Equal(decimal.NewFromInt(10)), "stock = %s", stored.StockQuantity)
}

func TestCancelPendingOrderLeavesStockAlone(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "10", "2", true)

	order := placeOrder(t, svc, customer, product, 4, actorFor(manager))

	_, err := svc.CancelOrder(order.ID, "", actorFor(manager))
	require.NoError(t, err)

	var stored model.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.True(t, stored.StockQuantity.Equal(decimal.NewFromInt(10)))
}

func TestGetOrdersSellerSeesOnlyToday(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	seller := seedUser(t, db, "seller@pdv.local", model.RoleSeller)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "100", "2", true)

	today := placeOrder(t, svc, customer, product, 1, actorFor(manager))

	// Backdate one order to yesterday
	old := placeOrder(t, svc, customer, product, 1, actorFor(manager))
	require.NoError(t, db.Exec(
		"UPDATE orders SET created_at = datetime('now', '-2 day') WHERE id = ?", old.ID,
	).Error)

	sellerView, err := svc.GetOrders(repository.OrderFilter{}, actorFor(seller))
	require.NoError(t, err)
	require.Len(t, sellerView, 1)
	assert.Equal(t, today.ID, sellerView[0].ID)

	managerView, err := svc.GetOrders(repository.OrderFilter{}, actorFor(manager))
	require.NoError(t, err)
	assert.Len(t, managerView, 2)
}
