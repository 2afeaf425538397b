package service

import (
	"errors"
	"testing"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCustomerService(db *gorm.DB) CustomerService {
	return NewCustomerService(repository.NewCustomerRepo(db), repository.NewAuditRepo(db))
}

func TestCreateCustomerNormalizesCPF(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)

	customer, err := svc.CreateCustomer(&CustomerRequest{
		FullName: "Maria Silva",
		Phone:    "84123456",
		CPF:      "529.982.247-25",
	}, actorFor(admin))
	require.NoError(t, err)
	require.NotNil(t, customer.CPF)
	assert.Equal(t, "52998224725", *customer.CPF)
}

func TestCreateCustomerRejectsBadCPF(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)

	_, err := svc.CreateCustomer(&CustomerRequest{
		FullName: "Maria Silva",
		Phone:    "84123456",
		CPF:      "111.111.111-11",
	}, actorFor(admin))
	assert.True(t, errors.Is(err, ErrInvalidCPF))

	// Empty CPF is fine
	customer, err := svc.CreateCustomer(&CustomerRequest{
		FullName: "Maria Silva",
		Phone:    "84123456",
	}, actorFor(admin))
	require.NoError(t, err)
	assert.Nil(t, customer.CPF)
}

func TestCreateCustomerDuplicateCPF(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)

	_, err := svc.CreateCustomer(&CustomerRequest{
		FullName: "Maria Silva",
		Phone:    "84123456",
		CPF:      "52998224725",
	}, actorFor(admin))
	require.NoError(t, err)

	_, err = svc.CreateCustomer(&CustomerRequest{
		FullName: "Outra Maria",
		Phone:    "84654321",
		CPF:      "529.982.247-25",
	}, actorFor(admin))
	assert.True(t, errors.Is(err, ErrCPFTaken))
}

func TestDeleteCustomerWithPurchases(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)
	orderSvc := newOrderService(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	customer := seedCustomer(t, db, "Maria")
	product := seedProduct(t, db, "P001", "10", "2", true)

	order := placeOrder(t, orderSvc, customer, product, 1, actorFor(manager))
	_, err := orderSvc.ConfirmOrder(order.ID, actorFor(manager))
	require.NoError(t, err)
	for _, status := range []string{model.OrderProcessing, model.OrderReady, model.OrderCompleted} {
		_, err := orderSvc.AdvanceStatus(order.ID, status, actorFor(manager))
		require.NoError(t, err)
	}

	err = svc.DeleteCustomer(customer.ID, actorFor(manager))
	assert.True(t, errors.Is(err, ErrHasPurchase))

	// Purchase total shows up on the detail view
	detail, err := svc.GetCustomer(customer.ID)
	require.NoError(t, err)
	assert.True(t, detail.TotalPurchases.Sign() > 0)
}
