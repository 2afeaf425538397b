package service

import (
	"fmt"
	"testing"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.UnitOfMeasure{},
		&model.Product{},
		&model.Customer{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.WeeklySalesReport{},
		&model.SellerPerformance{},
		&model.AuditLog{},
		&model.Notification{},
		&model.ContactMessage{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		FullName: "Test " + role,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, code, stock, minimum string, allowsBulk bool) *model.Product {
	t.Helper()

	category := &model.Category{Name: "Cat " + code, IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	unit := &model.UnitOfMeasure{
		Name:           "Unit " + code,
		Abbreviation:   "u" + code,
		UnitType:       model.UnitTypeUnit,
		BaseConversion: decimal.NewFromInt(1),
		AllowsFraction: allowsBulk,
		IsActive:       true,
	}
	if err := db.Create(unit).Error; err != nil {
		t.Fatalf("seed unit: %v", err)
	}

	product := &model.Product{
		Code:           code,
		Name:           "Product " + code,
		CategoryID:     category.ID,
		UnitID:         unit.ID,
		UnitPrice:      decimal.RequireFromString("10.00"),
		CostPrice:      decimal.RequireFromString("6.00"),
		StockQuantity:  decimal.RequireFromString(stock),
		MinimumStock:   decimal.RequireFromString(minimum),
		AllowsBulkSale: allowsBulk,
		IsActive:       true,
	}
	product.RefreshStockStatus()
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *model.Customer {
	t.Helper()
	customer := &model.Customer{
		FullName: name,
		Phone:    "84000000",
		IsActive: true,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func actorFor(user *model.User) Actor {
	return Actor{
		ID:    user.ID,
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
}

func testNotifier(db *gorm.DB) NotificationService {
	return NewNotificationService(repository.NewNotificationRepo(db), repository.NewUserRepo(db), nil)
}

func newSaleService(db *gorm.DB) SaleService {
	return NewSaleService(
		repository.NewSaleRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewAuditRepo(db),
		testNotifier(db),
		db,
	)
}

func newOrderService(db *gorm.DB) OrderService {
	return NewOrderService(
		repository.NewOrderRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewAuditRepo(db),
		testNotifier(db),
		db,
	)
}
