package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"pdv-backend/internal/handler"
	"pdv-backend/internal/middleware"
	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/internal/service"
	"pdv-backend/internal/ws"
	"pdv-backend/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
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

	// 3. Seed default units and admin user
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	reportRepo := repository.NewReportRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	notifRepo := repository.NewNotificationRepo(db)
	contactRepo := repository.NewContactRepo(db)

	notifService := service.NewNotificationService(notifRepo, userRepo, wsHub)
	authService := service.NewAuthService(userRepo, auditRepo)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, unitRepo, auditRepo, notifService)
	saleService := service.NewSaleService(saleRepo, productRepo, customerRepo, auditRepo, notifService, db)
	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, auditRepo, notifService, db)
	reportService := service.NewReportService(reportRepo, saleRepo, orderRepo, auditRepo)
	dashboardService := service.NewDashboardService(saleRepo, orderRepo, productRepo)
	customerService := service.NewCustomerService(customerRepo, auditRepo)
	userService := service.NewUserService(userRepo, auditRepo)
	auditService := service.NewAuditService(auditRepo)
	contactService := service.NewContactService(contactRepo)

	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	saleHandler := handler.NewSaleHandler(saleService)
	orderHandler := handler.NewOrderHandler(orderService)
	reportHandler := handler.NewReportHandler(reportService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	customerHandler := handler.NewCustomerHandler(customerService)
	userHandler := handler.NewUserHandler(userService, auditService)
	notifHandler := handler.NewNotificationHandler(notifService)
	contactHandler := handler.NewContactHandler(contactService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "PDV System v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// Uploaded payment proofs
	mediaRoot := os.Getenv("MEDIA_ROOT")
	if mediaRoot == "" {
		mediaRoot = "./media"
	}
	app.Static("/media", mediaRoot)

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Public contact form
	api.Post("/contact", contactHandler.SubmitMessage)

	// ============ PROTECTED ROUTES ============
	// Authentication also turns CUSTOMER accounts away entirely.
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/profile", authHandler.Profile)
	protected.Post("/auth/avatar", userHandler.UploadAvatar)

	// Dashboard (all staff, scoped by role inside the service)
	protected.Get("/dashboard", dashboardHandler.GetDashboard)

	// Catalog reads are open to all staff; writes need manager or admin
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/sellable", catalogHandler.GetSellableProducts)
	protected.Get("/products/search", catalogHandler.SearchProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Get("/products/:id/validate-quantity", catalogHandler.ValidateQuantity)
	protected.Post("/products", middleware.RequireRole(model.ManagerRoles...), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireRole(model.ManagerRoles...), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireRole(model.ManagerRoles...), catalogHandler.DeleteProduct)
	protected.Post("/products/:id/image", middleware.RequireRole(model.ManagerRoles...), catalogHandler.UploadProductImage)

	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", middleware.RequireRole(model.ManagerRoles...), catalogHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequireRole(model.ManagerRoles...), catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequireRole(model.ManagerRoles...), catalogHandler.DeleteCategory)

	protected.Get("/units", catalogHandler.GetUnits)
	protected.Post("/units", middleware.RequireRole(model.ManagerRoles...), catalogHandler.CreateUnit)
	protected.Put("/units/:id", middleware.RequireRole(model.ManagerRoles...), catalogHandler.UpdateUnit)
	protected.Delete("/units/:id", middleware.RequireRole(model.ManagerRoles...), catalogHandler.DeleteUnit)

	// Sales: every staff member can sell; cancellation is managerial
	protected.Post("/sales", saleHandler.ProcessSale)
	protected.Get("/sales", saleHandler.GetSales)
	protected.Get("/sales/:id", saleHandler.GetSale)
	protected.Post("/sales/:id/cancel", middleware.RequireRole(model.ManagerRoles...), saleHandler.CancelSale)

	// Orders: sellers handle today's pickups; history and the money
	// steps belong to managers
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.GetOrders)
	protected.Get("/orders/stats", middleware.RequireRole(model.ManagerRoles...), orderHandler.GetOrderStats)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders/:id/payment-proof", orderHandler.UploadPaymentProof)
	protected.Post("/orders/:id/confirm", middleware.RequireRole(model.ManagerRoles...), orderHandler.ConfirmOrder)
	protected.Patch("/orders/:id/status", middleware.RequireRole(model.ManagerRoles...), orderHandler.UpdateOrderStatus)
	protected.Post("/orders/:id/cancel", middleware.RequireRole(model.ManagerRoles...), orderHandler.CancelOrder)

	// Customers and reports: manager or admin
	customers := protected.Group("/customers", middleware.RequireRole(model.ManagerRoles...))
	customers.Get("/", customerHandler.GetCustomers)
	customers.Get("/:id", customerHandler.GetCustomer)
	customers.Post("/", customerHandler.CreateCustomer)
	customers.Put("/:id", customerHandler.UpdateCustomer)
	customers.Delete("/:id", customerHandler.DeleteCustomer)

	reports := protected.Group("/reports", middleware.RequireRole(model.ManagerRoles...))
	reports.Get("/summary", reportHandler.GetSummary)
	reports.Post("/weekly", reportHandler.GenerateWeekly)
	reports.Post("/weekly/finalize", reportHandler.FinalizeWeekly)
	reports.Get("/weekly", reportHandler.GetWeekly)
	reports.Get("/weekly/history", reportHandler.ListWeekly)

	// User management and audit trail: admin only
	users := protected.Group("/users", middleware.RequireRole(model.RoleAdmin))
	users.Get("/", userHandler.GetUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Post("/", userHandler.CreateUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	protected.Get("/audit", middleware.RequireRole(model.RoleAdmin), userHandler.GetAuditLog)

	// Contact inbox: manager or admin
	protected.Get("/contact", middleware.RequireRole(model.ManagerRoles...), contactHandler.GetMessages)
	protected.Post("/contact/:id/read", middleware.RequireRole(model.ManagerRoles...), contactHandler.MarkRead)

	// Notifications (all staff)
	protected.Get("/notifications", notifHandler.GetNotifications)
	protected.Post("/notifications/:id/read", notifHandler.MarkRead)
	protected.Post("/notifications/read-all", notifHandler.MarkAllRead)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the standard units of measure and the first
// admin account if the database is empty.
func seedDefaults(db *gorm.DB) {
	unitRepo := repository.NewUnitRepo(db)
	if err := unitRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed units: %v", err)
	}

	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@pdv.local"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("Warning: ADMIN_PASSWORD not set, using default credentials")
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrador",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user %s created", email)
}
