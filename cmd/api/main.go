package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kvt-storefront/internal/handler"
	"kvt-storefront/internal/middleware"
	"kvt-storefront/internal/model"
	"kvt-storefront/internal/provider"
	"kvt-storefront/internal/repository"
	"kvt-storefront/internal/service"
	"kvt-storefront/internal/ws"
	"kvt-storefront/pkg/database"

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

	// 2. Setup Database (staff accounts only; pricing state is in-process)
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Privilege{}, &model.Role{})

	// 3. Seed default privileges, roles, and staff accounts
	seedRolesAndStaff(db)

	// 4. Setup WebSocket Hub for the live price feed
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	productRepo := repository.NewMemoryProductRepo()
	overrideStore := repository.NewOverrideStore()
	priceCache := repository.NewPriceCache()
	activityLog := repository.NewActivityLog()

	spotProvider := provider.NewGoldAPIProvider()
	rateProvider := provider.NewExchangeRateProvider()

	priceService := service.NewPriceService(spotProvider, rateProvider, overrideStore, priceCache, activityLog, wsHub)
	priceCSV := service.NewPriceCSVService(priceService, overrideStore, activityLog)
	productService := service.NewProductService(productRepo, activityLog)
	authService := service.NewAuthService(userRepo, activityLog)

	priceHandler := handler.NewPriceHandler(priceService, priceCSV)
	productHandler := handler.NewProductHandler(productService)
	activityHandler := handler.NewActivityHandler(activityLog)
	authHandler := handler.NewAuthHandler(authService)

	// Public price reads are rate limited per client IP.
	publicLimiter := middleware.NewRateLimiter(60, time.Minute)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "KVT Jewellers Storefront v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/reset-password", middleware.RequireAuth(userRepo), authHandler.ResetPassword)

	api.Get("/prices/public", publicLimiter.Handler(), priceHandler.GetPublic)

	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/category/:category", productHandler.GetProductsByCategory)
	api.Get("/products/:id", productHandler.GetProduct)

	// ============ STAFF ROUTES ============
	// All routes below require an authenticated staff session
	staff := api.Group("", middleware.RequireAuth(userRepo))

	// Price management
	staff.Get("/prices", middleware.RequirePrivilege("price:view"), priceHandler.GetAll)
	staff.Post("/prices/update", middleware.RequirePrivilege("price:update"), priceHandler.Update)
	staff.Get("/export/prices", middleware.RequirePrivilege("price:export"), priceHandler.Export)
	staff.Post("/import/prices", middleware.RequirePrivilege("price:import"), priceHandler.Import)

	// Product management
	staff.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	staff.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	staff.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)
	staff.Get("/export/products", middleware.RequirePrivilege("product:export"), productHandler.Export)

	// Activity log
	staff.Get("/activity-logs", middleware.RequirePrivilege("activity:view"), activityHandler.GetLogs)

	// Privileges Route (list all available privileges)
	staff.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route (live price feed)
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

// seedRolesAndStaff creates default privileges, roles, and staff accounts if
// they don't exist
func seedRolesAndStaff(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets ALL privileges
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("ADMIN role assigned all privileges")
	}

	// STAFF gets price and activity privileges only
	staffRole, err := roleRepo.FindByCode(model.RoleStaff)
	if err == nil && len(staffRole.Privileges) == 0 {
		staffPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code == "product:create" || p.Code == "product:update" || p.Code == "product:delete" {
				continue
			}
			staffPrivileges = append(staffPrivileges, p)
		}
		db.Model(&staffRole).Association("Privileges").Replace(staffPrivileges)
		log.Println("STAFF role assigned price privileges")
	}

	// 4. Create default staff accounts
	seedUser := func(email, name, password, roleCode string) {
		if _, err := userRepo.FindByEmail(email); err == nil {
			return
		}
		role, err := roleRepo.FindByCode(roleCode)
		if err != nil {
			log.Printf("Warning: role %s not found: %v", roleCode, err)
			return
		}

		user := &model.User{
			Email:      email,
			FullName:   name,
			RoleID:     &role.ID,
			IsActive:   true,
			Privileges: role.Privileges,
		}
		if err := user.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash password for %s: %v", email, err)
			return
		}
		if err := userRepo.Create(user); err != nil {
			log.Printf("Warning: Failed to create user %s: %v", email, err)
		} else {
			log.Printf("Seeded account %s (%s)", email, roleCode)
		}
	}

	seedUser("admin@kvtjewellers.com", "Admin User", "admin123", model.RoleAdmin)
	seedUser("staff@kvtjewellers.com", "Staff User", "staff123", model.RoleStaff)
}
