package main

import (
	"context"
	"log"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"stroymart/internal/caching"
	"stroymart/internal/handlers"
	"stroymart/internal/jobs/background"
	"stroymart/internal/middleware"
	"stroymart/internal/repositories"
	"stroymart/internal/services"
	"stroymart/pkg/database"
	"stroymart/pkg/logger"
)

const version = "1.0.0"

func main() {
	zlog, err := logger.New(envOr("LOG_LEVEL", "info"), os.Getenv("APP_ENV") != "production")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		zlog.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Redis configuration
	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// MinIO configuration
	storageSvc, err := services.NewStorageService(
		envOr("MINIO_ENDPOINT", "localhost:9000"),
		envOr("MINIO_ACCESS_KEY", "minioadmin"),
		envOr("MINIO_SECRET_KEY", "minioadmin"),
		os.Getenv("MINIO_USE_SSL") == "true",
	)
	if err != nil {
		zlog.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// SMS gateway
	smsSvc, err := services.NewSMSService(
		envOr("SMS_GATEWAY_URL", "http://localhost:9090/send"),
		os.Getenv("SMS_GATEWAY_TOKEN"),
	)
	if err != nil {
		zlog.Fatal("Failed to initialize SMS service", zap.Error(err))
	}

	// Repositories
	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	cartRepo := repositories.NewCartRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	debtorRepo := repositories.NewDebtorRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Services
	catalogSvc := services.NewCatalogService(categoryRepo, productRepo, cacheSvc, zlog)
	deliverySvc := services.NewDeliveryService(settingsRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, deliverySvc, zlog)
	debtorSvc := services.NewDebtorService(debtorRepo, smsSvc, zlog)

	// Handlers
	categoryHandlers := handlers.NewCategoryHandlers(catalogSvc, storageSvc, zlog)
	productHandlers := handlers.NewProductHandlers(productRepo, storageSvc, zlog)
	cartHandlers := handlers.NewCartHandlers(cartRepo, productRepo, deliverySvc, orderSvc, zlog)
	debtorHandlers := handlers.NewDebtorHandlers(debtorSvc, zlog)
	userHandlers := handlers.NewUserHandlers(userRepo, zlog)

	// JWT configuration: HS256 shared secret, or the auth provider's JWKS
	// endpoint when AUTH_JWKS_URL is set.
	jwtConfig, err := middleware.NewJWTConfig(envOr("JWT_SECRET", "dev-secret"), os.Getenv("AUTH_JWKS_URL"))
	if err != nil {
		zlog.Fatal("Failed to configure JWT middleware", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", handlers.ReadinessCheck(pool))

	v1 := e.Group("/v1")

	// Public storefront routes
	v1.GET("/categories/tree", categoryHandlers.GetCategoryTree)
	v1.GET("/categories/:id/product-count", categoryHandlers.GetProductCount)
	v1.GET("/products", productHandlers.ListProducts)
	v1.GET("/products/:id", productHandlers.GetProduct)

	// Customer routes (require JWT)
	customer := v1.Group("")
	customer.Use(echojwt.WithConfig(jwtConfig))
	customer.GET("/me", userHandlers.GetProfile)
	customer.GET("/cart", cartHandlers.GetCart)
	customer.POST("/cart/items", cartHandlers.AddItem)
	customer.DELETE("/cart/items/:id", cartHandlers.RemoveItem)
	customer.POST("/cart/checkout", cartHandlers.Checkout)

	// Admin routes (require JWT and an admin/manager role)
	admin := v1.Group("/admin")
	admin.Use(echojwt.WithConfig(jwtConfig))
	admin.Use(middleware.RequireRole("admin", "manager"))
	admin.POST("/categories/path", categoryHandlers.CreateCategoryPath)
	admin.POST("/categories/:id/icon", categoryHandlers.UploadCategoryIcon)
	admin.DELETE("/categories/:id", categoryHandlers.DeactivateCategory)
	admin.POST("/products", productHandlers.CreateProduct)
	admin.POST("/products/:id/image", productHandlers.UploadProductImage)
	admin.PUT("/users/:id/roles", userHandlers.UpdateRoles)
	admin.GET("/debtors", debtorHandlers.ListDebtors)
	admin.POST("/debtors/:id/remind", debtorHandlers.RemindDebtor)
	admin.POST("/debtors/:id/settle", debtorHandlers.SettleDebtor)

	// Background jobs
	scheduler, err := background.NewJobScheduler(debtorSvc, catalogSvc, zlog)
	if err != nil {
		zlog.Fatal("Failed to create job scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	port := envOr("PORT", "8080")
	zlog.Info("stroymart server starting", zap.String("version", version), zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
