package main

import (
	"log"
	"os"

	"marketplace-backend/internal/database"
	"marketplace-backend/internal/handler"
	"marketplace-backend/internal/jobs"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/notification"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/scheduler"
	"marketplace-backend/internal/service"
	"marketplace-backend/internal/storage"
	"marketplace-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Marketplace Admin API
// @version         1.0
// @description     Admin and merchant console backend for the delivery marketplace: banners, locations, settlements, custom order pricing, and moderation.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Local-disk upload storage
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	store, err := storage.NewLocalStorage(baseURL, uploadsDir)
	if err != nil {
		log.Fatalf("Storage init failed: %v", err)
	}

	emailService := notification.NewEmailService()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	customOrderRepo := repository.NewCustomOrderRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditService := service.NewAuditService(auditRepo)
	userService := service.NewUserService(userRepo)
	bannerService := service.NewBannerService(bannerRepo, txManager, auditService)
	locationService := service.NewLocationService(locationRepo, providerRepo, orderRepo, auditService)
	settlementService := service.NewSettlementService(settlementRepo, orderRepo, providerRepo, txManager, auditService)
	customOrderService := service.NewCustomOrderService(customOrderRepo, orderRepo, txManager, wsHub)
	adminService := service.NewAdminService(providerRepo, profileRepo, orderRepo, refundRepo, txManager, auditService, emailService)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	bannerHandler := handler.NewBannerHandler(bannerService)
	locationHandler := handler.NewLocationHandler(locationService)
	settlementHandler := handler.NewSettlementHandler(settlementService)
	customOrderHandler := handler.NewCustomOrderHandler(customOrderService)
	adminHandler := handler.NewAdminHandler(adminService)
	auditHandler := handler.NewAuditHandler(auditService)
	uploadHandler := handler.NewUploadHandler(store)

	// Scheduled jobs
	jobRunner := jobs.NewJobRunner(settlementService, customOrderRepo, userRepo)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	bannerHandler.RegisterRoutes(router.Group(""))
	locationHandler.RegisterRoutes(router.Group(""))
	settlementHandler.RegisterRoutes(router.Group(""))
	customOrderHandler.RegisterRoutes(router.Group(""))
	adminHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	uploadHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
