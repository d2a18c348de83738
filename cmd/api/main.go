package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"google.golang.org/genai"

	"trove/internal/assist"
	"trove/internal/config"
	"trove/internal/database"
	"trove/internal/handlers"
	"trove/internal/ingest"
	"trove/internal/logger"
	"trove/internal/middleware"
	"trove/internal/services"
	"trove/internal/validator"
	"trove/internal/verify"

	_ "trove/internal/docs" // Import swagger docs
)

// @title           Trove API
// @version         1.0
// @description     Trove is a personal finance dashboard that ingests bank transactions, tracks budget goals, and curates credit card deals.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validators
	validator.Register()

	// Card verification client
	verifier, err := verify.NewVisaClient(appConfig.Visa)
	if err != nil {
		return fmt.Errorf("failed to create Visa client: %w", err)
	}

	// Gemini client; the assistant degrades gracefully without a key
	var genaiClient *genai.Client
	if appConfig.GeminiAPIKey != "" {
		genaiClient, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  appConfig.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
	} else {
		log.Warn("GEMINI_API_KEY not set, assistant endpoints will be unavailable")
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	cardService := services.NewCardService(db, verifier)
	goalService := services.NewGoalService(db)
	alertService := services.NewAlertService(goalService)
	transactionService := services.NewTransactionService(db)
	subscriptionService := services.NewSubscriptionService(db)
	ingestor := ingest.NewIngestor(db)
	assistant := assist.New(genaiClient, appConfig.GeminiModel, transactionService, goalService, cardService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	cardHandler := handlers.NewCardHandler(cardService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, alertService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(transactionService, ingestor, auditService, appConfig)
	chatHandler := handlers.NewChatHandler(assistant, auditService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Card and deal routes
	cards := protected.Group("/cards")
	cards.POST("", cardHandler.AddCard)
	cards.GET("", cardHandler.GetCards)
	cards.GET("/:id", cardHandler.GetCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	protected.GET("/wallet", cardHandler.GetWallet)
	protected.GET("/deals", cardHandler.GetDeals)

	// Goal and alert routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	protected.GET("/alerts", goalHandler.GetAlerts)

	// Dashboard, transactions, and sync routes
	protected.POST("/sync", dashboardHandler.Sync)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)
	protected.GET("/transactions", dashboardHandler.GetTransactions)
	protected.GET("/wrapped", dashboardHandler.GetWrapped)

	// Subscriptions
	protected.GET("/subscriptions", subscriptionHandler.GetSubscriptions)

	// Assistant
	assistantGroup := protected.Group("/assistant")
	assistantGroup.POST("/chat", chatHandler.Chat)
	assistantGroup.GET("/analysis", chatHandler.AnalyzeSpending)

	log.Infof("Starting Trove backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
