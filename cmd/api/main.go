package main

import (
	"fmt"
	"net/http"
	"os"

	"aidat/internal/config"
	"aidat/internal/database"
	"aidat/internal/handlers"
	"aidat/internal/logger"
	"aidat/internal/middleware"
	"aidat/internal/services"
	"aidat/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "aidat/internal/docs" // Import swagger docs
)

// @title           Aidat API
// @version         1.0
// @description     Aidat is a residential site management backend that tracks multi-currency accounts, unit dues, and payments, recomputing every balance from the full transaction history.

// @host      localhost:8080
// @BasePath  /api/v1

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

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	siteService := services.NewSiteService(db)
	accountService := services.NewAccountService(db)
	periodService := services.NewFiscalPeriodService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService)
	ledgerService := services.NewLedgerService(db, siteService)
	unitService := services.NewUnitService(db, siteService)

	// Initialize handlers
	siteHandler := handlers.NewSiteHandler(siteService, auditService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	periodHandler := handlers.NewFiscalPeriodHandler(periodService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	unitHandler := handlers.NewUnitHandler(unitService, auditService)

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

	// Site routes
	sites := v1.Group("/sites")
	sites.POST("", siteHandler.CreateSite)
	sites.GET("", siteHandler.GetSites)
	sites.GET("/:id", siteHandler.GetSiteByID)
	sites.PUT("/:id", siteHandler.UpdateSite)

	// Account routes
	sites.POST("/:id/accounts", accountHandler.CreateAccount)
	sites.GET("/:id/accounts", accountHandler.GetSiteAccounts)
	sites.GET("/:id/accounts/:account_id", accountHandler.GetAccountByID)
	sites.PUT("/:id/accounts/:account_id", accountHandler.UpdateAccount)
	sites.DELETE("/:id/accounts/:account_id", accountHandler.DeactivateAccount)

	// Fiscal period routes
	sites.POST("/:id/periods", periodHandler.CreatePeriod)
	sites.GET("/:id/periods", periodHandler.GetSitePeriods)
	sites.GET("/:id/periods/:period_id", periodHandler.GetPeriodByID)

	// Category routes
	sites.POST("/:id/categories", categoryHandler.CreateCategory)
	sites.GET("/:id/categories", categoryHandler.GetSiteCategories)
	sites.GET("/:id/categories/:category_id", categoryHandler.GetCategoryByID)
	sites.PUT("/:id/categories/:category_id", categoryHandler.UpdateCategory)
	sites.DELETE("/:id/categories/:category_id", categoryHandler.DeleteCategory)

	// Transaction routes
	sites.POST("/:id/transactions", transactionHandler.CreateEntry)
	sites.POST("/:id/transactions/transfer", transactionHandler.CreateTransfer)
	sites.GET("/:id/transactions/:transaction_id", transactionHandler.GetTransactionByID)
	sites.PUT("/:id/transactions/:transaction_id", transactionHandler.UpdateEntry)
	sites.DELETE("/:id/transactions/:transaction_id", transactionHandler.DeleteTransaction)

	// Ledger read models (full-history replay on every request)
	sites.GET("/:id/balances", ledgerHandler.GetBalances)
	sites.GET("/:id/ledger", ledgerHandler.GetLedger)
	sites.GET("/:id/reconciliation", ledgerHandler.GetReconciliation)

	// Unit and debt-ledger routes
	sites.POST("/:id/units", unitHandler.CreateUnit)
	sites.GET("/:id/units", unitHandler.GetSiteUnits)
	sites.GET("/:id/units/:unit_id", unitHandler.GetUnitByID)
	sites.POST("/:id/units/:unit_id/dues", unitHandler.AddDue)
	sites.GET("/:id/units/:unit_id/dues", unitHandler.GetUnitDues)
	sites.POST("/:id/units/:unit_id/payments", unitHandler.RecordPayment)
	sites.GET("/:id/units/:unit_id/statement", unitHandler.GetStatement)

	log.Infof("Starting Aidat backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
