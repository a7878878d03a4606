package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/elir-elirlab/osaifill-release/internal/config"
	"github.com/elir-elirlab/osaifill-release/internal/database"
	"github.com/elir-elirlab/osaifill-release/internal/handlers"
	"github.com/elir-elirlab/osaifill-release/internal/logger"
	"github.com/elir-elirlab/osaifill-release/internal/middleware"
	"github.com/elir-elirlab/osaifill-release/internal/services"
	"github.com/elir-elirlab/osaifill-release/internal/validator"

	_ "github.com/elir-elirlab/osaifill-release/internal/docs" // Import swagger docs
)

// @title           Osaifill API
// @version         1.0
// @description     Osaifill is a shared budget tracker for households and small groups: datasets per period, budget envelopes, planned purchases with cost splits, and a derived dashboard.

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

	// Create database manager and run migrations
	dbManager, err := database.NewManager(&database.Config{
		Host:     appConfig.DBHost,
		Port:     appConfig.DBPort,
		User:     appConfig.DBUser,
		Password: appConfig.DBPassword,
		DBName:   appConfig.DBName,
		SSLMode:  appConfig.DBSSLMode,
	})
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	datasetService := services.NewDatasetService(db)
	memberService := services.NewMemberService(db)
	budgetService := services.NewBudgetService(db)
	purchaseService := services.NewPurchaseService(db, appConfig.DefaultUnit)
	expenseService := services.NewExpenseService(db, appConfig.DefaultUnit)
	dashboardService := services.NewDashboardService(db)
	importService := services.NewImportExportService(db, appConfig.DefaultUnit)

	// Initialize handlers
	datasetHandler := handlers.NewDatasetHandler(datasetService)
	memberHandler := handlers.NewMemberHandler(memberService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	importHandler := handlers.NewImportExportHandler(importService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS(appConfig.CORSOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Dataset routes
	datasets := v1.Group("/datasets")
	datasets.GET("", datasetHandler.ListDatasets)
	datasets.POST("", datasetHandler.CreateDataset)
	datasets.PUT("/:id", datasetHandler.UpdateDataset)
	datasets.DELETE("/:id", datasetHandler.DeleteDataset)
	datasets.POST("/rollover", datasetHandler.Rollover)
	datasets.GET("/:id/import-mapping", importHandler.GetDatasetMapping)
	datasets.PUT("/:id/import-mapping", importHandler.SaveDatasetMapping)

	// Member routes
	members := v1.Group("/members")
	members.GET("", memberHandler.ListMembers)
	members.POST("", memberHandler.CreateMember)
	members.PUT("/:id", memberHandler.UpdateMember)
	members.DELETE("/:id", memberHandler.DeleteMember)

	// Budget routes
	budgets := v1.Group("/budgets")
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.POST("/merge", budgetHandler.MergeBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/actual-expenses", expenseHandler.ListExpenses)
	budgets.POST("/:id/actual-expenses", expenseHandler.CreateExpense)
	budgets.GET("/:id/import-mapping", importHandler.GetBudgetMapping)
	budgets.PUT("/:id/import-mapping", importHandler.SaveBudgetMapping)
	budgets.POST("/:id/import-csv", importHandler.ImportExpenses)

	// Actual-expense routes
	expenses := v1.Group("/actual-expenses")
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Purchase routes
	purchases := v1.Group("/purchases")
	purchases.GET("", purchaseHandler.ListPurchases)
	purchases.POST("", purchaseHandler.CreatePurchase)
	purchases.POST("/import-csv", importHandler.ImportPurchases)
	purchases.GET("/export-csv", importHandler.ExportPurchases)
	purchases.GET("/:id", purchaseHandler.GetPurchase)
	purchases.PUT("/:id", purchaseHandler.UpdatePurchase)
	purchases.DELETE("/:id", purchaseHandler.DeletePurchase)
	purchases.PATCH("/:id/status", purchaseHandler.SetStatus)
	purchases.POST("/:id/advance", purchaseHandler.AdvanceStatus)
	purchases.POST("/:id/distribute", purchaseHandler.Distribute)
	purchases.POST("/:id/assign-full", purchaseHandler.AssignFull)

	// Dashboard route
	v1.GET("/dashboard", dashboardHandler.Summary)

	log.Infof("Starting Osaifill backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
