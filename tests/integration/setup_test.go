package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elir-elirlab/osaifill-release/internal/handlers"
	"github.com/elir-elirlab/osaifill-release/internal/logger"
	"github.com/elir-elirlab/osaifill-release/internal/models"
	"github.com/elir-elirlab/osaifill-release/internal/services"
	"github.com/elir-elirlab/osaifill-release/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Dataset{},
		&models.Member{},
		&models.Budget{},
		&models.Purchase{},
		&models.Allocation{},
		&models.ActualExpense{},
		&models.ImportMapping{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	datasetService := services.NewDatasetService(db)
	memberService := services.NewMemberService(db)
	budgetService := services.NewBudgetService(db)
	purchaseService := services.NewPurchaseService(db, "JPY")
	expenseService := services.NewExpenseService(db, "JPY")
	dashboardService := services.NewDashboardService(db)
	importService := services.NewImportExportService(db, "JPY")

	// Handlers
	datasetHandler := handlers.NewDatasetHandler(datasetService)
	memberHandler := handlers.NewMemberHandler(memberService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	importHandler := handlers.NewImportExportHandler(importService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")

	datasets := v1.Group("/datasets")
	datasets.GET("", datasetHandler.ListDatasets)
	datasets.POST("", datasetHandler.CreateDataset)
	datasets.PUT("/:id", datasetHandler.UpdateDataset)
	datasets.DELETE("/:id", datasetHandler.DeleteDataset)
	datasets.POST("/rollover", datasetHandler.Rollover)
	datasets.GET("/:id/import-mapping", importHandler.GetDatasetMapping)
	datasets.PUT("/:id/import-mapping", importHandler.SaveDatasetMapping)

	members := v1.Group("/members")
	members.GET("", memberHandler.ListMembers)
	members.POST("", memberHandler.CreateMember)
	members.PUT("/:id", memberHandler.UpdateMember)
	members.DELETE("/:id", memberHandler.DeleteMember)

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

	expenses := v1.Group("/actual-expenses")
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

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

	v1.GET("/dashboard", dashboardHandler.Summary)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// upload makes a multipart request with a CSV file and optional extra form fields.
func (app *testApp) upload(t *testing.T, path, csvBody string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "import.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvBody)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createDataset creates a dataset via the API and returns its id.
func (app *testApp) createDataset(t *testing.T, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/datasets", fmt.Sprintf(`{"name":%q}`, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create dataset failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	dataset := result["dataset"].(map[string]interface{})
	return dataset["id"].(string)
}

// createBudget creates a budget via the API and returns its id.
func (app *testApp) createBudget(t *testing.T, datasetID, name string, totalAmount float64) string {
	t.Helper()
	body := fmt.Sprintf(`{"dataset_id":%q,"name":%q,"total_amount":%f}`, datasetID, name, totalAmount)
	rec := app.request("POST", "/api/v1/budgets", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	budget := result["budget"].(map[string]interface{})
	return budget["id"].(string)
}
