package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"aidat/internal/handlers"
	"aidat/internal/logger"
	"aidat/internal/middleware"
	"aidat/internal/models"
	"aidat/internal/services"
	"aidat/internal/validator"
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
		&models.Site{},
		&models.FiscalPeriod{},
		&models.Category{},
		&models.Account{},
		&models.Transaction{},
		&models.Unit{},
		&models.DueItem{},
		&models.UnitPayment{},
		&models.AuditLog{},
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
	auditService := services.NewAuditService(db)
	siteService := services.NewSiteService(db)
	accountService := services.NewAccountService(db)
	periodService := services.NewFiscalPeriodService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService)
	ledgerService := services.NewLedgerService(db, siteService)
	unitService := services.NewUnitService(db, siteService)

	// Handlers
	siteHandler := handlers.NewSiteHandler(siteService, auditService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	periodHandler := handlers.NewFiscalPeriodHandler(periodService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	unitHandler := handlers.NewUnitHandler(unitService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	sites := v1.Group("/sites")
	sites.POST("", siteHandler.CreateSite)
	sites.GET("", siteHandler.GetSites)
	sites.GET("/:id", siteHandler.GetSiteByID)
	sites.PUT("/:id", siteHandler.UpdateSite)

	sites.POST("/:id/accounts", accountHandler.CreateAccount)
	sites.GET("/:id/accounts", accountHandler.GetSiteAccounts)
	sites.GET("/:id/accounts/:account_id", accountHandler.GetAccountByID)
	sites.PUT("/:id/accounts/:account_id", accountHandler.UpdateAccount)
	sites.DELETE("/:id/accounts/:account_id", accountHandler.DeactivateAccount)

	sites.POST("/:id/periods", periodHandler.CreatePeriod)
	sites.GET("/:id/periods", periodHandler.GetSitePeriods)
	sites.GET("/:id/periods/:period_id", periodHandler.GetPeriodByID)

	sites.POST("/:id/categories", categoryHandler.CreateCategory)
	sites.GET("/:id/categories", categoryHandler.GetSiteCategories)
	sites.GET("/:id/categories/:category_id", categoryHandler.GetCategoryByID)
	sites.PUT("/:id/categories/:category_id", categoryHandler.UpdateCategory)
	sites.DELETE("/:id/categories/:category_id", categoryHandler.DeleteCategory)

	sites.POST("/:id/transactions", transactionHandler.CreateEntry)
	sites.POST("/:id/transactions/transfer", transactionHandler.CreateTransfer)
	sites.GET("/:id/transactions/:transaction_id", transactionHandler.GetTransactionByID)
	sites.PUT("/:id/transactions/:transaction_id", transactionHandler.UpdateEntry)
	sites.DELETE("/:id/transactions/:transaction_id", transactionHandler.DeleteTransaction)

	sites.GET("/:id/balances", ledgerHandler.GetBalances)
	sites.GET("/:id/ledger", ledgerHandler.GetLedger)
	sites.GET("/:id/reconciliation", ledgerHandler.GetReconciliation)

	sites.POST("/:id/units", unitHandler.CreateUnit)
	sites.GET("/:id/units", unitHandler.GetSiteUnits)
	sites.GET("/:id/units/:unit_id", unitHandler.GetUnitByID)
	sites.POST("/:id/units/:unit_id/dues", unitHandler.AddDue)
	sites.GET("/:id/units/:unit_id/dues", unitHandler.GetUnitDues)
	sites.POST("/:id/units/:unit_id/payments", unitHandler.RecordPayment)
	sites.GET("/:id/units/:unit_id/statement", unitHandler.GetStatement)

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

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createSite creates a site over HTTP and returns its ID.
func (app *testApp) createSite(t *testing.T, name, currency string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"reporting_currency":%q}`, name, currency)
	rec := app.request("POST", "/api/v1/sites", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create site failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	site := result["site"].(map[string]interface{})
	return site["id"].(float64)
}

// createAccount creates an account over HTTP and returns its ID.
func (app *testApp) createAccount(t *testing.T, siteID float64, name, currency, initialBalance, initialRate string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"type":"bank","currency":%q,"initial_balance":%s,"initial_rate":%s}`,
		name, currency, initialBalance, initialRate)
	rec := app.request("POST", fmt.Sprintf("/api/v1/sites/%.0f/accounts", siteID), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	return account["id"].(float64)
}

// createUnit creates a unit over HTTP and returns its ID.
func (app *testApp) createUnit(t *testing.T, siteID float64, number, currency, openingBalance string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"block":"A","number":%q,"currency":%q,"opening_balance":%s}`, number, currency, openingBalance)
	rec := app.request("POST", fmt.Sprintf("/api/v1/sites/%.0f/units", siteID), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create unit failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	unit := result["unit"].(map[string]interface{})
	return unit["id"].(float64)
}
