package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"aidat/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestSite creates a site with TRY as the reporting currency.
func CreateTestSite(t *testing.T, db *gorm.DB) *models.Site {
	t.Helper()

	site := &models.Site{
		Name:              fmt.Sprintf("Test Site %d", nextID()),
		ReportingCurrency: "TRY",
	}
	if err := db.Create(site).Error; err != nil {
		t.Fatalf("failed to create test site: %v", err)
	}
	return site
}

// CreateTestAccount creates an active bank account in the site's reporting currency.
func CreateTestAccount(t *testing.T, db *gorm.DB, siteID uint) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, siteID, "TRY", "0", "1")
}

// CreateTestAccountWithBalance creates an account with the given currency,
// initial balance, and initial native-to-reporting rate.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, siteID uint, currency, initialBalance, initialRate string) *models.Account {
	t.Helper()

	account := &models.Account{
		SiteID:         siteID,
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		Type:           models.AccountTypeBank,
		Currency:       currency,
		InitialBalance: mustDecimal(t, initialBalance),
		InitialRate:    mustDecimal(t, initialRate),
		IsActive:       true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestPeriod creates a fiscal period spanning the given year.
func CreateTestPeriod(t *testing.T, db *gorm.DB, siteID uint, year int) *models.FiscalPeriod {
	t.Helper()

	period := &models.FiscalPeriod{
		SiteID:    siteID,
		Name:      fmt.Sprintf("%d", year),
		StartDate: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}
	return period
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, siteID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		SiteID: siteID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates an income or expense entry in TRY.
func CreateTestTransaction(t *testing.T, db *gorm.DB, siteID, accountID uint, txType models.TransactionType, amount string, entryDate time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		SiteID:       siteID,
		AccountID:    accountID,
		Type:         txType,
		Amount:       mustDecimal(t, amount),
		Currency:     "TRY",
		ExchangeRate: decimal.NewFromInt(1),
		EntryDate:    entryDate,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestUnit creates a unit with the given debt currency and opening balance.
func CreateTestUnit(t *testing.T, db *gorm.DB, siteID uint, currency, openingBalance string) *models.Unit {
	t.Helper()

	unit := &models.Unit{
		SiteID:         siteID,
		Block:          "A",
		Number:         fmt.Sprintf("%d", nextID()),
		OwnerName:      "Test Owner",
		Currency:       currency,
		OpeningBalance: mustDecimal(t, openingBalance),
		IsActive:       true,
	}
	if err := db.Create(unit).Error; err != nil {
		t.Fatalf("failed to create test unit: %v", err)
	}
	return unit
}

// CreateTestDue accrues a due item against a unit in the unit's currency.
func CreateTestDue(t *testing.T, db *gorm.DB, unitID uint, currency, amount string, dueDate time.Time) *models.DueItem {
	t.Helper()

	due := &models.DueItem{
		UnitID:   unitID,
		Amount:   mustDecimal(t, amount),
		Currency: currency,
		DueDate:  dueDate,
	}
	if err := db.Create(due).Error; err != nil {
		t.Fatalf("failed to create test due: %v", err)
	}
	return due
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal fixture %q: %v", s, err)
	}
	return d
}
