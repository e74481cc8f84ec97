package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"aidat/internal/models"
	"aidat/internal/pagination"
	"aidat/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)

		account, err := svc.CreateAccount(site.ID, "Dues Account", "main bank account", models.AccountTypeBank, "TRY", decimal.NewFromInt(10000), decimal.NewFromInt(1))
		testutil.AssertNoError(t, err)

		if account.ID == 0 {
			t.Fatal("expected non-zero account ID")
		}
		if account.Type != models.AccountTypeBank {
			t.Errorf("expected type bank, got %s", account.Type)
		}
		testutil.AssertDecimalEqual(t, account.InitialBalance, "10000")
		if !account.IsActive {
			t.Error("expected account to be active")
		}
	})

	t.Run("defaults_currency_and_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)

		account, err := svc.CreateAccount(site.ID, "Cash Box", "", models.AccountTypeCash, "", decimal.Zero, decimal.Zero)
		testutil.AssertNoError(t, err)

		if account.Currency != "TRY" {
			t.Errorf("expected default currency TRY, got %s", account.Currency)
		}
		testutil.AssertDecimalEqual(t, account.InitialRate, "1")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)

		_, err := svc.CreateAccount(site.ID, "", "", models.AccountTypeBank, "TRY", decimal.Zero, decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)

		_, err := svc.CreateAccount(site.ID, "Broker", "", models.AccountType("brokerage"), "TRY", decimal.Zero, decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_initial_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)

		_, err := svc.CreateAccount(site.ID, "Overdrawn", "", models.AccountTypeBank, "TRY", decimal.NewFromInt(-1), decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetSiteAccounts(t *testing.T) {
	t.Run("scoped_to_site", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		site1 := testutil.CreateTestSite(t, db)
		site2 := testutil.CreateTestSite(t, db)
		testutil.CreateTestAccount(t, db, site1.ID)
		testutil.CreateTestAccount(t, db, site1.ID)
		testutil.CreateTestAccount(t, db, site2.ID)

		result, err := svc.GetSiteAccounts(site1.ID, pagination.PageRequest{Page: 1, PageSize: 20}, false)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 accounts for site1, got %d", result.TotalItems)
		}
	})

	t.Run("excludes_inactive_by_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)

		testutil.CreateTestAccount(t, db, site.ID)
		inactive := testutil.CreateTestAccount(t, db, site.ID)
		testutil.AssertNoError(t, svc.DeactivateAccount(site.ID, inactive.ID))

		result, err := svc.GetSiteAccounts(site.ID, pagination.PageRequest{Page: 1, PageSize: 20}, false)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 active account, got %d", result.TotalItems)
		}

		all, err := svc.GetSiteAccounts(site.ID, pagination.PageRequest{Page: 1, PageSize: 20}, true)
		testutil.AssertNoError(t, err)
		if all.TotalItems != 2 {
			t.Errorf("expected 2 accounts with include_inactive, got %d", all.TotalItems)
		}
	})
}

func TestGetAccountByID(t *testing.T) {
	t.Run("wrong_site", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		site1 := testutil.CreateTestSite(t, db)
		site2 := testutil.CreateTestSite(t, db)
		account := testutil.CreateTestAccount(t, db, site1.ID)

		_, err := svc.GetAccountByID(site2.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("returns_inactive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)
		account := testutil.CreateTestAccount(t, db, site.ID)

		testutil.AssertNoError(t, svc.DeactivateAccount(site.ID, account.ID))

		got, err := svc.GetAccountByID(site.ID, account.ID)
		testutil.AssertNoError(t, err)
		if got.IsActive {
			t.Error("expected account to be inactive")
		}
	})
}

func TestUpdateAccount(t *testing.T) {
	t.Run("updates_mutable_fields_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, site.ID, "EUR", "100", "35")

		name := "Renamed"
		updated, err := svc.UpdateAccount(site.ID, account.ID, AccountUpdateFields{Name: &name})
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", updated.Name)
		}
		if updated.Currency != "EUR" {
			t.Errorf("currency changed to %s", updated.Currency)
		}
		testutil.AssertDecimalEqual(t, updated.InitialBalance, "100")
		testutil.AssertDecimalEqual(t, updated.InitialRate, "35")
	})

	t.Run("reactivate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		site := testutil.CreateTestSite(t, db)
		account := testutil.CreateTestAccount(t, db, site.ID)

		testutil.AssertNoError(t, svc.DeactivateAccount(site.ID, account.ID))

		active := true
		updated, err := svc.UpdateAccount(site.ID, account.ID, AccountUpdateFields{IsActive: &active})
		testutil.AssertNoError(t, err)
		if !updated.IsActive {
			t.Error("expected account to be active again")
		}
	})
}
