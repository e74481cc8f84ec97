package services

import (
	"testing"
	"time"

	"aidat/internal/pagination"
	"aidat/internal/testutil"
)

func TestCreatePeriod(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFiscalPeriodService(db)
		site := testutil.CreateTestSite(t, db)

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
		period, err := svc.CreatePeriod(site.ID, "2024", start, end)
		testutil.AssertNoError(t, err)

		if period.ID == 0 {
			t.Fatal("expected non-zero period ID")
		}
		if !period.IsActive {
			t.Error("expected period to be active")
		}
	})

	t.Run("end_before_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFiscalPeriodService(db)
		site := testutil.CreateTestSite(t, db)

		start := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.CreatePeriod(site.ID, "backwards", start, end)
		testutil.AssertAppError(t, err, "INVALID_PERIOD_SPAN")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFiscalPeriodService(db)
		site := testutil.CreateTestSite(t, db)

		_, err := svc.CreatePeriod(site.ID, "", time.Now(), time.Now().Add(time.Hour))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetSitePeriods(t *testing.T) {
	t.Run("scoped_to_site", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFiscalPeriodService(db)

		site1 := testutil.CreateTestSite(t, db)
		site2 := testutil.CreateTestSite(t, db)
		testutil.CreateTestPeriod(t, db, site1.ID, 2023)
		testutil.CreateTestPeriod(t, db, site1.ID, 2024)
		testutil.CreateTestPeriod(t, db, site2.ID, 2024)

		result, err := svc.GetSitePeriods(site1.ID, pagination.PageRequest{Page: 1, PageSize: 20})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 periods for site1, got %d", result.TotalItems)
		}
	})
}

func TestGetPeriodByID(t *testing.T) {
	t.Run("wrong_site", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFiscalPeriodService(db)

		site1 := testutil.CreateTestSite(t, db)
		site2 := testutil.CreateTestSite(t, db)
		period := testutil.CreateTestPeriod(t, db, site1.ID, 2024)

		_, err := svc.GetPeriodByID(site2.ID, period.ID)
		testutil.AssertAppError(t, err, "PERIOD_NOT_FOUND")
	})
}
