package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestUnitFlow(t *testing.T) {
	t.Run("dues_and_payments_build_statement", func(t *testing.T) {
		app := setupApp(t)
		siteID := app.createSite(t, "Statements", "TRY")
		unitID := app.createUnit(t, siteID, "12", "TRY", "500")

		rec := app.request("POST", fmt.Sprintf("/api/v1/sites/%.0f/units/%.0f/dues", siteID, unitID),
			`{"description":"March dues","amount":1200,"due_date":"2024-03-01"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add due failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("POST", fmt.Sprintf("/api/v1/sites/%.0f/units/%.0f/payments", siteID, unitID),
			`{"description":"Partial payment","amount":1000,"payment_date":"2024-03-10"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("record payment failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", fmt.Sprintf("/api/v1/sites/%.0f/units/%.0f/statement", siteID, unitID), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("get statement failed: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		summary := result["summary"].(map[string]interface{})
		if got := summary["opening_balance"].(string); got != "500" {
			t.Errorf("expected opening balance 500, got %s", got)
		}
		if got := summary["ending_balance"].(string); got != "700" {
			t.Errorf("expected ending balance 700, got %s", got)
		}
		rows := result["rows"].([]interface{})
		if len(rows) != 2 {
			t.Fatalf("expected 2 statement rows, got %d", len(rows))
		}
	})

	t.Run("cross_currency_payment_credits_converted_amount", func(t *testing.T) {
		app := setupApp(t)
		siteID := app.createSite(t, "FX Units", "TRY")
		unitID := app.createUnit(t, siteID, "7", "EUR", "0")

		rec := app.request("POST", fmt.Sprintf("/api/v1/sites/%.0f/units/%.0f/dues", siteID, unitID),
			`{"description":"Annual fee","amount":150,"due_date":"2024-03-01"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add due failed: %d %s", rec.Code, rec.Body.String())
		}

		// 3700 TRY at 0.027 EUR per TRY credits 99.9 EUR.
		rec = app.request("POST", fmt.Sprintf("/api/v1/sites/%.0f/units/%.0f/payments", siteID, unitID),
			`{"amount":3700,"currency":"TRY","debt_rate":0.027,"payment_date":"2024-03-10"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("record payment failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", fmt.Sprintf("/api/v1/sites/%.0f/units/%.0f/statement", siteID, unitID), "")
		result := parseJSON(t, rec)
		summary := result["summary"].(map[string]interface{})
		if got := summary["ending_balance"].(string); got != "50.1" {
			t.Errorf("expected ending balance 50.1, got %s", got)
		}
	})

	t.Run("payment_with_account_reflects_on_site_ledger", func(t *testing.T) {
		app := setupApp(t)
		siteID := app.createSite(t, "Linked", "TRY")
		accountID := app.createAccount(t, siteID, "Dues Bank", "TRY", "0", "1")
		unitID := app.createUnit(t, siteID, "3", "TRY", "0")

		rec := app.request("POST", fmt.Sprintf("/api/v1/sites/%.0f/units/%.0f/payments", siteID, unitID),
			fmt.Sprintf(`{"account_id":%.0f,"amount":3500,"payment_date":"2024-03-10"}`, accountID))
		if rec.Code != http.StatusCreated {
			t.Fatalf("record payment failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", fmt.Sprintf("/api/v1/sites/%.0f/balances", siteID), "")
		result := parseJSON(t, rec)
		if got := result["global_balance"].(string); got != "3500" {
			t.Errorf("expected payment to appear on site ledger, global balance %s", got)
		}
	})

	t.Run("unit_scoped_to_site", func(t *testing.T) {
		app := setupApp(t)
		site1 := app.createSite(t, "One", "TRY")
		site2 := app.createSite(t, "Two", "TRY")
		unitID := app.createUnit(t, site1, "5", "TRY", "0")

		rec := app.request("GET", fmt.Sprintf("/api/v1/sites/%.0f/units/%.0f", site2, unitID), "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 for unit of another site, got %d", rec.Code)
		}
	})
}
