package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func at(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func singleTRYAccount(initial string) []AccountState {
	return []AccountState{
		{ID: 1, Currency: "TRY", InitialBalance: dec(initial), InitialRate: dec("1"), IsActive: true},
	}
}

func TestReplay(t *testing.T) {
	t.Run("account_running_balances", func(t *testing.T) {
		// 10,000 TRY opening; -2,000 on day 1; +500 on day 2.
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "expense", AccountID: 1, Amount: dec("2000"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 10)},
			{ID: 2, Type: "income", AccountID: 1, Amount: dec("500"), Currency: "TRY", EntryDate: day(2), CreatedAt: at(2, 10)},
		})

		result := Replay(singleTRYAccount("10000"), entries, "TRY")

		if !result.Entries[0].AccountBalance.Equal(dec("8000")) {
			t.Errorf("expected 8000 after expense, got %s", result.Entries[0].AccountBalance)
		}
		if !result.Entries[1].AccountBalance.Equal(dec("8500")) {
			t.Errorf("expected 8500 after income, got %s", result.Entries[1].AccountBalance)
		}
		if !result.AccountBalances[1].Equal(dec("8500")) {
			t.Errorf("expected final account balance 8500, got %s", result.AccountBalances[1])
		}
		// Single TRY account: global balance must track the account exactly.
		if !result.GlobalBalance.Equal(dec("8500")) {
			t.Errorf("expected global balance 8500, got %s", result.GlobalBalance)
		}
		if !result.OpeningBalance.Equal(dec("10000")) {
			t.Errorf("expected opening 10000, got %s", result.OpeningBalance)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "income", AccountID: 1, Amount: dec("300"), Currency: "EUR", ExchangeRate: dec("35"), EntryDate: day(1), CreatedAt: at(1, 9)},
			{ID: 2, Type: "expense", AccountID: 1, Amount: dec("120"), Currency: "TRY", EntryDate: day(2), CreatedAt: at(2, 9)},
		})
		accounts := singleTRYAccount("1000")

		first := Replay(accounts, entries, "TRY")
		second := Replay(accounts, entries, "TRY")

		if !first.GlobalBalance.Equal(second.GlobalBalance) {
			t.Errorf("global balance differs between runs: %s vs %s", first.GlobalBalance, second.GlobalBalance)
		}
		for id, balance := range first.AccountBalances {
			if !second.AccountBalances[id].Equal(balance) {
				t.Errorf("account %d balance differs: %s vs %s", id, balance, second.AccountBalances[id])
			}
		}
		for i := range first.Entries {
			if first.Entries[i].ID != second.Entries[i].ID {
				t.Errorf("entry order differs at %d", i)
			}
		}
	})

	t.Run("input_order_does_not_change_output", func(t *testing.T) {
		records := []Record{
			{ID: 1, Type: "income", AccountID: 1, Amount: dec("100"), Currency: "TRY", EntryDate: day(3), CreatedAt: at(3, 9)},
			{ID: 2, Type: "expense", AccountID: 1, Amount: dec("40"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 9)},
			{ID: 3, Type: "income", AccountID: 1, Amount: dec("70"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 15)},
			{ID: 4, Type: "expense", AccountID: 1, Amount: dec("10"), Currency: "TRY", EntryDate: day(2), CreatedAt: at(2, 9)},
		}
		permutations := [][]int{
			{0, 1, 2, 3},
			{3, 2, 1, 0},
			{2, 0, 3, 1},
			{1, 3, 0, 2},
		}

		var baseline Result
		for p, perm := range permutations {
			shuffled := make([]Record, len(records))
			for i, idx := range perm {
				shuffled[i] = records[idx]
			}
			entries, _ := Ingest(shuffled)
			result := Replay(singleTRYAccount("0"), entries, "TRY")

			if p == 0 {
				baseline = result
				continue
			}
			if !result.GlobalBalance.Equal(baseline.GlobalBalance) {
				t.Fatalf("permutation %d changed global balance: %s vs %s", p, result.GlobalBalance, baseline.GlobalBalance)
			}
			for i := range baseline.Entries {
				if result.Entries[i].ID != baseline.Entries[i].ID {
					t.Fatalf("permutation %d changed replay order at row %d", p, i)
				}
				if !result.Entries[i].AccountBalance.Equal(baseline.Entries[i].AccountBalance) {
					t.Fatalf("permutation %d changed running balance at row %d", p, i)
				}
			}
		}
	})

	t.Run("conservation_across_currencies", func(t *testing.T) {
		accounts := []AccountState{
			{ID: 1, Currency: "TRY", InitialBalance: dec("5000"), InitialRate: dec("1"), IsActive: true},
			{ID: 2, Currency: "EUR", InitialBalance: dec("100"), InitialRate: dec("30"), IsActive: true},
		}
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "income", AccountID: 2, Amount: dec("50"), Currency: "EUR", ExchangeRate: dec("32"), EntryDate: day(1), CreatedAt: at(1, 9)},
			{ID: 2, Type: "expense", AccountID: 1, Amount: dec("700"), Currency: "TRY", EntryDate: day(2), CreatedAt: at(2, 9)},
		})

		result := Replay(accounts, entries, "TRY")

		// Opening: 5000 + 100*30 = 8000. Signed sum: +50*32 - 700 = +900.
		if !result.OpeningBalance.Equal(dec("8000")) {
			t.Errorf("expected opening 8000, got %s", result.OpeningBalance)
		}
		if !result.GlobalBalance.Equal(dec("8900")) {
			t.Errorf("expected global 8900, got %s", result.GlobalBalance)
		}
		if !result.Reconciled {
			t.Errorf("expected reconciled result, drift %s", result.Drift)
		}
		if !result.AccountBalances[2].Equal(dec("150")) {
			t.Errorf("expected EUR account native balance 150, got %s", result.AccountBalances[2])
		}
	})

	t.Run("period_filter_after_replay_keeps_prior_history", func(t *testing.T) {
		// The account earns in period 1 and spends in period 2. Filtering to
		// period 2 before replay would show a negative running balance;
		// filtering after replay must carry the period 1 income through.
		p1, p2 := uint(1), uint(2)
		records := []Record{
			{ID: 1, Type: "income", AccountID: 1, FiscalPeriodID: &p1, Amount: dec("1000"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 9)},
			{ID: 2, Type: "expense", AccountID: 1, FiscalPeriodID: &p2, Amount: dec("200"), Currency: "TRY", EntryDate: day(10), CreatedAt: at(10, 9)},
		}

		entries, _ := Ingest(records)
		full := Replay(singleTRYAccount("0"), entries, "TRY")
		afterFilter := FilterEntries(full.Entries, Filter{FiscalPeriodID: &p2})

		preFiltered := make([]Record, 0)
		for _, r := range records {
			if r.FiscalPeriodID != nil && *r.FiscalPeriodID == p2 {
				preFiltered = append(preFiltered, r)
			}
		}
		wrongEntries, _ := Ingest(preFiltered)
		wrong := Replay(singleTRYAccount("0"), wrongEntries, "TRY")

		if len(afterFilter) != 1 {
			t.Fatalf("expected 1 filtered row, got %d", len(afterFilter))
		}
		if !afterFilter[0].AccountBalance.Equal(dec("800")) {
			t.Errorf("expected post-filter balance 800, got %s", afterFilter[0].AccountBalance)
		}
		if wrong.Entries[0].AccountBalance.Equal(afterFilter[0].AccountBalance) {
			t.Error("pre-filtered replay must differ from post-filtered replay")
		}
		if !wrong.Entries[0].AccountBalance.Equal(dec("-200")) {
			t.Errorf("expected pre-filter (incorrect) balance -200, got %s", wrong.Entries[0].AccountBalance)
		}
	})

	t.Run("orphan_account_moves_global_only", func(t *testing.T) {
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "income", AccountID: 99, Amount: dec("250"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 9)},
		})

		result := Replay(singleTRYAccount("1000"), entries, "TRY")

		if !result.AccountBalances[1].Equal(dec("1000")) {
			t.Errorf("known account must be untouched, got %s", result.AccountBalances[1])
		}
		if _, ok := result.AccountBalances[99]; ok {
			t.Error("orphan account must not appear in the balance map")
		}
		if !result.GlobalBalance.Equal(dec("1250")) {
			t.Errorf("orphan entry must still move the global balance, got %s", result.GlobalBalance)
		}
		if result.Warnings.OrphanAccounts != 1 {
			t.Errorf("expected 1 orphan warning, got %d", result.Warnings.OrphanAccounts)
		}
		if !result.Entries[0].AccountMissing {
			t.Error("expected the orphan row to be marked")
		}
		// Money moved site-wide with no account to attribute it to, so the
		// conservation check must fail by exactly that amount.
		if result.Reconciled {
			t.Error("orphan movement must break reconciliation")
		}
		if !result.Drift.Equal(dec("250")) {
			t.Errorf("expected drift 250, got %s", result.Drift)
		}
	})

	t.Run("transfer_pair_conserves_money", func(t *testing.T) {
		accounts := []AccountState{
			{ID: 1, Currency: "TRY", InitialBalance: dec("1000"), InitialRate: dec("1"), IsActive: true},
			{ID: 2, Currency: "TRY", InitialBalance: dec("0"), InitialRate: dec("1"), IsActive: true},
		}
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "transfer", Direction: "out", TransferGroup: "g1", AccountID: 1, Amount: dec("400"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 9)},
			{ID: 2, Type: "transfer", Direction: "in", TransferGroup: "g1", AccountID: 2, Amount: dec("400"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 9)},
		})

		result := Replay(accounts, entries, "TRY")

		if !result.AccountBalances[1].Equal(dec("600")) || !result.AccountBalances[2].Equal(dec("400")) {
			t.Errorf("expected 600/400 after transfer, got %s/%s", result.AccountBalances[1], result.AccountBalances[2])
		}
		if !result.GlobalBalance.Equal(dec("1000")) {
			t.Errorf("same-currency transfer must not change the global balance, got %s", result.GlobalBalance)
		}
		if result.Warnings.UnpairedTransferLegs != 0 {
			t.Errorf("expected no pairing warnings, got %d", result.Warnings.UnpairedTransferLegs)
		}
		if !result.Reconciled || !result.Drift.IsZero() {
			t.Errorf("expected a clean transfer pair to reconcile, drift %s", result.Drift)
		}
	})

	t.Run("fx_transfer_pair", func(t *testing.T) {
		accounts := []AccountState{
			{ID: 1, Currency: "TRY", InitialBalance: dec("10000"), InitialRate: dec("1"), IsActive: true},
			{ID: 2, Currency: "EUR", InitialBalance: dec("0"), InitialRate: dec("35"), IsActive: true},
		}
		// 3500 TRY leaves as expense, 100 EUR arrives as income at rate 35.
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "expense", TransferGroup: "fx1", AccountID: 1, Amount: dec("3500"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 9)},
			{ID: 2, Type: "income", TransferGroup: "fx1", AccountID: 2, Amount: dec("100"), Currency: "EUR", ExchangeRate: dec("35"), EntryDate: day(1), CreatedAt: at(1, 10)},
		})

		result := Replay(accounts, entries, "TRY")

		if !result.AccountBalances[1].Equal(dec("6500")) {
			t.Errorf("expected TRY side 6500, got %s", result.AccountBalances[1])
		}
		if !result.AccountBalances[2].Equal(dec("100")) {
			t.Errorf("expected EUR side 100, got %s", result.AccountBalances[2])
		}
		// Legs convert to the same reporting value, so global is unchanged.
		if !result.GlobalBalance.Equal(dec("10000")) {
			t.Errorf("expected global 10000, got %s", result.GlobalBalance)
		}
		if result.Warnings.UnpairedTransferLegs != 0 {
			t.Errorf("expected paired FX legs, got %d warnings", result.Warnings.UnpairedTransferLegs)
		}
	})

	t.Run("unpaired_transfer_leg_is_flagged", func(t *testing.T) {
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "transfer", Direction: "out", TransferGroup: "lonely", AccountID: 1, Amount: dec("100"), Currency: "TRY", EntryDate: day(1), CreatedAt: at(1, 9)},
		})

		result := Replay(singleTRYAccount("500"), entries, "TRY")

		if result.Warnings.UnpairedTransferLegs != 1 {
			t.Errorf("expected 1 unpaired-leg warning, got %d", result.Warnings.UnpairedTransferLegs)
		}
		// The lone leg still applies to its account.
		if !result.AccountBalances[1].Equal(dec("400")) {
			t.Errorf("expected 400 after lone out leg, got %s", result.AccountBalances[1])
		}
	})

	t.Run("defaulted_rate_is_counted_not_fatal", func(t *testing.T) {
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "income", AccountID: 1, Amount: dec("100"), Currency: "EUR", ExchangeRate: decimal.Zero, EntryDate: day(1), CreatedAt: at(1, 9)},
		})

		result := Replay(singleTRYAccount("0"), entries, "TRY")

		if result.Warnings.DefaultedRates != 1 {
			t.Errorf("expected 1 defaulted-rate warning, got %d", result.Warnings.DefaultedRates)
		}
		if !result.GlobalBalance.Equal(dec("100")) {
			t.Errorf("expected fail-safe 1.0 rate applied, got %s", result.GlobalBalance)
		}
	})
}

func TestFilterEntries(t *testing.T) {
	t.Run("filters_without_touching_balances", func(t *testing.T) {
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "income", AccountID: 1, Amount: dec("100"), Currency: "TRY", Description: "Aidat Ocak", EntryDate: day(1), CreatedAt: at(1, 9)},
			{ID: 2, Type: "expense", AccountID: 1, Amount: dec("30"), Currency: "TRY", Description: "Elektrik", EntryDate: day(2), CreatedAt: at(2, 9)},
		})
		result := Replay(singleTRYAccount("0"), entries, "TRY")

		kind := KindExpense
		filtered := FilterEntries(result.Entries, Filter{Kind: &kind})

		if len(filtered) != 1 || filtered[0].ID != 2 {
			t.Fatalf("expected only the expense row, got %d rows", len(filtered))
		}
		if !filtered[0].AccountBalance.Equal(dec("70")) {
			t.Errorf("filtering must not recompute balances, got %s", filtered[0].AccountBalance)
		}
	})

	t.Run("search_matches_description_case_insensitively", func(t *testing.T) {
		entries, _ := Ingest([]Record{
			{ID: 1, Type: "expense", AccountID: 1, Amount: dec("30"), Currency: "TRY", Description: "Elektrik faturasi", EntryDate: day(1), CreatedAt: at(1, 9)},
			{ID: 2, Type: "expense", AccountID: 1, Amount: dec("20"), Currency: "TRY", Description: "Su faturasi", EntryDate: day(2), CreatedAt: at(2, 9)},
		})
		result := Replay(singleTRYAccount("100"), entries, "TRY")

		filtered := FilterEntries(result.Entries, Filter{Search: "ELEKTRIK"})

		if len(filtered) != 1 || filtered[0].ID != 1 {
			t.Fatalf("expected the elektrik row, got %d rows", len(filtered))
		}
	})
}
