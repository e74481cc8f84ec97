package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestIngest(t *testing.T) {
	t.Run("accepts_well_formed_rows", func(t *testing.T) {
		records := []Record{
			{ID: 1, Type: "income", AccountID: 1, Amount: dec("100"), Currency: "TRY", EntryDate: day(1)},
			{ID: 2, Type: "expense", AccountID: 1, Amount: dec("50"), Currency: "TRY", EntryDate: day(2)},
			{ID: 3, Type: "transfer", Direction: "out", AccountID: 1, Amount: dec("25"), Currency: "TRY", EntryDate: day(3)},
			{ID: 4, Type: "transfer", Direction: "in", AccountID: 2, Amount: dec("25"), Currency: "TRY", EntryDate: day(3)},
		}

		entries, stats := Ingest(records)

		if stats.Accepted != 4 || stats.Skipped != 0 {
			t.Fatalf("expected 4 accepted, 0 skipped, got %+v", stats)
		}
		if entries[0].Kind != KindIncome || entries[1].Kind != KindExpense {
			t.Errorf("unexpected kinds: %v, %v", entries[0].Kind, entries[1].Kind)
		}
		if entries[2].Kind != KindTransferOut || entries[3].Kind != KindTransferIn {
			t.Errorf("unexpected transfer kinds: %v, %v", entries[2].Kind, entries[3].Kind)
		}
	})

	t.Run("skips_malformed_rows_without_aborting", func(t *testing.T) {
		records := []Record{
			{ID: 1, Type: "income", AccountID: 1, Amount: dec("100"), Currency: "TRY", EntryDate: day(1)},
			{ID: 2, Type: "dividend", AccountID: 1, Amount: dec("10"), Currency: "TRY", EntryDate: day(1)},
			{ID: 3, Type: "expense", AccountID: 1, Amount: dec("-10"), Currency: "TRY", EntryDate: day(1)},
			{ID: 4, Type: "expense", AccountID: 1, Amount: dec("10"), Currency: "TRY"},
			{ID: 5, Type: "income", Amount: dec("10"), Currency: "TRY", EntryDate: day(1)},
			{ID: 6, Type: "income", AccountID: 1, Amount: dec("0"), Currency: "TRY", EntryDate: day(1)},
		}

		entries, stats := Ingest(records)

		if len(entries) != 1 || entries[0].ID != 1 {
			t.Fatalf("expected only the valid row to survive, got %d entries", len(entries))
		}
		if stats.Skipped != 5 {
			t.Errorf("expected 5 skipped, got %d", stats.Skipped)
		}
	})

	t.Run("opaque_transfer_excluded_but_not_an_error", func(t *testing.T) {
		records := []Record{
			{ID: 1, Type: "transfer", AccountID: 1, Amount: dec("100"), Currency: "TRY", EntryDate: day(1)},
		}

		entries, stats := Ingest(records)

		if len(entries) != 0 {
			t.Fatalf("expected opaque transfer to be excluded, got %d entries", len(entries))
		}
		if stats.OpaqueTransfers != 1 || stats.Skipped != 0 {
			t.Errorf("expected 1 opaque transfer and 0 skipped, got %+v", stats)
		}
	})

	t.Run("preserves_input_order_in_seq", func(t *testing.T) {
		records := []Record{
			{ID: 10, Type: "income", AccountID: 1, Amount: dec("1"), EntryDate: day(1)},
			{ID: 20, Type: "income", AccountID: 1, Amount: dec("2"), EntryDate: day(1)},
		}

		entries, _ := Ingest(records)

		if entries[0].seq != 0 || entries[1].seq != 1 {
			t.Errorf("expected seq 0,1 got %d,%d", entries[0].seq, entries[1].seq)
		}
	})
}
