// Package ledger implements the site bookkeeping core: normalizing raw
// transaction rows into canonical entries, converting native amounts into a
// reporting currency with stored point-in-time rates, and replaying the full
// history into running balances per account, site-wide, and per unit.
//
// The package is pure: it holds no state between calls, reads no clock, and
// knows nothing about persistence or transport. Callers fetch rows, run a
// computation, and render the result. Re-running any function on the same
// input yields identical output.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the canonical tagged variant of a ledger entry. Every entry is
// exactly one kind, and the replay stage handles all kinds exhaustively, so
// adding a new kind is a compile-visible decision rather than a silent
// fallthrough.
type Kind int

const (
	KindIncome Kind = iota
	KindExpense
	KindTransferIn
	KindTransferOut
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindIncome:
		return "income"
	case KindExpense:
		return "expense"
	case KindTransferIn:
		return "transfer_in"
	case KindTransferOut:
		return "transfer_out"
	}
	return "unknown"
}

// Sign returns +1 for kinds that increase a balance and -1 for kinds that
// decrease it.
func (k Kind) Sign() int {
	switch k {
	case KindIncome, KindTransferIn:
		return 1
	case KindExpense, KindTransferOut:
		return -1
	}
	return 0
}

// Record is one raw transaction row as fetched from storage, before
// canonicalization. Field shapes mirror what the data layer provides; Ingest
// is the only consumer.
type Record struct {
	ID             uint
	Type           string // income | expense | transfer
	Direction      string // in | out; transfers only
	TransferGroup  string
	AccountID      uint
	FiscalPeriodID *uint
	CategoryID     *uint
	Description    string
	Amount         decimal.Decimal
	Currency       string
	ExchangeRate   decimal.Decimal // native -> reporting, captured at entry time
	EntryDate      time.Time
	CreatedAt      time.Time
}

// Entry is the canonical form of one money movement, ready for replay.
type Entry struct {
	ID             uint
	Kind           Kind
	TransferGroup  string
	AccountID      uint
	FiscalPeriodID *uint
	CategoryID     *uint
	Description    string
	Amount         decimal.Decimal // native, non-negative
	Currency       string
	ExchangeRate   decimal.Decimal
	EntryDate      time.Time
	CreatedAt      time.Time

	// seq preserves input order as the final sort tie-break.
	seq int
}

// IngestStats reports what happened to the raw rows during ingestion.
// Malformed rows are skipped and counted, never fatal: one bad historical
// row must not make the whole ledger unusable.
type IngestStats struct {
	Total           int `json:"total"`
	Accepted        int `json:"accepted"`
	Skipped         int `json:"skipped"`
	OpaqueTransfers int `json:"opaque_transfers"`
}

// Ingest normalizes raw rows into canonical entries.
//
// Rows missing a required field (positive amount, known type, entry date)
// are skipped and counted in Skipped. A row typed "transfer" without a
// direction is an opaque backend transfer whose legs are recorded elsewhere;
// it is excluded from replay and counted in OpaqueTransfers.
//
// Callers must pass the full history, not a period-filtered subset: running
// balances replay from each account's initial balance through all time, and
// period filtering is a presentation step applied after replay.
func Ingest(records []Record) ([]Entry, IngestStats) {
	entries := make([]Entry, 0, len(records))
	stats := IngestStats{Total: len(records)}

	for _, r := range records {
		kind, ok := classify(r)
		if !ok {
			if r.Type == "transfer" && r.Direction == "" {
				stats.OpaqueTransfers++
			} else {
				stats.Skipped++
			}
			continue
		}
		if !r.Amount.IsPositive() || r.EntryDate.IsZero() || r.AccountID == 0 {
			stats.Skipped++
			continue
		}

		entries = append(entries, Entry{
			ID:             r.ID,
			Kind:           kind,
			TransferGroup:  r.TransferGroup,
			AccountID:      r.AccountID,
			FiscalPeriodID: r.FiscalPeriodID,
			CategoryID:     r.CategoryID,
			Description:    r.Description,
			Amount:         r.Amount,
			Currency:       r.Currency,
			ExchangeRate:   r.ExchangeRate,
			EntryDate:      r.EntryDate,
			CreatedAt:      r.CreatedAt,
			seq:            len(entries),
		})
		stats.Accepted++
	}

	return entries, stats
}

// classify maps a raw type/direction pair onto a Kind.
func classify(r Record) (Kind, bool) {
	switch r.Type {
	case "income":
		return KindIncome, true
	case "expense":
		return KindExpense, true
	case "transfer":
		switch r.Direction {
		case "in":
			return KindTransferIn, true
		case "out":
			return KindTransferOut, true
		}
	}
	return 0, false
}
