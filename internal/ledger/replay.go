package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountState is the replay seed for one account: its native currency, the
// opening balance in that currency, and the native-to-reporting rate
// captured when the account was created.
type AccountState struct {
	ID             uint
	Currency       string
	InitialBalance decimal.Decimal
	InitialRate    decimal.Decimal
	IsActive       bool
}

// AnnotatedEntry is an entry plus the balances observed immediately after
// applying it, in replay order. The balance fields are what the ledger table
// shows per row.
type AnnotatedEntry struct {
	Entry
	ReportingAmount decimal.Decimal `json:"reporting_amount"`
	AccountBalance  decimal.Decimal `json:"account_balance"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	AccountMissing  bool            `json:"account_missing,omitempty"`
}

// Warnings counts the data-quality issues observed during a replay. None of
// them abort the computation; they are surfaced so operators can clean up
// the underlying rows.
type Warnings struct {
	DefaultedRates       int `json:"defaulted_rates"`
	OrphanAccounts       int `json:"orphan_accounts"`
	UnpairedTransferLegs int `json:"unpaired_transfer_legs"`
}

// Any reports whether at least one warning was recorded.
func (w Warnings) Any() bool {
	return w.DefaultedRates > 0 || w.OrphanAccounts > 0 || w.UnpairedTransferLegs > 0
}

// Result is the output of one full-history replay.
type Result struct {
	// AccountBalances maps account ID to its running native balance after
	// the full history.
	AccountBalances map[uint]decimal.Decimal `json:"account_balances"`
	// OpeningBalance is the reporting-currency balance reconstructed from
	// the accounts' initial balances, before any entry applies.
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	// GlobalBalance is the reporting-currency balance after the full
	// history.
	GlobalBalance decimal.Decimal `json:"global_balance"`
	// Entries holds every applied entry in replay order with its balance
	// snapshots.
	Entries  []AnnotatedEntry `json:"entries"`
	Warnings Warnings         `json:"warnings"`
	// Reconciled is the conservation invariant: every reporting-currency
	// movement must be attributable to a known account, so the global
	// balance equals the opening balance plus the signed sum of deltas
	// that landed on an account. Orphan entries move the global balance
	// without moving any account, which shows up here as Drift.
	Reconciled bool            `json:"reconciled"`
	Drift      decimal.Decimal `json:"drift"`
}

// Replay applies the full entry history in chronological order and returns
// per-account native balances, the global reporting-currency balance, and
// per-entry balance snapshots.
//
// Entries sort by entry date ascending, creation time ascending, then input
// order, so the output is deterministic for a given entry set regardless of
// how the input was ordered. Inactive accounts still seed and receive their
// historical entries; deactivation only blocks new transactions.
//
// An entry whose account is unknown still moves the global balance (the
// money did move site-wide) but cannot move any account balance; it is
// marked and counted as an orphan. This is a deliberate policy choice, kept
// visible through Warnings rather than silently dropped.
func Replay(accounts []AccountState, entries []Entry, reportingCurrency string) Result {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].EntryDate.Equal(sorted[j].EntryDate) {
			return sorted[i].EntryDate.Before(sorted[j].EntryDate)
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].seq < sorted[j].seq
	})

	result := Result{
		AccountBalances: make(map[uint]decimal.Decimal, len(accounts)),
		Entries:         make([]AnnotatedEntry, 0, len(sorted)),
	}

	opening := decimal.Zero
	for _, a := range accounts {
		result.AccountBalances[a.ID] = a.InitialBalance
		converted, defaulted := ReportingAmount(a.InitialBalance, a.Currency, a.InitialRate, reportingCurrency)
		if defaulted {
			result.Warnings.DefaultedRates++
		}
		opening = opening.Add(converted)
	}
	result.OpeningBalance = opening

	global := opening
	attributed := decimal.Zero
	legs := make(map[string]int)

	for _, e := range sorted {
		reporting, defaulted := ReportingAmount(e.Amount, e.Currency, e.ExchangeRate, reportingCurrency)
		if defaulted {
			result.Warnings.DefaultedRates++
		}

		var sign decimal.Decimal
		switch e.Kind {
		case KindIncome, KindTransferIn:
			sign = decimal.NewFromInt(1)
		case KindExpense, KindTransferOut:
			sign = decimal.NewFromInt(-1)
		default:
			// Unknown kinds cannot reach here through Ingest; skip
			// defensively without moving any balance.
			continue
		}

		annotated := AnnotatedEntry{Entry: e, ReportingAmount: reporting}

		if balance, ok := result.AccountBalances[e.AccountID]; ok {
			balance = balance.Add(sign.Mul(e.Amount))
			result.AccountBalances[e.AccountID] = balance
			annotated.AccountBalance = balance
		} else {
			result.Warnings.OrphanAccounts++
			annotated.AccountMissing = true
		}

		delta := sign.Mul(reporting)
		global = global.Add(delta)
		if !annotated.AccountMissing {
			attributed = attributed.Add(delta)
		}
		annotated.TotalBalance = global

		if e.TransferGroup != "" {
			legs[e.TransferGroup] += int(sign.IntPart())
		}

		result.Entries = append(result.Entries, annotated)
	}

	// A transfer group must hold exactly two legs with opposite signs; the
	// signed leg count of a well-formed group is zero. Anything else means a
	// dropped or duplicated leg.
	groupSize := make(map[string]int)
	for _, e := range sorted {
		if e.TransferGroup != "" {
			groupSize[e.TransferGroup]++
		}
	}
	for group, size := range groupSize {
		if size != 2 || legs[group] != 0 {
			result.Warnings.UnpairedTransferLegs++
		}
	}

	result.GlobalBalance = global
	result.Drift = global.Sub(opening.Add(attributed))
	result.Reconciled = result.Drift.IsZero()

	return result
}

// Filter narrows an annotated entry list for display. Filtering happens
// after replay and never alters the recorded balance fields.
type Filter struct {
	FiscalPeriodID *uint
	AccountID      *uint
	Kind           *Kind
	Search         string
}

// FilterEntries returns the annotated entries matching the filter, in their
// existing replay order.
func FilterEntries(entries []AnnotatedEntry, f Filter) []AnnotatedEntry {
	out := make([]AnnotatedEntry, 0, len(entries))
	search := strings.ToLower(strings.TrimSpace(f.Search))

	for _, e := range entries {
		if f.FiscalPeriodID != nil {
			if e.FiscalPeriodID == nil || *e.FiscalPeriodID != *f.FiscalPeriodID {
				continue
			}
		}
		if f.AccountID != nil && e.AccountID != *f.AccountID {
			continue
		}
		if f.Kind != nil && e.Kind != *f.Kind {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Description), search) {
			continue
		}
		out = append(out, e)
	}

	return out
}
