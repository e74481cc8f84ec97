package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DueLine is one accrual against a unit's debt ledger.
type DueLine struct {
	ID          uint
	Description string
	Amount      decimal.Decimal
	Currency    string
	DueDate     time.Time
	CreatedAt   time.Time
}

// PaymentLine is one credit against a unit's debt ledger. Rate is the
// operator-entered debt rate (see EffectiveCredit for the convention).
type PaymentLine struct {
	ID          uint
	Description string
	Amount      decimal.Decimal
	Currency    string
	Rate        decimal.Decimal
	PaymentDate time.Time
	CreatedAt   time.Time
}

// StatementRowKind tags one resident statement row.
type StatementRowKind string

const (
	StatementRowDue     StatementRowKind = "due"
	StatementRowPayment StatementRowKind = "payment"
)

// StatementRow is one line of a resident statement: the original amount as
// recorded, the credit/charge applied in the debt currency, and the debt
// balance immediately after applying it.
type StatementRow struct {
	Kind           StatementRowKind `json:"kind"`
	Date           time.Time        `json:"date"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	Currency       string           `json:"currency"`
	Applied        decimal.Decimal  `json:"applied"`
	RunningBalance decimal.Decimal  `json:"running_balance"`
}

// StatementSummary totals a resident statement in the debt currency.
type StatementSummary struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalAccrued   decimal.Decimal `json:"total_accrued"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	EndingBalance  decimal.Decimal `json:"ending_balance"`
}

// StatementWarnings counts data-quality issues observed while building a
// statement.
type StatementWarnings struct {
	DefaultedRates     int `json:"defaulted_rates"`
	CurrencyMismatches int `json:"currency_mismatches"`
}

// BuildStatement merges a unit's dues and payments into one chronological
// statement in the unit's debt currency, replaying the running balance from
// the unit's opening balance. Dues increase the balance (debt accrues),
// payments decrease it by their effective credit.
//
// The same ordering rules as the site ledger apply: date ascending, creation
// time ascending, then input order. A due recorded in a currency other than
// the debt currency is applied at face value and counted as a mismatch; the
// source row needs correcting, but the statement must still render.
func BuildStatement(opening decimal.Decimal, debtCurrency, reportingCurrency string, dues []DueLine, payments []PaymentLine) ([]StatementRow, StatementSummary, StatementWarnings) {
	type line struct {
		row     StatementRow
		created time.Time
		seq     int
	}

	var warnings StatementWarnings
	lines := make([]line, 0, len(dues)+len(payments))

	for _, d := range dues {
		if d.Currency != "" && d.Currency != debtCurrency {
			warnings.CurrencyMismatches++
		}
		lines = append(lines, line{
			row: StatementRow{
				Kind:        StatementRowDue,
				Date:        d.DueDate,
				Description: d.Description,
				Amount:      d.Amount,
				Currency:    d.Currency,
				Applied:     d.Amount,
			},
			created: d.CreatedAt,
			seq:     len(lines),
		})
	}

	for _, p := range payments {
		credit, defaulted := EffectiveCredit(p.Amount, p.Currency, p.Rate, debtCurrency, reportingCurrency)
		if defaulted {
			warnings.DefaultedRates++
		}
		lines = append(lines, line{
			row: StatementRow{
				Kind:        StatementRowPayment,
				Date:        p.PaymentDate,
				Description: p.Description,
				Amount:      p.Amount,
				Currency:    p.Currency,
				Applied:     credit,
			},
			created: p.CreatedAt,
			seq:     len(lines),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].row.Date.Equal(lines[j].row.Date) {
			return lines[i].row.Date.Before(lines[j].row.Date)
		}
		if !lines[i].created.Equal(lines[j].created) {
			return lines[i].created.Before(lines[j].created)
		}
		return lines[i].seq < lines[j].seq
	})

	summary := StatementSummary{OpeningBalance: opening}
	balance := opening
	rows := make([]StatementRow, 0, len(lines))

	for _, l := range lines {
		switch l.row.Kind {
		case StatementRowDue:
			balance = balance.Add(l.row.Applied)
			summary.TotalAccrued = summary.TotalAccrued.Add(l.row.Applied)
		case StatementRowPayment:
			balance = balance.Sub(l.row.Applied)
			summary.TotalPaid = summary.TotalPaid.Add(l.row.Applied)
		}
		l.row.RunningBalance = balance
		rows = append(rows, l.row)
	}

	summary.EndingBalance = balance
	return rows, summary, warnings
}
