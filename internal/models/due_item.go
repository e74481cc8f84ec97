package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DueItem represents a charge accrued against a unit's debt ledger, such as
// a monthly maintenance fee. From the site's perspective it is income, but
// it is kept as a separate per-unit accrual stream for statement purposes.
type DueItem struct {
	Base
	UnitID         uint            `gorm:"not null;index" json:"unit_id"`
	FiscalPeriodID *uint           `gorm:"index" json:"fiscal_period_id,omitempty"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency       string          `gorm:"not null;default:'TRY'" json:"currency"`
	DueDate        time.Time       `gorm:"not null;index" json:"due_date"`
}
