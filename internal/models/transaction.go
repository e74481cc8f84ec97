package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransferDirection marks which side of a two-legged transfer a row is.
type TransferDirection string

const (
	TransferDirectionIn  TransferDirection = "in"
	TransferDirectionOut TransferDirection = "out"
)

// Transaction represents one money movement on a site's ledger.
//
// Amount is always non-negative in the transaction's native currency; the
// sign of its effect on balances comes from Type (and TransferDirection for
// transfers). ExchangeRate is the native-to-reporting rate captured when the
// row was entered, never a live rate, so historical rows reproduce the same
// reporting amount on every read.
//
// A transfer between accounts is stored as two rows sharing TransferGroup:
// a same-currency in/out pair, or an expense/income pair when the two
// accounts hold different currencies (FX transfer).
type Transaction struct {
	Base
	SiteID         uint              `gorm:"not null;index" json:"site_id"`
	FiscalPeriodID *uint             `gorm:"index" json:"fiscal_period_id,omitempty"`
	CategoryID     *uint             `json:"category_id,omitempty"`
	AccountID      uint              `gorm:"not null;index" json:"account_id"`
	UnitID         *uint             `json:"unit_id,omitempty"`
	Type           TransactionType   `gorm:"not null" json:"type"`
	Direction      TransferDirection `json:"direction,omitempty"`
	TransferGroup  string            `gorm:"size:36;index" json:"transfer_group,omitempty"`
	Description    string            `json:"description"`
	Amount         decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency       string            `gorm:"not null;default:'TRY'" json:"currency"`
	ExchangeRate   decimal.Decimal   `gorm:"type:decimal(20,8);default:1" json:"exchange_rate"`
	EntryDate      time.Time         `gorm:"not null;index" json:"entry_date"`

	// Relationships
	Account      Account       `gorm:"foreignKey:AccountID" json:"account"`
	Category     *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	FiscalPeriod *FiscalPeriod `gorm:"foreignKey:FiscalPeriodID" json:"fiscal_period,omitempty"`
	Unit         *Unit         `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}
