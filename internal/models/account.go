package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeBank AccountType = "bank"
	AccountTypeCash AccountType = "cash"
)

// Account represents a cash or bank holding point of a site.
//
// InitialBalance is the account's opening balance in its native currency and
// InitialRate is the native-to-reporting exchange rate captured when the
// account was created. Both are replay seeds: the running balances shown to
// users are always recomputed from them plus the full transaction history.
// There is deliberately no stored "current balance" column to drift.
type Account struct {
	Base
	SiteID         uint            `gorm:"not null;index" json:"site_id"`
	Name           string          `gorm:"not null" json:"name"`
	Type           AccountType     `gorm:"not null" json:"type"`
	Description    string          `json:"description"`
	Currency       string          `gorm:"not null;default:'TRY'" json:"currency"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"initial_balance"`
	InitialRate    decimal.Decimal `gorm:"type:decimal(20,8);default:1" json:"initial_rate"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
