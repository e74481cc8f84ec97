package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitPayment represents a credit applied against a unit's debt ledger.
//
// DebtRate is NOT the reporting-currency rate used on the site ledger: it is
// the operator-entered conversion between the payment currency and the
// unit's debt-ledger currency, stored as foreign-currency units per one
// local currency unit. See ledger.EffectiveCredit for the exact direction
// convention. Keeping the two rates as separately named fields avoids the
// direction-of-division ambiguity a single overloaded rate column would have.
type UnitPayment struct {
	Base
	UnitID      uint            `gorm:"not null;index" json:"unit_id"`
	AccountID   *uint           `json:"account_id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency    string          `gorm:"not null;default:'TRY'" json:"currency"`
	DebtRate    decimal.Decimal `gorm:"type:decimal(20,8);default:1" json:"debt_rate"`
	PaymentDate time.Time       `gorm:"not null;index" json:"payment_date"`

	// Relationships
	Unit    Unit     `gorm:"foreignKey:UnitID" json:"unit"`
	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
