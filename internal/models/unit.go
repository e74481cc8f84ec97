package models

import "github.com/shopspring/decimal"

// Unit represents a residential unit (flat/house) of a site.
//
// Currency is the currency of the unit's debt ledger: dues accrue and the
// resident statement is expressed in this currency. OpeningBalance is the
// debt carried into the ledger from before record-keeping started (positive
// means the resident owes).
type Unit struct {
	Base
	SiteID         uint            `gorm:"not null;index" json:"site_id"`
	Block          string          `json:"block"`
	Number         string          `gorm:"not null" json:"number"`
	OwnerName      string          `json:"owner_name"`
	OwnerPhone     string          `json:"owner_phone"`
	Currency       string          `gorm:"not null;default:'TRY'" json:"currency"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_balance"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Dues     []DueItem     `gorm:"foreignKey:UnitID" json:"dues,omitempty"`
	Payments []UnitPayment `gorm:"foreignKey:UnitID" json:"payments,omitempty"`
}
