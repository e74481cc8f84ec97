package models

// Site represents a managed residential site. Every ledger computation is
// scoped to a single site, and site-wide totals are expressed in the site's
// reporting currency.
type Site struct {
	Base
	Name              string `gorm:"not null" json:"name"`
	Description       string `json:"description"`
	ReportingCurrency string `gorm:"not null;default:'TRY'" json:"reporting_currency"`

	// Relationships
	Accounts      []Account      `gorm:"foreignKey:SiteID" json:"accounts,omitempty"`
	Units         []Unit         `gorm:"foreignKey:SiteID" json:"units,omitempty"`
	FiscalPeriods []FiscalPeriod `gorm:"foreignKey:SiteID" json:"fiscal_periods,omitempty"`
	Categories    []Category     `gorm:"foreignKey:SiteID" json:"categories,omitempty"`
	Transactions  []Transaction  `gorm:"foreignKey:SiteID" json:"transactions,omitempty"`
}
