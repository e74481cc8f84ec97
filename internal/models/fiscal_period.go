package models

import "time"

// FiscalPeriod represents an accounting period for a site (e.g. "2024").
// Periods are a presentation-level filter: balance replay always runs over
// the full transaction history regardless of the selected period.
type FiscalPeriod struct {
	Base
	SiteID    uint      `gorm:"not null;index" json:"site_id"`
	Name      string    `gorm:"not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}
