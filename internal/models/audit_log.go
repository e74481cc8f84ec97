package models

// AuditLog records administrative mutations (entries, transfers, account
// changes) so balance disputes can be traced back to the operation that
// caused them.
type AuditLog struct {
	Base
	SiteID       uint   `gorm:"not null;index" json:"site_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
