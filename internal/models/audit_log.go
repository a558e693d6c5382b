package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditLog records admin and auth actions (logins, confirmations, winner
// marking) for the back office.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	Action    string         `gorm:"size:64;not null;index" json:"action"`
	Entity    string         `gorm:"size:64" json:"entity"`    // e.g. "order", "deposit"
	EntityID  uint           `gorm:"index" json:"entity_id"`
	Detail    string         `gorm:"size:512" json:"detail"`
	IP        string         `gorm:"size:64" json:"ip"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AuditLog) TableName() string { return "audit_logs" }
