package models

import "time"

// Audit logging
type AuditLog struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index"` // who performed the action
	Username   string    // denormalized so entries survive user deletion
	Action     string    `gorm:"not null"` // ex: "create", "update", "delete", "assign"
	EntityType string    `gorm:"index"`    // ex: "Plot", "Client", "Payment"
	EntityID   string    `gorm:"index"`
	Field      string    // modified field (optional)
	OldValue   string
	NewValue   string
	CreatedAt  time.Time `gorm:"index"`
}
