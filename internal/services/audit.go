package services

import (
	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/gorm"
)

// AuditService writes the audit trail rows shown on the admin audit page.
// Recording is best-effort: a failed audit write must not fail the mutation
// it describes, so Record logs nothing back to the caller.
type AuditService struct{ DB *gorm.DB }

func NewAuditService(db *gorm.DB) *AuditService { return &AuditService{DB: db} }

// Record stores one audit entry. username is denormalized so the trail stays
// readable after the acting user is deactivated.
func (s *AuditService) Record(userID uint, username, action, entityType, entityID string) {
	s.RecordChange(userID, username, action, entityType, entityID, "", "", "")
}

// RecordChange stores an audit entry including a field-level old/new pair.
func (s *AuditService) RecordChange(userID uint, username, action, entityType, entityID, field, oldValue, newValue string) {
	entry := models.AuditLog{
		UserID:     userID,
		Username:   username,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	_ = s.DB.Create(&entry).Error
}
