package services

import (
	"time"

	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/gorm"
)

// NotifyAdmins creates a dashboard notification for every active admin.
// Best effort: a failed insert never blocks the action that triggered it.
func NotifyAdmins(db *gorm.DB, title, message string) {
	var admins []models.User
	if err := db.Where("role = ? AND status = ?", models.RoleAdmin, models.UserActive).Find(&admins).Error; err != nil {
		return
	}
	now := time.Now()
	for _, a := range admins {
		_ = db.Create(&models.Notification{
			UserID:  a.ID,
			Type:    "dashboard",
			Title:   title,
			Message: message,
			SentAt:  now,
		}).Error
	}
}
