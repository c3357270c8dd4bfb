package handlers

import (
	"net/http"

	"github.com/paraiso360/paraiso360/internal/httpx"
	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/gorm"
)

type NotificationHandler struct{ DB *gorm.DB }

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

// List: GET /notifications – the session user's notifications, unread first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var items []models.Notification
	if err := h.DB.Where("user_id = ?", user.ID).Order("read asc, id desc").Limit(100).Find(&items).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_notifications", nil)
		return
	}
	var unread int64
	h.DB.Model(&models.Notification{}).Where("user_id = ? AND read = ?", user.ID, false).Count(&unread)
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "unread": unread})
}

// MarkRead: POST /notifications/read – marks one of the user's notifications read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		ID uint `json:"id"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.ID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	res := h.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", req.ID, user.ID).
		Update("read", true)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_notification", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "notification_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "read"})
}
