package handlers

import (
	"net/http"
	"strconv"

	"github.com/paraiso360/paraiso360/internal/httpx"
	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/gorm"
)

type AuditLogHandler struct{ DB *gorm.DB }

func NewAuditLogHandler(db *gorm.DB) *AuditLogHandler { return &AuditLogHandler{DB: db} }

// List: GET /audit-logs – newest first, filter by entity_type and entity_id.
func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	dbq := h.DB.Model(&models.AuditLog{})
	if et := r.URL.Query().Get("entity_type"); et != "" {
		dbq = dbq.Where("entity_type = ?", et)
	}
	if eid := r.URL.Query().Get("entity_id"); eid != "" {
		dbq = dbq.Where("entity_id = ?", eid)
	}
	var total int64
	dbq.Count(&total)
	var entries []models.AuditLog
	if err := dbq.Order("id desc").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_audit_logs", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": entries, "total": total, "limit": limit, "offset": offset})
}
