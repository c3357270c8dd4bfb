package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paraiso360/paraiso360/internal/httpx"
	"github.com/paraiso360/paraiso360/internal/models"
	"github.com/paraiso360/paraiso360/internal/services"
	"github.com/paraiso360/paraiso360/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentHandler manages document metadata; the files themselves live in an
// external store referenced by FilePath.
type DocumentHandler struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewDocumentHandler(db *gorm.DB, audit *services.AuditService) *DocumentHandler {
	return &DocumentHandler{DB: db, Audit: audit}
}

// List: GET /documents – filter by client_id, plot_id, q over name/description.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	dbq := h.DB.Model(&models.DocumentRecord{})
	if cid := r.URL.Query().Get("client_id"); cid != "" {
		dbq = dbq.Where("client_id = ?", cid)
	}
	if pid := r.URL.Query().Get("plot_id"); pid != "" {
		dbq = dbq.Where("plot_id = ?", pid)
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(safeQueryRe.ReplaceAllString(q, "")) + "%"
		dbq = dbq.Where("lower(file_name) LIKE ? OR lower(description) LIKE ?", like, like)
	}
	var total int64
	dbq.Count(&total)
	var docs []models.DocumentRecord
	if err := dbq.Order("upload_date desc").Limit(limit).Offset(offset).Find(&docs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_documents", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": docs, "total": total, "limit": limit, "offset": offset})
}

type createDocumentRequest struct {
	FileName    string   `json:"file_name"`
	FileType    string   `json:"file_type"`
	FilePath    string   `json:"file_path"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	ClientID    *string  `json:"client_id"`
	PlotID      *string  `json:"plot_id"`
}

// Create: POST /documents – registers metadata for an already-stored file.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createDocumentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("fileName", req.FileName, v)
	validation.Required("filePath", req.FilePath, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	doc := models.DocumentRecord{
		ID:               uuid.NewString(),
		FileName:         req.FileName,
		FileType:         req.FileType,
		FilePath:         req.FilePath,
		Description:      req.Description,
		Tags:             req.Tags,
		ClientID:         req.ClientID,
		PlotID:           req.PlotID,
		UploadedByUserID: user.ID,
		UploadDate:       time.Now(),
	}
	if err := h.DB.Create(&doc).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_document", nil)
		return
	}
	h.Audit.Record(user.ID, user.Username, "create", "Document", doc.ID)
	httpx.JSON(w, http.StatusCreated, doc)
}

// Delete: POST /documents/delete
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var doc models.DocumentRecord
	if err := h.DB.First(&doc, "id = ?", req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "document_not_found", nil)
		return
	}
	if err := h.DB.Delete(&doc).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_document", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok {
		h.Audit.Record(user.ID, user.Username, "delete", "Document", doc.ID)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
