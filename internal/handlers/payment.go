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

var paymentStatuses = []string{
	models.PaymentPaid, models.PaymentPending, models.PaymentOverdue,
	models.PaymentCancelled, models.PaymentRefunded,
}

type PaymentHandler struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewPaymentHandler(db *gorm.DB, audit *services.AuditService) *PaymentHandler {
	return &PaymentHandler{DB: db, Audit: audit}
}

// List: GET /payments – filter by client_id, plot_id, status.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
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
	dbq := h.DB.Model(&models.Payment{})
	if cid := r.URL.Query().Get("client_id"); cid != "" {
		dbq = dbq.Where("client_id = ?", cid)
	}
	if pid := r.URL.Query().Get("plot_id"); pid != "" {
		dbq = dbq.Where("plot_id = ?", pid)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	var total int64
	dbq.Count(&total)
	var payments []models.Payment
	if err := dbq.Preload("Client").Order("payment_date desc").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_payments", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": payments, "total": total, "limit": limit, "offset": offset})
}

type createPaymentRequest struct {
	ClientID    string              `json:"client_id"`
	PlotID      *string             `json:"plot_id"`
	Amount      float64             `json:"amount"`
	PaymentDate *services.DateValue `json:"payment_date"`
	ORNumber    string              `json:"or_number"`
	PaymentType string              `json:"payment_type"`
	Method      string              `json:"method"`
	Status      string              `json:"status"`
	Notes       string              `json:"notes"`
}

// Create: POST /payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("clientId", req.ClientID, v)
	validation.Required("orNumber", req.ORNumber, v)
	validation.Required("paymentType", req.PaymentType, v)
	validation.Required("method", req.Method, v)
	validation.PositiveFloat("amount", req.Amount, v)
	if req.Status != "" {
		validation.OneOf("status", req.Status, paymentStatuses, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	var clientCount int64
	h.DB.Model(&models.Client{}).Where("id = ?", req.ClientID).Count(&clientCount)
	if clientCount == 0 {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	if req.PlotID != nil && *req.PlotID != "" {
		var plotCount int64
		h.DB.Model(&models.Plot{}).Where("id = ?", *req.PlotID).Count(&plotCount)
		if plotCount == 0 {
			httpx.JSONError(w, http.StatusNotFound, "plot_not_found", nil)
			return
		}
	}
	status := req.Status
	if status == "" {
		status = models.PaymentPending
	}
	payment := models.Payment{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		PlotID:      req.PlotID,
		Amount:      req.Amount,
		PaymentDate: time.Now(),
		ORNumber:    strings.TrimSpace(req.ORNumber),
		PaymentType: req.PaymentType,
		Method:      req.Method,
		Status:      status,
		Notes:       req.Notes,
	}
	if t := req.PaymentDate.TimePtr(); t != nil {
		payment.PaymentDate = *t
	}
	if user, ok := currentUser(h.DB, r); ok {
		payment.RecordedByUserID = user.ID
	}
	if err := h.DB.Create(&payment).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "or_number_taken", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok {
		h.Audit.Record(user.ID, user.Username, "create", "Payment", payment.ID)
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

type updatePaymentRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// Update: POST /payments/update – status transitions and note edits only;
// amount and OR number are immutable once recorded.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePaymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("status", req.Status, v)
	if req.Status != "" {
		validation.OneOf("status", req.Status, paymentStatuses, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	var payment models.Payment
	if err := h.DB.First(&payment, "id = ?", req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "payment_not_found", nil)
		return
	}
	old := payment.Status
	payment.Status = req.Status
	payment.Notes = req.Notes
	if err := h.DB.Save(&payment).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_payment", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok && old != payment.Status {
		h.Audit.RecordChange(user.ID, user.Username, "update", "Payment", payment.ID, "status", old, payment.Status)
	}
	httpx.JSON(w, http.StatusOK, payment)
}
