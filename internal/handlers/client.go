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

type ClientHandler struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewClientHandler(db *gorm.DB, audit *services.AuditService) *ClientHandler {
	return &ClientHandler{DB: db, Audit: audit}
}

// List: GET /clients – q searches name, contact number and email.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
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
	dbq := h.DB.Model(&models.Client{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(safeQueryRe.ReplaceAllString(q, "")) + "%"
		dbq = dbq.Where("lower(first_name || ' ' || last_name) LIKE ? OR contact_number LIKE ? OR lower(email) LIKE ?", like, like, like)
	}
	var total int64
	dbq.Count(&total)
	var clients []models.Client
	if err := dbq.Order("last_name asc, first_name asc").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": total, "limit": limit, "offset": offset})
}

// Get: GET /clients/get?id=... – includes the client's plots for the detail page.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var client models.Client
	if err := h.DB.First(&client, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	var plots []models.Plot
	if len(client.AssociatedPlotIDs) > 0 {
		h.DB.Where("id IN ?", client.AssociatedPlotIDs).Find(&plots)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"client": client, "plots": plots})
}

type clientRequest struct {
	FirstName                string `json:"first_name"`
	LastName                 string `json:"last_name"`
	ContactNumber            string `json:"contact_number"`
	AlternativeContactNumber string `json:"alternative_contact_number"`
	Email                    string `json:"email"`
	Address                  string `json:"address"`
	Notes                    string `json:"notes"`
}

func (req clientRequest) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("firstName", req.FirstName, v)
	validation.Required("lastName", req.LastName, v)
	if req.ContactNumber != "" && len(digitsOnly(req.ContactNumber)) < 10 {
		v["contactNumber"] = "invalid_value"
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		v["email"] = "invalid_value"
	}
	return v
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Create: POST /clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	client := models.Client{
		ID:                       uuid.NewString(),
		FirstName:                strings.TrimSpace(req.FirstName),
		LastName:                 strings.TrimSpace(req.LastName),
		ContactNumber:            req.ContactNumber,
		AlternativeContactNumber: req.AlternativeContactNumber,
		Email:                    req.Email,
		Address:                  req.Address,
		RegistrationDate:         time.Now(),
		AssociatedPlotIDs:        []string{},
		Notes:                    req.Notes,
	}
	if err := h.DB.Create(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_client", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok {
		h.Audit.Record(user.ID, user.Username, "create", "Client", client.ID)
	}
	httpx.JSON(w, http.StatusCreated, client)
}

type updateClientRequest struct {
	ID string `json:"id"`
	clientRequest
}

// Update: POST /clients/update – identity/contact fields only; the plot list
// is owned by the assignment service and never writable here.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateClientRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	var client models.Client
	if err := h.DB.First(&client, "id = ?", req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	client.FirstName = strings.TrimSpace(req.FirstName)
	client.LastName = strings.TrimSpace(req.LastName)
	client.ContactNumber = req.ContactNumber
	client.AlternativeContactNumber = req.AlternativeContactNumber
	client.Email = req.Email
	client.Address = req.Address
	client.Notes = req.Notes
	if err := h.DB.Save(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_client", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok {
		h.Audit.Record(user.ID, user.Username, "update", "Client", client.ID)
	}
	httpx.JSON(w, http.StatusOK, client)
}
