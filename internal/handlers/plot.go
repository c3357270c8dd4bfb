package handlers

import (
	"errors"
	"net/http"
	"regexp"
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

// safeQueryRe strips anything but alnum, dash, space, underscore from user search input.
var safeQueryRe = regexp.MustCompile(`[^a-zA-Z0-9 \-_]`)

type PlotHandler struct {
	DB         *gorm.DB
	Assignment *services.AssignmentService
	Audit      *services.AuditService
}

func NewPlotHandler(db *gorm.DB, assignment *services.AssignmentService, audit *services.AuditService) *PlotHandler {
	return &PlotHandler{DB: db, Assignment: assignment, Audit: audit}
}

// List: GET /plots – filter by status, section, and free-text q over the identifier/type.
func (h *PlotHandler) List(w http.ResponseWriter, r *http.Request) {
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
	dbq := h.DB.Model(&models.Plot{})
	if status := r.URL.Query().Get("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if section := r.URL.Query().Get("section"); section != "" {
		dbq = dbq.Where("section = ?", section)
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(safeQueryRe.ReplaceAllString(q, "")) + "%"
		dbq = dbq.Where("lower(section || '-' || block_number || '-' || lot_number) LIKE ? OR lower(type) LIKE ?", like, like)
	}
	var total int64
	dbq.Count(&total)
	var plots []models.Plot
	if err := dbq.Preload("Interments").Order("section asc, block_number asc, lot_number asc").Limit(limit).Offset(offset).Find(&plots).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_plots", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": plots, "total": total, "limit": limit, "offset": offset})
}

// Get: GET /plots/get?id=...
func (h *PlotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var plot models.Plot
	if err := h.DB.Preload("Interments").First(&plot, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "plot_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, plot)
}

type createPlotRequest struct {
	Section     string   `json:"section"`
	BlockNumber string   `json:"block_number"`
	LotNumber   string   `json:"lot_number"`
	Type        string   `json:"type"`
	Capacity    int      `json:"capacity"`
	Dimensions  string   `json:"dimensions"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Notes       string   `json:"notes"`
}

// Create: POST /plots – new plots always start Available with no owner.
func (h *PlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPlotRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("section", req.Section, v)
	validation.Required("blockNumber", req.BlockNumber, v)
	validation.Required("lotNumber", req.LotNumber, v)
	validation.Required("type", req.Type, v)
	if req.Capacity == 0 {
		v["capacity"] = "required"
	} else {
		validation.PositiveInt("capacity", req.Capacity, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	var dup int64
	h.DB.Model(&models.Plot{}).
		Where("section = ? AND block_number = ? AND lot_number = ?", req.Section, req.BlockNumber, req.LotNumber).
		Count(&dup)
	if dup > 0 {
		httpx.JSONError(w, http.StatusConflict, "plot_identifier_taken", nil)
		return
	}
	plot := models.Plot{
		ID:          uuid.NewString(),
		Section:     req.Section,
		BlockNumber: req.BlockNumber,
		LotNumber:   req.LotNumber,
		Type:        req.Type,
		Status:      models.StatusAvailable,
		Capacity:    req.Capacity,
		Dimensions:  req.Dimensions,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Notes:       req.Notes,
	}
	if err := h.DB.Create(&plot).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_plot", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok {
		h.Audit.Record(user.ID, user.Username, "create", "Plot", plot.ID)
	}
	httpx.JSON(w, http.StatusCreated, plot)
}

type updatePlotRequest struct {
	ID string `json:"id"`
	services.PlotChange
}

// Update: POST /plots/update – runs the requested field-set through the status
// rule engine; either all validation passes and the normalized plot is saved,
// or the full violation list comes back and nothing is written.
func (h *PlotHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePlotRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var plot models.Plot
	if err := h.DB.First(&plot, "id = ?", req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "plot_not_found", nil)
		return
	}
	before := plot.Status

	ownerExists := func(id string) bool {
		var count int64
		h.DB.Model(&models.Client{}).Where("id = ?", id).Count(&count)
		return count > 0
	}
	next, violations := services.ApplyStatusChange(plot, req.PlotChange, ownerExists)
	if !violations.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violations.Report())
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		return syncOwnerLink(tx, plot, next)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_plot", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok && before != next.Status {
		h.Audit.RecordChange(user.ID, user.Username, "update", "Plot", next.ID, "status", string(before), string(next.Status))
	}
	httpx.JSON(w, http.StatusOK, next)
}

// syncOwnerLink keeps Client.AssociatedPlotIDs consistent after a rule-engine
// update changed the plot's owner: the old owner loses the plot id, the new
// owner gains it exactly once.
func syncOwnerLink(tx *gorm.DB, before, after models.Plot) error {
	oldOwner := ""
	if before.OwnerClientID != nil {
		oldOwner = *before.OwnerClientID
	}
	newOwner := ""
	if after.OwnerClientID != nil {
		newOwner = *after.OwnerClientID
	}
	if oldOwner == newOwner {
		return nil
	}
	if oldOwner != "" {
		var c models.Client
		if err := tx.First(&c, "id = ?", oldOwner).Error; err == nil {
			kept := c.AssociatedPlotIDs[:0]
			for _, id := range c.AssociatedPlotIDs {
				if id != before.ID {
					kept = append(kept, id)
				}
			}
			c.AssociatedPlotIDs = kept
			if err := tx.Save(&c).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if newOwner != "" {
		var c models.Client
		if err := tx.First(&c, "id = ?", newOwner).Error; err != nil {
			return err
		}
		if !c.OwnsPlot(after.ID) {
			c.AssociatedPlotIDs = append(c.AssociatedPlotIDs, after.ID)
			if err := tx.Save(&c).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

type assignPlotRequest struct {
	ClientID string `json:"client_id"`
	PlotID   string `json:"plot_id"`
}

// Assign: POST /plots/assign – reserve an available plot for a client.
func (h *PlotHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignPlotRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ClientID == "" || req.PlotID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"client_id": "required", "plot_id": "required"})
		return
	}
	plot, client, err := h.Assignment.AssignPlot(req.ClientID, req.PlotID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		case errors.Is(err, services.ErrPlotNotFound):
			httpx.JSONError(w, http.StatusNotFound, "plot_not_found", nil)
		case errors.Is(err, services.ErrPlotNotAvailable):
			httpx.JSONError(w, http.StatusConflict, "plot_not_available", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "assignment_failed", nil)
		}
		return
	}
	if user, ok := currentUser(h.DB, r); ok {
		h.Audit.RecordChange(user.ID, user.Username, "assign", "Plot", plot.ID, "ownerClientId", "", client.ID)
	}
	services.NotifyAdmins(h.DB, "Plot reserved", "Plot "+plot.Identifier()+" reserved for "+client.FullName())
	httpx.JSON(w, http.StatusOK, map[string]any{"plot": plot, "client": client})
}

type releasePlotRequest struct {
	PlotID string `json:"plot_id"`
}

// Release: POST /plots/release – revert a reservation, freeing the plot.
func (h *PlotHandler) Release(w http.ResponseWriter, r *http.Request) {
	var req releasePlotRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.PlotID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_plot_id", nil)
		return
	}
	plot, err := h.Assignment.ReleasePlot(req.PlotID)
	if err != nil {
		if errors.Is(err, services.ErrPlotNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "plot_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "release_failed", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok {
		h.Audit.Record(user.ID, user.Username, "release", "Plot", plot.ID)
	}
	httpx.JSON(w, http.StatusOK, plot)
}

type addIntermentRequest struct {
	PlotID          string              `json:"plot_id"`
	DeceasedName    string              `json:"deceased_name"`
	DateOfBirth     *services.DateValue `json:"date_of_birth"`
	DateOfDeath     services.DateValue  `json:"date_of_death"`
	DateOfInterment services.DateValue  `json:"date_of_interment"`
	RemainsType     string              `json:"remains_type"`
}

// AddInterment: POST /plots/interments – record a burial in an occupied plot.
func (h *PlotHandler) AddInterment(w http.ResponseWriter, r *http.Request) {
	var req addIntermentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("plotId", req.PlotID, v)
	validation.Required("deceasedName", req.DeceasedName, v)
	if req.DateOfDeath.IsZero() {
		v["dateOfDeath"] = "required"
	}
	if req.DateOfInterment.IsZero() {
		v["dateOfInterment"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	var plot models.Plot
	if err := h.DB.Preload("Interments").First(&plot, "id = ?", req.PlotID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "plot_not_found", nil)
		return
	}
	if plot.Status != models.StatusOccupied {
		httpx.JSONError(w, http.StatusConflict, "plot_not_occupied", nil)
		return
	}
	if len(plot.Interments) >= plot.Capacity {
		httpx.JSONError(w, http.StatusConflict, "plot_at_capacity", nil)
		return
	}
	interment := models.Interment{
		PlotID:          plot.ID,
		DeceasedName:    req.DeceasedName,
		DateOfBirth:     req.DateOfBirth.TimePtr(),
		DateOfDeath:     req.DateOfDeath.Time,
		DateOfInterment: req.DateOfInterment.Time,
		RemainsType:     req.RemainsType,
	}
	if interment.DateOfInterment.IsZero() {
		interment.DateOfInterment = time.Now()
	}
	if err := h.DB.Create(&interment).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_record_interment", nil)
		return
	}
	if user, ok := currentUser(h.DB, r); ok {
		h.Audit.Record(user.ID, user.Username, "create", "Interment", plot.ID)
	}
	httpx.JSON(w, http.StatusCreated, interment)
}
