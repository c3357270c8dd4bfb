package handlers

import (
	"net/http"
	"strings"

	"github.com/paraiso360/paraiso360/internal/httpx"
	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/gorm"
)

// WayfindingHandler backs the public plot-search page. No authentication and
// no client/owner details in the response: visitors only see where a plot is.
type WayfindingHandler struct{ DB *gorm.DB }

func NewWayfindingHandler(db *gorm.DB) *WayfindingHandler { return &WayfindingHandler{DB: db} }

type wayfindingResult struct {
	PlotID      string   `json:"plot_id"`
	Identifier  string   `json:"identifier"`
	Section     string   `json:"section"`
	BlockNumber string   `json:"block_number"`
	LotNumber   string   `json:"lot_number"`
	Type        string   `json:"type"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	MatchReason string   `json:"match_reason"`
}

// Search: GET /wayfinding/search?q=...&by=name|lot
func (h *WayfindingHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": []wayfindingResult{}, "total": 0})
		return
	}
	by := r.URL.Query().Get("by")
	if by == "" {
		by = "name"
	}
	like := "%" + strings.ToLower(safeQueryRe.ReplaceAllString(q, "")) + "%"

	var results []wayfindingResult
	switch by {
	case "name":
		var interments []models.Interment
		if err := h.DB.Where("lower(deceased_name) LIKE ?", like).Limit(50).Find(&interments).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
			return
		}
		seen := map[string]bool{}
		for _, it := range interments {
			if seen[it.PlotID] {
				continue
			}
			seen[it.PlotID] = true
			var plot models.Plot
			if err := h.DB.First(&plot, "id = ?", it.PlotID).Error; err != nil {
				continue
			}
			results = append(results, toWayfindingResult(plot, "Matched by Deceased Name"))
		}
	case "lot":
		var plots []models.Plot
		if err := h.DB.
			Where("lower(section || '-' || block_number || '-' || lot_number) LIKE ? OR lower(section || ' ' || block_number || ' ' || lot_number) LIKE ?", like, like).
			Limit(50).Find(&plots).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
			return
		}
		for _, p := range plots {
			results = append(results, toWayfindingResult(p, "Matched by Lot Details"))
		}
	default:
		httpx.JSONError(w, http.StatusBadRequest, "invalid_search_type", nil)
		return
	}
	if results == nil {
		results = []wayfindingResult{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": results, "total": len(results)})
}

func toWayfindingResult(p models.Plot, reason string) wayfindingResult {
	return wayfindingResult{
		PlotID:      p.ID,
		Identifier:  p.Identifier(),
		Section:     p.Section,
		BlockNumber: p.BlockNumber,
		LotNumber:   p.LotNumber,
		Type:        p.Type,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		MatchReason: reason,
	}
}
