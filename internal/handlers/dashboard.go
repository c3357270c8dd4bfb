package handlers

import (
	"net/http"

	"github.com/paraiso360/paraiso360/internal/httpx"
	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/gorm"
)

type DashboardHandler struct{ DB *gorm.DB }

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// Stats: GET /dashboard/stats – headline counts for the staff dashboard cards.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var clientCount, paymentPending, documentCount int64
	h.DB.Model(&models.Client{}).Count(&clientCount)
	h.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentPending).Count(&paymentPending)
	h.DB.Model(&models.DocumentRecord{}).Count(&documentCount)

	plotsByStatus := map[string]int64{}
	for _, status := range []models.PlotStatus{models.StatusAvailable, models.StatusReserved, models.StatusOccupied, models.StatusMaintenance} {
		var n int64
		h.DB.Model(&models.Plot{}).Where("status = ?", status).Count(&n)
		plotsByStatus[string(status)] = n
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"clients":          clientCount,
		"pending_payments": paymentPending,
		"documents":        documentCount,
		"plots_by_status":  plotsByStatus,
	})
}
