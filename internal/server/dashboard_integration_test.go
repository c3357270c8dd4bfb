package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paraiso360/paraiso360/internal/models"
)

func TestDashboardStats(t *testing.T) {
	db := setupRouterDB(t)
	app := New(db)
	staff := createUser(t, db, "staffer", models.RoleStaff)

	plots := []models.Plot{
		{ID: "p1", Section: "A", BlockNumber: "01", LotNumber: "001", Type: "Lawn Lot", Status: models.StatusAvailable, Capacity: 2},
		{ID: "p2", Section: "A", BlockNumber: "01", LotNumber: "002", Type: "Lawn Lot", Status: models.StatusReserved, Capacity: 2},
		{ID: "p3", Section: "A", BlockNumber: "01", LotNumber: "003", Type: "Niche", Status: models.StatusOccupied, Capacity: 1},
	}
	for i := range plots {
		if err := db.Create(&plots[i]).Error; err != nil {
			t.Fatalf("plot: %v", err)
		}
	}
	client := models.Client{ID: "c1", FirstName: "Maria", LastName: "Santos", RegistrationDate: time.Now()}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	payment := models.Payment{ID: "pay1", ORNumber: "OR-1001", ClientID: "c1", Amount: 1500, Status: models.PaymentPending, PaymentDate: time.Now(), RecordedByUserID: staff.ID}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("payment: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	req.AddCookie(sessionCookie(t, staff.ID))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("stats: %d %s", rr.Code, rr.Body.String())
	}

	var stats struct {
		Clients         int64            `json:"clients"`
		PendingPayments int64            `json:"pending_payments"`
		PlotsByStatus   map[string]int64 `json:"plots_by_status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Clients != 1 {
		t.Errorf("clients = %d", stats.Clients)
	}
	if stats.PendingPayments != 1 {
		t.Errorf("pending payments = %d", stats.PendingPayments)
	}
	if stats.PlotsByStatus["Available"] != 1 || stats.PlotsByStatus["Reserved"] != 1 || stats.PlotsByStatus["Occupied"] != 1 {
		t.Errorf("plots by status = %v", stats.PlotsByStatus)
	}
}
