package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWayfindingDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:wf_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Plot{}, &models.Interment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	owner := "c1"
	if err := db.Create(&models.Client{ID: owner, FirstName: "Private", LastName: "Owner", RegistrationDate: time.Now()}).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	lat, lng := 14.5995, 120.9842
	plot := models.Plot{
		ID:            "p1",
		Section:       "C",
		BlockNumber:   "03",
		LotNumber:     "021",
		Type:          "Lawn Lot",
		Status:        models.StatusOccupied,
		OwnerClientID: &owner,
		Capacity:      2,
		Latitude:      &lat,
		Longitude:     &lng,
	}
	if err := db.Create(&plot).Error; err != nil {
		t.Fatalf("plot: %v", err)
	}
	death := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := db.Create(&models.Interment{PlotID: "p1", DeceasedName: "Lorenzo Rivera", DateOfDeath: death, DateOfInterment: death.AddDate(0, 0, 4)}).Error; err != nil {
		t.Fatalf("interment: %v", err)
	}
	return db
}

func wayfindingSearch(t *testing.T, db *gorm.DB, query string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewWayfindingHandler(db)
	req := httptest.NewRequest(http.MethodGet, "/wayfinding/search?"+query, nil)
	rr := httptest.NewRecorder()
	h.Search(rr, req)
	return rr
}

func TestWayfindingSearchByName(t *testing.T) {
	db := setupWayfindingDB(t)

	rr := wayfindingSearch(t, db, "q=lorenzo&by=name")
	if rr.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Items []wayfindingResult `json:"items"`
		Total int                `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
	got := resp.Items[0]
	if got.Identifier != "C-03-021" {
		t.Errorf("identifier = %s", got.Identifier)
	}
	if got.MatchReason != "Matched by Deceased Name" {
		t.Errorf("match reason = %s", got.MatchReason)
	}
	if got.Latitude == nil || got.Longitude == nil {
		t.Errorf("map coordinates missing")
	}
}

func TestWayfindingSearchByLot(t *testing.T) {
	db := setupWayfindingDB(t)

	rr := wayfindingSearch(t, db, "q=C-03&by=lot")
	if rr.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Items []wayfindingResult `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].MatchReason != "Matched by Lot Details" {
		t.Errorf("items = %+v", resp.Items)
	}
}

func TestWayfindingNeverExposesOwner(t *testing.T) {
	db := setupWayfindingDB(t)

	rr := wayfindingSearch(t, db, "q=lorenzo&by=name")
	body := rr.Body.String()
	for _, leak := range []string{"c1", "Private", "owner"} {
		if strings.Contains(body, leak) {
			t.Errorf("response leaks %q: %s", leak, body)
		}
	}
}

func TestWayfindingEmptyAndInvalidQueries(t *testing.T) {
	db := setupWayfindingDB(t)

	rr := wayfindingSearch(t, db, "q=")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"total":0`) {
		t.Errorf("empty query: %d %s", rr.Code, rr.Body.String())
	}
	rr = wayfindingSearch(t, db, "q=x&by=owner")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid search type: %d", rr.Code)
	}
}
