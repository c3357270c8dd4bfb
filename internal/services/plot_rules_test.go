package services

import (
	"testing"
	"time"

	"github.com/paraiso360/paraiso360/internal/models"
)

func statusPtr(s models.PlotStatus) *models.PlotStatus { return &s }
func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }

func datePtr(s string) *DateValue {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &DateValue{Time: t}
}

func basePlot() models.Plot {
	return models.Plot{
		ID:          "plot-1",
		Section:     "A",
		BlockNumber: "01",
		LotNumber:   "001",
		Type:        "Lawn Lot",
		Status:      models.StatusAvailable,
		Capacity:    2,
	}
}

func anyClient(string) bool { return true }

func TestStatusAvailableClearsOwnerAndReservation(t *testing.T) {
	owner := "client-1"
	now := time.Now()
	current := basePlot()
	current.Status = models.StatusOccupied
	current.OwnerClientID = &owner
	current.ReservationDate = &now

	next, v := ApplyStatusChange(current, PlotChange{Status: statusPtr(models.StatusAvailable)}, anyClient)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	if next.OwnerClientID != nil {
		t.Errorf("owner not cleared: %v", *next.OwnerClientID)
	}
	if next.ReservationDate != nil {
		t.Errorf("reservation date not cleared")
	}
	if current.OwnerClientID == nil {
		t.Errorf("input plot was mutated")
	}
}

func TestStatusMaintenanceClearsOwner(t *testing.T) {
	owner := "client-1"
	current := basePlot()
	current.Status = models.StatusReserved
	current.OwnerClientID = &owner
	now := time.Now()
	current.ReservationDate = &now

	next, v := ApplyStatusChange(current, PlotChange{Status: statusPtr(models.StatusMaintenance)}, anyClient)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	if next.OwnerClientID != nil || next.ReservationDate != nil {
		t.Errorf("maintenance should clear owner and reservation, got owner=%v date=%v", next.OwnerClientID, next.ReservationDate)
	}
}

func TestStatusOccupiedKeepsOwnerDropsReservation(t *testing.T) {
	owner := "client-1"
	now := time.Now()
	current := basePlot()
	current.Status = models.StatusReserved
	current.OwnerClientID = &owner
	current.ReservationDate = &now

	next, v := ApplyStatusChange(current, PlotChange{Status: statusPtr(models.StatusOccupied)}, anyClient)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	if next.OwnerClientID == nil || *next.OwnerClientID != owner {
		t.Errorf("owner should be kept for occupied plots")
	}
	if next.ReservationDate != nil {
		t.Errorf("reservation date should be consumed on occupation")
	}
}

func TestReservedRequiresOwnerAndDate(t *testing.T) {
	current := basePlot()

	_, v := ApplyStatusChange(current, PlotChange{Status: statusPtr(models.StatusReserved)}, anyClient)
	if v.Empty() {
		t.Fatal("expected violations")
	}
	if _, ok := v["ownerClientId"]; !ok {
		t.Errorf("missing ownerClientId violation: %v", v)
	}
	if _, ok := v["reservationDate"]; !ok {
		t.Errorf("missing reservationDate violation: %v", v)
	}
}

func TestReservedWithOwnerAndDatePasses(t *testing.T) {
	current := basePlot()

	next, v := ApplyStatusChange(current, PlotChange{
		Status:          statusPtr(models.StatusReserved),
		OwnerClientID:   strPtr("client-1"),
		ReservationDate: datePtr("2026-03-15"),
	}, anyClient)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	if next.Status != models.StatusReserved {
		t.Errorf("status = %s", next.Status)
	}
	if next.OwnerClientID == nil || *next.OwnerClientID != "client-1" {
		t.Errorf("owner not set")
	}
	if next.ReservationDate == nil {
		t.Errorf("reservation date not set")
	}
}

func TestUnknownOwnerRejected(t *testing.T) {
	current := basePlot()
	noClient := func(string) bool { return false }

	_, v := ApplyStatusChange(current, PlotChange{
		Status:        statusPtr(models.StatusOccupied),
		OwnerClientID: strPtr("ghost"),
	}, noClient)
	if v["ownerClientId"] != "unknown_client" {
		t.Fatalf("expected unknown_client violation, got %v", v)
	}
}

func TestAllViolationsCollected(t *testing.T) {
	current := basePlot()
	current.Type = ""
	current.Capacity = 0

	_, v := ApplyStatusChange(current, PlotChange{Status: statusPtr(models.StatusReserved)}, anyClient)
	for _, field := range []string{"type", "capacity", "ownerClientId", "reservationDate"} {
		if _, ok := v[field]; !ok {
			t.Errorf("expected violation for %s, got %v", field, v)
		}
	}
}

func TestFailureReturnsOriginalUnchanged(t *testing.T) {
	current := basePlot()
	got, v := ApplyStatusChange(current, PlotChange{Status: statusPtr(models.StatusReserved)}, anyClient)
	if v.Empty() {
		t.Fatal("expected violations")
	}
	if got.Status != models.StatusAvailable {
		t.Errorf("failed change must return the plot as it was, got status %s", got.Status)
	}
}

func TestNormalizationOverridesCallerValues(t *testing.T) {
	current := basePlot()

	// Caller asks for Available but also supplies an owner; normalization wins.
	next, v := ApplyStatusChange(current, PlotChange{
		Status:        statusPtr(models.StatusAvailable),
		OwnerClientID: strPtr("client-1"),
	}, anyClient)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	if next.OwnerClientID != nil {
		t.Errorf("normalization should have cleared the supplied owner")
	}
}

func TestApplyStatusChangeIdempotent(t *testing.T) {
	current := basePlot()
	change := PlotChange{
		Status:          statusPtr(models.StatusReserved),
		OwnerClientID:   strPtr("client-1"),
		ReservationDate: datePtr("2026-03-15"),
	}
	once, v := ApplyStatusChange(current, change, anyClient)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	twice, v := ApplyStatusChange(once, change, anyClient)
	if !v.Empty() {
		t.Fatalf("unexpected violations on second apply: %v", v)
	}
	if twice.Status != once.Status || *twice.OwnerClientID != *once.OwnerClientID {
		t.Errorf("applying the same change twice diverged")
	}
}

func TestPartialChangeKeepsUntouchedFields(t *testing.T) {
	current := basePlot()
	current.Notes = "corner lot"

	next, v := ApplyStatusChange(current, PlotChange{Capacity: intPtr(4)}, anyClient)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	if next.Capacity != 4 {
		t.Errorf("capacity = %d", next.Capacity)
	}
	if next.Notes != "corner lot" || next.Type != "Lawn Lot" {
		t.Errorf("untouched fields changed: %+v", next)
	}
}
