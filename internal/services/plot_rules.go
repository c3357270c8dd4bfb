package services

import (
	"github.com/paraiso360/paraiso360/internal/models"
	"github.com/paraiso360/paraiso360/internal/validation"
)

// PlotChange is the field-set a staff form submits against an existing plot.
// Nil pointers mean "keep the current value"; location identifiers are
// immutable and therefore absent here.
type PlotChange struct {
	Status          *models.PlotStatus `json:"status"`
	Type            *string            `json:"type"`
	Capacity        *int               `json:"capacity"`
	Dimensions      *string            `json:"dimensions"`
	OwnerClientID   *string            `json:"owner_client_id"`
	ReservationDate *DateValue         `json:"reservation_date"`
	PurchaseDate    *DateValue         `json:"purchase_date"`
	Notes           *string            `json:"notes"`
}

// ClientLookup answers whether a client id resolves to an existing record.
// The rule engine stays pure by taking the lookup as a function.
type ClientLookup func(id string) bool

// ApplyStatusChange merges req into current, normalizes the dependent fields
// for the chosen status, then validates the result. Normalization runs first
// and may override caller-supplied values; validation failures are collected
// so the form layer can show every problem at once. The input plot is never
// mutated.
func ApplyStatusChange(current models.Plot, req PlotChange, ownerExists ClientLookup) (models.Plot, validation.Violations) {
	next := current

	if req.Status != nil {
		next.Status = *req.Status
	}
	if req.Type != nil {
		next.Type = *req.Type
	}
	if req.Capacity != nil {
		next.Capacity = *req.Capacity
	}
	if req.Dimensions != nil {
		next.Dimensions = *req.Dimensions
	}
	if req.OwnerClientID != nil {
		if *req.OwnerClientID == "" {
			next.OwnerClientID = nil
		} else {
			id := *req.OwnerClientID
			next.OwnerClientID = &id
		}
	}
	if req.ReservationDate != nil {
		next.ReservationDate = req.ReservationDate.TimePtr()
	}
	if req.PurchaseDate != nil {
		next.PurchaseDate = req.PurchaseDate.TimePtr()
	}
	if req.Notes != nil {
		next.Notes = *req.Notes
	}

	next = normalize(next)

	v := validation.Violations{}
	validation.Required("type", next.Type, v)
	validation.Required("status", string(next.Status), v)
	if next.Status != "" && !next.Status.Valid() {
		v["status"] = "invalid_value"
	}
	if next.Capacity == 0 {
		v["capacity"] = "required"
	} else {
		validation.PositiveInt("capacity", next.Capacity, v)
	}
	switch next.Status {
	case models.StatusReserved, models.StatusOccupied:
		if next.OwnerClientID == nil || *next.OwnerClientID == "" {
			v["ownerClientId"] = "required"
		} else if ownerExists != nil && !ownerExists(*next.OwnerClientID) {
			v["ownerClientId"] = "unknown_client"
		}
	}
	if next.Status == models.StatusReserved && next.ReservationDate == nil {
		v["reservationDate"] = "required"
	}

	if !v.Empty() {
		return current, v
	}
	return next, nil
}

// normalize forces owner/reservation fields to values consistent with the
// status, regardless of what the caller supplied. The switch is exhaustive
// over PlotStatus so a new status cannot ship without a normalization rule.
func normalize(p models.Plot) models.Plot {
	switch p.Status {
	case models.StatusAvailable:
		p.OwnerClientID = nil
		p.ReservationDate = nil
	case models.StatusMaintenance:
		p.OwnerClientID = nil
		p.ReservationDate = nil
	case models.StatusOccupied:
		// Owner is kept; the reservation is consumed once the plot is occupied.
		p.ReservationDate = nil
	case models.StatusReserved:
		// Owner and reservation date both stay; validation requires them.
	}
	return p
}
