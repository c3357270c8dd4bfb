package models

import "time"

// PlotStatus is the closed set of lifecycle states a plot can be in.
// Status drives the owner/reservation invariants enforced by the rule engine.
type PlotStatus string

const (
	StatusAvailable   PlotStatus = "Available"
	StatusReserved    PlotStatus = "Reserved"
	StatusOccupied    PlotStatus = "Occupied"
	StatusMaintenance PlotStatus = "Maintenance"
)

// Valid reports whether s is one of the four known statuses.
func (s PlotStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// Plot is the sellable unit of inventory (burial lot or niche).
// Section/BlockNumber/LotNumber form the human-readable composite key.
type Plot struct {
	ID              string     `gorm:"primaryKey;size:36"`
	Section         string     `gorm:"not null;index:idx_plot_location,unique"`
	BlockNumber     string     `gorm:"not null;index:idx_plot_location,unique"`
	LotNumber       string     `gorm:"not null;index:idx_plot_location,unique"`
	Type            string     `gorm:"not null"` // ex: "Lawn Lot", "Garden Lot", "Mausoleum Niche"
	Status          PlotStatus `gorm:"not null;default:Available;index"`
	Capacity        int        `gorm:"not null"`
	Dimensions      string     // ex: "2.5m x 1.0m"
	OwnerClientID   *string    `gorm:"size:36;index"`
	ReservationDate *time.Time
	PurchaseDate    *time.Time
	Latitude        *float64
	Longitude       *float64
	Notes           string
	Interments      []Interment `gorm:"foreignKey:PlotID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Identifier returns the composite key shown to staff and visitors (ex: "A-01-003").
func (p Plot) Identifier() string {
	return p.Section + "-" + p.BlockNumber + "-" + p.LotNumber
}
