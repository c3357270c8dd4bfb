package models

import "time"

// Remains types for an interment.
const (
	RemainsFreshBody = "Fresh Body"
	RemainsSkeletal  = "Skeletal"
	RemainsCremated  = "Cremated"
)

// Interment records a person interred in a plot. Relevant only while the plot
// is Occupied; rows are kept for historical record after exhumation.
type Interment struct {
	ID              uint       `gorm:"primaryKey"`
	PlotID          string     `gorm:"not null;size:36;index"`
	DeceasedName    string     `gorm:"not null;index"`
	DateOfBirth     *time.Time
	DateOfDeath     time.Time  `gorm:"not null"`
	DateOfInterment time.Time  `gorm:"not null"`
	RemainsType     string     // ex: Fresh Body, Skeletal, Cremated
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
