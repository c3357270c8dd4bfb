package models

import "time"

// Client entity: a customer who may own or reserve one or more plots.
// AssociatedPlotIDs is the client-side half of the bidirectional owner link;
// the assignment service keeps it in sync with Plot.OwnerClientID.
type Client struct {
	ID                       string    `gorm:"primaryKey;size:36"`
	FirstName                string    `gorm:"not null;index"`
	LastName                 string    `gorm:"not null;index"`
	ContactNumber            string    `gorm:"index"`
	AlternativeContactNumber string
	Email                    string    `gorm:"index"`
	Address                  string
	RegistrationDate         time.Time `gorm:"not null"`
	AssociatedPlotIDs        []string  `gorm:"serializer:json"`
	Notes                    string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// FullName joins first and last name for display and wayfinding results.
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// OwnsPlot reports whether plotID is already in the client's associated list.
func (c Client) OwnsPlot(plotID string) bool {
	for _, id := range c.AssociatedPlotIDs {
		if id == plotID {
			return true
		}
	}
	return false
}
