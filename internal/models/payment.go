package models

import "time"

// Payment statuses as recorded by staff.
const (
	PaymentPaid      = "Paid"
	PaymentPending   = "Pending"
	PaymentOverdue   = "Overdue"
	PaymentCancelled = "Cancelled"
	PaymentRefunded  = "Refunded"
)

// Payment tied to a client and optionally a specific plot.
type Payment struct {
	ID               string     `gorm:"primaryKey;size:36"`
	ClientID         string     `gorm:"not null;size:36;index"`
	Client           Client     `gorm:"foreignKey:ClientID"`
	PlotID           *string    `gorm:"size:36;index"`
	Amount           float64    `gorm:"not null"`
	PaymentDate      time.Time  `gorm:"not null"`
	ORNumber         string     `gorm:"not null;uniqueIndex"` // official receipt number
	PaymentType      string     `gorm:"not null"`             // ex: Downpayment, Full Payment, Installment, Reservation Fee
	Method           string     `gorm:"not null"`             // ex: Cash, Bank Transfer, Check, GCash
	Status           string     `gorm:"not null;default:Pending"`
	Notes            string
	RecordedByUserID uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
