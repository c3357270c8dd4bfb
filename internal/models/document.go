package models

import "time"

// DocumentRecord stores file metadata only; the file itself lives in an external
// document store and is referenced by FilePath.
type DocumentRecord struct {
	ID               string    `gorm:"primaryKey;size:36"`
	FileName         string    `gorm:"not null"`
	FileType         string    // ex: "Contract", "Deed of Sale", "Payment Receipt", "Interment Order"
	FilePath         string    `gorm:"not null"`
	Description      string
	Tags             []string  `gorm:"serializer:json"`
	ClientID         *string   `gorm:"size:36;index"`
	PlotID           *string   `gorm:"size:36;index"`
	UploadedByUserID uint      `gorm:"not null"`
	UploadedBy       User      `gorm:"foreignKey:UploadedByUserID"`
	UploadDate       time.Time `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
