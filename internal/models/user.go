package models

import "time"

// Roles and account statuses for system operators.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"

	UserActive   = "active"
	UserInactive = "inactive"
)

// User & auth related models
type User struct {
	ID        uint       `gorm:"primaryKey"`
	Username  string     `gorm:"unique;not null;index"`
	Password  string     `gorm:"not null"` // bcrypt hash
	FullName  string     `gorm:"index"`
	Email     string     `gorm:"index"`
	Role      string     `gorm:"not null;default:staff"` // admin or staff
	Status    string     `gorm:"not null;default:active"`
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	User      User   `gorm:"foreignKey:UserID"`
	Type      string // ex: "dashboard", "mail"
	Title     string
	Message   string
	Read      bool
	SentAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
