package entity

import "time"

// Roles for User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User operator of the dashboard.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, never plain text once persisted
	Name         string
	Role         string // admin, staff
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
