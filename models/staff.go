package models

import "time"

// StaffRole is the organiser's permission tier.
type StaffRole string

const (
	StaffAdmin   StaffRole = "admin"
	StaffMember  StaffRole = "staff"
	StaffManager StaffRole = "manager"
)

// Staff is an organiser account allowed to approve, reject and cancel.
type Staff struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	FullName     string    `bson:"full_name" json:"full_name"`
	Role         StaffRole `bson:"role" json:"role"`
	IsActive     bool      `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

type StaffRegistration struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
}

// AuthResult is returned by the login operations.
type AuthResult struct {
	Token string `json:"token"`
	Actor Actor  `json:"actor"`
}
