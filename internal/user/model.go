package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInvalidRole        = errors.New("invalid role")
)

// Role is the marketplace role attached to a profile.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// SignupRole reports whether the role can be chosen at signup.
// Admin accounts are provisioned out of band.
func SignupRole(r Role) bool {
	return r == RoleStudent || r == RoleTutor
}

// User represents a profile row.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	FullName     *string
	Role         Role
	AvatarFileID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}

// Filter defines filter options for the admin user list.
type Filter struct {
	Email    string
	FullName string
	Role     string
	IsActive *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
