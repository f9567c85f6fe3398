package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/request"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

// ListUsersRequest defines query parameters for the admin user list.
type ListUsersRequest struct {
	request.ListParams
	Email     string `form:"email"`
	FullName  string `form:"full_name"`
	Role      string `form:"role" binding:"omitempty,oneof=student tutor admin"`
	IsActive  *bool  `form:"is_active"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=email created_at last_login_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Validate performs custom validation for ListUsersRequest.
func (r *ListUsersRequest) Validate() error {
	return nil
}

// UserResponse is the shape of profile data returned in API responses.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    *string    `json:"full_name"`
	Role        string     `json:"role"`
	AvatarURL   *string    `json:"avatar_url"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
	IsActive    bool       `json:"is_active"`
}

// UserTag is a brief representation of a profile.
type UserTag struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// NewUserResponse converts domain user.User to UserResponse used by the API.
func NewUserResponse(u *user.User) UserResponse {
	var lastLoginAt *time.Time
	if u.LastLoginAt != nil {
		ll := *u.LastLoginAt
		lastLoginAt = &ll
	}

	var avatarURL *string
	if u.AvatarFileID != nil {
		url := "/v1/files/" + *u.AvatarFileID
		avatarURL = &url
	}

	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        string(u.Role),
		AvatarURL:   avatarURL,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: lastLoginAt,
		IsActive:    u.IsActive,
	}
}

// SignupRequest defines the payload for account signup with role selection.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=student tutor"`
}

// Validate performs custom validation for SignupRequest.
func (r *SignupRequest) Validate() error {
	return nil
}

// LoginRequest defines the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Validate performs custom validation for LoginRequest.
func (r *LoginRequest) Validate() error {
	return nil
}

// UpdateMeRequest defines fields the owner may change on their profile.
type UpdateMeRequest struct {
	FullName *string `json:"full_name"`
}

// SetActiveRequest toggles a profile's active flag (admin back office).
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// LoginResponse returns the token and profile info.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// MeResponse returns the current profile info.
type MeResponse struct {
	User UserResponse `json:"user"`
}
