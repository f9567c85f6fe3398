package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/request"
	"github.com/quicktutor/quicktutor-backend/internal/tutor"
)

// UpsertProfileRequest defines the payload for a tutor editing their profile.
type UpsertProfileRequest struct {
	Bio             string   `json:"bio"`
	Subjects        []string `json:"subjects" binding:"required,min=1"`
	Grades          []string `json:"grades" binding:"required,min=1"`
	Languages       []string `json:"languages" binding:"required,min=1"`
	HourlyRateCents int64    `json:"hourly_rate_cents" binding:"required,gt=0"`
}

// SearchTutorsRequest defines query parameters for the student-facing catalogue.
type SearchTutorsRequest struct {
	request.ListParams
	Subject    string `form:"subject"`
	Language   string `form:"language"`
	Grade      string `form:"grade"`
	OnlineOnly bool   `form:"online_only"`
}

// ListApplicationsRequest defines query parameters for the admin queue.
type ListApplicationsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// SetOnlineRequest toggles the tutor's availability flag.
type SetOnlineRequest struct {
	IsOnline *bool `json:"is_online" binding:"required"`
}

// DecideRequest carries the admin's verification decision.
type DecideRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

type ProfileResponse struct {
	UserID             string    `json:"user_id"`
	FullName           *string   `json:"full_name"`
	Bio                string    `json:"bio"`
	Subjects           []string  `json:"subjects"`
	Grades             []string  `json:"grades"`
	Languages          []string  `json:"languages"`
	HourlyRateCents    int64     `json:"hourly_rate_cents"`
	VerificationStatus string    `json:"verification_status"`
	IsOnline           bool      `json:"is_online"`
	RatingAverage      float64   `json:"rating_average"`
	RatingCount        int       `json:"rating_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewProfileResponse(p *tutor.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:             p.UserID,
		FullName:           p.FullName,
		Bio:                p.Bio,
		Subjects:           p.Subjects,
		Grades:             p.Grades,
		Languages:          p.Languages,
		HourlyRateCents:    p.HourlyRateCents,
		VerificationStatus: string(p.VerificationStatus),
		IsOnline:           p.IsOnline,
		RatingAverage:      p.RatingAverage,
		RatingCount:        p.RatingCount,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
