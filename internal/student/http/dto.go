package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/student"
)

// UpsertProfileRequest defines the payload for a student editing their profile.
type UpsertProfileRequest struct {
	GradeLevel         string   `json:"grade_level" binding:"required"`
	PreferredSubjects  []string `json:"preferred_subjects"`
	PreferredLanguages []string `json:"preferred_languages"`
}

type ProfileResponse struct {
	UserID             string    `json:"user_id"`
	GradeLevel         string    `json:"grade_level"`
	PreferredSubjects  []string  `json:"preferred_subjects"`
	PreferredLanguages []string  `json:"preferred_languages"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewProfileResponse(p *student.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:             p.UserID,
		GradeLevel:         p.GradeLevel,
		PreferredSubjects:  p.PreferredSubjects,
		PreferredLanguages: p.PreferredLanguages,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
