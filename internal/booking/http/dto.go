package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/booking"
)

// CreateBookingRequest defines the payload for a student requesting a
// session. Pricing fields are deliberately absent: the quote comes
// from the tutor's stored rate.
type CreateBookingRequest struct {
	TutorID         string `json:"tutor_id" binding:"required,uuid"`
	Subject         string `json:"subject" binding:"required"`
	GradeLevel      string `json:"grade_level" binding:"required"`
	Language        string `json:"language" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=15,max=480"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	Status    string `form:"status"`
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=created_at updated_at status"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// ForceStatusRequest defines the payload for the admin status override.
type ForceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BookingResponse struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	StudentName *string `json:"student_name"`
	TutorID     string  `json:"tutor_id"`
	TutorName   *string `json:"tutor_name"`

	Subject    string `json:"subject"`
	GradeLevel string `json:"grade_level"`
	Language   string `json:"language"`

	Status          booking.Status `json:"status"`
	DurationMinutes int            `json:"duration_minutes"`
	StartTime       *time.Time     `json:"start_time"`
	EndTime         *time.Time     `json:"end_time"`

	EarlyEndRequested   bool       `json:"early_end_requested"`
	EarlyEndRequestedAt *time.Time `json:"early_end_requested_at"`
	EarlyEndApproved    bool       `json:"early_end_approved"`

	TotalAmountCents   int64 `json:"total_amount_cents"`
	PlatformFeeCents   int64 `json:"platform_fee_cents"`
	TutorEarningsCents int64 `json:"tutor_earnings_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                  b.ID,
		StudentID:           b.StudentID,
		StudentName:         b.StudentName,
		TutorID:             b.TutorID,
		TutorName:           b.TutorName,
		Subject:             b.Subject,
		GradeLevel:          b.GradeLevel,
		Language:            b.Language,
		Status:              b.Status,
		DurationMinutes:     b.DurationMinutes,
		StartTime:           b.StartTime,
		EndTime:             b.EndTime,
		EarlyEndRequested:   b.EarlyEndRequested,
		EarlyEndRequestedAt: b.EarlyEndRequestedAt,
		EarlyEndApproved:    b.EarlyEndApproved,
		TotalAmountCents:    b.TotalAmountCents,
		PlatformFeeCents:    b.PlatformFeeCents,
		TutorEarningsCents:  b.TutorEarningsCents,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

func NewBookingListResponse(bookings []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}
