package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/review"
)

type SubmitReviewRequest struct {
	BookingID    string   `json:"booking_id" binding:"required,uuid"`
	Rating       int      `json:"rating" binding:"required,min=1,max=5"`
	Comment      string   `json:"comment" binding:"max=2000"`
	BehaviorTags []string `json:"behavior_tags"`
}

type SubmitStudentRatingRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type ReviewResponse struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"booking_id"`
	StudentID    string    `json:"student_id"`
	StudentName  *string   `json:"student_name"`
	TutorID      string    `json:"tutor_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	BehaviorTags []string  `json:"behavior_tags"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		BookingID:    r.BookingID,
		StudentID:    r.StudentID,
		StudentName:  r.StudentName,
		TutorID:      r.TutorID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		BehaviorTags: r.BehaviorTags,
		CreatedAt:    r.CreatedAt,
	}
}

func NewReviewListResponse(reviews []*review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}

type StudentRatingResponse struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	TutorID   string    `json:"tutor_id"`
	StudentID string    `json:"student_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func NewStudentRatingResponse(r *review.StudentRating) StudentRatingResponse {
	return StudentRatingResponse{
		ID:        r.ID,
		BookingID: r.BookingID,
		TutorID:   r.TutorID,
		StudentID: r.StudentID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func NewStudentRatingListResponse(ratings []*review.StudentRating) []StudentRatingResponse {
	out := make([]StudentRatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, NewStudentRatingResponse(r))
	}
	return out
}
