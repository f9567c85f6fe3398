package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/report"
)

type CreateReportRequest struct {
	AgainstUserID string  `json:"against_user_id" binding:"required,uuid"`
	BookingID     *string `json:"booking_id" binding:"omitempty,uuid"`
	Reason        string  `json:"reason" binding:"required,max=200"`
	Comments      string  `json:"comments" binding:"max=4000"`
	FileID        *string `json:"file_id" binding:"omitempty,uuid"`
}

type ListReportsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=open resolved dismissed"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type CloseReportRequest struct {
	Status     string `json:"status" binding:"required,oneof=resolved dismissed"`
	Resolution string `json:"resolution" binding:"max=4000"`
}

type ReportResponse struct {
	ID            string              `json:"id"`
	CreatedByID   string              `json:"created_by_id"`
	CreatedByName *string             `json:"created_by_name"`
	AgainstUserID string              `json:"against_user_id"`
	AgainstName   *string             `json:"against_name"`
	BookingID     *string             `json:"booking_id"`
	ReporterRole  string              `json:"reporter_role"`
	Reason        string              `json:"reason"`
	Comments      string              `json:"comments"`
	FileID        *string             `json:"file_id"`
	Status        report.ReportStatus `json:"status"`
	Resolution    string              `json:"resolution"`
	ResolvedAt    *time.Time          `json:"resolved_at"`
	CreatedAt     time.Time           `json:"created_at"`
}

func NewReportResponse(r *report.Report) ReportResponse {
	return ReportResponse{
		ID:            r.ID,
		CreatedByID:   r.CreatedByID,
		CreatedByName: r.CreatedByName,
		AgainstUserID: r.AgainstUserID,
		AgainstName:   r.AgainstName,
		BookingID:     r.BookingID,
		ReporterRole:  r.ReporterRole,
		Reason:        r.Reason,
		Comments:      r.Comments,
		FileID:        r.FileID,
		Status:        r.Status,
		Resolution:    r.Resolution,
		ResolvedAt:    r.ResolvedAt,
		CreatedAt:     r.CreatedAt,
	}
}

func NewReportListResponse(reports []*report.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, NewReportResponse(r))
	}
	return out
}
