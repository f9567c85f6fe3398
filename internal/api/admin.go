package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quicktutor/quicktutor-backend/internal/booking"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/report"
	"github.com/quicktutor/quicktutor-backend/internal/tutor"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

// OverviewHandler serves the back-office dashboard counts.
type OverviewHandler struct {
	users    user.Service
	tutors   tutor.Service
	bookings booking.Service
	reports  report.Service
}

func NewOverviewHandler(users user.Service, tutors tutor.Service, bookings booking.Service, reports report.Service) *OverviewHandler {
	return &OverviewHandler{
		users:    users,
		tutors:   tutors,
		bookings: bookings,
		reports:  reports,
	}
}

type OverviewResponse struct {
	UsersByRole         map[string]int `json:"users_by_role"`
	BookingsByStatus    map[string]int `json:"bookings_by_status"`
	PendingApplications int            `json:"pending_applications"`
	OpenReports         int            `json:"open_reports"`
}

// Overview aggregates marketplace counts for the admin dashboard.
func (h *OverviewHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	usersByRole, err := h.users.CountByRole(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookingsByStatus, err := h.bookings.CountByStatus(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	applications, err := h.tutors.CountByStatus(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	openReports, err := h.reports.CountOpen(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := OverviewResponse{
		UsersByRole:         make(map[string]int, len(usersByRole)),
		BookingsByStatus:    make(map[string]int, len(bookingsByStatus)),
		PendingApplications: applications[tutor.VerificationPending],
		OpenReports:         openReports,
	}
	for role, count := range usersByRole {
		resp.UsersByRole[string(role)] = count
	}
	for status, count := range bookingsByStatus {
		resp.BookingsByStatus[string(status)] = count
	}

	c.JSON(http.StatusOK, resp)
}
