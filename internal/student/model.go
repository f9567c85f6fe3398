package student

import (
	"net/http"
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "student profile not found")

// Profile represents a student_profiles row.
type Profile struct {
	UserID             string
	GradeLevel         string
	PreferredSubjects  []string
	PreferredLanguages []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
