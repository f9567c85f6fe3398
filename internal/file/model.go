package file

import (
	"net/http"
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "file not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrNoThumbnail      = apperror.New(http.StatusNotFound, "thumbnail not available for this file")
	ErrTooLarge         = apperror.New(http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
	ErrUnsupportedType  = apperror.New(http.StatusUnsupportedMediaType, "unsupported file type")
)

// Kind classifies an upload: avatars are publicly servable, documents
// (report evidence, verification papers) are restricted to their
// owner and admins.
type Kind string

const (
	KindAvatar   Kind = "avatar"
	KindDocument Kind = "document"
)

// File represents a files row.
type File struct {
	ID            string
	UserID        string
	Kind          Kind
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public path for serving a file by ID.
func URL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public path for a file's thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
