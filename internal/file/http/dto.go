package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/file"
)

type FileResponse struct {
	ID           string    `json:"id"`
	Kind         file.Kind `json:"kind"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewFileResponse(f *file.File) FileResponse {
	resp := FileResponse{
		ID:          f.ID,
		Kind:        f.Kind,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		URL:         file.URL(f.ID),
		CreatedAt:   f.CreatedAt,
	}
	if f.ThumbnailPath != nil {
		url := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &url
	}
	return resp
}
