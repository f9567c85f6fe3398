// Package storage abstracts blob storage for uploaded files.
package storage

import (
	"context"
	"io"
)

// Storage defines file storage operations. Paths are relative to the
// backend's root.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
