package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/storage"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

// maxUploadBytes caps a single upload at 10 MiB.
const maxUploadBytes = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type Service interface {
	Upload(ctx context.Context, header *multipart.FileHeader, userID string, kind Kind) (*File, error)
	Get(ctx context.Context, id string) (*File, error)
	Delete(ctx context.Context, id string) error

	// Download enforces access: avatars are public, documents are
	// limited to the uploader and admins.
	Download(ctx context.Context, id, callerID string, role user.Role) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id, callerID string, role user.Role) (io.ReadCloser, *File, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
	logger  zerolog.Logger
}

func NewService(repo Repository, store storage.Storage, logger zerolog.Logger) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
		logger:  logger.With().Str("component", "file").Logger(),
	}
}

func (s *service) Upload(ctx context.Context, header *multipart.FileHeader, userID string, kind Kind) (*File, error) {
	if header.Size > maxUploadBytes {
		return nil, ErrTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		return nil, ErrUnsupportedType
	}
	if kind == KindAvatar && !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedType
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	// Buffered so the content can be read twice: once for the original
	// and once for the thumbnail. Uploads are capped, so this is fine.
	fileBytes, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file content failed: %w", err)
	}
	if len(fileBytes) > maxUploadBytes {
		return nil, ErrTooLarge
	}

	fileID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))

	// Shard by the first two characters of the id to keep directories small.
	shard := fileID[:2]
	storagePath := fmt.Sprintf("upload/%s/%s%s", shard, fileID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("save file to storage failed: %w", err)
	}

	var thumbnailPath *string
	if strings.HasPrefix(contentType, "image/") {
		thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200)
		if err != nil {
			s.logger.Warn().Err(err).Str("file_id", fileID).Msg("thumbnail generation failed")
		} else {
			tPath := fmt.Sprintf("upload/%s/%s_thumb.jpg", shard, fileID)
			if err := s.storage.Save(ctx, tPath, thumbReader); err != nil {
				s.logger.Warn().Err(err).Str("file_id", fileID).Msg("thumbnail save failed")
			} else {
				thumbnailPath = &tPath
			}
		}
	}

	f := &File{
		ID:            fileID,
		UserID:        userID,
		Kind:          kind,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(fileBytes)),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		// Clean up orphaned blobs if the metadata write fails.
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}
	return f, nil
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, f.StoragePath); err != nil {
		s.logger.Warn().Err(err).Str("file_id", id).Msg("blob delete failed")
	}
	if f.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *f.ThumbnailPath)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) authorize(f *File, callerID string, role user.Role) error {
	if f.Kind == KindAvatar {
		return nil
	}
	if role != user.RoleAdmin && f.UserID != callerID {
		return ErrPermissionDenied
	}
	return nil
}

func (s *service) Download(ctx context.Context, id, callerID string, role user.Role) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorize(f, callerID, role); err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, f.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve file from storage failed: %w", err)
	}
	return stream, f, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id, callerID string, role user.Role) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorize(f, callerID, role); err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *f.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve thumbnail from storage failed: %w", err)
	}
	return stream, f, nil
}
