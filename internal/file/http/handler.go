package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/file"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

type Handler struct {
	service file.Service
}

func NewHandler(service file.Service) *Handler {
	return &Handler{service: service}
}

// Upload stores a multipart file. The kind form field selects avatar
// or document handling; it defaults to document.
func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	kind := file.Kind(c.DefaultPostForm("kind", string(file.KindDocument)))
	if kind != file.KindAvatar && kind != file.KindDocument {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be avatar or document"})
		return
	}

	f, err := h.service.Upload(c.Request.Context(), header, auth.GetUserID(c), kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewFileResponse(f))
}

// ServeFile streams the file content.
func (h *Handler) ServeFile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file ID is required"})
		return
	}

	stream, f, err := h.service.Download(c.Request.Context(), id, auth.GetUserID(c), user.Role(auth.GetUserRole(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", f.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+f.Filename+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started; nothing more to send.
		return
	}
}

// ServeThumbnail streams the JPEG thumbnail.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file ID is required"})
		return
	}

	stream, f, err := h.service.DownloadThumbnail(c.Request.Context(), id, auth.GetUserID(c), user.Role(auth.GetUserRole(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+f.Filename+"_thumb.jpg\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		return
	}
}
