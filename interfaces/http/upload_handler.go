package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"creator-studio/domain/dto"
	"creator-studio/domain/model"
	"creator-studio/infrastructure/clients/cloudinaryupload"
	"creator-studio/infrastructure/logger"
)

const maxUploadBytes = 10 << 20 // 10 MB

type IUploadHandler interface {
	Upload(ctx *gin.Context)
}

type uploadHandler struct {
	uploader  *cloudinaryupload.Uploader // nil when Cloudinary is not configured
	uploadDir string
	baseURL   string
}

func NewUploadHandler(uploader *cloudinaryupload.Uploader, uploadDir, baseURL string) IUploadHandler {
	return &uploadHandler{uploader: uploader, uploadDir: uploadDir, baseURL: baseURL}
}

// Upload accepts a JPEG up to 10 MB. Cloudinary gives back a public HTTPS
// URL the publish endpoint can hand to Instagram; the local fallback only
// works when the server itself is publicly reachable.
func (h *uploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: missing file field", model.ErrInvalidInput))
		return
	}
	if header.Size > maxUploadBytes {
		abortWithError(c, fmt.Errorf("%w: file exceeds 10MB", model.ErrInvalidInput))
		return
	}
	name := strings.ToLower(header.Filename)
	if !strings.HasSuffix(name, ".jpg") && !strings.HasSuffix(name, ".jpeg") {
		abortWithError(c, fmt.Errorf("%w: only JPEG images are accepted", model.ErrInvalidInput))
		return
	}

	if h.uploader != nil {
		file, err := header.Open()
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer file.Close()

		url, err := h.uploader.UploadImage(c.Request.Context(), file, header.Filename)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cloudinary upload failed")
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.UploadResponse{URL: url})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		abortWithError(c, err)
		return
	}
	dest := filepath.Join(h.uploadDir, filepath.Base(header.Filename))
	if err := c.SaveUploadedFile(header, dest); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UploadResponse{URL: h.baseURL + "/uploads/" + filepath.Base(dest)})
}
