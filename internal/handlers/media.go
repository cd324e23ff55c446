// internal/handlers/media.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/farmdirect-backend/internal/services"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type MediaHandler struct {
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// POST /media/upload-url
func (h *MediaHandler) CreateUploadURL(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.mediaService.PresignUpload(identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, upload)
}
