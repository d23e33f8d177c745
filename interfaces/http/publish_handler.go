package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creator-studio/domain/dto"
	"creator-studio/domain/model"
	"creator-studio/interfaces/middleware"
	"creator-studio/usecase"
)

type IPublishHandler interface {
	Publish(ctx *gin.Context)
	History(ctx *gin.Context)
}

type publishHandler struct {
	publish usecase.IPublish
}

func NewPublishHandler(publish usecase.IPublish) IPublishHandler {
	return &publishHandler{publish: publish}
}

func (h *publishHandler) Publish(c *gin.Context) {
	platform := c.Param("platform")
	if platform != model.PlatformInstagram {
		abortWithError(c, fmt.Errorf("%w: publishing only implemented for instagram", model.ErrInvalidInput))
		return
	}

	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error()))
		return
	}

	mediaID, err := h.publish.Publish(c.Request.Context(), middleware.UserID(c), req.Image(), req.Caption)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PublishResponse{Success: true, MediaID: mediaID})
}

func (h *publishHandler) History(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	records, err := h.publish.History(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if records == nil {
		records = []*model.PublishRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
