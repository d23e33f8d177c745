package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-studio/infrastructure/logger"
	"creator-studio/interfaces/middleware"
	"creator-studio/usecase"
)

type IConnectionHandler interface {
	Connect(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
	Connections(ctx *gin.Context)
	InstagramProfile(ctx *gin.Context)
}

type connectionHandler struct {
	connection usecase.IConnection
	baseURL    string
}

func NewConnectionHandler(connection usecase.IConnection, baseURL string) IConnectionHandler {
	return &connectionHandler{connection: connection, baseURL: baseURL}
}

// Connect starts the Instagram connect flow by redirecting to the Meta
// consent dialog.
func (h *connectionHandler) Connect(c *gin.Context) {
	dialogURL, err := h.connection.InitiateConnect(c.Request.Context(), middleware.UserID(c), "instagram")
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, dialogURL)
}

// Callback finishes the connect flow. Success and failure both redirect back
// to the dashboard; the outcome travels in the query string.
func (h *connectionHandler) Callback(c *gin.Context) {
	_, err := h.connection.HandleCallback(
		c.Request.Context(),
		c.Query("state"),
		c.Query("code"),
		c.Query("error"),
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Instagram connect failed")
		c.Redirect(http.StatusFound, h.baseURL+"/?error="+connectErrorCode(err))
		return
	}
	c.Redirect(http.StatusFound, h.baseURL+"/?connected=instagram")
}

func (h *connectionHandler) Disconnect(c *gin.Context) {
	platform := c.Param("platform")
	if err := h.connection.Disconnect(c.Request.Context(), middleware.UserID(c), platform); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Connections reports the per-platform connection booleans. Anonymous
// requests get all-false instead of a 401 so the landing page can render.
func (h *connectionHandler) Connections(c *gin.Context) {
	status, err := h.connection.ConnectionStatus(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *connectionHandler) InstagramProfile(c *gin.Context) {
	profile, err := h.connection.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
