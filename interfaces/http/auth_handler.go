package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-studio/domain/dto"
	"creator-studio/domain/model"
	"creator-studio/infrastructure/logger"
	"creator-studio/interfaces/middleware"
	"creator-studio/usecase"
)

type IAuthHandler interface {
	Login(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Session(ctx *gin.Context)
	Logout(ctx *gin.Context)
}

type authHandler struct {
	auth    usecase.IAuth
	session usecase.ISession
	baseURL string
}

func NewAuthHandler(auth usecase.IAuth, session usecase.ISession, baseURL string) IAuthHandler {
	return &authHandler{auth: auth, session: session, baseURL: baseURL}
}

// Login redirects the browser to the provider consent screen.
func (h *authHandler) Login(c *gin.Context) {
	provider := c.Param("provider")
	loginURL, err := h.auth.LoginURL(c.Request.Context(), provider)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, loginURL)
}

// Callback completes the login and sets the session cookie.
func (h *authHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")
	user, err := h.auth.HandleLoginCallback(
		c.Request.Context(),
		provider,
		c.Query("state"),
		c.Query("code"),
		c.Query("error"),
	)
	if err != nil {
		logger.GetLogger().
			WithField("provider", provider).
			WithField("error", err).
			Warn("Login callback failed")
		c.Redirect(http.StatusFound, h.baseURL+"/login?error="+loginErrorCode(err))
		return
	}

	token, _, err := h.session.Issue(user)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to issue session")
		c.Redirect(http.StatusFound, h.baseURL+"/login?error=session_failed")
		return
	}
	setSessionCookie(c, token)

	target := "/"
	if user.Role == model.RoleSuperAdmin {
		target = "/admin"
	}
	c.Redirect(http.StatusFound, h.baseURL+target)
}

// Session echoes the claims of the active session.
func (h *authHandler) Session(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{
		ID:     claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
		Avatar: claims.Avatar,
	})
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; there is no server-side session state to revoke.
func (h *authHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(usecase.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(usecase.SessionDuration.Seconds())
	c.SetCookie(usecase.SessionCookieName, token, maxAge, "/", "", false, true)
}

func loginErrorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrUserDenied):
		return "denied"
	case errors.Is(err, model.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid_state"
	default:
		return "login_failed"
	}
}
