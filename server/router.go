package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"creator-studio/domain/model"
	httpHandler "creator-studio/interfaces/http"
	"creator-studio/interfaces/middleware"
	"creator-studio/usecase"
)

func InitiateRouter(
	session usecase.ISession,
	authHandler httpHandler.IAuthHandler,
	connectionHandler httpHandler.IConnectionHandler,
	publishHandler httpHandler.IPublishHandler,
	uploadHandler httpHandler.IUploadHandler,
	userHandler httpHandler.IUserHandler,
	uploadDir string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "https://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Login and session
	router.GET("/auth/:provider", authHandler.Login)
	router.GET("/auth/:provider/callback", authHandler.Callback)
	router.GET("/auth/session", middleware.OptionalAuth(session), authHandler.Session)
	router.POST("/auth/logout", authHandler.Logout)

	// Instagram connect flow; the callback carries its own state check, the
	// initiate leg needs the session to know who is connecting.
	router.GET("/connect/instagram", middleware.Auth(session), connectionHandler.Connect)
	router.GET("/connect/instagram/callback", connectionHandler.Callback)

	// Locally stored uploads (Cloudinary bypasses this)
	router.Static("/uploads", uploadDir)

	api := router.Group("api")
	api.GET("/connections", middleware.OptionalAuth(session), connectionHandler.Connections)

	authed := api.Group("")
	authed.Use(middleware.Auth(session))
	{
		authed.POST("/connections/:platform/disconnect", connectionHandler.Disconnect)
		authed.POST("/publish/:platform", publishHandler.Publish)
		authed.GET("/publish/history", publishHandler.History)
		authed.POST("/upload", uploadHandler.Upload)
		authed.GET("/instagram/profile", connectionHandler.InstagramProfile)
	}

	admin := api.Group("/users")
	admin.Use(middleware.Auth(session), middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))
	{
		admin.GET("", userHandler.List)
		admin.POST("", middleware.RequireRole(model.RoleSuperAdmin), userHandler.Create)
		admin.PATCH("/:id", userHandler.Update)
		admin.DELETE("/:id", middleware.RequireRole(model.RoleSuperAdmin), userHandler.Delete)
	}

	return router
}
