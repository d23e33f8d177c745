package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"creator-studio/domain/dto"
	"creator-studio/domain/model"
	"creator-studio/usecase"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextClaims = "claims"
)

func unauthorized() dto.Res {
	return dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}
}

// sessionToken pulls the token from the session cookie or the Authorization
// header. The cookie serves browser flows, the header serves API clients.
func sessionToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(usecase.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authorization := ctx.Request.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}
	return ""
}

// Auth requires a valid session token. Claims are trusted as-is; no database
// lookup happens per request.
func Auth(session usecase.ISession) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := sessionToken(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized())
			return
		}
		claims, err := session.Verify(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized())
			return
		}
		ctx.Set(ContextUserID, claims.UserID)
		ctx.Set(ContextRole, claims.Role)
		ctx.Set(ContextClaims, claims)
		ctx.Next()
	}
}

// OptionalAuth resolves the session when present but never rejects.
func OptionalAuth(session usecase.ISession) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token := sessionToken(ctx); token != "" {
			if claims, err := session.Verify(token); err == nil {
				ctx.Set(ContextUserID, claims.UserID)
				ctx.Set(ContextRole, claims.Role)
				ctx.Set(ContextClaims, claims)
			}
		}
		ctx.Next()
	}
}

// RequireRole gates a route on the session role. Use after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(ctx *gin.Context) {
		role := ctx.GetString(ContextRole)
		if _, ok := allowed[role]; !ok {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.Res{ResponseCode: "403", ResponseMessage: "Forbidden"})
			return
		}
		ctx.Next()
	}
}

// UserID returns the authenticated user id, 0 when anonymous.
func UserID(ctx *gin.Context) int64 {
	return ctx.GetInt64(ContextUserID)
}

// Claims returns the session claims set by Auth, nil when anonymous.
func Claims(ctx *gin.Context) *model.SessionClaims {
	if v, ok := ctx.Get(ContextClaims); ok {
		if claims, ok := v.(*model.SessionClaims); ok {
			return claims
		}
	}
	return nil
}
