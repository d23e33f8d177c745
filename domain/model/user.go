package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Roles recognized by the dashboard. Role changes take effect on
// re-authentication because the role travels inside the session token.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Identity providers supported for login.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       string    `json:"role"`
	Provider   string    `json:"provider,omitempty"`
	ProviderID string    `json:"provider_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// SessionClaims is the payload of the signed session token. Authorization
// trusts these claims without a database round trip.
type SessionClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	jwt.StandardClaims
}
