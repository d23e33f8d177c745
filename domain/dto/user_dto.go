package dto

// CreateUserRequest is the admin user-creation payload.
type CreateUserRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"required"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// UpdateUserRequest carries mutable user fields for PATCH /api/users/:id.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// SessionResponse mirrors the claims of the active session token.
type SessionResponse struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}
