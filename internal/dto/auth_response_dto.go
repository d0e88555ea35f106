package dto

// LoginRequest carries username/password credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the access token; the refresh token travels in an
// HttpOnly cookie, never in the body.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"` // Unix seconds
	User      UserResponse `json:"user"`
}

// RefreshRequest identifies whose refresh cookie is being presented. The
// token itself travels only in the HttpOnly cookie.
type RefreshRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// RefreshResponse returns a fresh access token after a successful refresh.
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
