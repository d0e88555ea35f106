package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys set by this package.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	sessionIDKey = contextKey("sessionID")
	clientIPKey  = contextKey("clientIP")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context, falling back to the request context. The boolean reports whether it
// was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		if userID, ok := userIDVal.(string); ok {
			return userID, true
		}
		return "", false
	}
	if userIDVal := c.Request.Context().Value(userIDKey); userIDVal != nil {
		return userIDVal.(string), true
	}
	return "", false
}

// GetUserIDFromCtx retrieves the authenticated user ID from a standard
// context. Returns the empty string when unauthenticated.
func GetUserIDFromCtx(ctx context.Context) string {
	if v := ctx.Value(userIDKey); v != nil {
		if userID, ok := v.(string); ok {
			return userID
		}
	}
	return ""
}

// GetSessionIDFromCtx retrieves the session ID (the access token's jti) from a
// standard context. Empty when unauthenticated.
func GetSessionIDFromCtx(ctx context.Context) string {
	if v := ctx.Value(sessionIDKey); v != nil {
		if sessionID, ok := v.(string); ok {
			return sessionID
		}
	}
	return ""
}

// GetClientIPFromCtx retrieves the caller's IP from a standard context.
func GetClientIPFromCtx(ctx context.Context) string {
	if v := ctx.Value(clientIPKey); v != nil {
		if ip, ok := v.(string); ok {
			return ip
		}
	}
	return ""
}
