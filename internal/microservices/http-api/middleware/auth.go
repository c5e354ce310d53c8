package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "userID"
	sessionIDKey = "sessionID"
)

// Authenticator is the part of service.AuthService the guards need.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*service.Session, error)
}

// RequireAuth rejects requests without a valid bearer token for a live session.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWith(c, apperror.Unauthorized(""))
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWith(c, err)
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets anonymous requests through.
// A present but invalid token is still rejected.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWith(c, err)
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// UserID returns the authenticated user, or zero for anonymous requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

// SessionID returns the authenticated session id, or "" for anonymous requests.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func setSession(c *gin.Context, s *service.Session) {
	c.Set(userIDKey, s.UserID)
	c.Set(sessionIDKey, s.SessionID)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func abortWith(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		c.AbortWithStatusJSON(appErr.Code, gin.H{"message": appErr.Message})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Service unavailable"})
		return
	}
	slog.ErrorContext(c.Request.Context(), "authentication failed", "error", err, "request_id", RequestIDFrom(c))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
