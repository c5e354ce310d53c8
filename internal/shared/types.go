package shared

import (
	"github.com/golang-jwt/jwt/v5"
)

// shared types across the application

// AuthClaims is the payload of an API access token. RegisteredClaims.ID is the session id.
type AuthClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}
