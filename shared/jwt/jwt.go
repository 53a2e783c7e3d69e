// Package jwt reads the claims of the backend's access token without
// verifying it. The frontend holds no signing key; the backend stays the
// authority and this is only used to skip calls that are bound to fail.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Username  string
	UserId    string
	ExpiresAt time.Time
}

// Expired reports whether the token carried an exp claim that is before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Inspect decodes tokenStr without checking its signature.
func Inspect(tokenStr string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("malformed access token: %w", err)
	}

	out := &Claims{}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("malformed exp claim: %w", err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	if username, ok := claims["username"].(string); ok {
		out.Username = username
	}
	switch uid := claims["user_id"].(type) {
	case string:
		out.UserId = uid
	case float64:
		out.UserId = fmt.Sprintf("%.0f", uid)
	}
	return out, nil
}
