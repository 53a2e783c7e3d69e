package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/pixora-dev/pixora/shared/logger"
	"github.com/pixora-dev/pixora/shared/middleware/ratelimiter"
)

const MsgRateLimited = "Too many attempts, try again later"

// RateLimit rejects requests once the identity returned by getIdentity runs
// out of tokens. Requests whose identity cannot be determined pass through;
// the handler rejects them on its own terms.
func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				logger.Log.Debug("rate limit identity unavailable", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !rl.Allow(identity) {
				logger.Log.Warn("rate limit exceeded", "path", r.URL.Path)
				http.Error(w, MsgRateLimited, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.UserRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetIP extracts the real client IP from RemoteAddr
// Does NOT trust X-Real-IP or X-Forwarded-For headers
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// Fallback: if RemoteAddr doesn't have port, use it directly
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	return ip, nil
}

// GetFieldFromForm extracts a form field for rate limiting purposes.
// Used by the login and register forms.
func GetFieldFromForm(field string) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		if err := r.ParseForm(); err != nil {
			return "", errors.New("failed to parse form")
		}

		value := r.FormValue(field)
		if value == "" {
			return "", fmt.Errorf("%s field is required", field)
		}

		return field + ":" + value, nil
	}
}
