package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pixora-dev/pixora/shared/csrf"
	"github.com/pixora-dev/pixora/shared/logger"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
)

type csrfContextKey string

const csrfTokenContextKey csrfContextKey = "csrf_token"

// CSRFConfig holds CSRF middleware configuration
type CSRFConfig struct {
	SecureCookies bool // Use Secure flag on cookies (requires HTTPS)
	// MaxMultipartBytes caps upload bodies parsed while looking for the token.
	MaxMultipartBytes int64
}

// GenerateCSRFToken middleware generates and sets CSRF token cookie
func GenerateCSRFToken(config CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(csrfCookieName)
			var token string

			if err != nil || cookie.Value == "" {
				token, err = csrf.GenerateToken()
				if err != nil {
					logger.Log.Error("failed to generate CSRF token", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   config.SecureCookies,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   86400, // 24 hours
				})
			} else {
				token = cookie.Value
			}

			ctx := context.WithValue(r.Context(), csrfTokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidateCSRFToken checks state-changing requests. Page scripts send the
// token in a header; forms send it as a field.
func ValidateCSRFToken(config CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut &&
				r.Method != http.MethodPatch && r.Method != http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(csrfCookieName)
			if err != nil {
				logger.Log.Warn("CSRF token cookie missing", "path", r.URL.Path)
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}

			submitted := r.Header.Get(csrfHeader)
			if submitted == "" {
				contentType := r.Header.Get("Content-Type")
				if strings.HasPrefix(contentType, "multipart/form-data") {
					maxBytes := config.MaxMultipartBytes
					if maxBytes <= 0 {
						maxBytes = 32 << 20
					}
					r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
					if err := r.ParseMultipartForm(maxBytes); err != nil {
						logger.Log.Warn("failed to parse multipart form", "path", r.URL.Path, "error", err)
						http.Error(w, "Upload is too large or malformed", http.StatusRequestEntityTooLarge)
						return
					}
				} else if r.Form == nil {
					if err := r.ParseForm(); err != nil {
						logger.Log.Error("failed to parse form", "error", err)
						http.Error(w, "Invalid form data", http.StatusBadRequest)
						return
					}
				}
				submitted = r.FormValue(csrfFormField)
			}

			if !csrf.ValidateToken(cookie.Value, submitted) {
				logger.Log.Warn("CSRF token validation failed", "path", r.URL.Path)
				http.Error(w, "CSRF token invalid", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFTokenFromContext retrieves CSRF token from request context
func GetCSRFTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenContextKey).(string)
	return token
}
