package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// ContentSecurityPolicy builds the page policy. Previews and avatars are data
// URLs; post images may live on the media origin; XHR goes to self only.
func ContentSecurityPolicy(mediaBase string) string {
	imgSrc := []string{"'self'", "data:"}
	if origin := originOf(mediaBase); origin != "" {
		imgSrc = append(imgSrc, origin)
	}
	return strings.Join([]string{
		"default-src 'self'",
		"img-src " + strings.Join(imgSrc, " "),
		"script-src 'self'",
		"style-src 'self'",
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}, "; ")
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// SecurityHeadersWithCSP adds security headers with custom Content-Security-Policy
// isHTTPS: if true, adds Strict-Transport-Security header
// csp: Content-Security-Policy value (if empty, no CSP header is set)
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()

			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// the upload form only reads files, it never opens the camera
			headers.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}

			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
