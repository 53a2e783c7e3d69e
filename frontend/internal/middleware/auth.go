package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pixora-dev/pixora/frontend/internal/apiclient"
	"github.com/pixora-dev/pixora/frontend/internal/authstate"
	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/shared/logger"
)

type authContextKey struct{}

// Auth resolves who the browser is logged in as and guards the pages that
// need a session.
type Auth struct {
	store   *authstate.Store
	client  *apiclient.APIClient
	flashes *flash.Flashes
}

func NewAuth(store *authstate.Store, client *apiclient.APIClient, flashes *flash.Flashes) *Auth {
	return &Auth{
		store:   store,
		client:  client,
		flashes: flashes,
	}
}

// OptionalAuth puts the session's auth context on the request. A failed
// check counts as logged out.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, a.resolve(r))
		})
	}
}

// NeedAuth redirects to the login page unless the session is authenticated.
// A 401 or 403 written later by the handler, typically relayed from the
// backend, is turned into the same redirect.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = a.resolve(r)
			if !GetAuthFromContext(r).Authenticated {
				if isXHR(r) {
					http.Error(w, "Please log in to continue", http.StatusUnauthorized)
					return
				}
				a.redirectToLogin(w, r, "Please log in to continue")
				return
			}
			if isXHR(r) {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(&authRedirectWriter{ResponseWriter: w, request: r, auth: a}, r)
		})
	}
}

// RedirectIfAuthenticated sends logged in users away from the login and
// register pages.
func (a *Auth) RedirectIfAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = a.resolve(r)
			if r.Method == http.MethodGet && GetAuthFromContext(r).Authenticated {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Auth) resolve(r *http.Request) *http.Request {
	if _, ok := r.Context().Value(authContextKey{}).(authstate.Context); ok {
		return r
	}
	cookies := r.Cookies()
	auth, err := a.store.Get(r.Context(), cookies, a.client.WithCookies(cookies))
	if err != nil {
		logger.Log.Warn("auth check failed", "path", r.URL.Path, "error", err)
		auth = authstate.Context{}
	}
	return r.WithContext(WithAuth(r.Context(), auth))
}

func (a *Auth) redirectToLogin(w http.ResponseWriter, r *http.Request, errorMsg string) {
	a.flashes.Set(w, r, flash.KeyError, errorMsg)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// authRedirectWriter intercepts 401/403 errors and redirects to login
type authRedirectWriter struct {
	http.ResponseWriter
	request    *http.Request
	auth       *Auth
	redirected bool
}

func (w *authRedirectWriter) WriteHeader(statusCode int) {
	if w.redirected {
		return
	}

	switch statusCode {
	case http.StatusUnauthorized:
		w.redirected = true
		// the backend no longer accepts this session
		w.auth.store.Clear(w.request.Cookies())
		w.auth.redirectToLogin(w.ResponseWriter, w.request, "Your session has expired, please log in again")
		return
	case http.StatusForbidden:
		w.redirected = true
		w.auth.redirectToLogin(w.ResponseWriter, w.request, "Access denied")
		return
	}

	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *authRedirectWriter) Write(data []byte) (int, error) {
	if w.redirected {
		return len(data), nil // Discard body after redirect
	}
	return w.ResponseWriter.Write(data)
}

func (w *authRedirectWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func WithAuth(ctx context.Context, auth authstate.Context) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// GetAuthFromContext returns the auth context resolved for r, or the zero
// (logged out) value when no auth middleware ran.
func GetAuthFromContext(r *http.Request) authstate.Context {
	auth, _ := r.Context().Value(authContextKey{}).(authstate.Context)
	return auth
}

// isXHR reports requests made by the page script, which want status codes
// rather than redirects.
func isXHR(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "fetch" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
