package handler

import (
	"net/http"
	"strings"

	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/errors"
	"github.com/pixora-dev/pixora/shared/logger"
	"github.com/pixora-dev/pixora/shared/validation"
)

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "login.html", nil)
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	req := api.LoginRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	if err := validation.Struct(req); err != nil {
		h.setFlash(w, r, flash.KeyUsername, req.Username)
		h.redirectWithFlash(w, r, "/login", flash.KeyError, userMessage(err))
		return
	}

	if !h.login(w, r, req) {
		return
	}
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// login exchanges credentials for the backend session and hands its cookies
// to the browser. On failure it redirects back to the login form.
func (h *Handler) login(w http.ResponseWriter, r *http.Request, req api.LoginRequest) bool {
	cookies, err := h.session(r).Login(r.Context(), req)
	if err != nil {
		logger.Log.Info("login failed", "username", req.Username, "error", err)
		msg := userMessage(err)
		if errors.StatusCode(err) == http.StatusUnauthorized {
			msg = "Invalid username or password"
		}
		h.setFlash(w, r, flash.KeyUsername, req.Username)
		h.redirectWithFlash(w, r, "/login", flash.KeyError, msg)
		return false
	}

	h.issueSession(w, cookies, req.Username)
	return true
}

// issueSession re-issues the backend's session cookies on our origin and
// records the session as logged in.
func (h *Handler) issueSession(w http.ResponseWriter, cookies []*http.Cookie, username string) {
	for _, cookie := range cookies {
		cookie.Secure = cookie.Secure || h.Public.SecureCookies
		http.SetCookie(w, cookie)
	}
	h.AuthStore.Set(cookies, username)
}

func (h *Handler) RegisterGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "register.html", nil)
}

// RegisterPostHandler creates the account and logs straight in. If the
// automatic login fails the user is sent to the login form instead.
func (h *Handler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	req := api.RegisterRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := validation.Struct(req); err != nil {
		h.setFlash(w, r, flash.KeyUsername, req.Username)
		h.redirectWithFlash(w, r, "/register", flash.KeyError, userMessage(err))
		return
	}
	if r.FormValue("confirm_password") != req.Password {
		h.setFlash(w, r, flash.KeyUsername, req.Username)
		h.redirectWithFlash(w, r, "/register", flash.KeyError, "Passwords do not match")
		return
	}

	if err := h.session(r).Register(r.Context(), req); err != nil {
		logger.Log.Info("registration failed", "username", req.Username, "error", err)
		h.setFlash(w, r, flash.KeyUsername, req.Username)
		h.redirectWithFlash(w, r, "/register", flash.KeyError, userMessage(err))
		return
	}

	cookies, err := h.session(r).Login(r.Context(), api.LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		logger.Log.Warn("login after registration failed", "username", req.Username, "error", err)
		h.setFlash(w, r, flash.KeyUsername, req.Username)
		h.redirectWithFlash(w, r, "/login", flash.KeySuccess, "Account created, please log in")
		return
	}
	h.issueSession(w, cookies, req.Username)
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// LogoutHandler ends the backend session and forgets it locally even when
// the backend could not be reached.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookies, err := h.session(r).Logout(r.Context())
	if err != nil {
		logger.Log.Warn("backend logout failed", "error", err)
	}
	h.AuthStore.Clear(r.Cookies())

	for _, cookie := range cookies {
		http.SetCookie(w, cookie)
	}
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     h.Public.AccessCookie,
		Value:    "",
		MaxAge:   -1, // Expire immediately
		HttpOnly: true,
		Secure:   h.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.redirectWithFlash(w, r, "/login", flash.KeySuccess, "You have been logged out")
}
