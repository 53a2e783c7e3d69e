package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pixora-dev/pixora/frontend/internal/apiclient"
	frontend_domain "github.com/pixora-dev/pixora/frontend/internal/domain"
	"github.com/pixora-dev/pixora/frontend/internal/feed"
	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/frontend/internal/imaging"
	"github.com/pixora-dev/pixora/frontend/internal/middleware"
	"github.com/pixora-dev/pixora/shared/errors"
	"github.com/pixora-dev/pixora/shared/logger"
	"github.com/pixora-dev/pixora/shared/validation"
)

const (
	passwordMinLen    = 8
	usernameMaxLen    = 150
	displayNameMaxLen = 100
)

// session binds the API client to the cookies the browser sent.
func (h *Handler) session(r *http.Request) *apiclient.Session {
	return h.APIClient.WithCookies(r.Cookies())
}

// owner identifies the browser session that mounted a feed view or started
// an upload.
func (h *Handler) owner(r *http.Request) string {
	return h.AuthStore.Key(r.Cookies())
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) frontend_domain.CommonTemplateData {
	msgs := h.Flashes.Pop(w, r)
	common := frontend_domain.CommonTemplateData{
		Error:           msgs.Error,
		Success:         msgs.Success,
		UsernamePrefill: msgs.Username,
		CSRFToken:       middleware.GetCSRFTokenFromContext(r),
		Path:            r.URL.Path,
		Validation: frontend_domain.ValidationData{
			CaptionMaxLen:              h.Public.CaptionMaxLen,
			BioMaxLen:                  h.Public.BioMaxLen,
			DisplayNameMaxLen:          displayNameMaxLen,
			PasswordMinLen:             passwordMinLen,
			UsernameMaxLen:             usernameMaxLen,
			PostMaxSizeBytes:           h.PostPolicy.MaxSizeBytes,
			PostMaxSizeLabel:           validation.FormatSize(h.PostPolicy.MaxSizeBytes),
			ProfilePictureMaxSizeBytes: h.AvatarPolicy.MaxSizeBytes,
			ProfilePictureMaxSizeLabel: validation.FormatSize(h.AvatarPolicy.MaxSizeBytes),
			AcceptImageTypes:           validation.AcceptImageTypes(),
		},
	}
	if auth := middleware.GetAuthFromContext(r); auth.Authenticated {
		common.Viewer = &frontend_domain.Viewer{Username: auth.Username}
	}
	return common
}

func (h *Handler) setFlash(w http.ResponseWriter, r *http.Request, key, msg string) {
	h.Flashes.Set(w, r, key, msg)
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, key, msg string) {
	h.setFlash(w, r, key, msg)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail reports a failed form post on target. A session the backend no longer
// accepts is answered with 401 so the auth middleware sends the user to login.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, target string, err error) {
	if errors.StatusCode(err) == http.StatusUnauthorized {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	logger.Log.Warn("request failed", "path", r.URL.Path, "error", err)
	h.redirectWithFlash(w, r, target, flash.KeyError, userMessage(err))
}

// renderError answers a page request that could not be served.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusCode(err)
	if status == http.StatusUnauthorized {
		w.WriteHeader(status)
		return
	}
	if status >= 500 {
		logger.Log.Error("page failed", "path", r.URL.Path, "error", err)
	}
	h.renderTemplateStatus(w, r, "error.html", status, nil, userMessage(err))
}

// userMessage extends errors.UserMessage with the frontend's own sentinels.
func userMessage(err error) string {
	switch {
	case stderrors.Is(err, imaging.ErrInFlight):
		return "Your image is still being processed"
	case stderrors.Is(err, imaging.ErrSubmissionNotFound),
		stderrors.Is(err, imaging.ErrSubmitted),
		stderrors.Is(err, imaging.ErrNotValidated):
		return imaging.ErrSubmissionNotFound.Error()
	case stderrors.Is(err, validation.ErrNoFile):
		return imaging.MsgNoImage
	case stderrors.Is(err, validation.ErrPayloadTooLarge):
		return "The upload is too large"
	case stderrors.Is(err, feed.ErrViewNotFound):
		return "The feed was reloaded, please try again"
	}
	return errors.UserMessage(err)
}

func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &errors.ErrorWithStatusCode{Message: fmt.Sprintf("invalid %s id", param), StatusCode: http.StatusNotFound}
	}
	return id, nil
}

// wantsJSON reports requests sent by the page script rather than a form.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
