package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	frontend_domain "github.com/pixora-dev/pixora/frontend/internal/domain"
	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/frontend/internal/imaging"
	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/errors"
	"github.com/pixora-dev/pixora/shared/validation"
)

func (h *Handler) SettingsGetHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := h.session(r).MyProfile(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderTemplate(w, r, "settings.html", frontend_domain.SettingsPageData{Profile: profile})
}

// SettingsPostHandler saves the editable profile fields.
func (h *Handler) SettingsPostHandler(w http.ResponseWriter, r *http.Request) {
	update := domain.ProfileUpdate{
		DisplayName: strings.TrimSpace(r.FormValue("display_name")),
		Bio:         strings.TrimSpace(r.FormValue("bio")),
		Link:        strings.TrimSpace(r.FormValue("link")),
	}
	if err := h.validateProfileUpdate(update); err != nil {
		h.fail(w, r, "/settings", err)
		return
	}

	if _, err := h.session(r).UpdateMyProfile(r.Context(), update); err != nil {
		h.fail(w, r, "/settings", err)
		return
	}
	h.redirectWithFlash(w, r, "/settings", flash.KeySuccess, "Settings saved")
}

func (h *Handler) validateProfileUpdate(update domain.ProfileUpdate) error {
	if err := validation.Struct(update); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(update.Bio); n > h.Public.BioMaxLen {
		return &errors.ValidationError{
			Field:   "bio",
			Message: fmt.Sprintf("Bio must be %d characters or less", h.Public.BioMaxLen),
		}
	}
	return nil
}

// SettingsPicturePostHandler selects, normalizes and uploads a profile
// picture in one request.
func (h *Handler) SettingsPicturePostHandler(w http.ResponseWriter, r *http.Request) {
	maxSize := validation.CalculateMaxRequestSize(h.AvatarPolicy.MaxSizeBytes, multipartOverhead)
	if err := validation.ValidateAndParseMultipart(r, w, maxSize); err != nil {
		h.fail(w, r, "/settings", err)
		return
	}

	header, data, err := validation.ReadFormFile(r, "image")
	if err != nil {
		h.fail(w, r, "/settings", err)
		return
	}
	mimeType, _ := validation.DetectMimeType(header)

	sub := imaging.NewSubmission(h.owner(r), h.AvatarPolicy)
	if err := sub.Select(imaging.CandidateFromBytes(header.Filename, mimeType, data)); err != nil {
		h.fail(w, r, "/settings", err)
		return
	}

	session := h.session(r)
	err = sub.Submit(r.Context(), func(ctx context.Context, body *imaging.UploadBody) error {
		return session.UploadProfilePicture(ctx, body)
	})
	if err != nil {
		h.fail(w, r, "/settings", err)
		return
	}
	h.redirectWithFlash(w, r, "/settings", flash.KeySuccess, "Profile picture updated")
}
