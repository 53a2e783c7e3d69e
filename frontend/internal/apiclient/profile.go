package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/domain"
)

func (s *Session) MyProfile(ctx context.Context) (domain.Profile, error) {
	var body api.ProfileResponse
	if err := s.getJSON(ctx, http.MethodGet, "/api/profile/me/", "/api/profile/me/", nil, &body); err != nil {
		return domain.Profile{}, err
	}
	return body.ToDomain(), nil
}

// UpdateMyProfile sends a partial update and returns the stored profile.
func (s *Session) UpdateMyProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error) {
	var body api.ProfileResponse
	if err := s.getJSON(ctx, http.MethodPut, "/api/profile/me/", "/api/profile/me/", update, &body); err != nil {
		return domain.Profile{}, err
	}
	return body.ToDomain(), nil
}

func (s *Session) Profile(ctx context.Context, username string) (domain.Profile, error) {
	var body api.ProfileResponse
	path := fmt.Sprintf("/api/profile/%s/", url.PathEscape(username))
	if err := s.getJSON(ctx, http.MethodGet, "/api/profile/{username}/", path, nil, &body); err != nil {
		return domain.Profile{}, err
	}
	return body.ToDomain(), nil
}

func (s *Session) UploadProfilePicture(ctx context.Context, payload MultipartPayload) error {
	resp, err := s.postMultipart(ctx, "/api/profile/picture/", "/api/profile/picture/", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
