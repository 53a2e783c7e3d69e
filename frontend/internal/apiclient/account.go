package apiclient

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/errors"
)

// Login exchanges credentials for the backend's session cookies. The returned
// cookies must be re-issued to the browser.
func (s *Session) Login(ctx context.Context, req api.LoginRequest) ([]*http.Cookie, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/account/token", "/account/token", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body api.LoginResponse
	if err := decode(resp, "/account/token", &body); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, err
	}
	// Some deployments answer 200 with success=false instead of 401.
	if body.Message != "" && !body.Success {
		return nil, &errors.ServerError{StatusCode: http.StatusUnauthorized, Message: body.Message}
	}
	return forwardable(resp.Cookies()), nil
}

func (s *Session) Register(ctx context.Context, req api.RegisterRequest) error {
	return s.exec(ctx, http.MethodPost, "/account/register", "/account/register", req)
}

// Authenticated asks the backend whether the session cookies are valid.
func (s *Session) Authenticated(ctx context.Context) (api.AuthenticatedResponse, error) {
	var body api.AuthenticatedResponse
	err := s.getJSON(ctx, http.MethodPost, "/account/authenticated", "/account/authenticated", nil, &body)
	return body, err
}

// Logout ends the backend session. The returned cookies clear it in the browser.
func (s *Session) Logout(ctx context.Context) ([]*http.Cookie, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/account/logout", "/account/logout", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return forwardable(resp.Cookies()), nil
}
