package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/domain"
)

func (s *Session) Friends(ctx context.Context) ([]domain.Friendship, error) {
	var body api.FriendsListResponse
	if err := s.getJSON(ctx, http.MethodGet, "/api/friends/", "/api/friends/", nil, &body); err != nil {
		return nil, err
	}
	friends := make([]domain.Friendship, len(body.Friends))
	for i, f := range body.Friends {
		friends[i] = f.ToDomain()
	}
	return friends, nil
}

// FriendRequests lists pending requests addressed to the current user.
func (s *Session) FriendRequests(ctx context.Context) ([]domain.FriendRequest, error) {
	var body []api.FriendRequestResponse
	if err := s.getJSON(ctx, http.MethodGet, "/api/friends/requests/", "/api/friends/requests/", nil, &body); err != nil {
		return nil, err
	}
	requests := make([]domain.FriendRequest, len(body))
	for i, r := range body {
		requests[i] = r.ToDomain()
	}
	return requests, nil
}

// SentRequests lists pending requests the current user sent.
func (s *Session) SentRequests(ctx context.Context) ([]domain.Friendship, error) {
	var body []api.FriendshipResponse
	if err := s.getJSON(ctx, http.MethodGet, "/api/friends/sent/", "/api/friends/sent/", nil, &body); err != nil {
		return nil, err
	}
	sent := make([]domain.Friendship, len(body))
	for i, f := range body {
		sent[i] = f.ToDomain()
	}
	return sent, nil
}

func (s *Session) SendFriendRequest(ctx context.Context, username string) (domain.Friendship, error) {
	var body api.FriendshipResponse
	err := s.getJSON(ctx, http.MethodPost, "/api/friends/request/", "/api/friends/request/", api.UsernameRequest{Username: username}, &body)
	if err != nil {
		return domain.Friendship{}, err
	}
	return body.ToDomain(), nil
}

func (s *Session) AcceptFriendRequest(ctx context.Context, id domain.FriendshipId) error {
	path := fmt.Sprintf("/api/friends/accept/%d/", id)
	return s.exec(ctx, http.MethodPut, "/api/friends/accept/{id}/", path, nil)
}

func (s *Session) DeclineFriendRequest(ctx context.Context, id domain.FriendshipId) error {
	path := fmt.Sprintf("/api/friends/decline/%d/", id)
	return s.exec(ctx, http.MethodDelete, "/api/friends/decline/{id}/", path, nil)
}

func (s *Session) CancelFriendRequest(ctx context.Context, id domain.FriendshipId) error {
	path := fmt.Sprintf("/api/friends/cancel/%d/", id)
	return s.exec(ctx, http.MethodDelete, "/api/friends/cancel/{id}/", path, nil)
}

func (s *Session) RemoveFriend(ctx context.Context, id domain.FriendshipId) error {
	path := fmt.Sprintf("/api/friends/%d/", id)
	return s.exec(ctx, http.MethodDelete, "/api/friends/{id}/", path, nil)
}

// SearchUser looks a user up by exact username. The backend has no search
// endpoint, so this resolves through the public profile lookup.
func (s *Session) SearchUser(ctx context.Context, username string) (domain.Profile, error) {
	return s.Profile(ctx, username)
}
