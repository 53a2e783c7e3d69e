package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/domain"
)

// FeedPage fetches one page of the friends feed. Pages start at 1.
func (s *Session) FeedPage(ctx context.Context, page int) (api.FeedResponse, error) {
	var body api.FeedResponse
	path := fmt.Sprintf("/api/posts/feed/?page=%d", page)
	err := s.getJSON(ctx, http.MethodGet, "/api/posts/feed/", path, nil, &body)
	return body, err
}

func (s *Session) MyPosts(ctx context.Context) ([]domain.Post, error) {
	var body []api.PostResponse
	if err := s.getJSON(ctx, http.MethodGet, "/api/posts/me/", "/api/posts/me/", nil, &body); err != nil {
		return nil, err
	}
	return api.PostsToDomain(body, s.client.MediaBase), nil
}

func (s *Session) UserPosts(ctx context.Context, username string) ([]domain.Post, error) {
	var body []api.PostResponse
	path := fmt.Sprintf("/api/posts/user/%s/", url.PathEscape(username))
	if err := s.getJSON(ctx, http.MethodGet, "/api/posts/user/{username}/", path, nil, &body); err != nil {
		return nil, err
	}
	return api.PostsToDomain(body, s.client.MediaBase), nil
}

func (s *Session) Post(ctx context.Context, postId domain.PostId) (domain.Post, error) {
	var body api.PostResponse
	path := fmt.Sprintf("/api/posts/%d/", postId)
	if err := s.getJSON(ctx, http.MethodGet, "/api/posts/{id}/", path, nil, &body); err != nil {
		return domain.Post{}, err
	}
	return body.ToDomain(s.client.MediaBase), nil
}

// CreatePost uploads a normalized image with its caption.
func (s *Session) CreatePost(ctx context.Context, payload MultipartPayload) (domain.Post, error) {
	resp, err := s.postMultipart(ctx, "/api/posts/", "/api/posts/", payload)
	if err != nil {
		return domain.Post{}, err
	}
	defer resp.Body.Close()

	var body api.PostResponse
	if err := decode(resp, "/api/posts/", &body); err != nil {
		return domain.Post{}, err
	}
	return body.ToDomain(s.client.MediaBase), nil
}

func (s *Session) CreateComment(ctx context.Context, postId domain.PostId, text string) (domain.Comment, error) {
	var body api.CommentResponse
	path := fmt.Sprintf("/api/posts/%d/comments/create/", postId)
	err := s.getJSON(ctx, http.MethodPost, "/api/posts/{id}/comments/create/", path, api.CreateCommentRequest{Text: text}, &body)
	if err != nil {
		return domain.Comment{}, err
	}
	return body.ToDomain(), nil
}
