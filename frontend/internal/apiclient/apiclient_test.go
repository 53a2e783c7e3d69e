package apiclient

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, h http.HandlerFunc) *Session {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := New(srv.URL, "/media/", 2*time.Second)
	return client.WithCookies([]*http.Cookie{{Name: "access_token", Value: "tok"}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFeedPage(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/feed/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		cookie, err := r.Cookie("access_token")
		require.NoError(t, err)
		assert.Equal(t, "tok", cookie.Value)

		writeJSON(w, http.StatusOK, map[string]any{
			"posts": []map[string]any{
				{"id": 11, "username": "alice", "display_name": "Alice", "image_path": "11.jpg", "caption": "hi", "created_at": "2024-05-01T10:00:00Z"},
			},
			"hasMore": true,
		})
	})

	resp, err := session.FeedPage(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, resp.HasMore)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, int64(11), resp.Posts[0].Id)
	assert.Equal(t, "11.jpg", resp.Posts[0].ImagePath)
}

func TestServerErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"error key", http.StatusTooManyRequests, `{"error": "You can only post once every 5 minutes"}`, "You can only post once every 5 minutes"},
		{"message key", http.StatusBadRequest, `{"message": "Invalid credentials"}`, "Invalid credentials"},
		{"detail key", http.StatusUnauthorized, `{"detail": "Authentication credentials were not provided."}`, "Authentication credentials were not provided."},
		{"field errors", http.StatusBadRequest, `{"username": ["A user with that username already exists."], "email": ["Enter a valid email address."]}`, "Enter a valid email address."},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "Bad Gateway"},
		{"empty", http.StatusNotFound, ``, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := session.MyProfile(context.Background())

			var serverErr *errors.ServerError
			require.True(t, stderrors.As(err, &serverErr), "expected ServerError, got %v", err)
			assert.Equal(t, tt.status, serverErr.StatusCode)
			assert.Equal(t, tt.expected, serverErr.Message)
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	session := New(url, "/media/", time.Second).WithCookies(nil)
	_, err := session.FeedPage(context.Background(), 1)

	var netErr *errors.NetworkError
	require.True(t, stderrors.As(err, &netErr))
	assert.Equal(t, errors.MsgNetwork, errors.UserMessage(err))
}

func TestContextCancel(t *testing.T) {
	release := make(chan struct{})
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := session.FeedPage(ctx, 1)
	var netErr *errors.NetworkError
	require.True(t, stderrors.As(err, &netErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogin_ForwardsCookies(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "secret", req.Password)

		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "new", Domain: "api.internal", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, api.LoginResponse{Success: true, Message: "Login successful"})
	})

	cookies, err := session.Login(context.Background(), api.LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.Equal(t, "new", cookies[0].Value)
	assert.Empty(t, cookies[0].Domain)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLogin_Rejected(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "No active account found with the given credentials"})
	})

	_, err := session.Login(context.Background(), api.LoginRequest{Username: "a", Password: "b"})
	assert.Equal(t, "No active account found with the given credentials", errors.UserMessage(err))
}

func TestAuthenticated(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/authenticated", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true})
	})

	resp, err := session.Authenticated(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Authenticated)
}

type fakePayload struct{ caption string }

func (p fakePayload) WriteMultipart(w *multipart.Writer) error {
	part, err := w.CreateFormFile("image", "post.jpg")
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte{0xff, 0xd8, 0xff}); err != nil {
		return err
	}
	return w.WriteField("caption", p.caption)
}

func TestCreatePost_Multipart(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "sunset", r.FormValue("caption"))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "post.jpg", header.Filename)

		writeJSON(w, http.StatusCreated, map[string]any{"id": 5, "username": "alice", "image_path": "5.jpg", "caption": "sunset", "created_at": "2024-05-01T10:00:00Z"})
	})

	post, err := session.CreatePost(context.Background(), fakePayload{caption: "sunset"})
	require.NoError(t, err)
	assert.Equal(t, domain.PostId(5), post.Id)
	assert.Equal(t, "/media/5.jpg", post.ImageURL)
}

func TestCreatePost_RateLimited(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "You can only post once every 5 minutes"})
	})

	_, err := session.CreatePost(context.Background(), fakePayload{caption: "x"})
	assert.Equal(t, "You can only post once every 5 minutes", errors.UserMessage(err))
	assert.Equal(t, http.StatusTooManyRequests, errors.StatusCode(err))
}

func TestFriendsEndpoints(t *testing.T) {
	var calls []string
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/api/friends/":
			writeJSON(w, http.StatusOK, map[string]any{
				"friends": []map[string]any{{"id": 3, "friend": map[string]any{"id": 9, "username": "bob", "display_name": "Bob"}, "status": "accepted", "requester_username": "alice"}},
				"count":   1,
			})
		case "/api/friends/requests/":
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 4, "requester": map[string]any{"id": 10, "username": "carol"}}})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	friends, err := session.Friends(ctx)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Friend.Username)
	assert.Equal(t, domain.FriendshipAccepted, friends[0].Status)

	requests, err := session.FriendRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "carol", requests[0].Requester.Username)

	require.NoError(t, session.AcceptFriendRequest(ctx, 4))
	require.NoError(t, session.DeclineFriendRequest(ctx, 5))
	require.NoError(t, session.CancelFriendRequest(ctx, 6))
	require.NoError(t, session.RemoveFriend(ctx, 3))

	assert.Equal(t, []string{
		"GET /api/friends/",
		"GET /api/friends/requests/",
		"PUT /api/friends/accept/4/",
		"DELETE /api/friends/decline/5/",
		"DELETE /api/friends/cancel/6/",
		"DELETE /api/friends/3/",
	}, calls)
}

func TestCreateComment(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/42/comments/create/", r.URL.Path)
		var req api.CreateCommentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nice shot", req.Text)
		writeJSON(w, http.StatusCreated, map[string]any{"id": 1, "username": "bob", "comment_text": "nice shot"})
	})

	comment, err := session.CreateComment(context.Background(), 42, "nice shot")
	require.NoError(t, err)
	assert.Equal(t, "nice shot", comment.Text)
}
