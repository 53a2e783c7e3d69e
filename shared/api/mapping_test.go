package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMediaURL(t *testing.T) {
	tests := []struct {
		base, path, expected string
	}{
		{"/media/", "1_20240101_120000.jpg", "/media/1_20240101_120000.jpg"},
		{"/media", "1.jpg", "/media/1.jpg"},
		{"http://api:8000/media/", "/nested/2.jpg", "http://api:8000/media/nested/2.jpg"},
		{"/media/", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, MediaURL(tt.base, tt.path))
	}
}

func TestAvatarURL(t *testing.T) {
	assert.Equal(t, "", AvatarURL(nil))
	empty := ""
	assert.Equal(t, "", AvatarURL(&empty))
	b64 := "AAEC"
	assert.Equal(t, "data:image/jpeg;base64,AAEC", AvatarURL(&b64))
}

func TestPostResponse_ToDomain(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	resp := PostResponse{
		Id:          7,
		Username:    "alice",
		DisplayName: "Alice",
		ImagePath:   "3_20240501_100000.jpg",
		Caption:     "sunset",
		CreatedAt:   created,
		Comments: []CommentResponse{
			{Id: 1, Username: "bob", DisplayName: "Bob", CommentText: "nice", CreatedAt: created},
		},
	}

	post := resp.ToDomain("/media/")

	assert.Equal(t, int64(7), post.Id)
	assert.Equal(t, "alice", post.Author.Username)
	assert.Equal(t, "Alice", post.Author.DisplayName)
	assert.Empty(t, post.Author.Avatar)
	assert.Equal(t, "/media/3_20240501_100000.jpg", post.ImageURL)
	assert.Equal(t, "sunset", post.Caption)
	assert.Equal(t, created, post.CreatedAt)
	if assert.Len(t, post.Comments, 1) {
		assert.Equal(t, "nice", post.Comments[0].Text)
	}

	resp.Comments = nil
	assert.Nil(t, resp.ToDomain("/media/").Comments)
}
