package api

import "time"

type CommentResponse struct {
	Id          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CommentText string    `json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`
}

type PostResponse struct {
	Id                   int64             `json:"id"`
	Username             string            `json:"username"`
	DisplayName          string            `json:"display_name"`
	ProfilePictureBase64 *string           `json:"profile_picture_base64"`
	ImagePath            string            `json:"image_path"`
	Caption              string            `json:"caption"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
	Comments             []CommentResponse `json:"comments"`
}

// FeedResponse is one page of GET /api/posts/feed/?page=N.
type FeedResponse struct {
	Posts   []PostResponse `json:"posts"`
	HasMore bool           `json:"hasMore"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}
