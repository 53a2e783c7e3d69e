package domain

import "time"

type (
	PostId    = int64
	CommentId = int64
	Username  = string
)

// Author is the user a post or comment belongs to.
// Avatar is a data URL built from the backend's base64 picture, or empty.
type Author struct {
	Username    Username
	DisplayName string
	Avatar      string
}

type Comment struct {
	Id          CommentId
	Username    Username
	DisplayName string
	Text        string
	CreatedAt   time.Time
}

type Post struct {
	Id        PostId
	Author    Author
	ImageURL  string
	Caption   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Comments  []Comment
}

// FeedPage is one server batch of the feed. Page numbers start at 1.
type FeedPage struct {
	Posts   []Post
	HasMore bool
	Page    int
}
