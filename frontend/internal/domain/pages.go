package frontend_domain

import "github.com/pixora-dev/pixora/shared/domain"

type FeedPageData struct {
	ViewID   string
	Posts    []*Post
	Page     int
	HasMore  bool
	Sentinel string // token the page script reports back; empty when nothing more to load
}

type PostPageData struct {
	Post *Post
}

type NewPostPageData struct {
	SubmissionID string // empty until an image was selected
	Preview      string // data URL
	Filename     string
	Caption      string
}

type ProfilePageData struct {
	Profile domain.Profile
	Posts   []*Post
	IsOwn   bool
	// Friendship is the viewer's relation to a foreign profile, nil if none.
	Friendship *domain.Friendship
}

type SettingsPageData struct {
	Profile domain.Profile
}

type FriendsPageData struct {
	Friends  []domain.Friendship
	Incoming []domain.FriendRequest
	Sent     []domain.Friendship
	Query    string
	Found    *domain.Profile
}
