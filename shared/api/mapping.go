package api

import (
	"strings"

	"github.com/pixora-dev/pixora/shared/domain"
)

// AvatarURL turns the backend's base64 picture into a data URL usable in <img src>.
func AvatarURL(b64 *string) string {
	if b64 == nil || *b64 == "" {
		return ""
	}
	return "data:image/jpeg;base64," + *b64
}

// MediaURL concatenates the media base path with a server-relative image path.
func MediaURL(mediaBase, imagePath string) string {
	if imagePath == "" {
		return ""
	}
	if !strings.HasSuffix(mediaBase, "/") {
		mediaBase += "/"
	}
	return mediaBase + strings.TrimPrefix(imagePath, "/")
}

func (c CommentResponse) ToDomain() domain.Comment {
	return domain.Comment{
		Id:          c.Id,
		Username:    c.Username,
		DisplayName: c.DisplayName,
		Text:        c.CommentText,
		CreatedAt:   c.CreatedAt,
	}
}

// ToDomain maps a wire post into the client shape. Comments stay nil when the
// backend sent none.
func (p PostResponse) ToDomain(mediaBase string) domain.Post {
	post := domain.Post{
		Id: p.Id,
		Author: domain.Author{
			Username:    p.Username,
			DisplayName: p.DisplayName,
			Avatar:      AvatarURL(p.ProfilePictureBase64),
		},
		ImageURL:  MediaURL(mediaBase, p.ImagePath),
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if len(p.Comments) > 0 {
		post.Comments = make([]domain.Comment, len(p.Comments))
		for i, c := range p.Comments {
			post.Comments[i] = c.ToDomain()
		}
	}
	return post
}

func PostsToDomain(posts []PostResponse, mediaBase string) []domain.Post {
	out := make([]domain.Post, len(posts))
	for i, p := range posts {
		out[i] = p.ToDomain(mediaBase)
	}
	return out
}

func (p ProfileResponse) ToDomain() domain.Profile {
	return domain.Profile{
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		Link:        p.Link,
		Email:       p.Email,
		Avatar:      AvatarURL(p.ProfilePictureBase64),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (f FriendResponse) ToDomain() domain.Friend {
	return domain.Friend{
		UserId:      f.Id,
		Username:    f.Username,
		DisplayName: f.DisplayName,
		Avatar:      AvatarURL(f.ProfilePictureBase64),
	}
}

func (f FriendshipResponse) ToDomain() domain.Friendship {
	return domain.Friendship{
		Id:                f.Id,
		Friend:            f.Friend.ToDomain(),
		Status:            f.Status,
		RequesterUsername: f.RequesterUsername,
		CreatedAt:         f.CreatedAt,
	}
}

func (f FriendRequestResponse) ToDomain() domain.FriendRequest {
	return domain.FriendRequest{
		Id:        f.Id,
		Requester: f.Requester.ToDomain(),
		CreatedAt: f.CreatedAt,
	}
}
