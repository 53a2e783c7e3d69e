package api

import "time"

type FriendResponse struct {
	Id                   int64   `json:"id"`
	Username             string  `json:"username"`
	DisplayName          string  `json:"display_name"`
	ProfilePictureBase64 *string `json:"profile_picture_base64"`
}

type FriendshipResponse struct {
	Id                int64          `json:"id"`
	Friend            FriendResponse `json:"friend"`
	Status            string         `json:"status"`
	RequesterUsername string         `json:"requester_username"`
	CreatedAt         time.Time      `json:"created_at"`
}

type FriendRequestResponse struct {
	Id        int64          `json:"id"`
	Requester FriendResponse `json:"requester"`
	CreatedAt time.Time      `json:"created_at"`
}

type FriendsListResponse struct {
	Friends []FriendshipResponse `json:"friends"`
	Count   int                  `json:"count"`
}

type UsernameRequest struct {
	Username string `json:"username" validate:"required"`
}
