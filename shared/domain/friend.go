package domain

import "time"

type (
	FriendshipId = int64
	UserId       = int64
)

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friend is the other side of a friendship, seen from the current user.
type Friend struct {
	UserId      UserId
	Username    Username
	DisplayName string
	Avatar      string
}

type Friendship struct {
	Id                FriendshipId
	Friend            Friend
	Status            string
	RequesterUsername Username
	CreatedAt         time.Time
}

// FriendRequest is a pending request addressed to the current user.
type FriendRequest struct {
	Id        FriendshipId
	Requester Friend
	CreatedAt time.Time
}
