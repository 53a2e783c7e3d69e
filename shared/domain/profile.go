package domain

import "time"

type Profile struct {
	Username    Username
	DisplayName string
	Bio         string
	Link        string
	Email       string
	Avatar      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	DisplayName string `json:"display_name" validate:"max=100"`
	Bio         string `json:"bio" validate:"max=255"`
	Link        string `json:"link" validate:"omitempty,url,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
}
