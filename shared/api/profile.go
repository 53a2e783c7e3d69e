package api

import "time"

type ProfileResponse struct {
	Username             string    `json:"username"`
	DisplayName          string    `json:"display_name"`
	Bio                  string    `json:"bio"`
	Link                 string    `json:"link"`
	Email                string    `json:"email"`
	ProfilePictureBase64 *string   `json:"profile_picture_base64"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type UploadPictureResponse struct {
	Success bool `json:"success"`
}
