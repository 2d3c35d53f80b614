package models

import "time"

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Bio          string `json:"bio,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `json:"-"`

	// refresh-token storage in DB
	RefreshToken     *string    `json:"-"` // opaque string
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
