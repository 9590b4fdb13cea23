package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	Features      []string  `json:"features" db:"features"`
	Notifications bool      `json:"notifications" db:"notifications"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// HasFeature reports whether the user currently carries the given feature tag.
func (u *User) HasFeature(feature string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Features, feature)
}

// Profile is the public representation returned by GET /api/v1/user.
type Profile struct {
	ID            uuid.UUID `json:"id" example:"a1b2c3d4-e5f6-7890-1234-567890abcdef"`
	Username      string    `json:"username" example:"filipedeschamps"`
	Email         string    `json:"email" example:"contato@example.com"`
	Notifications bool      `json:"notifications" example:"true"`
	Features      []string  `json:"features"`
	TabCoins      int64     `json:"tabcoins" example:"0"`
	TabCash       int64     `json:"tabcash" example:"0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewProfile(user *User, balances Balances) Profile {
	features := user.Features
	if features == nil {
		features = []string{}
	}
	return Profile{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		Notifications: user.Notifications,
		Features:      features,
		TabCoins:      balances.TabCoins,
		TabCash:       balances.TabCash,
		CreatedAt:     user.CreatedAt.UTC(),
		UpdatedAt:     user.UpdatedAt.UTC(),
	}
}
