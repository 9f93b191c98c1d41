package models

import (
	"strings"
	"time"

	themes "wishlist-tool-client/internal/features/theme/models"
)

// User is a registered mini-app user.
type User struct {
	ID                  int64        `json:"id"`
	TelegramID          int64        `json:"telegram_id"`
	FirstName           string       `json:"first_name"`
	LastName            string       `json:"last_name,omitempty"`
	Username            string       `json:"username,omitempty"`
	PhotoURL            string       `json:"photo_url,omitempty"`
	Language            string       `json:"language"`
	ThemeColor          themes.Theme `json:"theme_color"`
	RegistrationTime    time.Time    `json:"registration_time"`
	LastVisit           time.Time    `json:"last_visit"`
	InvitedByID         *int64       `json:"invited_by,omitempty"`
	InvitedByTelegramID *int64       `json:"invited_by_telegram_id,omitempty"`
	GiftsGiven          int          `json:"gifts_given"`
	GiftsReceived       int          `json:"gifts_received"`
	Subscriptions       []int64      `json:"subscriptions,omitempty"`
}

// DisplayName returns "First Last", falling back to @username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.Username != "" {
		return "@" + u.Username
	}
	return name
}

// RegisterRequest is the register-or-get payload. Optional fields are
// omitted when nil so the server keeps what it has.
type RegisterRequest struct {
	TelegramID int64         `json:"telegram_id" validate:"gt=0"`
	FirstName  string        `json:"first_name" validate:"max=150"`
	LastName   *string       `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Username   *string       `json:"username,omitempty" validate:"omitempty,max=150"`
	PhotoURL   *string       `json:"photo_url,omitempty" validate:"omitempty,url"`
	Language   *string       `json:"language,omitempty" validate:"omitempty,max=10"`
	ThemeColor *themes.Theme `json:"theme_color,omitempty" validate:"omitempty,oneof=light dark ozon"`
	StartParam *string       `json:"start_param,omitempty"`
}

// UpdateRequest is a partial profile update.
type UpdateRequest struct {
	FirstName  *string       `json:"first_name,omitempty" validate:"omitempty,notblank,max=150"`
	LastName   *string       `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Username   *string       `json:"username,omitempty" validate:"omitempty,max=150"`
	PhotoURL   *string       `json:"photo_url,omitempty" validate:"omitempty,url"`
	Language   *string       `json:"language,omitempty" validate:"omitempty,max=10"`
	ThemeColor *themes.Theme `json:"theme_color,omitempty" validate:"omitempty,oneof=light dark ozon"`
}
