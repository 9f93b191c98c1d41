package models

import "time"

// Wishlist is a named, ordered collection of one user's wishes.
type Wishlist struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	IsDefault   bool      `json:"is_default"`
	Order       int       `json:"order"`
	WishesCount int       `json:"wishes_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID owns the wishlist.
func (w *Wishlist) IsOwnedBy(userID int64) bool {
	return w != nil && userID != 0 && w.UserID == userID
}

// CreateRequest creates a wishlist for the user with TelegramID.
type CreateRequest struct {
	Name        string  `json:"name" validate:"notblank,max=200"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
	TelegramID  int64   `json:"telegram_id" validate:"gt=0"`
}

// UpdateRequest is a partial wishlist update.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}
