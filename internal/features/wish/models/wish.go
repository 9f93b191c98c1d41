package models

import (
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a wish.
type Status string

const (
	StatusActive    Status = "active"
	StatusReserved  Status = "reserved"
	StatusFulfilled Status = "fulfilled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusReserved, StatusFulfilled:
		return true
	}
	return false
}

// DefaultCurrency is used when a wish has a price but no currency.
const DefaultCurrency = "₽"

// Wish is a single desired gift inside a wishlist.
type Wish struct {
	ID              int64      `json:"id"`
	WishlistID      int64      `json:"wishlist"`
	WishlistName    string     `json:"wishlist_name,omitempty"`
	OwnerID         int64      `json:"user"`
	OwnerTelegramID int64      `json:"user_telegram_id,omitempty"`
	Title           string     `json:"title"`
	Comment         string     `json:"comment,omitempty"`
	Link            string     `json:"link,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	Currency        string     `json:"currency,omitempty"`
	Order           int        `json:"order"`
	Status          Status     `json:"status"`
	ReservedBy      *int64     `json:"reserved_by,omitempty"`
	GiftedBy        *int64     `json:"gifted_by,omitempty"`
	ReservedAt      *time.Time `json:"reserved_at,omitempty"`
	GiftedAt        *time.Time `json:"gifted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsOwnedBy reports whether userID owns the wish.
func (w *Wish) IsOwnedBy(userID int64) bool {
	return userID != 0 && w.OwnerID == userID
}

// IsReservedBy reports whether userID holds the reservation.
func (w *Wish) IsReservedBy(userID int64) bool {
	return w.Status == StatusReserved && w.ReservedBy != nil && *w.ReservedBy == userID
}

// IsGiftedBy reports whether userID is credited with the gift.
func (w *Wish) IsGiftedBy(userID int64) bool {
	return w.Status == StatusFulfilled && w.GiftedBy != nil && *w.GiftedBy == userID
}

// PriceLabel formats the price with its currency, or "" when unpriced.
func (w *Wish) PriceLabel() string {
	if w.Price == nil {
		return ""
	}
	currency := w.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	s := strconv.FormatFloat(*w.Price, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")
	return s + " " + currency
}

// Ref is a nullable foreign key in a partial update. A nil *Ref omits the
// field, a Ref with nil ID sends an explicit null.
type Ref struct {
	ID *int64
}

// SetRef points the field at id.
func SetRef(id int64) *Ref {
	return &Ref{ID: &id}
}

// ClearRef nulls the field.
func ClearRef() *Ref {
	return &Ref{}
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == nil {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, *r.ID, 10), nil
}

// CreateRequest creates a wish in WishlistID.
type CreateRequest struct {
	WishlistID int64    `json:"wishlist" validate:"gt=0"`
	Title      string   `json:"title" validate:"notblank,max=200"`
	Comment    *string  `json:"comment,omitempty"`
	Link       *string  `json:"link,omitempty" validate:"omitempty,url"`
	ImageURL   *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency   *string  `json:"currency,omitempty" validate:"omitempty,max=10"`
	Order      *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// UpdateRequest is a partial wish update; nil fields are left untouched.
type UpdateRequest struct {
	WishlistID *int64   `json:"wishlist,omitempty" validate:"omitempty,gt=0"`
	Title      *string  `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Comment    *string  `json:"comment,omitempty"`
	Link       *string  `json:"link,omitempty" validate:"omitempty,url"`
	ImageURL   *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency   *string  `json:"currency,omitempty" validate:"omitempty,max=10"`
	Order      *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
	Status     *Status  `json:"status,omitempty" validate:"omitempty,oneof=active reserved fulfilled"`
	ReservedBy *Ref     `json:"reserved_by,omitempty"`
}

// Filter selects wishes in a list query. Zero fields are not sent.
type Filter struct {
	WishlistID int64
	UserID     int64
	TelegramID int64
	Status     Status
}
