package models

// UserStats представляет статистику пользователя
type UserStats struct {
	UserID         int64 `json:"user_id"`
	WishlistsCount int   `json:"wishlists_count"`
	WishesCount    int   `json:"wishes_count"`
	ActiveCount    int   `json:"active_count"`
	ReservedCount  int   `json:"reserved_count"`
	FulfilledCount int   `json:"fulfilled_count"`
	GiftsGiven     int   `json:"gifts_given"`
	GiftsReceived  int   `json:"gifts_received"`
}
