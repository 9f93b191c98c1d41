package mapper

import (
	"github.com/tidwall/gjson"

	themes "wishlist-tool-client/internal/features/theme/models"
	"wishlist-tool-client/internal/features/user/models"
	"wishlist-tool-client/internal/platform/api"
)

// ToUser maps a user payload to the User model. Unknown theme names are dropped.
func ToUser(r gjson.Result) *models.User {
	u := &models.User{
		ID:                  api.Int64(r.Get("id")),
		TelegramID:          api.Int64(r.Get("telegram_id")),
		FirstName:           api.String(r.Get("first_name")),
		LastName:            api.String(r.Get("last_name")),
		Username:            api.String(r.Get("username")),
		PhotoURL:            api.String(r.Get("photo_url")),
		Language:            api.String(r.Get("language")),
		RegistrationTime:    api.Time(r.Get("registration_time")),
		LastVisit:           api.Time(r.Get("last_visit")),
		InvitedByID:         api.OptInt64(r.Get("invited_by")),
		InvitedByTelegramID: api.OptInt64(r.Get("invited_by_telegram_id")),
		GiftsGiven:          int(api.Int64(r.Get("gifts_given"))),
		GiftsReceived:       int(api.Int64(r.Get("gifts_received"))),
	}
	if t, ok := themes.Parse(api.String(r.Get("theme_color"))); ok {
		u.ThemeColor = t
	}
	for _, id := range r.Get("subscriptions").Array() {
		if v := api.OptInt64(id); v != nil {
			u.Subscriptions = append(u.Subscriptions, *v)
		}
	}
	return u
}
