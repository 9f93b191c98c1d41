// Package telegram reads what the Mini App host hands over on launch: the
// signed init-data string and the ambient color scheme.
package telegram

import (
	"strconv"
	"strings"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	apperrors "wishlist-tool-client/internal/common/errors"
	themes "wishlist-tool-client/internal/features/theme/models"
)

// Identity is the launching user as reported by the host.
type Identity struct {
	TelegramID   int64
	FirstName    string
	LastName     string
	Username     string
	PhotoURL     string
	LanguageCode string
	IsPremium    bool
	// StartParam is the deep-link payload, used for referrals.
	StartParam string
}

// Launch is everything the session needs from the host.
type Launch struct {
	Identity      Identity
	AmbientScheme themes.Scheme
}

// Parser turns raw init-data into an Identity. With an empty bot token the
// signature is not checked.
type Parser struct {
	botToken string
	ttl      time.Duration
}

func NewParser(botToken string, ttl time.Duration) *Parser {
	return &Parser{botToken: botToken, ttl: ttl}
}

func (p *Parser) Identity(raw string) (*Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "init data is empty")
	}
	if p.botToken != "" {
		// ttl 0 disables the expiry check
		if err := initdata.Validate(raw, p.botToken, p.ttl); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "init data signature is invalid")
		}
	}
	parsed, err := initdata.Parse(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "init data is malformed")
	}
	if parsed.User.ID == 0 {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "init data has no user")
	}
	return &Identity{
		TelegramID:   parsed.User.ID,
		FirstName:    parsed.User.FirstName,
		LastName:     parsed.User.LastName,
		Username:     parsed.User.Username,
		PhotoURL:     parsed.User.PhotoURL,
		LanguageCode: parsed.User.LanguageCode,
		IsPremium:    parsed.User.IsPremium,
		StartParam:   parsed.StartParam,
	}, nil
}

// Launch builds the launch context from raw init-data and the host's
// theme parameters.
func (p *Parser) Launch(raw, colorScheme, bgColor string) (*Launch, error) {
	id, err := p.Identity(raw)
	if err != nil {
		return nil, err
	}
	return &Launch{Identity: *id, AmbientScheme: AmbientScheme(colorScheme, bgColor)}, nil
}

// AmbientScheme returns the explicit scheme when the host sent one, and
// otherwise guesses from the background color. Light is the fallback.
func AmbientScheme(explicit, bgColor string) themes.Scheme {
	switch themes.Scheme(strings.ToLower(strings.TrimSpace(explicit))) {
	case themes.SchemeDark:
		return themes.SchemeDark
	case themes.SchemeLight:
		return themes.SchemeLight
	}
	if l, ok := luminance(bgColor); ok && l < 0.5 {
		return themes.SchemeDark
	}
	return themes.SchemeLight
}

// luminance of a #rgb or #rrggbb color in [0, 1].
func luminance(hex string) (float64, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	r := float64(v>>16&0xff) / 255
	g := float64(v>>8&0xff) / 255
	b := float64(v&0xff) / 255
	return 0.2126*r + 0.7152*g + 0.0722*b, true
}
