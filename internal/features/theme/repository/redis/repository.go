package redis

import (
	"context"
	"fmt"

	"wishlist-tool-client/internal/common/logger"
	"wishlist-tool-client/internal/features/theme/models"
	"wishlist-tool-client/internal/features/theme/repository"
	redisclient "wishlist-tool-client/internal/platform/redis"
)

// DefaultKey is the key the theme is kept under.
const DefaultKey = "app-theme"

type themeRepository struct {
	client redisclient.KV
	key    string
}

func NewThemeRepository(client redisclient.KV, key string) repository.Store {
	if key == "" {
		key = DefaultKey
	}
	return &themeRepository{
		client: client,
		key:    key,
	}
}

func (r *themeRepository) Load(ctx context.Context) (models.Theme, bool, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if redisclient.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load theme: %w", err)
	}
	theme, ok := models.Parse(val)
	if !ok {
		logger.Warn().Str("key", r.key).Str("value", val).Msg("Ignoring unknown stored theme")
		return "", false, nil
	}
	return theme, true, nil
}

func (r *themeRepository) Save(ctx context.Context, theme models.Theme) error {
	// the hint never expires
	if err := r.client.Set(ctx, r.key, string(theme), 0).Err(); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
