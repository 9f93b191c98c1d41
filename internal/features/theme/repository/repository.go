package repository

import (
	"context"

	"wishlist-tool-client/internal/features/theme/models"
)

// Store persists the last applied theme between activations.
type Store interface {
	// Load returns ok=false when nothing valid is stored.
	Load(ctx context.Context) (theme models.Theme, ok bool, err error)
	Save(ctx context.Context, theme models.Theme) error
}
