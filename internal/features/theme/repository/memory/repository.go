package memory

import (
	"context"
	"sync"

	"wishlist-tool-client/internal/features/theme/models"
	"wishlist-tool-client/internal/features/theme/repository"
)

type themeRepository struct {
	mu    sync.RWMutex
	theme models.Theme
}

// NewThemeRepository returns a store that lives as long as the process.
func NewThemeRepository() repository.Store {
	return &themeRepository{}
}

func (r *themeRepository) Load(_ context.Context) (models.Theme, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.theme, r.theme.Valid(), nil
}

func (r *themeRepository) Save(_ context.Context, theme models.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = theme
	return nil
}
