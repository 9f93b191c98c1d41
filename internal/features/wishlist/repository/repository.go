package repository

import (
	"context"

	"wishlist-tool-client/internal/features/wishlist/models"
)

type WishlistRepository interface {
	ListByTelegramID(ctx context.Context, telegramID int64) ([]*models.Wishlist, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Wishlist, error)
	GetByID(ctx context.Context, id int64) (*models.Wishlist, error)
	Create(ctx context.Context, req *models.CreateRequest) (*models.Wishlist, error)
	Update(ctx context.Context, id int64, req *models.UpdateRequest) (*models.Wishlist, error)
	Delete(ctx context.Context, id int64) error
}
