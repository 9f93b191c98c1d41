package repository

import (
	"context"

	"wishlist-tool-client/internal/features/wish/models"
)

type WishRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Wish, error)
	List(ctx context.Context, filter models.Filter) ([]*models.Wish, error)
	ListByWishlist(ctx context.Context, wishlistID int64) ([]*models.Wish, error)
	ListByTelegramID(ctx context.Context, telegramID int64) ([]*models.Wish, error)
	Create(ctx context.Context, req *models.CreateRequest) (*models.Wish, error)
	Update(ctx context.Context, id int64, req *models.UpdateRequest) (*models.Wish, error)
	Delete(ctx context.Context, id int64) error
	// Fulfill marks the wish received. giftedBy nil lets the server keep
	// the current reservation holder as the gifter.
	Fulfill(ctx context.Context, id int64, giftedBy *int64) (*models.Wish, error)
	Unfulfill(ctx context.Context, id int64) (*models.Wish, error)
	Move(ctx context.Context, id, wishlistID int64) (*models.Wish, error)
}
