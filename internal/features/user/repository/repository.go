package repository

import (
	"context"

	"wishlist-tool-client/internal/features/user/models"
)

type UserRepository interface {
	// RegisterOrGet creates the user or refreshes the fields present in req.
	// created is true when the server created a new record.
	RegisterOrGet(ctx context.Context, req *models.RegisterRequest) (user *models.User, created bool, err error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, req *models.UpdateRequest) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
