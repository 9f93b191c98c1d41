package service

import (
	"context"

	"wishlist-tool-client/internal/features/user/models"
)

type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, req *models.UpdateRequest) (*models.User, error)
	GetUserStats(ctx context.Context, telegramID int64) (*models.UserStats, error)
}
