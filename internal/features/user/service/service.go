package service

import (
	"context"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/features/user/models"
	"wishlist-tool-client/internal/features/user/repository"
	wishmodels "wishlist-tool-client/internal/features/wish/models"
	wishrepo "wishlist-tool-client/internal/features/wish/repository"
	wishlistrepo "wishlist-tool-client/internal/features/wishlist/repository"
)

type userService struct {
	repo      repository.UserRepository
	wishlists wishlistrepo.WishlistRepository
	wishes    wishrepo.WishRepository
}

func NewUserService(repo repository.UserRepository, wishlists wishlistrepo.WishlistRepository, wishes wishrepo.WishRepository) UserService {
	return &userService{
		repo:      repo,
		wishlists: wishlists,
		wishes:    wishes,
	}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.repo.GetByTelegramID(ctx, telegramID)
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, req *models.UpdateRequest) (*models.User, error) {
	return s.repo.Update(ctx, id, req)
}

// GetUserStats считает вишлисты и желания пользователя; счетчики подарков
// берутся из записи пользователя
func (s *userService) GetUserStats(ctx context.Context, telegramID int64) (*models.UserStats, error) {
	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	stats := &models.UserStats{
		UserID:        user.ID,
		GiftsGiven:    user.GiftsGiven,
		GiftsReceived: user.GiftsReceived,
	}

	lists, err := s.wishlists.ListByTelegramID(ctx, telegramID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	stats.WishlistsCount = len(lists)

	wishes, err := s.wishes.ListByTelegramID(ctx, telegramID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	stats.WishesCount = len(wishes)
	for _, w := range wishes {
		switch w.Status {
		case wishmodels.StatusActive:
			stats.ActiveCount++
		case wishmodels.StatusReserved:
			stats.ReservedCount++
		case wishmodels.StatusFulfilled:
			stats.FulfilledCount++
		}
	}
	return stats, nil
}
