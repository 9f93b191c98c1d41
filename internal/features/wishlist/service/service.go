package service

import (
	"context"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/common/logger"
	"wishlist-tool-client/internal/features/wishlist/models"
	"wishlist-tool-client/internal/features/wishlist/repository"
)

type WishlistService interface {
	// Owned lists the user's wishlists; a user without any is not an error.
	Owned(ctx context.Context, telegramID int64) ([]*models.Wishlist, error)
	Create(ctx context.Context, req *models.CreateRequest) (*models.Wishlist, error)
	Update(ctx context.Context, actorID, id int64, req *models.UpdateRequest) (*models.Wishlist, error)
	Delete(ctx context.Context, actorID, id int64) error
}

type wishlistService struct {
	repo repository.WishlistRepository
}

func NewWishlistService(repo repository.WishlistRepository) WishlistService {
	return &wishlistService{
		repo: repo,
	}
}

func (s *wishlistService) Owned(ctx context.Context, telegramID int64) ([]*models.Wishlist, error) {
	lists, err := s.repo.ListByTelegramID(ctx, telegramID)
	if apperrors.IsNotFound(err) {
		logger.Debug().Int64("telegram_id", telegramID).Msg("No wishlists yet")
		return []*models.Wishlist{}, nil
	}
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *wishlistService) Create(ctx context.Context, req *models.CreateRequest) (*models.Wishlist, error) {
	return s.repo.Create(ctx, req)
}

func (s *wishlistService) Update(ctx context.Context, actorID, id int64, req *models.UpdateRequest) (*models.Wishlist, error) {
	if err := s.checkOwner(ctx, actorID, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

func (s *wishlistService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.checkOwner(ctx, actorID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *wishlistService) checkOwner(ctx context.Context, actorID, id int64) error {
	wl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !wl.IsOwnedBy(actorID) {
		return ErrNotOwner
	}
	return nil
}
