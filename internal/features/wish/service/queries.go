package service

import (
	"context"

	"wishlist-tool-client/internal/features/wish/models"
)

// ReservedBy lists wishes the user currently holds a reservation on.
func (e *engine) ReservedBy(ctx context.Context, userID int64) ([]*models.Wish, error) {
	return e.selectWishes(ctx, models.Filter{Status: models.StatusReserved}, func(w *models.Wish) bool {
		return w.IsReservedBy(userID)
	})
}

// GiftedBy lists fulfilled wishes credited to the user as the gifter.
func (e *engine) GiftedBy(ctx context.Context, userID int64) ([]*models.Wish, error) {
	return e.selectWishes(ctx, models.Filter{Status: models.StatusFulfilled}, func(w *models.Wish) bool {
		return w.IsGiftedBy(userID)
	})
}

// Received lists fulfilled wishes on the user's own lists.
func (e *engine) Received(ctx context.Context, userID int64) ([]*models.Wish, error) {
	return e.selectWishes(ctx, models.Filter{UserID: userID, Status: models.StatusFulfilled}, func(w *models.Wish) bool {
		return w.IsOwnedBy(userID)
	})
}

func (e *engine) selectWishes(ctx context.Context, filter models.Filter, keep func(*models.Wish) bool) ([]*models.Wish, error) {
	all, err := e.wishes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Wish, 0, len(all))
	for _, w := range all {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out, nil
}
