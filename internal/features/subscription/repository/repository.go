package repository

import (
	"context"

	"wishlist-tool-client/internal/features/subscription/models"
)

type SubscriptionRepository interface {
	// ListSubscriptions returns the users userID follows.
	ListSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error)
	// ListSubscribers returns the users following userID.
	ListSubscribers(ctx context.Context, userID int64) ([]*models.Subscription, error)
	Subscribe(ctx context.Context, userID, targetID int64) (*models.Result, error)
	Unsubscribe(ctx context.Context, userID, targetID int64) (*models.Result, error)
}
