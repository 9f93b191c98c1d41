package service

import (
	"context"
	"strconv"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/common/logger"
	"wishlist-tool-client/internal/features/subscription/models"
	"wishlist-tool-client/internal/features/subscription/repository"
	usermodels "wishlist-tool-client/internal/features/user/models"
)

type SubscriptionService interface {
	Follow(ctx context.Context, actorID, targetID int64) error
	Unfollow(ctx context.Context, actorID, targetID int64) error
	Following(ctx context.Context, userID int64) ([]*usermodels.User, error)
	Followers(ctx context.Context, userID int64) ([]*usermodels.User, error)
	// Friends returns the users that follow userID back.
	Friends(ctx context.Context, userID int64) ([]*usermodels.User, error)
}

type subscriptionService struct {
	repo repository.SubscriptionRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{
		repo: repo,
	}
}

func (s *subscriptionService) Follow(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrSelfSubscription
	}
	res, err := s.repo.Subscribe(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !res.Success {
		return apperrors.New(apperrors.ErrCodeUnknown, "subscribe was not acknowledged").
			WithContext("target_id", strconv.FormatInt(targetID, 10))
	}
	logger.Debug().Int64("follower_id", actorID).Int64("followed_id", targetID).Msg("Subscribed")
	return nil
}

// Unfollow always removes the actor's own edge.
func (s *subscriptionService) Unfollow(ctx context.Context, actorID, targetID int64) error {
	res, err := s.repo.Unsubscribe(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !res.Success {
		return apperrors.New(apperrors.ErrCodeUnknown, "unsubscribe was not acknowledged").
			WithContext("target_id", strconv.FormatInt(targetID, 10))
	}
	logger.Debug().Int64("follower_id", actorID).Int64("followed_id", targetID).Msg("Unsubscribed")
	return nil
}

func (s *subscriptionService) Following(ctx context.Context, userID int64) ([]*usermodels.User, error) {
	subs, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return usersOf(subs), nil
}

func (s *subscriptionService) Followers(ctx context.Context, userID int64) ([]*usermodels.User, error) {
	subs, err := s.repo.ListSubscribers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return usersOf(subs), nil
}

func (s *subscriptionService) Friends(ctx context.Context, userID int64) ([]*usermodels.User, error) {
	following, err := s.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	back := make(map[int64]struct{}, len(followers))
	for _, u := range followers {
		back[u.ID] = struct{}{}
	}
	friends := make([]*usermodels.User, 0, len(following))
	for _, u := range following {
		if _, ok := back[u.ID]; ok {
			friends = append(friends, u)
		}
	}
	return friends, nil
}

func usersOf(subs []*models.Subscription) []*usermodels.User {
	users := make([]*usermodels.User, 0, len(subs))
	for _, s := range subs {
		if s.User != nil {
			users = append(users, s.User)
		}
	}
	return users
}
