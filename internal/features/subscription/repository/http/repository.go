package http

import (
	"context"
	"fmt"
	"net/http"

	"wishlist-tool-client/internal/common/validation"
	"wishlist-tool-client/internal/features/subscription/models"
	"wishlist-tool-client/internal/features/subscription/repository"
	"wishlist-tool-client/internal/features/user/mapper"
	"wishlist-tool-client/internal/platform/api"
)

type SubscriptionRepository struct {
	api api.Caller
}

var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)

func NewSubscriptionRepository(caller api.Caller) *SubscriptionRepository {
	return &SubscriptionRepository{api: caller}
}

func (r *SubscriptionRepository) ListSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	users, err := r.listUsers(ctx, userID, "subscriptions/")
	if err != nil {
		return nil, err
	}
	for _, s := range users {
		s.FollowerID = userID
		s.FollowedID = s.User.ID
	}
	return users, nil
}

func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	users, err := r.listUsers(ctx, userID, "subscribers/")
	if err != nil {
		return nil, err
	}
	for _, s := range users {
		s.FollowerID = s.User.ID
		s.FollowedID = userID
	}
	return users, nil
}

func (r *SubscriptionRepository) Subscribe(ctx context.Context, userID, targetID int64) (*models.Result, error) {
	return r.edge(ctx, userID, targetID, "subscribe/")
}

func (r *SubscriptionRepository) Unsubscribe(ctx context.Context, userID, targetID int64) (*models.Result, error) {
	return r.edge(ctx, userID, targetID, "unsubscribe/")
}

func (r *SubscriptionRepository) listUsers(ctx context.Context, userID int64, action string) ([]*models.Subscription, error) {
	resp, err := r.api.Do(ctx, api.Request{Method: http.MethodGet, Path: userPath(userID) + action})
	if err != nil {
		return nil, err
	}
	items := api.List(resp, action)
	out := make([]*models.Subscription, 0, len(items))
	for _, item := range items {
		out = append(out, &models.Subscription{
			CreatedAt: api.Time(api.First(item, "subscribed_at", "created_at")),
			User:      mapper.ToUser(item),
		})
	}
	return out, nil
}

func (r *SubscriptionRepository) edge(ctx context.Context, userID, targetID int64, action string) (*models.Result, error) {
	if err := validation.ValidatePositiveInt(targetID, "user_id"); err != nil {
		return nil, err
	}
	resp, err := r.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   userPath(userID) + action,
		Body:   map[string]int64{"user_id": targetID},
	})
	if err != nil {
		return nil, err
	}
	// any 2xx without an explicit flag counts as success
	return &models.Result{Success: api.Bool(resp.Result().Get("success"), true)}, nil
}

func userPath(id int64) string {
	return fmt.Sprintf("/api/users/%d/", id)
}
