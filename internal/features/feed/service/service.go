package service

import (
	"context"
	"sort"
	"sync"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/common/logger"
	subrepo "wishlist-tool-client/internal/features/subscription/repository"
	usermodels "wishlist-tool-client/internal/features/user/models"
	wishmodels "wishlist-tool-client/internal/features/wish/models"
	wishrepo "wishlist-tool-client/internal/features/wish/repository"
)

// MaxConcurrentFetches bounds the per-author requests in flight.
const MaxConcurrentFetches = 4

// Item is one feed entry.
type Item struct {
	Wish   *wishmodels.Wish  `json:"wish"`
	Author *usermodels.User `json:"author"`
}

type FeedService interface {
	// Feed returns the wishes of everyone userID follows, newest first.
	// Authors whose wishes cannot be loaded are left out.
	Feed(ctx context.Context, userID int64) ([]*Item, error)
}

type feedService struct {
	subscriptions subrepo.SubscriptionRepository
	wishes        wishrepo.WishRepository
	semaphore     chan struct{}
}

func NewFeedService(subscriptions subrepo.SubscriptionRepository, wishes wishrepo.WishRepository) FeedService {
	return &feedService{
		subscriptions: subscriptions,
		wishes:        wishes,
		semaphore:     make(chan struct{}, MaxConcurrentFetches),
	}
}

func (s *feedService) Feed(ctx context.Context, userID int64) ([]*Item, error) {
	subs, err := s.subscriptions.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		items = make([]*Item, 0)
	)
	for _, sub := range subs {
		author := sub.User
		if author == nil || author.TelegramID == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case s.semaphore <- struct{}{}:
				defer func() { <-s.semaphore }()
			case <-ctx.Done():
				return
			}

			wishes, err := s.wishes.ListByTelegramID(ctx, author.TelegramID)
			if err != nil {
				logger.Warn().
					Err(err).
					Int64("user_id", author.ID).
					Str("code", string(apperrors.CodeOf(err))).
					Msg("Skipping feed author")
				return
			}
			mu.Lock()
			for _, w := range wishes {
				items = append(items, &Item{Wish: w, Author: author})
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "Запрос отменен")
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Wish, items[j].Wish
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return items, nil
}
