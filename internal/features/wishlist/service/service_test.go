package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/features/wishlist/models"
	wishlisthttp "wishlist-tool-client/internal/features/wishlist/repository/http"
	"wishlist-tool-client/internal/platform/api"
	"wishlist-tool-client/internal/platform/api/apitest"
)

func newService(t *testing.T) (WishlistService, *apitest.Server) {
	srv := apitest.New(t)
	repo := wishlisthttp.NewWishlistRepository(api.New(api.Config{BaseURL: srv.URL}))
	return NewWishlistService(repo), srv
}

func TestOwned(t *testing.T) {
	ctx := context.Background()
	svc, srv := newService(t)
	owner := srv.AddUser(apitest.User{TelegramID: 10, FirstName: "Owner"})
	srv.AddWishlist(apitest.Wishlist{UserID: owner.ID, Name: "A"})

	lists, err := svc.Owned(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, lists, 1)

	// unknown user reads as "no wishlists yet"
	lists, err = svc.Owned(ctx, 11)
	require.NoError(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)

	srv.FailNext(http.MethodGet, "/api/wishlists/by_telegram_id/", http.StatusInternalServerError, `{"detail": "boom"}`)
	_, err = svc.Owned(ctx, 10)
	assert.Equal(t, apperrors.ErrCodeServer, apperrors.CodeOf(err))
}

func TestOwnerGuard(t *testing.T) {
	ctx := context.Background()
	svc, srv := newService(t)
	owner := srv.AddUser(apitest.User{TelegramID: 10, FirstName: "Owner"})
	other := srv.AddUser(apitest.User{TelegramID: 20, FirstName: "Other"})
	wl := srv.AddWishlist(apitest.Wishlist{UserID: owner.ID, Name: "A"})

	name := "Renamed"
	_, err := svc.Update(ctx, other.ID, wl.ID, &models.UpdateRequest{Name: &name})
	assert.True(t, errors.Is(err, ErrNotOwner))
	assert.Equal(t, "Изменять вишлист может только его владелец", apperrors.UserMessage(err, "ru"))
	assert.True(t, errors.Is(svc.Delete(ctx, other.ID, wl.ID), ErrNotOwner))
	assert.Zero(t, srv.Mutations())

	updated, err := svc.Update(ctx, owner.ID, wl.ID, &models.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, svc.Delete(ctx, owner.ID, wl.ID))
	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, owner.ID, wl.ID)))
}
