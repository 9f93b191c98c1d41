package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/common/validation"
	"wishlist-tool-client/internal/features/wishlist/models"
	"wishlist-tool-client/internal/platform/api"
	"wishlist-tool-client/internal/platform/api/apitest"
)

func newRepo(t *testing.T) (*WishlistRepository, *apitest.Server) {
	srv := apitest.New(t)
	return NewWishlistRepository(api.New(api.Config{BaseURL: srv.URL})), srv
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	repo, srv := newRepo(t)
	owner := srv.AddUser(apitest.User{TelegramID: 10, FirstName: "Owner"})

	desc := "birthday"
	created, err := repo.Create(ctx, &models.CreateRequest{Name: "Birthday", Description: &desc, TelegramID: 10})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, created.UserID)
	assert.Equal(t, "Birthday", created.Name)
	assert.True(t, created.IsPublic)

	byTG, err := repo.ListByTelegramID(ctx, 10)
	require.NoError(t, err)
	require.Len(t, byTG, 1)
	assert.Equal(t, created.ID, byTG[0].ID)

	byUser, err := repo.ListByUserID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	call := srv.CallsTo(http.MethodGet, "/api/wishlists/")
	require.Len(t, call, 1)
	assert.Equal(t, "user_id=1", call[0].Query)
}

func TestListByTelegramIDEmptyAndMissing(t *testing.T) {
	ctx := context.Background()
	repo, srv := newRepo(t)
	srv.AddUser(apitest.User{TelegramID: 10, FirstName: "Owner"})

	lists, err := repo.ListByTelegramID(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, lists)

	_, err = repo.ListByTelegramID(ctx, 11)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateGetDelete(t *testing.T) {
	ctx := context.Background()
	repo, srv := newRepo(t)
	owner := srv.AddUser(apitest.User{TelegramID: 10, FirstName: "Owner"})
	wl := srv.AddWishlist(apitest.Wishlist{UserID: owner.ID, Name: "Old", IsPublic: true})

	name := "New"
	private := false
	updated, err := repo.Update(ctx, wl.ID, &models.UpdateRequest{Name: &name, IsPublic: &private})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.False(t, updated.IsPublic)

	got, err := repo.GetByID(ctx, wl.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)

	require.NoError(t, repo.Delete(ctx, wl.ID))
	_, err = repo.GetByID(ctx, wl.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateValidatesLocally(t *testing.T) {
	repo, srv := newRepo(t)

	_, err := repo.Create(context.Background(), &models.CreateRequest{Name: "  ", TelegramID: 10})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("name"))
	assert.Empty(t, srv.Calls())
}

func TestDecodeWishlist(t *testing.T) {
	wl := DecodeWishlist(gjson.Parse(`{"id": 3, "user": {"id": 8, "first_name": "x"}, "name": "N", "order": "2", "wishes_count": 4, "created_at": "2024-01-02 10:00:00"}`))
	assert.Equal(t, int64(8), wl.UserID)
	assert.Equal(t, 2, wl.Order)
	assert.Equal(t, 4, wl.WishesCount)
	assert.True(t, wl.IsPublic)
	assert.False(t, wl.IsDefault)
	assert.Equal(t, 2024, wl.CreatedAt.Year())
	assert.True(t, wl.IsOwnedBy(8))
	assert.False(t, wl.IsOwnedBy(0))
}
