package http

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/features/wish/models"
	"wishlist-tool-client/internal/platform/api"
	"wishlist-tool-client/internal/platform/api/apitest"
)

type fixture struct {
	repo     *WishRepository
	srv      *apitest.Server
	owner    *apitest.User
	friend   *apitest.User
	wishlist *apitest.Wishlist
}

func setup(t *testing.T) *fixture {
	srv := apitest.New(t)
	f := &fixture{repo: NewWishRepository(api.New(api.Config{BaseURL: srv.URL})), srv: srv}
	f.owner = srv.AddUser(apitest.User{TelegramID: 10, FirstName: "Owner"})
	f.friend = srv.AddUser(apitest.User{TelegramID: 20, FirstName: "Friend"})
	f.wishlist = srv.AddWishlist(apitest.Wishlist{UserID: f.owner.ID, Name: "Birthday"})
	return f
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	price := 1500.0
	link := "https://shop.example.com/lego"
	created, err := f.repo.Create(ctx, &models.CreateRequest{WishlistID: f.wishlist.ID, Title: "Lego", Price: &price, Link: &link})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.Equal(t, f.owner.ID, created.OwnerID)
	assert.Equal(t, "Birthday", created.WishlistName)
	require.NotNil(t, created.Price)
	assert.InDelta(t, 1500.0, *created.Price, 0.001)
	assert.Equal(t, "1500 ₽", created.PriceLabel())

	got, err := f.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, link, got.Link)
	assert.Equal(t, int64(10), got.OwnerTelegramID)

	_, err = f.repo.GetByID(ctx, 9999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	other := f.srv.AddWishlist(apitest.Wishlist{UserID: f.owner.ID, Name: "Other"})
	f.srv.AddWish(apitest.Wish{WishlistID: f.wishlist.ID, Title: "A"})
	f.srv.AddWish(apitest.Wish{WishlistID: f.wishlist.ID, Title: "B", Status: "reserved", ReservedBy: &f.friend.ID})
	f.srv.AddWish(apitest.Wish{WishlistID: other.ID, Title: "C"})

	byList, err := f.repo.ListByWishlist(ctx, f.wishlist.ID)
	require.NoError(t, err)
	assert.Len(t, byList, 2)

	reserved, err := f.repo.List(ctx, models.Filter{Status: models.StatusReserved})
	require.NoError(t, err)
	require.Len(t, reserved, 1)
	assert.Equal(t, "B", reserved[0].Title)
	assert.True(t, reserved[0].IsReservedBy(f.friend.ID))

	byTG, err := f.repo.ListByTelegramID(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, byTG, 3)

	calls := f.srv.CallsTo(http.MethodGet, "/api/wishes/")
	require.NotEmpty(t, calls)
	assert.Equal(t, "wishlist_id="+itoa(f.wishlist.ID), calls[0].Query)
}

func TestUpdateOmitsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	w := f.srv.AddWish(apitest.Wish{WishlistID: f.wishlist.ID, Title: "Lego", Comment: "blue", Price: "10.00"})

	status := models.StatusReserved
	updated, err := f.repo.Update(ctx, w.ID, &models.UpdateRequest{Status: &status, ReservedBy: models.SetRef(f.friend.ID)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusReserved, updated.Status)
	assert.Equal(t, "blue", updated.Comment)
	require.NotNil(t, updated.ReservedAt)

	calls := f.srv.CallsTo(http.MethodPatch, "/api/wishes/"+itoa(w.ID)+"/")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]interface{}{"status": "reserved", "reserved_by": float64(f.friend.ID)}, calls[0].Body)

	active := models.StatusActive
	cleared, err := f.repo.Update(ctx, w.ID, &models.UpdateRequest{Status: &active, ReservedBy: models.ClearRef()})
	require.NoError(t, err)
	assert.Nil(t, cleared.ReservedBy)

	calls = f.srv.CallsTo(http.MethodPatch, "/api/wishes/"+itoa(w.ID)+"/")
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Body, "reserved_by")
	assert.Nil(t, calls[1].Body["reserved_by"])
}

func TestFulfillUnfulfillMove(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	other := f.srv.AddWishlist(apitest.Wishlist{UserID: f.owner.ID, Name: "Other"})
	w := f.srv.AddWish(apitest.Wish{WishlistID: f.wishlist.ID, Title: "Lego", Status: "reserved", ReservedBy: &f.friend.ID})

	done, err := f.repo.Fulfill(ctx, w.ID, &f.friend.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFulfilled, done.Status)
	assert.True(t, done.IsGiftedBy(f.friend.ID))
	assert.Nil(t, done.ReservedBy)
	assert.NotNil(t, done.GiftedAt)

	gifter, _ := f.srv.User(f.friend.ID)
	assert.Equal(t, 1, gifter.GiftsGiven)

	back, err := f.repo.Unfulfill(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, back.Status)
	assert.Nil(t, back.GiftedBy)

	moved, err := f.repo.Move(ctx, w.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, moved.WishlistID)

	require.NoError(t, f.repo.Delete(ctx, w.ID))
	_, ok := f.srv.Wish(w.ID)
	assert.False(t, ok)
}

func TestDecodeWishAliases(t *testing.T) {
	w := DecodeWish(gjson.Parse(`{
		"id": 1, "wishlist": {"id": 4}, "user_id": "6", "title": "T",
		"description": "legacy comment", "price": "99.90", "status": "fulfilled",
		"fulfilled_by": 7, "fulfilled_at": "2024-05-01 10:00:00"
	}`))
	assert.Equal(t, int64(4), w.WishlistID)
	assert.Equal(t, int64(6), w.OwnerID)
	assert.Equal(t, "legacy comment", w.Comment)
	assert.InDelta(t, 99.9, *w.Price, 0.0001)
	assert.Equal(t, "99.90 ₽", w.PriceLabel())
	require.NotNil(t, w.GiftedBy)
	assert.Equal(t, int64(7), *w.GiftedBy)
	require.NotNil(t, w.GiftedAt)

	bare := DecodeWish(gjson.Parse(`{"id": 2, "title": "x"}`))
	assert.Equal(t, models.StatusActive, bare.Status)
	assert.Nil(t, bare.Price)
	assert.Equal(t, "", bare.PriceLabel())
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
