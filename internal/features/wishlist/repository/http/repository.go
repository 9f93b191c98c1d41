package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"wishlist-tool-client/internal/common/validation"
	"wishlist-tool-client/internal/features/wishlist/models"
	"wishlist-tool-client/internal/features/wishlist/repository"
	"wishlist-tool-client/internal/platform/api"
)

const wishlistsPath = "/api/wishlists/"

type WishlistRepository struct {
	api api.Caller
}

var _ repository.WishlistRepository = (*WishlistRepository)(nil)

func NewWishlistRepository(caller api.Caller) *WishlistRepository {
	return &WishlistRepository{api: caller}
}

func (r *WishlistRepository) ListByTelegramID(ctx context.Context, telegramID int64) ([]*models.Wishlist, error) {
	return r.list(ctx, api.Request{
		Method: http.MethodGet,
		Path:   wishlistsPath + "by_telegram_id/",
		Query:  url.Values{"telegram_id": {strconv.FormatInt(telegramID, 10)}},
	})
}

func (r *WishlistRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Wishlist, error) {
	return r.list(ctx, api.Request{
		Method: http.MethodGet,
		Path:   wishlistsPath,
		Query:  url.Values{"user_id": {strconv.FormatInt(userID, 10)}},
	})
}

func (r *WishlistRepository) GetByID(ctx context.Context, id int64) (*models.Wishlist, error) {
	return r.one(ctx, api.Request{Method: http.MethodGet, Path: wishlistPath(id)})
}

func (r *WishlistRepository) Create(ctx context.Context, req *models.CreateRequest) (*models.Wishlist, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return r.one(ctx, api.Request{Method: http.MethodPost, Path: wishlistsPath, Body: req})
}

func (r *WishlistRepository) Update(ctx context.Context, id int64, req *models.UpdateRequest) (*models.Wishlist, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return r.one(ctx, api.Request{Method: http.MethodPatch, Path: wishlistPath(id), Body: req})
}

func (r *WishlistRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.api.Do(ctx, api.Request{Method: http.MethodDelete, Path: wishlistPath(id)})
	return err
}

func (r *WishlistRepository) list(ctx context.Context, req api.Request) ([]*models.Wishlist, error) {
	resp, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	items := api.List(resp, "wishlists")
	out := make([]*models.Wishlist, 0, len(items))
	for _, item := range items {
		out = append(out, DecodeWishlist(item))
	}
	return out, nil
}

func (r *WishlistRepository) one(ctx context.Context, req api.Request) (*models.Wishlist, error) {
	resp, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	obj, err := api.Object(resp)
	if err != nil {
		return nil, err
	}
	return DecodeWishlist(obj), nil
}

func wishlistPath(id int64) string {
	return fmt.Sprintf("%s%d/", wishlistsPath, id)
}

// DecodeWishlist normalizes a wishlist payload. A missing visibility flag
// means public.
func DecodeWishlist(r gjson.Result) *models.Wishlist {
	return &models.Wishlist{
		ID:          api.Int64(r.Get("id")),
		UserID:      api.Int64(api.First(r, "user", "user_id")),
		Name:        api.String(r.Get("name")),
		Description: api.String(r.Get("description")),
		IsPublic:    api.Bool(r.Get("is_public"), true),
		IsDefault:   api.Bool(r.Get("is_default"), false),
		Order:       int(api.Int64(r.Get("order"))),
		WishesCount: int(api.Int64(r.Get("wishes_count"))),
		CreatedAt:   api.Time(r.Get("created_at")),
		UpdatedAt:   api.Time(r.Get("updated_at")),
	}
}
