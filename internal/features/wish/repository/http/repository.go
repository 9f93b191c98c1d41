package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"wishlist-tool-client/internal/common/validation"
	"wishlist-tool-client/internal/features/wish/models"
	"wishlist-tool-client/internal/features/wish/repository"
	"wishlist-tool-client/internal/platform/api"
)

const wishesPath = "/api/wishes/"

type WishRepository struct {
	api api.Caller
}

var _ repository.WishRepository = (*WishRepository)(nil)

func NewWishRepository(caller api.Caller) *WishRepository {
	return &WishRepository{api: caller}
}

func (r *WishRepository) GetByID(ctx context.Context, id int64) (*models.Wish, error) {
	return r.one(ctx, api.Request{Method: http.MethodGet, Path: wishPath(id)})
}

func (r *WishRepository) List(ctx context.Context, filter models.Filter) ([]*models.Wish, error) {
	q := url.Values{}
	if filter.WishlistID != 0 {
		q.Set("wishlist_id", strconv.FormatInt(filter.WishlistID, 10))
	}
	if filter.UserID != 0 {
		q.Set("user_id", strconv.FormatInt(filter.UserID, 10))
	}
	if filter.TelegramID != 0 {
		q.Set("telegram_id", strconv.FormatInt(filter.TelegramID, 10))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	return r.list(ctx, api.Request{Method: http.MethodGet, Path: wishesPath, Query: q})
}

func (r *WishRepository) ListByWishlist(ctx context.Context, wishlistID int64) ([]*models.Wish, error) {
	return r.List(ctx, models.Filter{WishlistID: wishlistID})
}

func (r *WishRepository) ListByTelegramID(ctx context.Context, telegramID int64) ([]*models.Wish, error) {
	return r.list(ctx, api.Request{
		Method: http.MethodGet,
		Path:   wishesPath + "by_telegram_id/",
		Query:  url.Values{"telegram_id": {strconv.FormatInt(telegramID, 10)}},
	})
}

func (r *WishRepository) Create(ctx context.Context, req *models.CreateRequest) (*models.Wish, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return r.one(ctx, api.Request{Method: http.MethodPost, Path: wishesPath, Body: req})
}

func (r *WishRepository) Update(ctx context.Context, id int64, req *models.UpdateRequest) (*models.Wish, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return r.one(ctx, api.Request{Method: http.MethodPatch, Path: wishPath(id), Body: req})
}

func (r *WishRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.api.Do(ctx, api.Request{Method: http.MethodDelete, Path: wishPath(id)})
	return err
}

func (r *WishRepository) Fulfill(ctx context.Context, id int64, giftedBy *int64) (*models.Wish, error) {
	body := map[string]int64{}
	if giftedBy != nil {
		body["gifted_by_id"] = *giftedBy
	}
	return r.one(ctx, api.Request{Method: http.MethodPost, Path: wishPath(id) + "fulfill/", Body: body})
}

func (r *WishRepository) Unfulfill(ctx context.Context, id int64) (*models.Wish, error) {
	return r.one(ctx, api.Request{Method: http.MethodDelete, Path: wishPath(id) + "fulfill/"})
}

func (r *WishRepository) Move(ctx context.Context, id, wishlistID int64) (*models.Wish, error) {
	if err := validation.ValidatePositiveInt(wishlistID, "wishlist_id"); err != nil {
		return nil, err
	}
	return r.one(ctx, api.Request{
		Method: http.MethodPost,
		Path:   wishPath(id) + "move/",
		Body:   map[string]int64{"wishlist_id": wishlistID},
	})
}

func (r *WishRepository) list(ctx context.Context, req api.Request) ([]*models.Wish, error) {
	resp, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	items := api.List(resp, "wishes")
	out := make([]*models.Wish, 0, len(items))
	for _, item := range items {
		out = append(out, DecodeWish(item))
	}
	return out, nil
}

func (r *WishRepository) one(ctx context.Context, req api.Request) (*models.Wish, error) {
	resp, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	obj, err := api.Object(resp)
	if err != nil {
		return nil, err
	}
	return DecodeWish(obj), nil
}

func wishPath(id int64) string {
	return fmt.Sprintf("%s%d/", wishesPath, id)
}

// DecodeWish normalizes a wish payload: decimal prices sent as strings,
// foreign keys as ids or nested objects, and the legacy field aliases.
func DecodeWish(r gjson.Result) *models.Wish {
	w := &models.Wish{
		ID:              api.Int64(r.Get("id")),
		WishlistID:      api.Int64(api.First(r, "wishlist", "wishlist_id")),
		WishlistName:    api.String(r.Get("wishlist_name")),
		OwnerID:         api.Int64(api.First(r, "user", "user_id")),
		OwnerTelegramID: api.Int64(r.Get("user_telegram_id")),
		Title:           api.String(r.Get("title")),
		Comment:         api.String(api.First(r, "comment", "description")),
		Link:            api.String(r.Get("link")),
		ImageURL:        api.String(r.Get("image_url")),
		Price:           api.OptFloat64(r.Get("price")),
		Currency:        api.String(r.Get("currency")),
		Order:           int(api.Int64(r.Get("order"))),
		Status:          models.Status(api.String(r.Get("status"))),
		ReservedBy:      api.OptInt64(api.First(r, "reserved_by_id", "reserved_by")),
		GiftedBy:        api.OptInt64(api.First(r, "gifted_by_id", "gifted_by", "fulfilled_by")),
		ReservedAt:      api.OptTime(r.Get("reserved_at")),
		GiftedAt:        api.OptTime(api.First(r, "gifted_at", "fulfilled_at")),
		CreatedAt:       api.Time(r.Get("created_at")),
		UpdatedAt:       api.Time(r.Get("updated_at")),
	}
	if w.Status == "" {
		w.Status = models.StatusActive
	}
	return w
}
