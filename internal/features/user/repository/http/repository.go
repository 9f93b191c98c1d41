package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"wishlist-tool-client/internal/common/validation"
	"wishlist-tool-client/internal/features/user/mapper"
	"wishlist-tool-client/internal/features/user/models"
	"wishlist-tool-client/internal/features/user/repository"
	"wishlist-tool-client/internal/platform/api"
)

const usersPath = "/api/users/"

type UserRepository struct {
	api api.Caller
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(caller api.Caller) *UserRepository {
	return &UserRepository{api: caller}
}

func (r *UserRepository) RegisterOrGet(ctx context.Context, req *models.RegisterRequest) (*models.User, bool, error) {
	if err := validation.Struct(req); err != nil {
		return nil, false, err
	}
	resp, err := r.api.Do(ctx, api.Request{Method: http.MethodPost, Path: usersPath + "register_or_get/", Body: req})
	if err != nil {
		return nil, false, err
	}
	obj, err := api.Object(resp)
	if err != nil {
		return nil, false, err
	}
	return mapper.ToUser(obj), resp.Status == http.StatusCreated, nil
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return r.getOne(ctx, api.Request{
		Method: http.MethodGet,
		Path:   usersPath + "by_telegram_id/",
		Query:  url.Values{"telegram_id": {strconv.FormatInt(telegramID, 10)}},
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, api.Request{Method: http.MethodGet, Path: userPath(id)})
}

func (r *UserRepository) Update(ctx context.Context, id int64, req *models.UpdateRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return r.getOne(ctx, api.Request{Method: http.MethodPatch, Path: userPath(id), Body: req})
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	resp, err := r.api.Do(ctx, api.Request{Method: http.MethodGet, Path: usersPath})
	if err != nil {
		return nil, err
	}
	items := api.List(resp, "users")
	users := make([]*models.User, 0, len(items))
	for _, item := range items {
		users = append(users, mapper.ToUser(item))
	}
	return users, nil
}

func (r *UserRepository) getOne(ctx context.Context, req api.Request) (*models.User, error) {
	resp, err := r.api.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	obj, err := api.Object(resp)
	if err != nil {
		return nil, err
	}
	return mapper.ToUser(obj), nil
}

func userPath(id int64) string {
	return fmt.Sprintf("%s%d/", usersPath, id)
}
