package api

import (
	"context"

	"github.com/tidwall/gjson"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/common/logger"
)

// Caller is what repositories need from the request primitive.
type Caller interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

var _ Caller = (*Client)(nil)

// Object returns the body when it is a JSON object.
func Object(resp *Response) (gjson.Result, error) {
	res := resp.Result()
	if !res.IsObject() {
		return res, apperrors.New(apperrors.ErrCodeUnknown, "Неизвестная ошибка").
			WithDetail("reason", "unexpected response shape").
			WithRequestID(resp.RequestID)
	}
	return res, nil
}

// List returns the elements of a list reply. Any shape other than an
// array or a results envelope is logged and treated as empty.
func List(resp *Response, what string) []gjson.Result {
	items, ok := Items(resp.Result())
	if !ok {
		logger.Warn().
			Str("resource", what).
			Str("request_id", resp.RequestID).
			Msg("unexpected list payload, treating as empty")
		return nil
	}
	return items
}
