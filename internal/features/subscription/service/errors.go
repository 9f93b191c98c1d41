package service

import apperrors "wishlist-tool-client/internal/common/errors"

// ErrSelfSubscription is returned without a request when a user targets themselves.
var ErrSelfSubscription error = selfSubscriptionError{}

type selfSubscriptionError struct{}

func (selfSubscriptionError) Error() string {
	return "cannot subscribe to yourself"
}

func (selfSubscriptionError) UserMessage(lang string) string {
	if apperrors.NormalizeLang(lang) == apperrors.LangEN {
		return "You cannot subscribe to yourself"
	}
	return "Нельзя подписаться на самого себя"
}
