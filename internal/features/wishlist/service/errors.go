package service

import apperrors "wishlist-tool-client/internal/common/errors"

// ErrNotOwner is returned before any write when the actor does not own the wishlist.
var ErrNotOwner error = notOwnerError{}

type notOwnerError struct{}

func (notOwnerError) Error() string {
	return "wishlist belongs to another user"
}

func (notOwnerError) UserMessage(lang string) string {
	if apperrors.NormalizeLang(lang) == apperrors.LangEN {
		return "Only the owner can change this wishlist"
	}
	return "Изменять вишлист может только его владелец"
}
