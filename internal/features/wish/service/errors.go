package service

import (
	"errors"
	"fmt"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/features/wish/models"
)

// ErrPrecondition matches every locally rejected transition.
var ErrPrecondition = errors.New("wish precondition failed")

// Reason names the guard that rejected a transition.
type Reason string

const (
	ReasonOwnWish       Reason = "own_wish"
	ReasonNotOwner      Reason = "not_owner"
	ReasonNotActive     Reason = "not_active"
	ReasonNotReserved   Reason = "not_reserved"
	ReasonNotReserver   Reason = "not_reserver"
	ReasonFulfilled     Reason = "fulfilled"
	ReasonNoActor       Reason = "no_actor"
	ReasonForeignTarget Reason = "foreign_target"
	ReasonNoTarget      Reason = "no_target"
)

var reasonMessages = map[string]map[Reason]string{
	apperrors.LangRU: {
		ReasonOwnWish:       "Нельзя забронировать собственное желание",
		ReasonNotOwner:      "Это действие доступно только владельцу вишлиста",
		ReasonNotActive:     "Желание уже забронировано или подарено",
		ReasonNotReserved:   "Желание не забронировано",
		ReasonNotReserver:   "Снять бронь может только тот, кто её поставил",
		ReasonFulfilled:     "Желание уже исполнено",
		ReasonNoActor:       "Пользователь не определен",
		ReasonForeignTarget: "Можно копировать только в свой вишлист",
		ReasonNoTarget:      "Не выбран вишлист для копирования",
	},
	apperrors.LangEN: {
		ReasonOwnWish:       "You cannot reserve your own wish",
		ReasonNotOwner:      "Only the wishlist owner can do this",
		ReasonNotActive:     "This wish is already reserved or gifted",
		ReasonNotReserved:   "This wish is not reserved",
		ReasonNotReserver:   "Only the person who reserved this wish can cancel the reservation",
		ReasonFulfilled:     "This wish has already been fulfilled",
		ReasonNoActor:       "User is not identified",
		ReasonForeignTarget: "You can only copy into your own wishlist",
		ReasonNoTarget:      "Choose a wishlist to copy into",
	},
}

// PreconditionError is returned when a transition is rejected before any
// request is made. It is not part of the request error taxonomy.
type PreconditionError struct {
	Op     string
	Reason Reason
	WishID int64
	Status models.Status
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s wish %d (status %s): %s", e.Op, e.WishID, e.Status, e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// UserMessage implements errors.Messenger.
func (e *PreconditionError) UserMessage(lang string) string {
	table := reasonMessages[apperrors.NormalizeLang(lang)]
	if msg, ok := table[e.Reason]; ok {
		return msg
	}
	return apperrors.Message(apperrors.ErrCodeUnknown, lang)
}

// IsPrecondition reports whether err is a local guard failure.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

func reject(op string, w *models.Wish, reason Reason) error {
	e := &PreconditionError{Op: op, Reason: reason}
	if w != nil {
		e.WishID = w.ID
		e.Status = w.Status
	}
	return e
}
