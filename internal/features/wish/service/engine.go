package service

import (
	"context"

	"wishlist-tool-client/internal/common/logger"
	"wishlist-tool-client/internal/features/wish/models"
	"wishlist-tool-client/internal/features/wish/repository"
	wishlistmodels "wishlist-tool-client/internal/features/wishlist/models"
	wishlistrepo "wishlist-tool-client/internal/features/wishlist/repository"
)

// Engine decides wish transitions. Every guard runs before any request,
// and each accepted transition issues exactly one mutation.
type Engine interface {
	Reserve(ctx context.Context, actorID int64, wish *models.Wish) (*Outcome, error)
	Unreserve(ctx context.Context, actorID int64, wish *models.Wish) (*Outcome, error)
	MarkReceived(ctx context.Context, actorID int64, wish *models.Wish, gifter *int64) (*Outcome, error)
	CopyToSelf(ctx context.Context, actorID int64, wish *models.Wish, target CopyTarget) (*models.Wish, error)
	Move(ctx context.Context, actorID int64, wish *models.Wish, target *wishlistmodels.Wishlist) (*models.Wish, error)

	ReservedBy(ctx context.Context, userID int64) ([]*models.Wish, error)
	GiftedBy(ctx context.Context, userID int64) ([]*models.Wish, error)
	Received(ctx context.Context, userID int64) ([]*models.Wish, error)
}

// Outcome is the state the engine asked for. Wish holds the server's echo,
// which may differ when a concurrent write landed last.
type Outcome struct {
	WishID     int64         `json:"wish_id"`
	Status     models.Status `json:"status"`
	ReservedBy *int64        `json:"reserved_by"`
	GiftedBy   *int64        `json:"gifted_by,omitempty"`
	Wish       *models.Wish  `json:"wish"`
}

// Apply copies the requested state onto a local view of the wish.
func (o *Outcome) Apply(w *models.Wish) {
	if w == nil || w.ID != o.WishID {
		return
	}
	w.Status = o.Status
	w.ReservedBy = o.ReservedBy
	if o.GiftedBy != nil {
		w.GiftedBy = o.GiftedBy
	}
}

// CopyTarget selects where CopyToSelf puts the copy: an existing wishlist
// of the actor, or a new one created from New.
type CopyTarget struct {
	Wishlist *wishlistmodels.Wishlist
	New      *wishlistmodels.CreateRequest
}

type engine struct {
	wishes    repository.WishRepository
	wishlists wishlistrepo.WishlistRepository
}

func NewEngine(wishes repository.WishRepository, wishlists wishlistrepo.WishlistRepository) Engine {
	return &engine{
		wishes:    wishes,
		wishlists: wishlists,
	}
}

func (e *engine) Reserve(ctx context.Context, actorID int64, w *models.Wish) (*Outcome, error) {
	const op = "reserve"
	switch {
	case w == nil || actorID <= 0:
		return nil, reject(op, w, ReasonNoActor)
	case w.Status == models.StatusFulfilled:
		return nil, reject(op, w, ReasonFulfilled)
	case w.IsOwnedBy(actorID):
		return nil, reject(op, w, ReasonOwnWish)
	case w.Status != models.StatusActive:
		return nil, reject(op, w, ReasonNotActive)
	}

	status := models.StatusReserved
	echo, err := e.wishes.Update(ctx, w.ID, &models.UpdateRequest{
		Status:     &status,
		ReservedBy: models.SetRef(actorID),
	})
	if err != nil {
		return nil, err
	}
	e.logTransition(op, w, actorID, status)
	return &Outcome{WishID: w.ID, Status: status, ReservedBy: &actorID, Wish: echo}, nil
}

func (e *engine) Unreserve(ctx context.Context, actorID int64, w *models.Wish) (*Outcome, error) {
	const op = "unreserve"
	switch {
	case w == nil || actorID <= 0:
		return nil, reject(op, w, ReasonNoActor)
	case w.Status == models.StatusFulfilled:
		return nil, reject(op, w, ReasonFulfilled)
	case w.Status != models.StatusReserved:
		return nil, reject(op, w, ReasonNotReserved)
	case !w.IsReservedBy(actorID):
		return nil, reject(op, w, ReasonNotReserver)
	}

	status := models.StatusActive
	echo, err := e.wishes.Update(ctx, w.ID, &models.UpdateRequest{
		Status:     &status,
		ReservedBy: models.ClearRef(),
	})
	if err != nil {
		return nil, err
	}
	e.logTransition(op, w, actorID, status)
	return &Outcome{WishID: w.ID, Status: status, Wish: echo}, nil
}

// MarkReceived confirms a reserved wish was gifted. Without an explicit
// gifter the reservation holder is credited.
func (e *engine) MarkReceived(ctx context.Context, actorID int64, w *models.Wish, gifter *int64) (*Outcome, error) {
	const op = "mark_received"
	switch {
	case w == nil || actorID <= 0:
		return nil, reject(op, w, ReasonNoActor)
	case w.Status == models.StatusFulfilled:
		return nil, reject(op, w, ReasonFulfilled)
	case !w.IsOwnedBy(actorID):
		return nil, reject(op, w, ReasonNotOwner)
	case w.Status != models.StatusReserved:
		return nil, reject(op, w, ReasonNotReserved)
	}

	giftedBy := w.ReservedBy
	if gifter != nil {
		giftedBy = gifter
	}
	if giftedBy != nil && w.IsOwnedBy(*giftedBy) {
		return nil, reject(op, w, ReasonOwnWish)
	}
	if giftedBy != nil {
		id := *giftedBy
		giftedBy = &id
	}

	echo, err := e.wishes.Fulfill(ctx, w.ID, giftedBy)
	if err != nil {
		return nil, err
	}
	e.logTransition(op, w, actorID, models.StatusFulfilled)
	return &Outcome{WishID: w.ID, Status: models.StatusFulfilled, GiftedBy: giftedBy, Wish: echo}, nil
}

// CopyToSelf creates a wish with the source's presentable fields in one of
// the actor's wishlists. The source is never modified.
func (e *engine) CopyToSelf(ctx context.Context, actorID int64, w *models.Wish, target CopyTarget) (*models.Wish, error) {
	const op = "copy"
	if w == nil || actorID <= 0 {
		return nil, reject(op, w, ReasonNoActor)
	}
	if target.Wishlist == nil && target.New == nil {
		return nil, reject(op, w, ReasonNoTarget)
	}
	if target.Wishlist != nil && !target.Wishlist.IsOwnedBy(actorID) {
		return nil, reject(op, w, ReasonForeignTarget)
	}

	wl := target.Wishlist
	if wl == nil {
		created, err := e.wishlists.Create(ctx, target.New)
		if err != nil {
			return nil, err
		}
		wl = created
	}

	copied, err := e.wishes.Create(ctx, copyRequest(w, wl.ID))
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int64("source_id", w.ID).
		Int64("wish_id", copied.ID).
		Int64("wishlist_id", wl.ID).
		Int64("actor_id", actorID).
		Msg("Wish copied")
	return copied, nil
}

// Move transfers a wish to another wishlist of the same owner.
func (e *engine) Move(ctx context.Context, actorID int64, w *models.Wish, target *wishlistmodels.Wishlist) (*models.Wish, error) {
	const op = "move"
	switch {
	case w == nil || actorID <= 0:
		return nil, reject(op, w, ReasonNoActor)
	case !w.IsOwnedBy(actorID):
		return nil, reject(op, w, ReasonNotOwner)
	case target == nil:
		return nil, reject(op, w, ReasonNoTarget)
	case !target.IsOwnedBy(actorID):
		return nil, reject(op, w, ReasonForeignTarget)
	}
	return e.wishes.Move(ctx, w.ID, target.ID)
}

func (e *engine) logTransition(op string, w *models.Wish, actorID int64, to models.Status) {
	logger.Debug().
		Str("op", op).
		Int64("wish_id", w.ID).
		Int64("actor_id", actorID).
		Str("from", string(w.Status)).
		Str("to", string(to)).
		Msg("Wish transition")
}

// copyRequest takes only what describes the item; status and attribution
// start fresh. Empty strings stay nil so url rules are not applied to them.
func copyRequest(w *models.Wish, wishlistID int64) *models.CreateRequest {
	req := &models.CreateRequest{
		WishlistID: wishlistID,
		Title:      w.Title,
		Comment:    optString(w.Comment),
		Link:       optString(w.Link),
		ImageURL:   optString(w.ImageURL),
	}
	if w.Price != nil {
		price := *w.Price
		req.Price = &price
		req.Currency = optString(w.Currency)
	}
	return req
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
