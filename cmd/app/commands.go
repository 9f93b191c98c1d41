package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"wishlist-tool-client/internal/common/config"
	"wishlist-tool-client/internal/common/validation"
	feedService "wishlist-tool-client/internal/features/feed/service"
	sessionService "wishlist-tool-client/internal/features/session/service"
	subscriptionService "wishlist-tool-client/internal/features/subscription/service"
	themes "wishlist-tool-client/internal/features/theme/models"
	userService "wishlist-tool-client/internal/features/user/service"
	"wishlist-tool-client/internal/features/wish/models"
	wishRepository "wishlist-tool-client/internal/features/wish/repository"
	wishService "wishlist-tool-client/internal/features/wish/service"
	wishlistService "wishlist-tool-client/internal/features/wishlist/service"
	"wishlist-tool-client/internal/platform/telegram"
)

type app struct {
	cfg       *config.Config
	launch    *telegram.Launch
	session   *sessionService.Session
	boot      *sessionService.Bootstrapper
	wishes    wishRepository.WishRepository
	wishlists wishlistService.WishlistService
	engine    wishService.Engine
	feed      feedService.FeedService
	users     userService.UserService
	follows   subscriptionService.SubscriptionService
	out       io.Writer
}

const usage = `usage: app [command]

commands:
  wishlists             list your wishlists
  wishes <wishlist-id>  list wishes of a wishlist
  feed                  wishes of the people you follow
  reserved              wishes you reserved
  reserve <wish-id>     reserve a wish
  unreserve <wish-id>   cancel your reservation
  received <wish-id>    mark a wish on your list as received
  theme <name>          switch theme (light, dark, ozon)
  stats                 counters for your wishlists and gifts
  friends               people you follow who follow you back
  follow <user-id>      subscribe to a user
  unfollow <user-id>    unsubscribe from a user

without a command the session is printed`

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.printJSON(a.session)
	}

	userID := int64(0)
	if a.session.User != nil {
		userID = a.session.User.ID
	}

	switch args[0] {
	case "wishlists":
		lists, err := a.wishlists.Owned(ctx, a.launch.Identity.TelegramID)
		if err != nil {
			return err
		}
		return a.printJSON(lists)

	case "wishes":
		id, err := idArg(args, "wishlist_id")
		if err != nil {
			return err
		}
		wishes, err := a.wishes.ListByWishlist(ctx, id)
		if err != nil {
			return err
		}
		return a.printJSON(wishes)

	case "feed":
		items, err := a.feed.Feed(ctx, userID)
		if err != nil {
			return err
		}
		return a.printJSON(items)

	case "reserved":
		wishes, err := a.engine.ReservedBy(ctx, userID)
		if err != nil {
			return err
		}
		return a.printJSON(wishes)

	case "reserve", "unreserve", "received":
		id, err := idArg(args, "wish_id")
		if err != nil {
			return err
		}
		wish, err := a.wishes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		out, err := a.transition(ctx, args[0], userID, wish)
		if err != nil {
			return err
		}
		return a.printJSON(out)

	case "theme":
		if len(args) < 2 {
			return fmt.Errorf("theme name is required")
		}
		theme, ok := themes.Parse(args[1])
		if !ok {
			return fmt.Errorf("unknown theme %q", args[1])
		}
		user, err := a.boot.ChangeTheme(ctx, theme)
		if err != nil {
			return err
		}
		return a.printJSON(user)

	case "stats":
		stats, err := a.users.GetUserStats(ctx, a.launch.Identity.TelegramID)
		if err != nil {
			return err
		}
		return a.printJSON(stats)

	case "friends":
		friends, err := a.follows.Friends(ctx, userID)
		if err != nil {
			return err
		}
		return a.printJSON(friends)

	case "follow", "unfollow":
		target, err := idArg(args, "user_id")
		if err != nil {
			return err
		}
		if args[0] == "follow" {
			err = a.follows.Follow(ctx, userID, target)
		} else {
			err = a.follows.Unfollow(ctx, userID, target)
		}
		if err != nil {
			return err
		}
		return a.printJSON(map[string]bool{"success": true})

	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	}

	fmt.Fprintln(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) transition(ctx context.Context, op string, actorID int64, wish *models.Wish) (*wishService.Outcome, error) {
	switch op {
	case "reserve":
		return a.engine.Reserve(ctx, actorID, wish)
	case "unreserve":
		return a.engine.Unreserve(ctx, actorID, wish)
	default:
		return a.engine.MarkReceived(ctx, actorID, wish, nil)
	}
}

func idArg(args []string, field string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s is required", field)
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", field, err)
	}
	if err := validation.ValidatePositiveInt(id, field); err != nil {
		return 0, err
	}
	return id, nil
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
