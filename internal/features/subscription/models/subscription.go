package models

import (
	"time"

	usermodels "wishlist-tool-client/internal/features/user/models"
)

// Subscription is a directed follow edge: FollowerID follows FollowedID.
type Subscription struct {
	FollowerID int64     `json:"follower_id"`
	FollowedID int64     `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
	// User is the other side of the edge as returned by the listing.
	User *usermodels.User `json:"user,omitempty"`
}

// Result is the acknowledgement of a subscribe/unsubscribe call.
type Result struct {
	Success bool `json:"success"`
}
