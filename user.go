package postvault

import (
	"context"
	"time"
)

// Tier represents a user's privilege tier.
type Tier string

// Tier values.
const (
	TierStandard Tier = "standard"
	TierPro      Tier = "pro"
)

// Save quota configuration for standard-tier users. The window is rolling:
// it anchors to each user's own first save in a cycle, not a calendar month.
const (
	SaveLimit  = 10
	SaveWindow = 30 * 24 * time.Hour
)

// User represents an account. Subscription state transitions are driven by
// an external billing collaborator; this package only persists the fields
// and derives the effective tier.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`

	Tier                  Tier       `json:"tier"`
	SubscriptionPeriodEnd *time.Time `json:"subscriptionPeriodEnd,omitempty"`

	// Rolling save-quota window state. SaveWindowStart is nil until the
	// user's first counted save.
	SaveCount       int        `json:"saveCount"`
	SaveWindowStart *time.Time `json:"saveWindowStart,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the user contains invalid fields.
func (u *User) Validate() error {
	if u.Email == "" {
		return Errorf(EINVALID, "user email required")
	}
	switch u.Tier {
	case TierStandard, TierPro, "":
	default:
		return Errorf(EINVALID, "unknown tier %q", u.Tier)
	}
	return nil
}

// EffectiveTier returns the user's tier as of now, degrading a pro user to
// standard once the subscription period has lapsed.
func (u *User) EffectiveTier(now time.Time) Tier {
	if u.Tier == TierPro && u.SubscriptionPeriodEnd != nil && now.After(*u.SubscriptionPeriodEnd) {
		return TierStandard
	}
	if u.Tier == "" {
		return TierStandard
	}
	return u.Tier
}

// QuotaStatus describes a user's save allowance for display.
type QuotaStatus struct {
	Tier Tier `json:"tier"`

	// Unlimited is true for pro users; the counters below are zero.
	Unlimited bool `json:"unlimited"`

	Used      int `json:"used"`
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`

	// WindowEnds is when the current window rolls over, nil if no window
	// has been started.
	WindowEnds *time.Time `json:"windowEnds,omitempty"`
}

// UserUpdate represents fields that can be updated on a user.
type UserUpdate struct {
	Name                  *string    `json:"name"`
	Tier                  *Tier      `json:"tier"`
	SubscriptionPeriodEnd *time.Time `json:"subscriptionPeriodEnd"`
}

// UserService represents a service for managing users and their save quota.
type UserService interface {
	// CreateUser creates a new user.
	CreateUser(ctx context.Context, user *User) error

	// FindUserByID retrieves a user by ID.
	// Returns ENOTFOUND if the user does not exist.
	FindUserByID(ctx context.Context, id string) (*User, error)

	// UpdateUser updates an existing user.
	// Returns ENOTFOUND if the user does not exist.
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error)

	// ConsumeSaveQuota counts one save against the user's rolling window,
	// starting or lazily resetting the window as needed. The check and the
	// increment are a single atomic operation: concurrent saves can never
	// push the accepted count past SaveLimit.
	//
	// Returns EQUOTA when the allowance is exhausted (no state change) and
	// ENOTFOUND if the user does not exist. Callers are expected to bypass
	// this entirely for pro-tier users.
	ConsumeSaveQuota(ctx context.Context, userID string, now time.Time) error

	// SaveQuota reports the user's quota status without mutating it.
	SaveQuota(ctx context.Context, userID string, now time.Time) (*QuotaStatus, error)
}
