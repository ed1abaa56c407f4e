package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/koomastudio/postvault"
)

// Compile-time interface verification.
var _ postvault.UserService = (*UserService)(nil)

// UserService implements postvault.UserService using SQLite.
type UserService struct {
	db *DB
}

// NewUserService creates a new UserService.
func NewUserService(db *DB) *UserService {
	return &UserService{db: db}
}

// CreateUser creates a new user.
func (s *UserService) CreateUser(ctx context.Context, user *postvault.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()
	if user.Tier == "" {
		user.Tier = postvault.TierStandard
	}

	var periodEnd any
	if user.SubscriptionPeriodEnd != nil {
		periodEnd = formatTime(*user.SubscriptionPeriodEnd)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, tier, subscription_period_end, save_count, save_window_start, created_at)
		VALUES (?, ?, ?, ?, ?, 0, NULL, ?)
	`, user.ID, user.Email, user.Name, string(user.Tier), periodEnd, formatTime(user.CreatedAt))

	return err
}

// FindUserByID retrieves a user by ID.
func (s *UserService) FindUserByID(ctx context.Context, id string) (*postvault.User, error) {
	var user postvault.User
	var tier, createdAt string
	var periodEnd, windowStart sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, tier, subscription_period_end, save_count, save_window_start, created_at
		FROM users
		WHERE id = ?
	`, id).Scan(&user.ID, &user.Email, &user.Name, &tier, &periodEnd,
		&user.SaveCount, &windowStart, &createdAt)

	if err == sql.ErrNoRows {
		return nil, postvault.Errorf(postvault.ENOTFOUND, "user not found")
	}
	if err != nil {
		return nil, err
	}

	user.Tier = postvault.Tier(tier)

	if user.SubscriptionPeriodEnd, err = parseNullTime(periodEnd, "subscription_period_end"); err != nil {
		return nil, err
	}
	if user.SaveWindowStart, err = parseNullTime(windowStart, "save_window_start"); err != nil {
		return nil, err
	}
	if user.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateUser updates an existing user.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd postvault.UserUpdate) (*postvault.User, error) {
	user, err := s.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Tier != nil {
		user.Tier = *upd.Tier
	}
	if upd.SubscriptionPeriodEnd != nil {
		user.SubscriptionPeriodEnd = upd.SubscriptionPeriodEnd
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	var periodEnd any
	if user.SubscriptionPeriodEnd != nil {
		periodEnd = formatTime(*user.SubscriptionPeriodEnd)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, tier = ?, subscription_period_end = ?
		WHERE id = ?
	`, user.Name, string(user.Tier), periodEnd, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ConsumeSaveQuota counts one save against the user's rolling window.
//
// The whole decision runs in one conditional UPDATE: a missing or expired
// window starts fresh at count 1, an open window increments only while the
// count is under the limit. Since the check and the write are a single
// statement, concurrent saves cannot overshoot the limit.
func (s *UserService) ConsumeSaveQuota(ctx context.Context, userID string, now time.Time) error {
	// A window lapses only once the current time passes its end, so one that
	// started exactly at the cutoff is still open.
	cutoff := formatTime(now.Add(-postvault.SaveWindow))
	nowStr := formatTime(now)

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET save_count = CASE
				WHEN save_window_start IS NULL OR save_window_start < ? THEN 1
				ELSE save_count + 1
			END,
			save_window_start = CASE
				WHEN save_window_start IS NULL OR save_window_start < ? THEN ?
				ELSE save_window_start
			END
		WHERE id = ?
		  AND (save_window_start IS NULL OR save_window_start < ? OR save_count < ?)
	`, cutoff, cutoff, nowStr, userID, cutoff, postvault.SaveLimit)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// Nothing updated: either the user is unknown or the allowance is spent.
	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return postvault.Errorf(postvault.ENOTFOUND, "user not found")
	}
	if err != nil {
		return err
	}

	return postvault.Errorf(postvault.EQUOTA, "monthly save limit of %d reached", postvault.SaveLimit)
}

// SaveQuota reports the user's quota status without mutating it.
func (s *UserService) SaveQuota(ctx context.Context, userID string, now time.Time) (*postvault.QuotaStatus, error) {
	user, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &postvault.QuotaStatus{Tier: user.EffectiveTier(now)}
	if status.Tier == postvault.TierPro {
		status.Unlimited = true
		return status, nil
	}

	status.Limit = postvault.SaveLimit
	status.Remaining = postvault.SaveLimit

	// An expired window reads as a clean slate even though the row still
	// holds the old counters; the next save resets it. The window stays open
	// through its exact end instant.
	if user.SaveWindowStart != nil && !now.After(user.SaveWindowStart.Add(postvault.SaveWindow)) {
		status.Used = user.SaveCount
		status.Remaining = max(0, postvault.SaveLimit-user.SaveCount)
		ends := user.SaveWindowStart.Add(postvault.SaveWindow)
		status.WindowEnds = &ends
	}

	return status, nil
}
