package mock

import (
	"context"
	"time"

	"github.com/koomastudio/postvault"
)

var _ postvault.UserService = (*UserService)(nil)

// UserService is a mock implementation of postvault.UserService.
type UserService struct {
	CreateUserFn       func(ctx context.Context, user *postvault.User) error
	FindUserByIDFn     func(ctx context.Context, id string) (*postvault.User, error)
	UpdateUserFn       func(ctx context.Context, id string, upd postvault.UserUpdate) (*postvault.User, error)
	ConsumeSaveQuotaFn func(ctx context.Context, userID string, now time.Time) error
	SaveQuotaFn        func(ctx context.Context, userID string, now time.Time) (*postvault.QuotaStatus, error)
}

func (s *UserService) CreateUser(ctx context.Context, user *postvault.User) error {
	return s.CreateUserFn(ctx, user)
}

func (s *UserService) FindUserByID(ctx context.Context, id string) (*postvault.User, error) {
	return s.FindUserByIDFn(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, upd postvault.UserUpdate) (*postvault.User, error) {
	return s.UpdateUserFn(ctx, id, upd)
}

func (s *UserService) ConsumeSaveQuota(ctx context.Context, userID string, now time.Time) error {
	return s.ConsumeSaveQuotaFn(ctx, userID, now)
}

func (s *UserService) SaveQuota(ctx context.Context, userID string, now time.Time) (*postvault.QuotaStatus, error) {
	return s.SaveQuotaFn(ctx, userID, now)
}
