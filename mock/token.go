package mock

import (
	"context"

	"github.com/koomastudio/postvault"
)

var _ postvault.TokenService = (*TokenService)(nil)

// TokenService is a mock implementation of postvault.TokenService.
type TokenService struct {
	CreateTokenFn       func(ctx context.Context, userID, label string) (string, *postvault.Token, error)
	AuthenticateTokenFn func(ctx context.Context, raw string) (*postvault.User, error)
	RevokeTokenFn       func(ctx context.Context, id string) error
}

func (s *TokenService) CreateToken(ctx context.Context, userID, label string) (string, *postvault.Token, error) {
	return s.CreateTokenFn(ctx, userID, label)
}

func (s *TokenService) AuthenticateToken(ctx context.Context, raw string) (*postvault.User, error) {
	return s.AuthenticateTokenFn(ctx, raw)
}

func (s *TokenService) RevokeToken(ctx context.Context, id string) error {
	return s.RevokeTokenFn(ctx, id)
}
