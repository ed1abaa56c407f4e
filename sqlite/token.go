package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/koomastudio/postvault"
)

// Compile-time interface verification.
var _ postvault.TokenService = (*TokenService)(nil)

// TokenService implements postvault.TokenService using SQLite.
type TokenService struct {
	db *DB
}

// NewTokenService creates a new TokenService.
func NewTokenService(db *DB) *TokenService {
	return &TokenService{db: db}
}

// CreateToken issues a new credential for the user. The raw credential is
// returned exactly once; only its SHA-256 hash is stored.
func (s *TokenService) CreateToken(ctx context.Context, userID, label string) (string, *postvault.Token, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", nil, err
	}
	raw := hex.EncodeToString(secret)

	token := &postvault.Token{
		ID:        uuid.New().String(),
		UserID:    userID,
		Label:     label,
		Hash:      postvault.HashCredential(raw),
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (id, user_id, label, hash, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, NULL)
	`, token.ID, token.UserID, token.Label, token.Hash, formatTime(token.CreatedAt))
	if err != nil {
		return "", nil, err
	}

	return raw, token, nil
}

// AuthenticateToken resolves a raw credential to its user and touches the
// token's last-used timestamp.
func (s *TokenService) AuthenticateToken(ctx context.Context, raw string) (*postvault.User, error) {
	if raw == "" {
		return nil, postvault.Errorf(postvault.EUNAUTHORIZED, "credential required")
	}

	var tokenID, userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id FROM tokens WHERE hash = ?
	`, postvault.HashCredential(raw)).Scan(&tokenID, &userID)

	if err == sql.ErrNoRows {
		return nil, postvault.Errorf(postvault.EUNAUTHORIZED, "invalid credential")
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE tokens SET last_used_at = ? WHERE id = ?",
		formatTime(time.Now().UTC()), tokenID); err != nil {
		return nil, err
	}

	return NewUserService(s.db).FindUserByID(ctx, userID)
}

// RevokeToken permanently deletes a token.
func (s *TokenService) RevokeToken(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tokens WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postvault.Errorf(postvault.ENOTFOUND, "token not found")
	}

	return nil
}
