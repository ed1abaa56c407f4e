package postvault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Token represents an API credential issued to a user, e.g. for the browser
// extension. Only a one-way hash of the raw credential is ever stored or
// used as a rate-limit key.
type Token struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Label  string `json:"label,omitempty"`

	// Hash is the hex-encoded SHA-256 of the raw credential.
	Hash string `json:"-"`

	CreatedAt  time.Time `json:"createdAt"`
	LastUsedAt time.Time `json:"lastUsedAt,omitzero"`
}

// HashCredential returns the hex-encoded SHA-256 of a raw credential.
func HashCredential(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// TokenService represents a service for issuing and authenticating
// credentials.
type TokenService interface {
	// CreateToken issues a new credential for the user. The raw credential
	// is returned exactly once; only its hash is retained.
	CreateToken(ctx context.Context, userID, label string) (raw string, token *Token, err error)

	// AuthenticateToken resolves a raw credential to its user and touches
	// the token's last-used timestamp.
	// Returns EUNAUTHORIZED if the credential is missing or unrecognized.
	AuthenticateToken(ctx context.Context, raw string) (*User, error)

	// RevokeToken permanently deletes a token.
	// Returns ENOTFOUND if the token does not exist.
	RevokeToken(ctx context.Context, id string) error
}
