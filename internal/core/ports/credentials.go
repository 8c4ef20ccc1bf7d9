package ports

import (
	"context"
	"time"
)

// PasswordHasher is a one-way password digest. A mismatch is reported as
// false, never as an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenClaims is the parsed content of a signed token.
type TokenClaims struct {
	Subject   string
	Claims    map[string]any
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenSigner produces and parses signed, expiring tokens.
type TokenSigner interface {
	Sign(subject string, claims map[string]any, ttl time.Duration) (string, error)
	Parse(token string) (*TokenClaims, error)
}

// ClaimGuard reserves a unique value (an email or telephone) for the duration
// of a write. Acquire reports false when someone else holds the claim.
type ClaimGuard interface {
	Acquire(ctx context.Context, kind, value string) (bool, error)
	Release(ctx context.Context, kind, value string) error
}
