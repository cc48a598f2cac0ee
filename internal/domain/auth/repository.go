package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository - interface for refresh_tokens table. Tokens are
// stored hashed.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID int64, token string, expiresAt int64, session SessionTrackingRequest) error
	// IsRevoked reports whether the token was revoked or has expired.
	IsRevoked(ctx context.Context, token string) (userID int64, revoked bool, err error)
	Revoke(ctx context.Context, token string) error
	// DeleteExpired removes tokens that expired or were revoked before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
