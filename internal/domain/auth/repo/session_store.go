package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore tracks the single currently valid refresh token per account.
// SetRefreshToken overwrites unconditionally: whatever was stored before,
// for any session of that account, stops being valid. ClearRefreshToken is
// the "none" state and represents logout.
type SessionStore interface {
	SetRefreshToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error

	// GetRefreshToken returns the stored token, or "" when none is stored.
	GetRefreshToken(ctx context.Context, accountID uuid.UUID) (string, error)

	ClearRefreshToken(ctx context.Context, accountID uuid.UUID) error
}
