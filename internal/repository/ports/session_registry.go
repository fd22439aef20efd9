package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/affistack/affistack-api/internal/domain"
)

// SessionRegistry tracks active login sessions per user, independent of token
// content. Find returns sessions regardless of state; validity (active and
// unexpired) is the caller's policy. Revoke and RevokeAll are idempotent.
type SessionRegistry interface {
	Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*domain.Session, error)
	Find(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Session, error)
	Touch(ctx context.Context, userID, sessionID uuid.UUID) error
	Revoke(ctx context.Context, userID, sessionID uuid.UUID) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
