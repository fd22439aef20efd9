package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/affistack/affistack-api/internal/domain"
)

// ErrDuplicateEmail is returned by Create when an account with the same
// (case-insensitively equal) email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository owns user identity records. Lookups return (nil, nil) when no
// record exists so callers can distinguish absence from store failure.
type UserRepository interface {
	Create(ctx context.Context, email, fullName string, passwordHash, passwordSalt []byte, plan domain.Plan) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
