package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-tracked record of a single login. A bearer token is
// only honored while its session is active and unexpired, so revoking the
// session kills the token regardless of its cryptographic validity.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	IssuedAt     time.Time `db:"issued_at" json:"issued_at"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	LastActivity time.Time `db:"last_activity" json:"last_activity"`
	IsActive     bool      `db:"is_active" json:"is_active"`
}

// Usable reports whether the session still authorizes requests at the given
// instant. Expiry is evaluated lazily here, not by background sweeping.
func (s *Session) Usable(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
