package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/affistack/affistack-api/internal/domain"
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepo(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*domain.Session, error) {
	const query = `
        INSERT INTO sessions (id, user_id, issued_at, expires_at, last_activity, is_active)
        VALUES ($1, $2, $3, $4, $3, true)
        RETURNING id, user_id, issued_at, expires_at, last_activity, is_active
    `
	now := time.Now().UTC()
	row := r.db.QueryRowxContext(ctx, query, uuid.New(), userID, now, now.Add(ttl))
	var session domain.Session
	if err := row.StructScan(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Find(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Session, error) {
	const query = `
        SELECT id, user_id, issued_at, expires_at, last_activity, is_active
        FROM sessions
        WHERE id = $1 AND user_id = $2
    `
	var session domain.Session
	if err := r.db.GetContext(ctx, &session, query, sessionID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Touch bumps last_activity. Last write wins; concurrent requests on the same
// session do not need mutual exclusion.
func (r *SessionRepository) Touch(ctx context.Context, userID, sessionID uuid.UUID) error {
	const query = `
        UPDATE sessions SET last_activity = NOW()
        WHERE id = $1 AND user_id = $2 AND is_active = true
    `
	_, err := r.db.ExecContext(ctx, query, sessionID, userID)
	return err
}

func (r *SessionRepository) Revoke(ctx context.Context, userID, sessionID uuid.UUID) error {
	const query = `
        UPDATE sessions SET is_active = false
        WHERE id = $1 AND user_id = $2
    `
	_, err := r.db.ExecContext(ctx, query, sessionID, userID)
	return err
}

func (r *SessionRepository) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	const query = `
        UPDATE sessions SET is_active = false
        WHERE user_id = $1 AND is_active = true
    `
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
