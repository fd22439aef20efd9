// Package redis provides a Redis-backed session registry for deployments that
// keep session state out of the primary database. Sessions are stored as one
// hash per session plus a per-user set used by RevokeAll.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/affistack/affistack-api/internal/domain"
)

const (
	fieldIssuedAt     = "issued_at"
	fieldExpiresAt    = "expires_at"
	fieldLastActivity = "last_activity"
	fieldIsActive     = "is_active"
)

type SessionRepository struct {
	client *redis.Client
	prefix string
}

func NewSessionRepo(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client, prefix: "sess"}
}

func (r *SessionRepository) sessionKey(userID, sessionID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, userID, sessionID)
}

func (r *SessionRepository) userKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:user:%s", r.prefix, userID)
}

func (r *SessionRepository) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*domain.Session, error) {
	now := time.Now().UTC().Truncate(time.Second)
	session := &domain.Session{
		ID:           uuid.New(),
		UserID:       userID,
		IssuedAt:     now,
		ExpiresAt:    now.Add(ttl),
		LastActivity: now,
		IsActive:     true,
	}

	key := r.sessionKey(userID, session.ID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		fieldIssuedAt:     session.IssuedAt.Unix(),
		fieldExpiresAt:    session.ExpiresAt.Unix(),
		fieldLastActivity: session.LastActivity.Unix(),
		fieldIsActive:     "1",
	})
	// keep the hash a little past logical expiry so verification can still
	// classify it as expired rather than missing
	pipe.Expire(ctx, key, ttl+time.Hour)
	pipe.SAdd(ctx, r.userKey(userID), session.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) Find(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Session, error) {
	fields, err := r.client.HGetAll(ctx, r.sessionKey(userID, sessionID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	session := &domain.Session{ID: sessionID, UserID: userID}
	if session.IssuedAt, err = parseUnix(fields[fieldIssuedAt]); err != nil {
		return nil, fmt.Errorf("redis: corrupt session %s: %w", sessionID, err)
	}
	if session.ExpiresAt, err = parseUnix(fields[fieldExpiresAt]); err != nil {
		return nil, fmt.Errorf("redis: corrupt session %s: %w", sessionID, err)
	}
	if session.LastActivity, err = parseUnix(fields[fieldLastActivity]); err != nil {
		return nil, fmt.Errorf("redis: corrupt session %s: %w", sessionID, err)
	}
	session.IsActive = fields[fieldIsActive] == "1"
	return session, nil
}

func (r *SessionRepository) Touch(ctx context.Context, userID, sessionID uuid.UUID) error {
	key := r.sessionKey(userID, sessionID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return nil
	}
	return r.client.HSet(ctx, key, fieldLastActivity, time.Now().Unix()).Err()
}

func (r *SessionRepository) Revoke(ctx context.Context, userID, sessionID uuid.UUID) error {
	key := r.sessionKey(userID, sessionID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return nil
	}
	return r.client.HSet(ctx, key, fieldIsActive, "0").Err()
}

func (r *SessionRepository) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, raw := range ids {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if err := r.Revoke(ctx, userID, sessionID); err != nil {
			return err
		}
	}
	return nil
}

func parseUnix(raw string) (time.Time, error) {
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0).UTC(), nil
}
