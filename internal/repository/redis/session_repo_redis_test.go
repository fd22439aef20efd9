package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) *SessionRepository {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionRepo(client)
}

func TestCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created.IsActive {
		t.Fatalf("expected new session to be active")
	}

	found, err := repo.Find(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if found == nil {
		t.Fatalf("expected session to be found")
	}
	if !found.IsActive {
		t.Fatalf("expected found session to be active")
	}
	if !found.ExpiresAt.Equal(created.ExpiresAt) {
		t.Fatalf("expected expiry %s, got %s", created.ExpiresAt, found.ExpiresAt)
	}
}

func TestFindUnknownSession(t *testing.T) {
	repo := newTestRepo(t)

	found, err := repo.Find(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil for unknown session, got %+v", found)
	}
}

func TestTouchUpdatesLastActivity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := repo.Touch(ctx, userID, created.ID); err != nil {
		t.Fatalf("Touch returned error: %v", err)
	}

	found, err := repo.Find(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if found.LastActivity.Before(created.LastActivity) {
		t.Fatalf("expected last activity to advance")
	}
}

func TestTouchUnknownSessionIsNoop(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Touch(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("Touch on unknown session returned error: %v", err)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Revoke(ctx, userID, created.ID); err != nil {
			t.Fatalf("Revoke attempt %d returned error: %v", i+1, err)
		}
	}

	found, err := repo.Find(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if found == nil || found.IsActive {
		t.Fatalf("expected session to remain present but inactive")
	}

	// revoking a session that never existed is also a no-op
	if err := repo.Revoke(ctx, userID, uuid.New()); err != nil {
		t.Fatalf("Revoke on unknown session returned error: %v", err)
	}
}

func TestRevokeAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		s, err := repo.Create(ctx, userID, time.Hour)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		ids = append(ids, s.ID)
	}

	other, err := repo.Create(ctx, uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := repo.RevokeAll(ctx, userID); err != nil {
		t.Fatalf("RevokeAll returned error: %v", err)
	}

	for _, id := range ids {
		s, err := repo.Find(ctx, userID, id)
		if err != nil {
			t.Fatalf("Find returned error: %v", err)
		}
		if s == nil || s.IsActive {
			t.Fatalf("expected session %s to be revoked", id)
		}
	}

	stillActive, err := repo.Find(ctx, other.UserID, other.ID)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if stillActive == nil || !stillActive.IsActive {
		t.Fatalf("RevokeAll must not touch other users' sessions")
	}
}
