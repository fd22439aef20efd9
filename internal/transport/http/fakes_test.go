package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/affistack/affistack-api/internal/domain"
	"github.com/affistack/affistack-api/internal/plan"
	"github.com/affistack/affistack-api/internal/repository/ports"
	"github.com/affistack/affistack-api/internal/service"
	"github.com/affistack/affistack-api/internal/util"
)

type memUserRepo struct {
	byEmail map[string]*domain.User
	failAll error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, email, fullName string, hash, salt []byte, p domain.Plan) (*domain.User, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	if _, exists := m.byEmail[email]; exists {
		return nil, ports.ErrDuplicateEmail
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: append([]byte(nil), hash...),
		PasswordSalt: append([]byte(nil), salt...),
		Plan:         p,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.byEmail[email] = user
	return user, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	return m.byEmail[email], nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	if m.failAll != nil {
		return m.failAll
	}
	for _, u := range m.byEmail {
		if u.ID == id {
			u.IsActive = false
		}
	}
	return nil
}

type memSessionKey struct {
	userID    uuid.UUID
	sessionID uuid.UUID
}

type memSessionRegistry struct {
	sessions map[memSessionKey]*domain.Session
	failAll  error
}

func newMemSessionRegistry() *memSessionRegistry {
	return &memSessionRegistry{sessions: map[memSessionKey]*domain.Session{}}
}

func (m *memSessionRegistry) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*domain.Session, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	now := time.Now()
	s := &domain.Session{
		ID:           uuid.New(),
		UserID:       userID,
		IssuedAt:     now,
		ExpiresAt:    now.Add(ttl),
		LastActivity: now,
		IsActive:     true,
	}
	m.sessions[memSessionKey{userID, s.ID}] = s
	return s, nil
}

func (m *memSessionRegistry) Find(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Session, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	return m.sessions[memSessionKey{userID, sessionID}], nil
}

func (m *memSessionRegistry) Touch(ctx context.Context, userID, sessionID uuid.UUID) error {
	if s, ok := m.sessions[memSessionKey{userID, sessionID}]; ok {
		s.LastActivity = time.Now()
	}
	return nil
}

func (m *memSessionRegistry) Revoke(ctx context.Context, userID, sessionID uuid.UUID) error {
	if m.failAll != nil {
		return m.failAll
	}
	if s, ok := m.sessions[memSessionKey{userID, sessionID}]; ok {
		s.IsActive = false
	}
	return nil
}

func (m *memSessionRegistry) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if m.failAll != nil {
		return m.failAll
	}
	for k, s := range m.sessions {
		if k.userID == userID {
			s.IsActive = false
		}
	}
	return nil
}

type testServer struct {
	e        *echo.Echo
	auth     *service.AuthService
	users    *memUserRepo
	sessions *memSessionRegistry
}

func newTestServer() *testServer {
	users := newMemUserRepo()
	sessions := newMemSessionRegistry()
	auth := service.NewAuthService(users, sessions, util.NewTokenManager("test-secret"), time.Second)

	e := NewRouter([]string{"*"})
	e.Use(RouteGate(auth, DefaultRouteTable(), false))
	RegisterAuth(e, auth, plan.Default(), false)

	ok := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}
	e.GET("/dashboard", ok)
	e.GET("/signin", ok)
	e.GET("/pricing", ok)
	e.GET("/api/websites", ok)

	return &testServer{e: e, auth: auth, users: users, sessions: sessions}
}
