package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/affistack/affistack-api/internal/apperr"
	"github.com/affistack/affistack-api/internal/domain"
	"github.com/affistack/affistack-api/internal/repository/ports"
	"github.com/affistack/affistack-api/internal/util"
)

const defaultStoreTimeout = 5 * time.Second

// AuthService implements credential verification, session lifecycle and
// token-based authentication. Tokens and sessions are checked independently:
// a valid signature never outlives an explicit session revoke.
type AuthService struct {
	users        ports.UserRepository
	sessions     ports.SessionRegistry
	tokens       *util.TokenManager
	storeTimeout time.Duration
	now          func() time.Time
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionRegistry, tokens *util.TokenManager, storeTimeout time.Duration) *AuthService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &AuthService{
		users:        users,
		sessions:     sessions,
		tokens:       tokens,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
	Plan     domain.Plan
}

// LoginResult bundles the authenticated user with the freshly minted token.
type LoginResult struct {
	User      *domain.User
	Session   *domain.Session
	Token     string
	ExpiresAt time.Time
}

// NormalizeEmail lowercases and trims an email so uniqueness and lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// Signup creates a user account, opens its first session and issues a token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*LoginResult, error) {
	email := NormalizeEmail(in.Email)
	planTier := in.Plan
	if planTier == "" {
		planTier = domain.PlanBasic
	}
	if !planTier.Valid() {
		return nil, apperr.Validation(map[string]string{"plan": "must be one of basic, pro, enterprise"})
	}

	hash, salt, err := util.DerivePassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	cctx, cancel := s.storeCtx(ctx)
	defer cancel()
	user, err := s.users.Create(cctx, email, strings.TrimSpace(in.FullName), hash, salt, planTier)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicateEmail) {
			return nil, apperr.ErrDuplicateAccount
		}
		return nil, apperr.FromStore(err)
	}

	return s.openSession(ctx, user, false)
}

// Login verifies credentials and opens a new session. Unknown email and wrong
// password produce the identical generic failure to prevent enumeration.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (*LoginResult, error) {
	cctx, cancel := s.storeCtx(ctx)
	user, err := s.users.FindByEmail(cctx, NormalizeEmail(email))
	cancel()
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if user == nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperr.ErrAccountDeactivated
	}

	return s.openSession(ctx, user, rememberMe)
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User, rememberMe bool) (*LoginResult, error) {
	cctx, cancel := s.storeCtx(ctx)
	session, err := s.sessions.Create(cctx, user.ID, util.SessionTTL(rememberMe))
	cancel()
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	token, expiresAt, err := s.tokens.Issue(user, session.ID, rememberMe)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &LoginResult{User: user, Session: session, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token to a Principal. A token passes only if
// its signature and claims check out AND the referenced session is still
// active and unexpired in the registry.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	cctx, cancel := s.storeCtx(ctx)
	user, err := s.users.FindByID(cctx, claims.UserID)
	cancel()
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if user == nil || !user.IsActive {
		return nil, apperr.ErrAccountDeactivated
	}

	cctx, cancel = s.storeCtx(ctx)
	session, err := s.sessions.Find(cctx, user.ID, claims.SessionID)
	cancel()
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if session == nil || !session.Usable(s.now()) {
		return nil, apperr.ErrSessionRevoked
	}

	// best effort; a failed bump never invalidates the request
	cctx, cancel = s.storeCtx(ctx)
	if err := s.sessions.Touch(cctx, user.ID, session.ID); err != nil {
		log.Printf("auth: touch session %s: %v", session.ID, err)
	}
	cancel()

	return &domain.Principal{
		UserID:    user.ID,
		Email:     user.Email,
		Plan:      user.Plan,
		SessionID: session.ID,
	}, nil
}

// Logout revokes a single session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID uuid.UUID) error {
	cctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.sessions.Revoke(cctx, userID, sessionID); err != nil {
		return apperr.FromStore(err)
	}
	return nil
}

// LogoutAll revokes every session the user holds, e.g. after a password
// change or suspected token leak.
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	cctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.sessions.RevokeAll(cctx, userID); err != nil {
		return apperr.FromStore(err)
	}
	return nil
}

// DeactivateAccount disables the account and revokes all of its sessions so
// outstanding tokens die with it.
func (s *AuthService) DeactivateAccount(ctx context.Context, userID uuid.UUID) error {
	cctx, cancel := s.storeCtx(ctx)
	err := s.users.Deactivate(cctx, userID)
	cancel()
	if err != nil {
		return apperr.FromStore(err)
	}
	return s.LogoutAll(ctx, userID)
}
