package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/affistack/affistack-api/internal/apperr"
	"github.com/affistack/affistack-api/internal/domain"
)

const (
	TokenIssuer   = "affistack-api"
	TokenAudience = "affistack-app"

	standardSessionTTL = 7 * 24 * time.Hour
	rememberMeTTL      = 30 * 24 * time.Hour
)

// SessionTTL returns the token and session lifetime for a login. Remember-me
// logins live 30 days, everything else 7.
func SessionTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return rememberMeTTL
	}
	return standardSessionTTL
}

// Claims is the strict shape a bearer token must decode into. A token whose
// payload does not fit is rejected as invalid rather than silently coerced.
type Claims struct {
	UserID    uuid.UUID   `json:"uid"`
	Email     string      `json:"email"`
	Plan      domain.Plan `json:"plan"`
	SessionID uuid.UUID   `json:"sid"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue signs a token binding the user and session to an expiry. The session
// itself must already exist; Issue has no side effects beyond construction.
func (m *TokenManager) Issue(user *domain.User, sessionID uuid.UUID, rememberMe bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(SessionTTL(rememberMe))
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Plan:      user.Plan,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates signature, expiry, issuer and audience, and returns the
// decoded claims. Token validity is necessary but not sufficient for
// authentication; the caller still cross-checks the session registry.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, apperr.ErrInvalidToken
	}
	if !token.Valid {
		return nil, apperr.ErrInvalidToken
	}
	if claims.UserID == uuid.Nil || claims.SessionID == uuid.Nil || claims.Email == "" {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}
