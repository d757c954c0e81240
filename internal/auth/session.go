package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"tourneyhub/internal/model"
)

// DefaultSessionTTL is the lifetime of a session when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// Session is the identity claim carried by the client between requests.
type Session struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`

	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Claims represents the signed session token payload.
type Claims struct {
	UserID   string     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionStore issues and resolves signed session tokens.
type SessionStore struct {
	secret []byte
	ttl    time.Duration
	tokens TokenStoreInterface
	now    func() time.Time
}

// NewSessionStore creates a session store signing with secret. tokens may be nil,
// in which case revocation is disabled.
func NewSessionStore(secret string, ttl time.Duration, tokens TokenStoreInterface) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		secret: []byte(secret),
		ttl:    ttl,
		tokens: tokens,
		now:    time.Now,
	}
}

// TTL returns the configured session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Issue serializes and signs a session claim for user.
func (s *SessionStore) Issue(user *model.User) (string, *Session, error) {
	now := s.now()
	session := &Session{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}

	claims := &Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Resolve verifies token and returns its session. Absent, malformed, tampered,
// expired and revoked tokens all resolve to (nil, false).
func (s *SessionStore) Resolve(ctx context.Context, token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}

	claims, err := s.parse(token)
	if err != nil {
		return nil, false
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil || !claims.Role.Valid() || claims.ExpiresAt == nil {
		return nil, false
	}

	if s.tokens != nil && claims.ID != "" {
		if revoked, _ := s.tokens.IsSessionRevoked(ctx, claims.ID); revoked {
			return nil, false
		}
	}

	return &Session{
		ID:        id,
		Username:  claims.Username,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

// Revoke invalidates the session until its natural expiry.
func (s *SessionStore) Revoke(ctx context.Context, session *Session) error {
	if s.tokens == nil || session == nil || session.TokenID == "" {
		return nil
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.tokens.RevokeSession(ctx, session.TokenID, ttl)
}

func (s *SessionStore) parse(token string) (*Claims, error) {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	now := s.now()
	if !claims.VerifyExpiresAt(now, true) || !claims.VerifyNotBefore(now, false) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}
