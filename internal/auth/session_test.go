package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tourneyhub/internal/model"
)

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func testUser(role model.Role) *model.User {
	return &model.User{
		ID:       uuid.New(),
		Username: "GamerPro123",
		Email:    "gamer@example.com",
		Role:     role,
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store := NewSessionStore("test-secret", 0, nil)
	user := testUser(model.RoleCustomer)

	token, issued, err := store.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, ok := store.Resolve(context.Background(), token)
	require.True(t, ok)
	assert.Equal(t, user.ID, session.ID)
	assert.Equal(t, user.Username, session.Username)
	assert.Equal(t, user.Email, session.Email)
	assert.Equal(t, user.Role, session.Role)
	assert.Equal(t, issued.TokenID, session.TokenID)
	assert.Equal(t, DefaultSessionTTL, store.TTL())
}

func TestSessionStore_ResolveRejectsBadTokens(t *testing.T) {
	store := NewSessionStore("test-secret", time.Hour, nil)
	other := NewSessionStore("other-secret", time.Hour, nil)
	user := testUser(model.RoleAdmin)

	foreign, _, err := other.Issue(user)
	require.NoError(t, err)

	valid, _, err := store.Issue(user)
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &claims))
	claims["role"] = "admin"
	claims["username"] = "mallory"
	forged, err := json.Marshal(claims)
	require.NoError(t, err)
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forged) + "." + parts[2]

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: user.ID.String(), Role: model.RoleAdmin})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	legacy := base64.StdEncoding.EncodeToString([]byte(`{"id":"1","username":"Donato","email":"donato@gmail.com","role":"admin"}`))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"other key", foreign},
		{"tampered payload", tampered},
		{"none algorithm", none},
		{"unsigned base64 claim", legacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, ok := store.Resolve(context.Background(), tt.token)
			assert.False(t, ok)
			assert.Nil(t, session)
		})
	}
}

func TestSessionStore_ExpiredTokenResolvesToNone(t *testing.T) {
	store := NewSessionStore("test-secret", 24*time.Hour, nil)
	store.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	token, _, err := store.Issue(testUser(model.RoleCustomer))
	require.NoError(t, err)

	store.now = time.Now
	session, ok := store.Resolve(context.Background(), token)
	assert.False(t, ok)
	assert.Nil(t, session)
}

func TestSessionStore_UnknownRoleResolvesToNone(t *testing.T) {
	store := NewSessionStore("test-secret", time.Hour, nil)

	token, _, err := store.Issue(testUser(model.Role("superuser")))
	require.NoError(t, err)

	_, ok := store.Resolve(context.Background(), token)
	assert.False(t, ok)
}

func TestSessionStore_Revocation(t *testing.T) {
	tokens := new(MockTokenStore)
	store := NewSessionStore("test-secret", time.Hour, tokens)

	token, session, err := store.Issue(testUser(model.RoleCustomer))
	require.NoError(t, err)

	tokens.On("RevokeSession", mock.Anything, session.TokenID, mock.AnythingOfType("time.Duration")).Return(nil).Once()
	tokens.On("IsSessionRevoked", mock.Anything, session.TokenID).Return(false, nil).Once()
	tokens.On("IsSessionRevoked", mock.Anything, session.TokenID).Return(true, nil).Once()

	_, ok := store.Resolve(context.Background(), token)
	assert.True(t, ok)

	require.NoError(t, store.Revoke(context.Background(), session))

	_, ok = store.Resolve(context.Background(), token)
	assert.False(t, ok)

	tokens.AssertExpectations(t)
}

func TestSessionStore_RevokeWithoutTokenStoreIsNoop(t *testing.T) {
	store := NewSessionStore("test-secret", time.Hour, nil)
	_, session, err := store.Issue(testUser(model.RoleCustomer))
	require.NoError(t, err)

	assert.NoError(t, store.Revoke(context.Background(), session))
	assert.NoError(t, store.Revoke(context.Background(), nil))
}
