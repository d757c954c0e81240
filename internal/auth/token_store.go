package auth

import (
	"context"
	"time"

	"tourneyhub/internal/cache"
)

const revokedSessionKeyPrefix = "revoked:session:"

// TokenStoreInterface defines the interface for session revocation storage.
type TokenStoreInterface interface {
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked session ids in Redis until they would have expired.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeSession marks a session id as revoked for ttl.
func (s *TokenStore) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, revokedSessionKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsSessionRevoked checks if a session id has been revoked.
func (s *TokenStore) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedSessionKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not revoked if error (fail safe)
	}
	return data != nil, nil
}
