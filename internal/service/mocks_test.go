package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"tourneyhub/internal/moderation"
)

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
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

// MockModerator is a mock implementation of moderation.Moderator.
type MockModerator struct {
	mock.Mock
}

func (m *MockModerator) Moderate(ctx context.Context, text string) (moderation.Verdict, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(moderation.Verdict), args.Error(1)
}

// MockEvidenceStore is a mock implementation of storage.EvidenceStore.
type MockEvidenceStore struct {
	mock.Mock
}

func (m *MockEvidenceStore) Put(ctx context.Context, r io.Reader) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func receipt() io.Reader {
	return bytes.NewReader([]byte("\x89PNG\r\n\x1a\n"))
}
