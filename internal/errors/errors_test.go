package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("invalid input", map[string]string{"fee": "must be no less than 0"}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"authentication", ErrNotAuthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"authorization", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"not found", ErrEventNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", ErrEmailExists, http.StatusConflict, "CONFLICT"},
		{"invalid state", ErrPaymentAlreadyDecided, http.StatusConflict, "INVALID_STATE"},
		{"service unavailable", ErrModerationUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"wrapped", fmt.Errorf("decide: %w", ErrPaymentNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"foreign", fmt.Errorf("dial tcp: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestMapErrorToHTTP_DoesNotLeakInternalDetail(t *testing.T) {
	got := MapErrorToHTTP(fmt.Errorf("select * from users: syntax error"))
	assert.Equal(t, "internal server error", got.Message)
}

func TestMapErrorToHTTP_CarriesFields(t *testing.T) {
	got := MapErrorToHTTP(Validation("invalid input", map[string]string{"slots": "must be no less than 2"}))
	resp := got.ToErrorResponse()
	assert.Equal(t, "must be no less than 2", resp.Fields["slots"])
}

func TestAppError_IsMatchesWrappedSentinel(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrPaymentAlreadyDecided)
	assert.ErrorIs(t, err, ErrPaymentAlreadyDecided)
	assert.NotErrorIs(t, err, ErrPaymentNotFound)
	assert.Equal(t, KindInvalidState, KindOf(err))
}
