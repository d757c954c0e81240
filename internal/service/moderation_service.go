package service

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/moderation"
)

const maxMessageRunes = 500

// ModerationService screens forum messages.
type ModerationService interface {
	Check(ctx context.Context, message string) (moderation.Verdict, error)
}

type moderationService struct {
	moderator moderation.Moderator
}

// NewModerationService wraps a moderator with input bounds and error mapping.
func NewModerationService(moderator moderation.Moderator) ModerationService {
	return &moderationService{moderator: moderator}
}

// Check never logs the message itself.
func (s *moderationService) Check(ctx context.Context, message string) (moderation.Verdict, error) {
	message = strings.TrimSpace(message)
	err := validation.Validate(message, validation.Required, validation.RuneLength(1, maxMessageRunes))
	if err != nil {
		return moderation.Verdict{}, apperrors.Validation("invalid input", map[string]string{"message": err.Error()})
	}

	verdict, err := s.moderator.Moderate(ctx, message)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return moderation.Verdict{}, err
		}
		zap.L().Warn("moderation check failed", zap.Int("message_length", len(message)), zap.Error(err))
		return moderation.Verdict{}, apperrors.ErrModerationUnavailable
	}
	return verdict, nil
}
