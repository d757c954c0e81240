package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"golang.org/x/crypto/bcrypt"

	"tourneyhub/internal/auth"
	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

const bcryptCost = 10

// RegisterInput is a customer self-registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks registration fields.
func (in *RegisterInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Username, validation.Required, validation.RuneLength(3, 100)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.RuneLength(8, 72)),
	)
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *auth.Session, error)
	Login(ctx context.Context, email, password string) (string, *auth.Session, error)
	Logout(ctx context.Context, session *auth.Session) error
}

type authService struct {
	userRepo repository.UserRepository
	sessions *auth.SessionStore
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions *auth.SessionStore) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
	}
}

// Register creates a customer account and opens a session for it.
func (s *authService) Register(ctx context.Context, input RegisterInput) (string, *auth.Session, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		return "", nil, invalidInput(err)
	}

	user, err := newUser(input.Username, input.Email, input.Password, model.RoleCustomer)
	if err != nil {
		return "", nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", nil, apperrors.ErrEmailExists
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

// Login verifies credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *authService) Login(ctx context.Context, email, password string) (string, *auth.Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout revokes the session. A missing session is not an error.
func (s *authService) Logout(ctx context.Context, session *auth.Session) error {
	return s.sessions.Revoke(ctx, session)
}

func (s *authService) issue(user *model.User) (string, *auth.Session, error) {
	token, session, err := s.sessions.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}
	return token, session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newUser(username, email, password string, role model.Role) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}, nil
}
