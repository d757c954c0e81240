package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"tourneyhub/internal/cache"
	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

const permissionsCacheTTL = 5 * time.Minute

// CreateEmployeeInput provisions a back-office account.
type CreateEmployeeInput struct {
	Username    string                    `json:"username"`
	Email       string                    `json:"email"`
	Password    string                    `json:"password"`
	Permissions model.EmployeePermissions `json:"permissions"`
}

// Validate checks employee fields.
func (in *CreateEmployeeInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Username, validation.Required, validation.RuneLength(3, 100)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.RuneLength(8, 72)),
	)
}

// EmployeeService manages employees and their permission flags.
type EmployeeService interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, input CreateEmployeeInput) (*model.User, error)
	UpdatePermissions(ctx context.Context, id uuid.UUID, perms model.EmployeePermissions) (*model.User, error)
	Permissions(ctx context.Context, userID uuid.UUID) (model.EmployeePermissions, error)
}

type employeeService struct {
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewEmployeeService builds an EmployeeService with repository and cache.
func NewEmployeeService(userRepo repository.UserRepository, cache *cache.Client) EmployeeService {
	return &employeeService{userRepo: userRepo, cache: cache}
}

func (s *employeeService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("employee:perms:%s", id.String())
}

func (s *employeeService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListByRole(ctx, model.RoleEmployee)
}

func (s *employeeService) Create(ctx context.Context, input CreateEmployeeInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	user, err := newUser(input.Username, input.Email, input.Password, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	user.Permissions = input.Permissions

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailExists
		}
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return user, nil
}

// UpdatePermissions overwrites the flags of an employee. Non-employee ids are
// reported as not found.
func (s *employeeService) UpdatePermissions(ctx context.Context, id uuid.UUID, perms model.EmployeePermissions) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	if user.Role != model.RoleEmployee {
		return nil, apperrors.ErrEmployeeNotFound
	}

	updated, err := s.userRepo.UpdatePermissions(ctx, id, perms)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("update permissions: %w", err)
	}

	_ = s.cache.Invalidate(ctx, s.cacheKey(id))
	return updated, nil
}

// Permissions returns the flags of userID, served from cache when possible.
// Users that are not employees hold no flags.
func (s *employeeService) Permissions(ctx context.Context, userID uuid.UUID) (model.EmployeePermissions, error) {
	key := s.cacheKey(userID)
	var cached model.EmployeePermissions
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	gen, cacheable := s.cache.Generation(ctx, key)
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.EmployeePermissions{}, nil
		}
		return model.EmployeePermissions{}, fmt.Errorf("find user: %w", err)
	}

	perms := model.EmployeePermissions{}
	if user.Role == model.RoleEmployee {
		perms = user.Permissions
	}
	if cacheable {
		_ = s.cache.SetJSONAtGeneration(ctx, key, perms, permissionsCacheTTL, gen)
	}
	return perms, nil
}
