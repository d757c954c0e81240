package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

// Seeder provisions the accounts and sample data a fresh install needs.
// Every method is safe to run repeatedly.
type Seeder struct {
	userRepo  repository.UserRepository
	employees EmployeeService
	events    EventService
}

// NewSeeder builds a Seeder on top of the regular services.
func NewSeeder(userRepo repository.UserRepository, employees EmployeeService, events EventService) *Seeder {
	return &Seeder{userRepo: userRepo, employees: employees, events: events}
}

// Admin creates the admin account unless the email is already taken and
// returns the stored user either way.
func (s *Seeder) Admin(ctx context.Context, username, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	input := RegisterInput{Username: strings.TrimSpace(username), Email: email, Password: password}
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	user, err := newUser(input.Username, input.Email, input.Password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	zap.L().Info("seeded admin", zap.String("email", email))
	return user, nil
}

// Employee creates an employee with the given flags. An existing account keeps
// its password, but its flags are reset to perms.
func (s *Seeder) Employee(ctx context.Context, input CreateEmployeeInput) (*model.User, error) {
	user, err := s.employees.Create(ctx, input)
	if err == nil {
		zap.L().Info("seeded employee", zap.String("email", user.Email))
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrEmailExists) {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if existing.Role != model.RoleEmployee {
		return existing, nil
	}
	return s.employees.UpdatePermissions(ctx, existing.ID, input.Permissions)
}

// Event creates an event owned by creatorID unless one with the same name
// already exists, then applies the published flag.
func (s *Seeder) Event(ctx context.Context, creatorID uuid.UUID, input CreateEventInput, published bool) (*model.Event, error) {
	all, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == strings.TrimSpace(input.Name) {
			if all[i].Published == published {
				return &all[i], nil
			}
			return s.events.SetPublished(ctx, all[i].ID, published)
		}
	}

	event, err := s.events.Create(ctx, input, creatorID)
	if err != nil {
		return nil, err
	}
	zap.L().Info("seeded event", zap.String("name", event.Name), zap.Bool("published", published))
	if !published {
		return event, nil
	}
	return s.events.SetPublished(ctx, event.ID, true)
}
