// Package memory provides in-process implementations of the repository
// interfaces. Records are copied on the way in and out, so callers never share
// mutable state with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

// UserRepository is an in-memory repository.UserRepository.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates an empty user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return repository.ErrDuplicateEmail
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	r.byID[user.ID] = *user
	r.byEmail[key] = user.ID
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *UserRepository) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0)
	for _, user := range r.byID {
		if user.Role == role {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *UserRepository) UpdatePermissions(_ context.Context, id uuid.UUID, perms model.EmployeePermissions) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Permissions = perms
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return &user, nil
}
