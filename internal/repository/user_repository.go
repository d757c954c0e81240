package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourneyhub/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	UpdatePermissions(ctx context.Context, id uuid.UUID, perms model.EmployeePermissions) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePermissions overwrites the permission flags in a single statement.
func (r *userRepository) UpdatePermissions(ctx context.Context, id uuid.UUID, perms model.EmployeePermissions) (*model.User, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"manage_events":     perms.ManageEvents,
			"validate_payments": perms.ValidatePayments,
			"moderate_messages": perms.ModerateMessages,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	// RowsAffected is not usable for existence: MySQL reports 0 for unchanged values.
	return r.FindByID(ctx, id)
}
