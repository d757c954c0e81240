package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourneyhub/internal/model"
	"tourneyhub/internal/repository/memory"
)

func newTestSeeder() (*Seeder, *memory.UserRepository) {
	users := memory.NewUserRepository()
	employees := NewEmployeeService(users, nil)
	events := NewEventService(memory.NewEventRepository(), nil)
	return NewSeeder(users, employees, events), users
}

func TestSeeder_AdminIsIdempotent(t *testing.T) {
	seeder, users := newTestSeeder()
	ctx := context.Background()

	first, err := seeder.Admin(ctx, "donato", "Donato@Gmail.com", "admin-password")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, first.Role)
	assert.Equal(t, "donato@gmail.com", first.Email)

	second, err := seeder.Admin(ctx, "donato", "donato@gmail.com", "other-password")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	admins, err := users.ListByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestSeeder_EmployeeResetsFlags(t *testing.T) {
	seeder, users := newTestSeeder()
	ctx := context.Background()

	input := CreateEmployeeInput{
		Username:    "empleado",
		Email:       "empleado@test.com",
		Password:    "employee-password",
		Permissions: model.EmployeePermissions{ManageEvents: true, ModerateMessages: true},
	}
	created, err := seeder.Employee(ctx, input)
	require.NoError(t, err)
	assert.True(t, created.Permissions.ManageEvents)

	input.Permissions = model.EmployeePermissions{ValidatePayments: true}
	updated, err := seeder.Employee(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, model.EmployeePermissions{ValidatePayments: true}, updated.Permissions)

	employees, err := users.ListByRole(ctx, model.RoleEmployee)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func TestSeeder_EventIsMatchedByName(t *testing.T) {
	seeder, _ := newTestSeeder()
	ctx := context.Background()
	admin, err := seeder.Admin(ctx, "donato", "donato@gmail.com", "admin-password")
	require.NoError(t, err)

	event, err := seeder.Event(ctx, admin.ID, summerCup(), true)
	require.NoError(t, err)
	assert.True(t, event.Published)
	assert.Equal(t, admin.ID, event.CreatorID)

	again, err := seeder.Event(ctx, admin.ID, summerCup(), false)
	require.NoError(t, err)
	assert.Equal(t, event.ID, again.ID)
	assert.False(t, again.Published)
}
