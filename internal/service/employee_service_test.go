package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository/memory"
)

func TestEmployeeService_Create(t *testing.T) {
	service := NewEmployeeService(memory.NewUserRepository(), nil)
	ctx := context.Background()

	input := CreateEmployeeInput{
		Username:    "EmpleadoUno",
		Email:       "Empleado@Test.com",
		Password:    "password123",
		Permissions: model.EmployeePermissions{ManageEvents: true, ModerateMessages: true},
	}
	employee, err := service.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployee, employee.Role)
	assert.Equal(t, "empleado@test.com", employee.Email)
	assert.True(t, employee.Permissions.ManageEvents)
	assert.False(t, employee.Permissions.ValidatePayments)
	assert.NotEqual(t, "password123", employee.PasswordHash)

	_, err = service.Create(ctx, input)
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)

	input.Email = "bad"
	_, err = service.Create(ctx, input)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	employees, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func TestEmployeeService_UpdatePermissions(t *testing.T) {
	users := memory.NewUserRepository()
	service := NewEmployeeService(users, nil)
	ctx := context.Background()

	employee, err := service.Create(ctx, CreateEmployeeInput{Username: "EmpleadoDos", Email: "e2@test.com", Password: "password123"})
	require.NoError(t, err)

	customer := &model.User{Username: "gamer", Email: "a@b.com", Role: model.RoleCustomer}
	require.NoError(t, users.Create(ctx, customer))

	tests := []struct {
		name          string
		id            uuid.UUID
		expectedError error
	}{
		{name: "employee", id: employee.ID},
		{name: "unknown id", id: uuid.New(), expectedError: apperrors.ErrEmployeeNotFound},
		{name: "customer is not an employee", id: customer.ID, expectedError: apperrors.ErrEmployeeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := service.UpdatePermissions(ctx, tt.id, model.EmployeePermissions{ValidatePayments: true})
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.True(t, updated.Permissions.ValidatePayments)

			perms, err := service.Permissions(ctx, tt.id)
			require.NoError(t, err)
			assert.True(t, perms.ValidatePayments)
		})
	}
}

func TestEmployeeService_PermissionsOfNonEmployees(t *testing.T) {
	users := memory.NewUserRepository()
	service := NewEmployeeService(users, nil)
	ctx := context.Background()

	admin := &model.User{Username: "Donato", Email: "donato@gmail.com", Role: model.RoleAdmin,
		Permissions: model.EmployeePermissions{ManageEvents: true}}
	require.NoError(t, users.Create(ctx, admin))

	perms, err := service.Permissions(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmployeePermissions{}, perms)

	perms, err = service.Permissions(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.EmployeePermissions{}, perms)
}
