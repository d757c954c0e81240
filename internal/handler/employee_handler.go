package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourneyhub/internal/model"
	"tourneyhub/internal/service"
)

// EmployeeHandler serves the admin-only employee directory.
type EmployeeHandler struct {
	employeeService service.EmployeeService
}

// NewEmployeeHandler creates a new employee handler.
func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// PermissionsRequest carries the full permission set; every flag is required.
type PermissionsRequest struct {
	ManageEvents     *bool `json:"manageEvents" validate:"required"`
	ValidatePayments *bool `json:"validatePayments" validate:"required"`
	ModerateMessages *bool `json:"moderateMessages" validate:"required"`
}

func (r PermissionsRequest) toModel() model.EmployeePermissions {
	return model.EmployeePermissions{
		ManageEvents:     *r.ManageEvents,
		ValidatePayments: *r.ValidatePayments,
		ModerateMessages: *r.ModerateMessages,
	}
}

// CreateEmployeeRequest represents an employee provisioning request.
type CreateEmployeeRequest struct {
	Username    string              `json:"username" validate:"required,min=3,max=100"`
	Email       string              `json:"email" validate:"required,email"`
	Password    string              `json:"password" validate:"required,min=8,max=72"`
	Permissions *PermissionsRequest `json:"permissions" validate:"required"`
}

// UpdatePermissionsRequest replaces an employee's permission flags.
type UpdatePermissionsRequest struct {
	Permissions *PermissionsRequest `json:"permissions" validate:"required"`
}

// List godoc
// @Summary List employees
// @Tags employees
// @Produce json
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	employees, err := h.employeeService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employees)
}

// Create godoc
// @Summary Create an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param request body CreateEmployeeRequest true "Employee data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req CreateEmployeeRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	employee, err := h.employeeService.Create(c.Request().Context(), service.CreateEmployeeInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Permissions: req.Permissions.toModel(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, employee)
}

// UpdatePermissions godoc
// @Summary Update employee permissions
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body UpdatePermissionsRequest true "Permissions"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /employees/{id} [put]
func (h *EmployeeHandler) UpdatePermissions(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req UpdatePermissionsRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	employee, err := h.employeeService.UpdatePermissions(c.Request().Context(), id, req.Permissions.toModel())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}
