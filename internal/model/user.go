package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the coarse access tier of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// EmployeePermissions are the fine-grained flags attached to an employee.
type EmployeePermissions struct {
	ManageEvents     bool `json:"manageEvents" gorm:"column:manage_events;default:false"`
	ValidatePayments bool `json:"validatePayments" gorm:"column:validate_payments;default:false"`
	ModerateMessages bool `json:"moderateMessages" gorm:"column:moderate_messages;default:false"`
}

// User represents a registered or provisioned account on the platform.
type User struct {
	ID           uuid.UUID           `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string              `json:"username" gorm:"size:100;not null"`
	Email        string              `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string              `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role                `json:"role" gorm:"type:varchar(20);not null;index"`
	Permissions  EmployeePermissions `json:"permissions" gorm:"embedded"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
