package auth

import "tourneyhub/internal/model"

// Capability names a fine-grained operation class.
type Capability string

const (
	CapManageEvents     Capability = "manage_events"
	CapValidatePayments Capability = "validate_payments"
	CapModerateMessages Capability = "moderate_messages"
)

// StaffRoles are the roles allowed into back-office operations.
var StaffRoles = []model.Role{model.RoleAdmin, model.RoleEmployee}

// Authorize reports whether session may invoke an operation requiring one of roles.
// An empty role set marks a public operation.
func Authorize(session *Session, roles ...model.Role) bool {
	if len(roles) == 0 {
		return true
	}
	if session == nil {
		return false
	}
	for _, role := range roles {
		if session.Role == role {
			return true
		}
	}
	return false
}

// Can reports whether session holds capability. Admins hold every capability,
// employees hold what their permission flags grant, everyone else holds none.
func Can(session *Session, perms model.EmployeePermissions, capability Capability) bool {
	if session == nil {
		return false
	}
	switch session.Role {
	case model.RoleAdmin:
		return true
	case model.RoleEmployee:
		switch capability {
		case CapManageEvents:
			return perms.ManageEvents
		case CapValidatePayments:
			return perms.ValidatePayments
		case CapModerateMessages:
			return perms.ModerateMessages
		}
	}
	return false
}
