// Package permission maps roles to privilege levels and actions to the
// minimum role allowed to perform them.
package permission

import "strings"

// Role is the privilege class of a registered user.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Action names a guarded operation.
type Action string

const (
	ViewTasks      Action = "viewTasks"
	MarkTaskDone   Action = "markTaskDone"
	CreateTask     Action = "createTask"
	UpdateTask     Action = "updateTask"
	DeleteTask     Action = "deleteTask"
	ViewTaskStatus Action = "viewTaskStatus"
	ViewUsers      Action = "viewUsers"
	CreateUser     Action = "createUser"
	UpdateUserRole Action = "updateUserRole"
	DeleteUser     Action = "deleteUser"
)

var ranks = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

var required = map[Action]Role{
	ViewTasks:    RoleUser,
	MarkTaskDone: RoleUser,

	CreateTask:     RoleAdmin,
	UpdateTask:     RoleAdmin,
	DeleteTask:     RoleAdmin,
	ViewTaskStatus: RoleAdmin,

	ViewUsers:      RoleSuperAdmin,
	CreateUser:     RoleSuperAdmin,
	UpdateUserRole: RoleSuperAdmin,
	DeleteUser:     RoleSuperAdmin,
}

// Rank returns the ordinal privilege level of r, or 0 for an unknown role.
func (r Role) Rank() int {
	return ranks[r]
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	_, ok := ranks[r]
	return ok
}

// AtLeast reports whether r ranks at or above other.
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && r.Rank() >= other.Rank()
}

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// HasPermission reports whether role may perform action. Unknown actions and
// unknown roles are always denied.
func HasPermission(role Role, action Action) bool {
	minRole, ok := required[action]
	if !ok {
		return false
	}
	return role.AtLeast(minRole)
}

// Actions lists every guarded action.
func Actions() []Action {
	out := make([]Action, 0, len(required))
	for a := range required {
		out = append(out, a)
	}
	return out
}
