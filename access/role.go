package access

import (
	"github.com/staffhub-api/common"
)

// Role is the closed set of roles the system recognizes
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleManager
	RoleEmployee
)

// Role names as stored on Role records
const (
	AdminRoleName    = "Admin"
	ManagerRoleName  = "Manager"
	EmployeeRoleName = "Employee"
)

// ParseRole maps a stored role name to a Role
func ParseRole(name string) (Role, error) {
	switch name {
	case AdminRoleName:
		return RoleAdmin, nil
	case ManagerRoleName:
		return RoleManager, nil
	case EmployeeRoleName:
		return RoleEmployee, nil
	}
	return 0, common.InvalidRole(name)
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return AdminRoleName
	case RoleManager:
		return ManagerRoleName
	case RoleEmployee:
		return EmployeeRoleName
	}
	return "unknown"
}

// Match runs the branch for role. Every role must be handled; a zero or
// out-of-range Role yields InvalidRole.
func Match[T any](role Role, admin, manager, employee func() (T, error)) (T, error) {
	switch role {
	case RoleAdmin:
		return admin()
	case RoleManager:
		return manager()
	case RoleEmployee:
		return employee()
	}
	var zero T
	return zero, common.InvalidRole(role.String())
}
