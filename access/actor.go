package access

import (
	"strings"

	"github.com/staffhub-api/models"
)

// AuthRoutePrefix is always reachable by an authenticated caller
const AuthRoutePrefix = "/api/v1/auth"

// Actor is the caller identity resolved by the auth gate for one request
type Actor struct {
	ID          string
	Name        string
	Email       string
	RoleID      string
	Role        Role
	Permissions []models.Permission
}

// Allowed reports whether the actor may call method on the route pattern path
func (a Actor) Allowed(method, path string) bool {
	return Allowed(a.Permissions, method, path)
}

// Allowed scans permissions for an exact (method, path) match. Paths under the
// auth module are always allowed.
func Allowed(permissions []models.Permission, method, path string) bool {
	if strings.HasPrefix(path, AuthRoutePrefix) {
		return true
	}
	method = strings.ToUpper(method)
	path = strings.ToLower(path)
	for _, p := range permissions {
		if p.Method == method && p.APIPath == path {
			return true
		}
	}
	return false
}
