package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions controls the bootstrap data
type SeedOptions struct {
	CancelledStatusID string
	AdminEmail        string
	AdminPassword     string
}

type routeGrant struct {
	module string
	method string
	path   string
	name   string
	roles  []string
}

const (
	admin    = access.AdminRoleName
	manager  = access.ManagerRoleName
	employee = access.EmployeeRoleName
)

var everyone = []string{admin, manager, employee}

// defaultGrants is the baseline permission table, one entry per protected route
var defaultGrants = []routeGrant{
	{"USERS", "POST", "/api/v1/users", "Register user", []string{admin}},
	{"USERS", "POST", "/api/v1/users/request-create", "Request user creation", []string{manager}},
	{"USERS", "GET", "/api/v1/users/request-create/preview", "Preview user creation request", []string{admin}},
	{"USERS", "POST", "/api/v1/users/request-create/accept", "Accept user creation request", []string{admin}},
	{"USERS", "POST", "/api/v1/users/request-create/reject", "Reject user creation request", []string{admin}},
	{"USERS", "GET", "/api/v1/users", "List users", everyone},
	{"USERS", "GET", "/api/v1/users/profile", "Get own profile", everyone},
	{"USERS", "GET", "/api/v1/users/export", "Export users", []string{admin, manager}},
	{"USERS", "GET", "/api/v1/users/:id", "Get user", everyone},
	{"USERS", "GET", "/api/v1/users/role/:roleid", "List users by role", []string{admin}},
	{"USERS", "GET", "/api/v1/users/department/:departmentid", "List users by department", everyone},
	{"USERS", "GET", "/api/v1/users/project/:projectid", "List users by project", everyone},
	{"USERS", "PATCH", "/api/v1/users", "Update user", []string{admin}},
	{"USERS", "DELETE", "/api/v1/users/:id", "Remove user", []string{admin}},

	{"DEPARTMENTS", "POST", "/api/v1/departments", "Create department", []string{admin}},
	{"DEPARTMENTS", "GET", "/api/v1/departments", "List departments", everyone},
	{"DEPARTMENTS", "GET", "/api/v1/departments/:id", "Get department", everyone},
	{"DEPARTMENTS", "PATCH", "/api/v1/departments", "Update department", []string{admin}},
	{"DEPARTMENTS", "DELETE", "/api/v1/departments/:id", "Remove department", []string{admin}},

	{"PROJECTS", "POST", "/api/v1/projects", "Create project", []string{admin, manager}},
	{"PROJECTS", "GET", "/api/v1/projects", "List projects", everyone},
	{"PROJECTS", "GET", "/api/v1/projects/export", "Export projects", []string{admin, manager}},
	{"PROJECTS", "GET", "/api/v1/projects/:id", "Get project", everyone},
	{"PROJECTS", "GET", "/api/v1/projects/department/:departmentid", "List projects by department", everyone},
	{"PROJECTS", "GET", "/api/v1/projects/user/:userid", "List projects by user", everyone},
	{"PROJECTS", "PATCH", "/api/v1/projects", "Update project", []string{admin, manager}},
	{"PROJECTS", "DELETE", "/api/v1/projects/:id", "Remove project", []string{admin}},
}

// catalogModules get the same five CRUD routes, readable by everyone
var catalogModules = []struct {
	module string
	path   string
	label  string
}{
	{"ROLES", "/api/v1/roles", "role"},
	{"PERMISSIONS", "/api/v1/permissions", "permission"},
	{"CUSTOMERS", "/api/v1/customers", "customer"},
	{"STATUSES", "/api/v1/statuses", "status"},
	{"TECHNOLOGIES", "/api/v1/technologies", "technology"},
	{"PROJECT_TYPES", "/api/v1/project-types", "project type"},
}

// grants expands the baseline permission table
func grants() []routeGrant {
	out := append([]routeGrant{}, defaultGrants...)
	for _, m := range catalogModules {
		out = append(out,
			routeGrant{m.module, "POST", m.path, "Create " + m.label, []string{admin}},
			routeGrant{m.module, "GET", m.path, "List " + m.label, everyone},
			routeGrant{m.module, "GET", m.path + "/:id", "Get " + m.label, everyone},
			routeGrant{m.module, "PATCH", m.path, "Update " + m.label, []string{admin}},
			routeGrant{m.module, "DELETE", m.path + "/:id", "Remove " + m.label, []string{admin}},
		)
	}
	return out
}

var defaultStatuses = []string{"Pending", "In Progress", "Completed", "On Hold"}

// Seed inserts roles, permissions, statuses and the bootstrap admin if missing.
// Running it twice is harmless.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions, log *logrus.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byRole := map[string][]string{}
		for _, g := range grants() {
			perm := models.Permission{
				Name:    g.name,
				APIPath: strings.ToLower(g.path),
				Method:  strings.ToUpper(g.method),
				Module:  g.module,
			}
			if err := tx.Where("api_path = ? AND method = ?", perm.APIPath, perm.Method).
				FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("seed permission %s %s: %w", g.method, g.path, err)
			}
			for _, r := range g.roles {
				byRole[r] = append(byRole[r], perm.ID)
			}
		}

		roleIDs := map[string]string{}
		for _, name := range []string{admin, manager, employee} {
			role := models.Role{Name: name, Description: name + " role"}
			if err := tx.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
			if len(role.PermissionIDs) == 0 {
				role.PermissionIDs = pq.StringArray(byRole[name])
				if err := tx.Save(&role).Error; err != nil {
					return fmt.Errorf("grant role %s: %w", name, err)
				}
			}
			roleIDs[name] = role.ID
		}

		cancelled := models.Status{Name: "Cancelled", Description: "Project was cancelled"}
		cancelled.ID = opts.CancelledStatusID
		if err := tx.Where("name = ?", cancelled.Name).FirstOrCreate(&cancelled).Error; err != nil {
			return fmt.Errorf("seed cancelled status: %w", err)
		}
		if cancelled.ID != opts.CancelledStatusID {
			log.WithField("id", cancelled.ID).Warn("⚠️ Cancelled status exists with an id different from CANCELLED_STATUS_ID")
		}
		for _, name := range defaultStatuses {
			status := models.Status{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&status).Error; err != nil {
				return fmt.Errorf("seed status %s: %w", name, err)
			}
		}

		if opts.AdminEmail == "" || opts.AdminPassword == "" {
			log.Warn("⚠️ SEED_ADMIN_PASSWORD not set, skipping bootstrap admin")
			return nil
		}
		var existing models.User
		err := tx.Where("email = ?", opts.AdminEmail).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		adminUser := models.User{
			Name:     "Administrator",
			Email:    opts.AdminEmail,
			Password: string(hash),
			RoleID:   roleIDs[admin],
		}
		if err := tx.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		log.WithField("email", opts.AdminEmail).Info("✅ Bootstrap admin created")
		return nil
	})
}
