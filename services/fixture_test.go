package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/config"
	"github.com/staffhub-api/logger"
	"github.com/staffhub-api/mailer"
	"github.com/staffhub-api/memstore"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/utils"
	"github.com/stretchr/testify/require"
)

const (
	cancelledStatusID = "status-cancelled"
	openStatusID      = "status-open"
	customerID        = "customer-1"
	technologyID      = "tech-go"
	projectTypeID     = "type-web"

	adminRoleID    = "role-admin"
	managerRoleID  = "role-manager"
	employeeRoleID = "role-employee"

	testPassword = "s3cret-pass"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) last() mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return mailer.Message{}
	}
	return f.sent[len(f.sent)-1]
}

// testEnv wires every service against one in-memory store
type testEnv struct {
	store  *memstore.Store
	cfg    *config.Config
	mail   *fakeMailer
	tokens *TokenService
	clock  time.Time

	auth        *AuthService
	users       *UserService
	departments *DepartmentService
	projects    *ProjectService
	roles       *RoleService
	permissions *PermissionService
	customers   *CatalogService[models.Customer, *models.Customer]
	statuses    *CatalogService[models.Status, *models.Status]
	exports     *ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := memstore.New()
	log := logger.Discard()
	cfg := &config.Config{
		JWTAccessSecret:       "access-secret",
		JWTAccessTTL:          time.Hour,
		JWTRefreshSecret:      "refresh-secret",
		JWTRefreshTTL:         24 * time.Hour,
		JWTForgotSecret:       "forgot-secret",
		JWTForgotTTL:          15 * time.Minute,
		JWTRegistrationSecret: "registration-secret",
		JWTRegistrationTTL:    time.Hour,
		FrontendURL:           "http://app.test/",
		AdminContact:          "admin@staffhub.test",
		CancelledStatusID:     cancelledStatusID,
	}

	env := &testEnv{store: s, cfg: cfg, mail: &fakeMailer{}, clock: time.Now()}
	env.tokens = &TokenService{now: func() time.Time { return env.clock }}

	seedReference(s)

	resolvers := access.NewResolvers(s.Departments, s.Projects, s.Users)
	env.auth = NewAuthService(cfg, s.Users, s.Roles, s.Permissions, env.tokens, env.mail, log)
	env.users = NewUserService(cfg, s.Users, s.Roles, s.Departments, s.Technologies, s, s, env.tokens, env.mail, resolvers, log)
	env.departments = NewDepartmentService(s.Departments, s.Projects, s.Users, s.Roles, s, s, resolvers, log)
	env.projects = NewProjectService(s.Projects, s.Departments, s.Users, ProjectReferences{
		Statuses:     s.Statuses,
		ProjectTypes: s.ProjectTypes,
		Customers:    s.Customers,
		Technologies: s.Technologies,
	}, s, s, resolvers, cancelledStatusID, log)
	env.roles = NewRoleService(s.Roles, s.Permissions, s, s, log)
	env.permissions = NewPermissionService(s.Permissions, s, s, log)
	env.customers = NewCustomerService(s.Customers, s, s, log)
	env.statuses = NewStatusService(s.Statuses, s, s, log)
	env.exports = NewExportService(s.Users, s.Projects, s.Departments, s.Roles, ExportCatalogs{
		Technologies: s.Technologies,
		Statuses:     s.Statuses,
		ProjectTypes: s.ProjectTypes,
		Customers:    s.Customers,
	})
	return env
}

func seedReference(s *memstore.Store) {
	perm := func(id, method, path string) models.Permission {
		p := models.Permission{Name: method + " " + path, Method: method, APIPath: path, Module: "USERS"}
		p.ID = id
		return p
	}
	s.Permissions.Put(
		perm("perm-list-users", "GET", "/api/v1/users"),
		perm("perm-get-user", "GET", "/api/v1/users/:id"),
	)

	role := func(id, name string, permissions ...string) models.Role {
		r := models.Role{Name: name, PermissionIDs: pq.StringArray(permissions)}
		r.ID = id
		return r
	}
	s.Roles.Put(
		role(adminRoleID, access.AdminRoleName, "perm-list-users", "perm-get-user"),
		role(managerRoleID, access.ManagerRoleName, "perm-list-users"),
		role(employeeRoleID, access.EmployeeRoleName),
	)

	status := func(id, name string) models.Status {
		st := models.Status{Name: name}
		st.ID = id
		return st
	}
	s.Statuses.Put(status(cancelledStatusID, "Cancelled"), status(openStatusID, "In Progress"))

	customer := models.Customer{Name: "Acme"}
	customer.ID = customerID
	s.Customers.Put(customer)

	tech := models.Technology{Name: "Go"}
	tech.ID = technologyID
	s.Technologies.Put(tech)

	pt := models.ProjectType{Name: "Web"}
	pt.ID = projectTypeID
	s.ProjectTypes.Put(pt)
}

// addUser stores a user with a hashed testPassword
func (e *testEnv) addUser(t *testing.T, id, roleID string, departments ...string) access.Actor {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	u := models.User{
		Name:          "User " + id,
		Email:         id + "@staffhub.test",
		Password:      hash,
		RoleID:        roleID,
		DepartmentIDs: pq.StringArray(departments),
	}
	u.ID = id
	e.store.Users.Put(u)

	actor, err := e.auth.ResolveActor(context.Background(), id)
	require.NoError(t, err)
	return actor
}

func (e *testEnv) addDepartment(id, managerID string, projects ...string) {
	d := models.Department{Name: "Department " + id, ProjectIDs: pq.StringArray(projects)}
	d.ID = id
	if managerID != "" {
		d.ManagerID = memstore.Ref(managerID)
	}
	e.store.Departments.Put(d)
}

func (e *testEnv) addProject(id string, members ...string) {
	p := models.Project{
		Name:       "Project " + id,
		StatusID:   memstore.Ref(openStatusID),
		CustomerID: memstore.Ref(customerID),
		UserIDs:    pq.StringArray(members),
	}
	p.ID = id
	e.store.Projects.Put(p)
}

func (e *testEnv) setTechnologies(t *testing.T, userID string, ids ...string) {
	t.Helper()
	u, err := e.store.Users.FindByID(context.Background(), userID)
	require.NoError(t, err)
	u.TechnologyIDs = pq.StringArray(ids)
	require.NoError(t, e.store.Users.Update(context.Background(), u))
}
