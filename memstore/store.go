package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/staffhub-api/common"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/repositories"
)

// Store bundles one table per model plus relationship guards
type Store struct {
	Departments  *Departments
	Projects     *Projects
	Users        *Users
	Roles        *Roles
	Permissions  *Permissions
	Technologies *Catalog[models.Technology, *models.Technology]
	Statuses     *Catalog[models.Status, *models.Status]
	ProjectTypes *Catalog[models.ProjectType, *models.ProjectType]
	Customers    *Catalog[models.Customer, *models.Customer]

	seq atomic.Int64
}

// New creates an empty store. Generated ids are "id-1", "id-2", ...
func New() *Store {
	s := &Store{}
	next := func() string { return fmt.Sprintf("id-%d", s.seq.Add(1)) }
	s.Departments = &Departments{Table: newTable[models.Department](next)}
	s.Projects = &Projects{Table: newTable[models.Project](next)}
	s.Users = &Users{Table: newTable[models.User](next)}
	s.Roles = &Roles{Table: newTable[models.Role](next)}
	s.Permissions = &Permissions{Table: newTable[models.Permission](next)}
	s.Technologies = &Catalog[models.Technology, *models.Technology]{Table: newTable[models.Technology](next), name: func(t *models.Technology) string { return t.Name }}
	s.Statuses = &Catalog[models.Status, *models.Status]{Table: newTable[models.Status](next), name: func(t *models.Status) string { return t.Name }}
	s.ProjectTypes = &Catalog[models.ProjectType, *models.ProjectType]{Table: newTable[models.ProjectType](next), name: func(t *models.ProjectType) string { return t.Name }}
	s.Customers = &Catalog[models.Customer, *models.Customer]{Table: newTable[models.Customer](next), name: func(t *models.Customer) string { return t.Name }}
	return s
}

// WithinTransaction runs fn directly; the store has no rollback
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func has(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func overlaps(a, b []string) bool {
	for _, v := range a {
		if has(b, v) {
			return true
		}
	}
	return false
}

// Departments is the in-memory department store
type Departments struct {
	*Table[models.Department, *models.Department]
}

func (d *Departments) FindByManager(ctx context.Context, managerID string) ([]models.Department, error) {
	return d.Where(func(row *models.Department) bool { return row.ManagedBy(managerID) }), nil
}

func (d *Departments) CountByManager(ctx context.Context, managerID string) (int64, error) {
	rows, _ := d.FindByManager(ctx, managerID)
	return int64(len(rows)), nil
}

func (d *Departments) FindByProject(ctx context.Context, projectID string) ([]models.Department, error) {
	return d.Where(func(row *models.Department) bool { return row.HasProject(projectID) }), nil
}

func (d *Departments) ExistsByName(ctx context.Context, name string) (bool, error) {
	return len(d.Where(func(row *models.Department) bool { return row.Name == name })) > 0, nil
}

// Projects is the in-memory project store
type Projects struct {
	*Table[models.Project, *models.Project]
}

func (p *Projects) FindByMember(ctx context.Context, userID string) ([]models.Project, error) {
	return p.Where(func(row *models.Project) bool { return row.HasMember(userID) }), nil
}

func (p *Projects) ExistsByName(ctx context.Context, name string) (bool, error) {
	return len(p.Where(func(row *models.Project) bool { return row.Name == name })) > 0, nil
}

func (p *Projects) FindFiltered(ctx context.Context, f repositories.ProjectFilter) ([]models.Project, error) {
	return p.Where(func(row *models.Project) bool {
		switch {
		case f.RestrictToIDs && !has(f.IDs, row.ID):
			return false
		case f.StartFrom != nil && (row.StartDate == nil || row.StartDate.Before(*f.StartFrom)):
			return false
		case f.EndBefore != nil && (row.EndDate == nil || row.EndDate.After(*f.EndBefore)):
			return false
		case f.ProjectTypeID != "" && (row.ProjectTypeID == nil || *row.ProjectTypeID != f.ProjectTypeID):
			return false
		case f.StatusID != "" && (row.StatusID == nil || *row.StatusID != f.StatusID):
			return false
		case f.CustomerID != "" && (row.CustomerID == nil || *row.CustomerID != f.CustomerID):
			return false
		case f.TechnologyID != "" && !has(row.TechnologyIDs, f.TechnologyID):
			return false
		}
		return true
	}), nil
}

// Users is the in-memory user store
type Users struct {
	*Table[models.User, *models.User]
}

func (u *Users) FindByDepartments(ctx context.Context, departmentIDs []string) ([]models.User, error) {
	return u.Where(func(row *models.User) bool { return overlaps(row.DepartmentIDs, departmentIDs) }), nil
}

func (u *Users) FindByRole(ctx context.Context, roleID string) ([]models.User, error) {
	return u.Where(func(row *models.User) bool { return row.RoleID == roleID }), nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.first(func(row *models.User) bool { return row.Email == email })
}

func (u *Users) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return u.first(func(row *models.User) bool { return token != "" && row.RefreshToken == token })
}

func (u *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := u.FindByEmail(ctx, email)
	return err == nil, nil
}

func (u *Users) SetRefreshToken(ctx context.Context, userID, token string) error {
	return u.mutate(userID, func(row *models.User) { row.RefreshToken = token })
}

func (u *Users) SetPassword(ctx context.Context, userID, hash string) error {
	return u.mutate(userID, func(row *models.User) { row.Password = hash })
}

func (u *Users) FindFiltered(ctx context.Context, f repositories.UserFilter) ([]models.User, error) {
	return u.Where(func(row *models.User) bool {
		switch {
		case f.RestrictToIDs && !has(f.IDs, row.ID):
			return false
		case len(f.DepartmentIDs) > 0 && !overlaps(row.DepartmentIDs, f.DepartmentIDs):
			return false
		case f.Name != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(f.Name)):
			return false
		case f.TechnologyID != "" && !has(row.TechnologyIDs, f.TechnologyID):
			return false
		}
		return true
	}), nil
}

func (u *Users) first(pred func(*models.User) bool) (*models.User, error) {
	rows := u.Where(pred)
	if len(rows) == 0 {
		return nil, common.ErrRecordNotFound
	}
	return &rows[0], nil
}

// Roles is the in-memory role store
type Roles struct {
	*Table[models.Role, *models.Role]
}

func (r *Roles) FindByName(ctx context.Context, name string) (*models.Role, error) {
	rows := r.Where(func(row *models.Role) bool { return row.Name == name })
	if len(rows) == 0 {
		return nil, common.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Roles) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := r.FindByName(ctx, name)
	return err == nil, nil
}

// Permissions is the in-memory permission store
type Permissions struct {
	*Table[models.Permission, *models.Permission]
}

func (p *Permissions) ExistsByRoute(ctx context.Context, apiPath, method string) (bool, error) {
	rows := p.Where(func(row *models.Permission) bool { return row.APIPath == apiPath && row.Method == method })
	return len(rows) > 0, nil
}

// Catalog is the in-memory store for name+description records
type Catalog[T any, P record[T]] struct {
	*Table[T, P]
	name func(*T) string
}

func (c *Catalog[T, P]) ExistsByName(ctx context.Context, name string) (bool, error) {
	return len(c.Where(func(row *T) bool { return c.name(row) == name })) > 0, nil
}

// Relationship guards, mirroring repositories.RelationRepository

func (s *Store) DepartmentReferenced(ctx context.Context, id string) (bool, error) {
	if len(s.Users.Where(func(u *models.User) bool { return u.InDepartment(id) })) > 0 {
		return true, nil
	}
	d, err := s.Departments.FindByID(ctx, id)
	if err != nil {
		return false, nil
	}
	return d.ManagerID != nil && *d.ManagerID != "", nil
}

func (s *Store) ProjectReferenced(ctx context.Context, id string) (bool, error) {
	return len(s.Departments.Where(func(d *models.Department) bool { return d.HasProject(id) })) > 0, nil
}

func (s *Store) RoleReferenced(ctx context.Context, id string) (bool, error) {
	return len(s.Users.Where(func(u *models.User) bool { return u.RoleID == id })) > 0, nil
}

func (s *Store) PermissionReferenced(ctx context.Context, id string) (bool, error) {
	return len(s.Roles.Where(func(r *models.Role) bool { return has(r.PermissionIDs, id) })) > 0, nil
}

func (s *Store) TechnologyReferenced(ctx context.Context, id string) (bool, error) {
	if len(s.Projects.Where(func(p *models.Project) bool { return has(p.TechnologyIDs, id) })) > 0 {
		return true, nil
	}
	return len(s.Users.Where(func(u *models.User) bool { return has(u.TechnologyIDs, id) })) > 0, nil
}

func (s *Store) StatusReferenced(ctx context.Context, id string) (bool, error) {
	return s.projectRefersTo(func(p *models.Project) *string { return p.StatusID }, id), nil
}

func (s *Store) ProjectTypeReferenced(ctx context.Context, id string) (bool, error) {
	return s.projectRefersTo(func(p *models.Project) *string { return p.ProjectTypeID }, id), nil
}

func (s *Store) CustomerReferenced(ctx context.Context, id string) (bool, error) {
	return s.projectRefersTo(func(p *models.Project) *string { return p.CustomerID }, id), nil
}

func (s *Store) UserReferenced(ctx context.Context, id string) (bool, error) {
	if len(s.Departments.Where(func(d *models.Department) bool { return d.ManagedBy(id) })) > 0 {
		return true, nil
	}
	return len(s.Projects.Where(func(p *models.Project) bool { return p.HasMember(id) })) > 0, nil
}

func (s *Store) projectRefersTo(field func(*models.Project) *string, id string) bool {
	return len(s.Projects.Where(func(p *models.Project) bool {
		ref := field(p)
		return ref != nil && *ref == id
	})) > 0
}

// Stamp returns a time pointer, handy for fixtures
func Stamp(t time.Time) *time.Time {
	return &t
}

// Ref returns a string pointer, handy for fixtures
func Ref(s string) *string {
	return &s
}
