package access

import (
	"context"
	"errors"

	"github.com/staffhub-api/common"
	"github.com/staffhub-api/models"
)

// graph walks the department/project/user relationships that scope visibility
type graph struct {
	departments DepartmentLookup
	projects    ProjectMembership
	users       UserLookup
}

// Resolvers groups the role-scoped resolvers sharing one set of lookups
type Resolvers struct {
	Departments *DepartmentResolver
	Projects    *ProjectResolver
	Users       *UserResolver
}

// NewResolvers wires the resolvers against the given lookups
func NewResolvers(departments DepartmentLookup, projects ProjectMembership, users UserLookup) *Resolvers {
	g := &graph{departments: departments, projects: projects, users: users}
	return &Resolvers{
		Departments: &DepartmentResolver{g: g},
		Projects:    &ProjectResolver{g: g},
		Users:       &UserResolver{g: g},
	}
}

func (g *graph) managedDepartments(ctx context.Context, managerID string) ([]models.Department, error) {
	departments, err := g.departments.FindByManager(ctx, managerID)
	if err != nil {
		return nil, common.Internal(err)
	}
	return departments, nil
}

func (g *graph) managedDepartmentIDs(ctx context.Context, managerID string) ([]string, error) {
	departments, err := g.managedDepartments(ctx, managerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(departments))
	for _, d := range departments {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// managedProjectIDs unions the project ids of every department the manager runs
func (g *graph) managedProjectIDs(ctx context.Context, managerID string) ([]string, error) {
	departments, err := g.managedDepartments(ctx, managerID)
	if err != nil {
		return nil, err
	}
	var ids []string
	seen := make(map[string]struct{})
	for _, d := range departments {
		for _, id := range d.ProjectIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// self loads the actor's own user record
func (g *graph) self(ctx context.Context, actor Actor) (*models.User, error) {
	user, err := g.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, lookupError(err, "Not found user")
	}
	return user, nil
}

// lookupError turns a store miss into NotFound and anything else into Internal
func lookupError(err error, notFound string) error {
	if errors.Is(err, common.ErrRecordNotFound) {
		return common.NotFound(notFound)
	}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return common.Internal(err)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}

func internal[T any](v T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, common.Internal(err)
	}
	return v, nil
}
