package access

import (
	"context"

	"github.com/staffhub-api/common"
	"github.com/staffhub-api/models"
)

// DepartmentResolver scopes department reads to the caller's role
type DepartmentResolver struct {
	g *graph
}

// List returns the departments visible to actor
func (r *DepartmentResolver) List(ctx context.Context, actor Actor) ([]models.Department, error) {
	return Match(actor.Role,
		func() ([]models.Department, error) {
			return internal(r.g.departments.FindAll(ctx))
		},
		func() ([]models.Department, error) {
			return r.g.managedDepartments(ctx, actor.ID)
		},
		func() ([]models.Department, error) {
			self, err := r.g.self(ctx, actor)
			if err != nil {
				return nil, err
			}
			if len(self.DepartmentIDs) == 0 {
				return []models.Department{}, nil
			}
			return internal(r.g.departments.FindByIDs(ctx, self.DepartmentIDs))
		},
	)
}

// Get returns one department if it exists and actor may see it
func (r *DepartmentResolver) Get(ctx context.Context, id string, actor Actor) (*models.Department, error) {
	department, err := r.g.departments.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Not found department")
	}

	return Match(actor.Role,
		func() (*models.Department, error) {
			return department, nil
		},
		func() (*models.Department, error) {
			managed, err := r.g.managedDepartmentIDs(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			if !contains(managed, id) {
				return nil, common.NotFoundInScope("Department is not managed by you")
			}
			return department, nil
		},
		func() (*models.Department, error) {
			self, err := r.g.self(ctx, actor)
			if err != nil {
				return nil, err
			}
			if !self.InDepartment(id) {
				return nil, common.NotFoundInScope("User not found in department")
			}
			return department, nil
		},
	)
}
