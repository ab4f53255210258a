package access

import (
	"context"

	"github.com/staffhub-api/common"
	"github.com/staffhub-api/models"
)

// ProjectResolver scopes project reads to the caller's role
type ProjectResolver struct {
	g *graph
}

// List returns the projects visible to actor
func (r *ProjectResolver) List(ctx context.Context, actor Actor) ([]models.Project, error) {
	return Match(actor.Role,
		func() ([]models.Project, error) {
			return internal(r.g.projects.FindAll(ctx))
		},
		func() ([]models.Project, error) {
			ids, err := r.g.managedProjectIDs(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			return r.byIDs(ctx, ids)
		},
		func() ([]models.Project, error) {
			return internal(r.g.projects.FindByMember(ctx, actor.ID))
		},
	)
}

// Get returns one project if it exists and actor may see it
func (r *ProjectResolver) Get(ctx context.Context, id string, actor Actor) (*models.Project, error) {
	project, err := r.g.projects.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Not found project")
	}

	return Match(actor.Role,
		func() (*models.Project, error) {
			return project, nil
		},
		func() (*models.Project, error) {
			ids, err := r.g.managedProjectIDs(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			if !contains(ids, id) {
				return nil, common.NotFoundInScope("not found project in department")
			}
			return project, nil
		},
		func() (*models.Project, error) {
			if !project.HasMember(actor.ID) {
				return nil, common.NotFoundInScope("Could not find project in your projects")
			}
			return project, nil
		},
	)
}

// ListByDepartment returns the projects of one department
func (r *ProjectResolver) ListByDepartment(ctx context.Context, departmentID string, actor Actor) ([]models.Project, error) {
	department, err := r.g.departments.FindByID(ctx, departmentID)
	if err != nil {
		return nil, lookupError(err, "Not found department")
	}

	return Match(actor.Role,
		func() ([]models.Project, error) {
			return r.byIDs(ctx, department.ProjectIDs)
		},
		func() ([]models.Project, error) {
			if !department.ManagedBy(actor.ID) {
				return nil, common.NotFoundInScope("department id is invalid")
			}
			return r.byIDs(ctx, department.ProjectIDs)
		},
		func() ([]models.Project, error) {
			self, err := r.g.self(ctx, actor)
			if err != nil {
				return nil, err
			}
			if !self.InDepartment(departmentID) {
				return nil, common.NotFoundInScope("Department is not available for user")
			}
			projects, err := r.byIDs(ctx, department.ProjectIDs)
			if err != nil {
				return nil, err
			}
			mine := make([]models.Project, 0, len(projects))
			for _, p := range projects {
				if p.HasMember(actor.ID) {
					mine = append(mine, p)
				}
			}
			return mine, nil
		},
	)
}

// ListByUser returns the projects a user is a member of
func (r *ProjectResolver) ListByUser(ctx context.Context, userID string, actor Actor) ([]models.Project, error) {
	target, err := r.g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "Not found user")
	}

	return Match(actor.Role,
		func() ([]models.Project, error) {
			return internal(r.g.projects.FindByMember(ctx, userID))
		},
		func() ([]models.Project, error) {
			managed, err := r.g.managedDepartmentIDs(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			if !intersects(target.DepartmentIDs, managed) {
				return nil, common.NotFoundInScope("This employee does not exist in your department")
			}
			scope, err := r.g.managedProjectIDs(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			projects, err := r.g.projects.FindByMember(ctx, userID)
			if err != nil {
				return nil, common.Internal(err)
			}
			visible := make([]models.Project, 0, len(projects))
			for _, p := range projects {
				if contains(scope, p.ID) {
					visible = append(visible, p)
				}
			}
			return visible, nil
		},
		func() ([]models.Project, error) {
			if userID != actor.ID {
				return nil, common.NotFoundInScope("You can only view your own projects")
			}
			return internal(r.g.projects.FindByMember(ctx, userID))
		},
	)
}

func (r *ProjectResolver) byIDs(ctx context.Context, ids []string) ([]models.Project, error) {
	if len(ids) == 0 {
		return []models.Project{}, nil
	}
	return internal(r.g.projects.FindByIDs(ctx, ids))
}
