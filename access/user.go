package access

import (
	"context"

	"github.com/staffhub-api/common"
	"github.com/staffhub-api/models"
)

// UserResolver scopes user reads to the caller's role
type UserResolver struct {
	g *graph
}

// List returns the users visible to actor. Employees see their team-mates.
func (r *UserResolver) List(ctx context.Context, actor Actor) ([]models.User, error) {
	return Match(actor.Role,
		func() ([]models.User, error) {
			return internal(r.g.users.FindAll(ctx))
		},
		func() ([]models.User, error) {
			managed, err := r.g.managedDepartmentIDs(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			return r.inDepartments(ctx, managed)
		},
		func() ([]models.User, error) {
			self, err := r.g.self(ctx, actor)
			if err != nil {
				return nil, err
			}
			users, err := r.inDepartments(ctx, self.DepartmentIDs)
			if err != nil {
				return nil, err
			}
			mates := make([]models.User, 0, len(users))
			for _, u := range users {
				if u.ID != actor.ID {
					mates = append(mates, u)
				}
			}
			return mates, nil
		},
	)
}

// Get returns one user if it exists and actor may see it
func (r *UserResolver) Get(ctx context.Context, id string, actor Actor) (*models.User, error) {
	target, err := r.g.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Not found user")
	}

	return Match(actor.Role,
		func() (*models.User, error) {
			return target, nil
		},
		func() (*models.User, error) {
			managed, err := r.g.managedDepartmentIDs(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			if !intersects(target.DepartmentIDs, managed) {
				return nil, common.NotFoundInScope("User is not available for this manager department")
			}
			return target, nil
		},
		func() (*models.User, error) {
			if id == actor.ID {
				return target, nil
			}
			self, err := r.g.self(ctx, actor)
			if err != nil {
				return nil, err
			}
			if !intersects(target.DepartmentIDs, self.DepartmentIDs) {
				return nil, common.NotFoundInScope("User is not in your department")
			}
			return target, nil
		},
	)
}

// ListByDepartment returns the members of one department
func (r *UserResolver) ListByDepartment(ctx context.Context, departmentID string, actor Actor) ([]models.User, error) {
	department, err := r.g.departments.FindByID(ctx, departmentID)
	if err != nil {
		return nil, lookupError(err, "Not found department")
	}

	return Match(actor.Role,
		func() ([]models.User, error) {
			return r.inDepartments(ctx, []string{department.ID})
		},
		func() ([]models.User, error) {
			if !department.ManagedBy(actor.ID) {
				return nil, common.NotFoundInScope("Department are not available for this user")
			}
			return r.inDepartments(ctx, []string{department.ID})
		},
		func() ([]models.User, error) {
			self, err := r.g.self(ctx, actor)
			if err != nil {
				return nil, err
			}
			if !self.InDepartment(departmentID) {
				return nil, common.NotFoundInScope("Department is not available for user")
			}
			return r.inDepartments(ctx, []string{department.ID})
		},
	)
}

// ListByProject returns the members of one project
func (r *UserResolver) ListByProject(ctx context.Context, projectID string, actor Actor) ([]models.User, error) {
	project, err := r.g.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Not found project")
	}

	return Match(actor.Role,
		func() ([]models.User, error) {
			return r.byIDs(ctx, project.UserIDs)
		},
		func() ([]models.User, error) {
			scope, err := r.g.managedProjectIDs(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			if !contains(scope, projectID) {
				return nil, common.NotFoundInScope("Project are not available for this user")
			}
			return r.byIDs(ctx, project.UserIDs)
		},
		func() ([]models.User, error) {
			if !project.HasMember(actor.ID) {
				return nil, common.NotFoundInScope("Project is not available for this user")
			}
			return r.byIDs(ctx, project.UserIDs)
		},
	)
}

func (r *UserResolver) inDepartments(ctx context.Context, departmentIDs []string) ([]models.User, error) {
	if len(departmentIDs) == 0 {
		return []models.User{}, nil
	}
	return internal(r.g.users.FindByDepartments(ctx, departmentIDs))
}

func (r *UserResolver) byIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return internal(r.g.users.FindByIDs(ctx, ids))
}
