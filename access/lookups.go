package access

import (
	"context"

	"github.com/staffhub-api/models"
)

// DepartmentLookup is the read side of the department store used for scoping
type DepartmentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
	FindAll(ctx context.Context) ([]models.Department, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Department, error)
	FindByManager(ctx context.Context, managerID string) ([]models.Department, error)
}

// ProjectMembership is the read side of the project store used for scoping
type ProjectMembership interface {
	FindByID(ctx context.Context, id string) (*models.Project, error)
	FindAll(ctx context.Context) ([]models.Project, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Project, error)
	FindByMember(ctx context.Context, userID string) ([]models.Project, error)
}

// UserLookup is the read side of the user store used for scoping
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	FindByDepartments(ctx context.Context, departmentIDs []string) ([]models.User, error)
}
