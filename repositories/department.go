package repositories

import (
	"context"

	"github.com/staffhub-api/models"
	"gorm.io/gorm"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	*Repository[models.Department]
}

// NewDepartmentRepository creates a new department repository instance
func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{Repository: NewRepository[models.Department](db)}
}

// FindByManager retrieves the departments managed by a user
func (r *DepartmentRepository) FindByManager(ctx context.Context, managerID string) ([]models.Department, error) {
	return r.FindMany(ctx, "manager_id = ?", managerID)
}

// CountByManager counts the departments managed by a user
func (r *DepartmentRepository) CountByManager(ctx context.Context, managerID string) (int64, error) {
	return r.Count(ctx, "manager_id = ?", managerID)
}

// FindByProject retrieves the departments that contain a project
func (r *DepartmentRepository) FindByProject(ctx context.Context, projectID string) ([]models.Department, error) {
	return r.FindMany(ctx, arrayHas("project_ids"), projectID)
}

func (r *DepartmentRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsWithField(ctx, "name", name)
}
