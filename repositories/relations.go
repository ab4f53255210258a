package repositories

import (
	"context"

	"github.com/staffhub-api/models"
	"gorm.io/gorm"
)

// RelationRepository answers whether a record is still referenced elsewhere.
// Only live referencing rows count.
type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

func (r *RelationRepository) referenced(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := Conn(ctx, r.db).Model(model).Scopes(NotDeleted).Where(query, args...).Count(&count).Error
	return count > 0, err
}

// DepartmentReferenced checks users that belong to the department or manage it
func (r *RelationRepository) DepartmentReferenced(ctx context.Context, departmentID string) (bool, error) {
	linked, err := r.referenced(ctx, &models.User{}, arrayHas("department_ids"), departmentID)
	if err != nil || linked {
		return linked, err
	}
	return r.referenced(ctx, &models.Department{}, "id = ? AND manager_id IS NOT NULL", departmentID)
}

// ProjectReferenced checks departments containing the project
func (r *RelationRepository) ProjectReferenced(ctx context.Context, projectID string) (bool, error) {
	return r.referenced(ctx, &models.Department{}, arrayHas("project_ids"), projectID)
}

// RoleReferenced checks users holding the role
func (r *RelationRepository) RoleReferenced(ctx context.Context, roleID string) (bool, error) {
	return r.referenced(ctx, &models.User{}, "role_id = ?", roleID)
}

// PermissionReferenced checks roles granting the permission
func (r *RelationRepository) PermissionReferenced(ctx context.Context, permissionID string) (bool, error) {
	return r.referenced(ctx, &models.Role{}, arrayHas("permission_ids"), permissionID)
}

// TechnologyReferenced checks projects and users using the technology
func (r *RelationRepository) TechnologyReferenced(ctx context.Context, technologyID string) (bool, error) {
	linked, err := r.referenced(ctx, &models.Project{}, arrayHas("technology_ids"), technologyID)
	if err != nil || linked {
		return linked, err
	}
	return r.referenced(ctx, &models.User{}, arrayHas("technology_ids"), technologyID)
}

func (r *RelationRepository) StatusReferenced(ctx context.Context, statusID string) (bool, error) {
	return r.referenced(ctx, &models.Project{}, "status_id = ?", statusID)
}

func (r *RelationRepository) ProjectTypeReferenced(ctx context.Context, projectTypeID string) (bool, error) {
	return r.referenced(ctx, &models.Project{}, "project_type_id = ?", projectTypeID)
}

func (r *RelationRepository) CustomerReferenced(ctx context.Context, customerID string) (bool, error) {
	return r.referenced(ctx, &models.Project{}, "customer_id = ?", customerID)
}

// UserReferenced checks whether the user manages a department or is on a project
func (r *RelationRepository) UserReferenced(ctx context.Context, userID string) (bool, error) {
	linked, err := r.referenced(ctx, &models.Department{}, "manager_id = ?", userID)
	if err != nil || linked {
		return linked, err
	}
	return r.referenced(ctx, &models.Project{}, arrayHas("user_ids"), userID)
}
