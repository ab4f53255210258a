package repositories

import (
	"context"

	"github.com/staffhub-api/models"
	"gorm.io/gorm"
)

// RoleRepository handles database operations for roles
type RoleRepository struct {
	*Repository[models.Role]
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{Repository: NewRepository[models.Role](db)}
}

// FindByName retrieves a live role by name
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	return r.FindOne(ctx, "name = ?", name)
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsWithField(ctx, "name", name)
}

// PermissionRepository handles database operations for permissions
type PermissionRepository struct {
	*Repository[models.Permission]
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{Repository: NewRepository[models.Permission](db)}
}

// ExistsByRoute reports whether a permission already covers (apiPath, method)
func (r *PermissionRepository) ExistsByRoute(ctx context.Context, apiPath, method string) (bool, error) {
	count, err := r.Count(ctx, "api_path = ? AND method = ?", apiPath, method)
	return count > 0, err
}
