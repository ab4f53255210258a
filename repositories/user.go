package repositories

import (
	"context"

	"github.com/staffhub-api/models"
	"gorm.io/gorm"
)

// UserFilter narrows a user query. Empty fields are ignored.
type UserFilter struct {
	IDs           []string
	RestrictToIDs bool
	DepartmentIDs []string
	Name          string
	TechnologyID  string
}

// UserRepository handles database operations for users
type UserRepository struct {
	*Repository[models.User]
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: NewRepository[models.User](db)}
}

// FindByEmail retrieves a live user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, "email = ?", email)
}

// FindByRefreshToken retrieves the user holding a refresh token
func (r *UserRepository) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return r.FindOne(ctx, "refresh_token = ?", token)
}

// FindByDepartments retrieves users belonging to any of the departments
func (r *UserRepository) FindByDepartments(ctx context.Context, departmentIDs []string) ([]models.User, error) {
	if len(departmentIDs) == 0 {
		return []models.User{}, nil
	}
	return r.FindMany(ctx, arrayOverlaps("department_ids"), textArray(departmentIDs))
}

// FindByRole retrieves users holding a role
func (r *UserRepository) FindByRole(ctx context.Context, roleID string) ([]models.User, error) {
	return r.FindMany(ctx, "role_id = ?", roleID)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.ExistsWithField(ctx, "email", email)
}

// SetRefreshToken stores or clears a user's refresh token
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	return r.UpdateByID(ctx, userID, map[string]interface{}{"refresh_token": token})
}

// SetPassword stores a new password hash
func (r *UserRepository) SetPassword(ctx context.Context, userID, hash string) error {
	return r.UpdateByID(ctx, userID, map[string]interface{}{"password": hash})
}

// FindFiltered retrieves users for reporting
func (r *UserRepository) FindFiltered(ctx context.Context, filter UserFilter) ([]models.User, error) {
	var users []models.User
	db := r.live(ctx)

	if filter.RestrictToIDs {
		if len(filter.IDs) == 0 {
			return []models.User{}, nil
		}
		db = db.Where("id IN ?", filter.IDs)
	}
	if len(filter.DepartmentIDs) > 0 {
		db = db.Where(arrayOverlaps("department_ids"), textArray(filter.DepartmentIDs))
	}
	if filter.Name != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.TechnologyID != "" {
		db = db.Where(arrayHas("technology_ids"), filter.TechnologyID)
	}

	err := db.Order("name ASC").Find(&users).Error
	return users, err
}
