package repositories

import (
	"context"
	"time"

	"github.com/staffhub-api/models"
	"gorm.io/gorm"
)

// ProjectFilter narrows a project query. Empty fields are ignored.
type ProjectFilter struct {
	IDs           []string
	RestrictToIDs bool
	StartFrom     *time.Time
	EndBefore     *time.Time
	ProjectTypeID string
	StatusID      string
	TechnologyID  string
	CustomerID    string
}

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	*Repository[models.Project]
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{Repository: NewRepository[models.Project](db)}
}

// FindByMember retrieves the projects a user is a member of
func (r *ProjectRepository) FindByMember(ctx context.Context, userID string) ([]models.Project, error) {
	return r.FindMany(ctx, arrayHas("user_ids"), userID)
}

func (r *ProjectRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsWithField(ctx, "name", name)
}

// FindFiltered retrieves projects for reporting
func (r *ProjectRepository) FindFiltered(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	var projects []models.Project
	db := r.live(ctx)

	if filter.RestrictToIDs {
		if len(filter.IDs) == 0 {
			return []models.Project{}, nil
		}
		db = db.Where("id IN ?", filter.IDs)
	}
	if filter.StartFrom != nil {
		db = db.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.EndBefore != nil {
		db = db.Where("end_date <= ?", *filter.EndBefore)
	}
	if filter.ProjectTypeID != "" {
		db = db.Where("project_type_id = ?", filter.ProjectTypeID)
	}
	if filter.StatusID != "" {
		db = db.Where("status_id = ?", filter.StatusID)
	}
	if filter.CustomerID != "" {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.TechnologyID != "" {
		db = db.Where(arrayHas("technology_ids"), filter.TechnologyID)
	}

	err := db.Order("created_at DESC").Find(&projects).Error
	return projects, err
}
