package models

import (
	"time"

	"github.com/lib/pq"
)

// Department groups users under a single manager and owns a set of projects
type Department struct {
	Base
	Name         string         `json:"name" gorm:"uniqueIndex:idx_departments_live_name,where:is_deleted = false;not null"`
	Description  string         `json:"description"`
	FoundingDate *time.Time     `json:"foundingDate,omitempty"`
	ManagerID    *string        `json:"managerId,omitempty" gorm:"type:uuid;index"`
	ProjectIDs   pq.StringArray `json:"projectIds" gorm:"type:text[]"`
}

// HasProject reports whether the department contains the project
func (d *Department) HasProject(projectID string) bool {
	for _, id := range d.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// ManagedBy reports whether userID is the department's manager
func (d *Department) ManagedBy(userID string) bool {
	return d.ManagerID != nil && *d.ManagerID == userID
}
