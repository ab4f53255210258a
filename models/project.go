package models

import (
	"time"

	"github.com/lib/pq"
)

// Project is a unit of work assigned to departments and staffed by users
type Project struct {
	Base
	Name          string         `json:"name" gorm:"uniqueIndex:idx_projects_live_name,where:is_deleted = false;not null"`
	Description   string         `json:"description"`
	StartDate     *time.Time     `json:"startDate,omitempty"`
	EndDate       *time.Time     `json:"endDate,omitempty"`
	ProjectTypeID *string        `json:"projectTypeId,omitempty" gorm:"type:uuid;index"`
	StatusID      *string        `json:"statusId,omitempty" gorm:"type:uuid;index"`
	TechnologyIDs pq.StringArray `json:"technologyIds" gorm:"type:text[]"`
	UserIDs       pq.StringArray `json:"userIds" gorm:"type:text[]"`
	CustomerID    *string        `json:"customerId,omitempty" gorm:"type:uuid;index"`
}

// HasMember reports whether userID is on the project
func (p *Project) HasMember(userID string) bool {
	for _, id := range p.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
