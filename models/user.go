package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Certificate is a professional certificate held by a user
type Certificate struct {
	Name string `json:"name" binding:"required"`
	Year int    `json:"year" binding:"required,gte=1900"`
	URL  string `json:"url" binding:"omitempty,url"`
}

// User represents an employee account
type User struct {
	Base
	Name          string                           `json:"name" gorm:"not null"`
	Email         string                           `json:"email" gorm:"uniqueIndex:idx_users_live_email,where:is_deleted = false;not null"`
	Password      string                           `json:"-" gorm:"not null"` // Password is not exposed in JSON
	DateOfBirth   *time.Time                       `json:"dateOfBirth,omitempty"`
	CCCD          string                           `json:"cccd" gorm:"column:cccd"`
	Phone         string                           `json:"phone"`
	TechnologyIDs pq.StringArray                   `json:"technologyIds" gorm:"type:text[]"`
	RoleID        string                           `json:"roleId" gorm:"type:uuid;index"`
	YearExp       int                              `json:"yearExp"`
	Languages     pq.StringArray                   `json:"languages" gorm:"type:text[]"`
	Certificates  datatypes.JSONSlice[Certificate] `json:"certificates" gorm:"type:jsonb"`
	DepartmentIDs pq.StringArray                   `json:"departmentIds" gorm:"type:text[]"`
	RefreshToken  string                           `json:"-"`
}

// InDepartment reports whether the user belongs to the given department
func (u *User) InDepartment(departmentID string) bool {
	for _, id := range u.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}
