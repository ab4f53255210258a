package dto

import "time"

// CreateProjectRequest represents the request payload for creating a new project
type CreateProjectRequest struct {
	Name          string     `json:"name" binding:"required"`
	Description   string     `json:"description"`
	StartDate     *time.Time `json:"startDate" binding:"required,notfuture"`
	EndDate       *time.Time `json:"endDate" binding:"omitempty,after=StartDate"`
	ProjectTypeID *string    `json:"projectTypeId" binding:"omitempty,uuid"`
	StatusID      string     `json:"statusId" binding:"required,uuid"`
	TechnologyIDs []string   `json:"technologyIds" binding:"omitempty,dive,uuid"`
	UserIDs       []string   `json:"userIds" binding:"omitempty,dive,uuid"`
	CustomerID    string     `json:"customerId" binding:"required,uuid"`
}

// UpdateProjectRequest represents the request payload for updating an existing project
type UpdateProjectRequest struct {
	ID            string     `json:"id" binding:"required,uuid"`
	Name          *string    `json:"name" binding:"omitempty,min=1"`
	Description   *string    `json:"description"`
	StartDate     *time.Time `json:"startDate" binding:"omitempty,notfuture"`
	EndDate       *time.Time `json:"endDate" binding:"omitempty,after=StartDate"`
	ProjectTypeID *string    `json:"projectTypeId" binding:"omitempty,uuid"`
	StatusID      *string    `json:"statusId" binding:"omitempty,uuid"`
	TechnologyIDs []string   `json:"technologyIds" binding:"omitempty,dive,uuid"`
	UserIDs       []string   `json:"userIds" binding:"omitempty,dive,uuid"`
	CustomerID    *string    `json:"customerId" binding:"omitempty,uuid"`
}

// ProjectExportQuery filters the project report
type ProjectExportQuery struct {
	StartDate     *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate       *time.Time `form:"endDate" time_format:"2006-01-02"`
	ProjectTypeID string     `form:"projectTypeId" binding:"omitempty,uuid"`
	StatusID      string     `form:"statusId" binding:"omitempty,uuid"`
	TechnologyID  string     `form:"technologyId" binding:"omitempty,uuid"`
	CustomerID    string     `form:"customerId" binding:"omitempty,uuid"`
}
