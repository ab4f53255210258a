package dto

import "time"

// CreateDepartmentRequest is the payload for creating a department
type CreateDepartmentRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	FoundingDate *time.Time `json:"foundingDate" binding:"omitempty,notfuture"`
	ManagerID    *string    `json:"managerId" binding:"omitempty,uuid"`
	ProjectIDs   []string   `json:"projectIds" binding:"omitempty,dive,uuid"`
}

// UpdateDepartmentRequest changes the provided fields of a department.
// RemoveManager clears the manager slot.
type UpdateDepartmentRequest struct {
	ID            string     `json:"id" binding:"required,uuid"`
	Name          *string    `json:"name" binding:"omitempty,min=1"`
	Description   *string    `json:"description"`
	FoundingDate  *time.Time `json:"foundingDate" binding:"omitempty,notfuture"`
	ManagerID     *string    `json:"managerId" binding:"omitempty,uuid"`
	RemoveManager bool       `json:"removeManager"`
	ProjectIDs    []string   `json:"projectIds" binding:"omitempty,dive,uuid"`
}
