package dto

import (
	"time"

	"github.com/staffhub-api/models"
)

// RegisterUserRequest is the payload for creating a user account
type RegisterUserRequest struct {
	Name          string               `json:"name" binding:"required,personname"`
	Email         string               `json:"email" binding:"required,email"`
	DateOfBirth   *time.Time           `json:"dateOfBirth" binding:"required,notfuture,minage=15"`
	CCCD          string               `json:"cccd" binding:"omitempty,cccd"`
	Phone         string               `json:"phone" binding:"omitempty,phone"`
	TechnologyIDs []string             `json:"technologyIds" binding:"omitempty,dive,uuid"`
	RoleID        string               `json:"roleId" binding:"required,uuid"`
	YearExp       int                  `json:"yearExp" binding:"gte=0"`
	Languages     []string             `json:"languages"`
	Certificates  []models.Certificate `json:"certificates" binding:"omitempty,dive"`
	DepartmentIDs []string             `json:"departmentIds" binding:"required,min=1,dive,uuid"`
}

// UpdateUserRequest changes the provided fields of a user
type UpdateUserRequest struct {
	ID            string                `json:"id" binding:"required,uuid"`
	Name          *string               `json:"name" binding:"omitempty,personname"`
	Email         *string               `json:"email" binding:"omitempty,email"`
	DateOfBirth   *time.Time            `json:"dateOfBirth" binding:"omitempty,notfuture,minage=15"`
	CCCD          *string               `json:"cccd" binding:"omitempty,cccd"`
	Phone         *string               `json:"phone" binding:"omitempty,phone"`
	TechnologyIDs []string              `json:"technologyIds" binding:"omitempty,dive,uuid"`
	RoleID        *string               `json:"roleId" binding:"omitempty,uuid"`
	YearExp       *int                  `json:"yearExp" binding:"omitempty,gte=0"`
	Languages     []string              `json:"languages"`
	Certificates  *[]models.Certificate `json:"certificates" binding:"omitempty,dive"`
	DepartmentIDs []string              `json:"departmentIds" binding:"omitempty,dive,uuid"`
}

// RegistrationTokenRequest references a pending registration request
type RegistrationTokenRequest struct {
	Token string `json:"token" form:"token" binding:"required"`
}

// UserExportQuery filters the user report
type UserExportQuery struct {
	DepartmentID string `form:"departmentId" binding:"omitempty,uuid"`
	ProjectID    string `form:"projectId" binding:"omitempty,uuid"`
	Name         string `form:"name"`
	TechnologyID string `form:"technologyId" binding:"omitempty,uuid"`
}
