package dto

// CreateRoleRequest is the payload for creating a role
type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permissionIds" binding:"omitempty,dive,uuid"`
}

type UpdateRoleRequest struct {
	ID            string   `json:"id" binding:"required,uuid"`
	Name          *string  `json:"name" binding:"omitempty,min=1"`
	Description   *string  `json:"description"`
	PermissionIDs []string `json:"permissionIds" binding:"omitempty,dive,uuid"`
}

// CreatePermissionRequest is the payload for creating a permission
type CreatePermissionRequest struct {
	Name    string `json:"name" binding:"required"`
	APIPath string `json:"apiPath" binding:"required,startswith=/"`
	Method  string `json:"method" binding:"required,oneof=GET POST PUT PATCH DELETE get post put patch delete"`
	Module  string `json:"module" binding:"required"`
}

type UpdatePermissionRequest struct {
	ID      string  `json:"id" binding:"required,uuid"`
	Name    *string `json:"name" binding:"omitempty,min=1"`
	APIPath *string `json:"apiPath" binding:"omitempty,startswith=/"`
	Method  *string `json:"method" binding:"omitempty,oneof=GET POST PUT PATCH DELETE get post put patch delete"`
	Module  *string `json:"module"`
}
