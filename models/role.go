package models

import "github.com/lib/pq"

// Role is a named bundle of permissions
type Role struct {
	Base
	Name          string         `json:"name" gorm:"uniqueIndex:idx_roles_live_name,where:is_deleted = false;not null"`
	Description   string         `json:"description"`
	PermissionIDs pq.StringArray `json:"permissionIds" gorm:"type:text[]"`

	// Populated on read, not persisted
	Permissions []Permission `json:"permissions,omitempty" gorm:"-"`
}

// Permission grants access to one HTTP method on one route pattern
type Permission struct {
	Base
	Name    string `json:"name" gorm:"not null"`
	APIPath string `json:"apiPath" gorm:"column:api_path;not null;uniqueIndex:idx_permissions_live_route,where:is_deleted = false"`
	Method  string `json:"method" gorm:"not null;uniqueIndex:idx_permissions_live_route,where:is_deleted = false"`
	Module  string `json:"module"`
}
