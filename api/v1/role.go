package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/services"
)

// RoleController handles role and permission endpoints
type RoleController struct {
	roles       *services.RoleService
	permissions *services.PermissionService
	deletes     DeleteRecorder
	log         *logrus.Logger
}

func NewRoleController(roles *services.RoleService, permissions *services.PermissionService, deletes DeleteRecorder, log *logrus.Logger) *RoleController {
	if deletes == nil {
		deletes = noopRecorder{}
	}
	return &RoleController{roles: roles, permissions: permissions, deletes: deletes, log: log}
}

// RegisterRoutes registers role and permission routes
func (rc *RoleController) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/roles")
	{
		roles.POST("", rc.CreateRole)
		roles.GET("", rc.ListRoles)
		roles.GET("/:id", rc.GetRole)
		roles.PATCH("", rc.UpdateRole)
		roles.DELETE("/:id", rc.RemoveRole)
	}

	permissions := router.Group("/permissions")
	{
		permissions.POST("", rc.CreatePermission)
		permissions.GET("", rc.ListPermissions)
		permissions.GET("/:id", rc.GetPermission)
		permissions.PATCH("", rc.UpdatePermission)
		permissions.DELETE("/:id", rc.RemovePermission)
	}
}

func (rc *RoleController) CreateRole(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	var req dto.CreateRoleRequest
	if err := bind(c, &req); err != nil {
		respondError(c, rc.log, err)
		return
	}
	role, err := rc.roles.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Create role successfully", role)
}

func (rc *RoleController) ListRoles(c *gin.Context) {
	roles, err := rc.roles.List(c.Request.Context())
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondPage(c, rc.log, "Get roles successfully", roles)
}

func (rc *RoleController) GetRole(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	role, err := rc.roles.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Get role successfully", role)
}

func (rc *RoleController) UpdateRole(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	var req dto.UpdateRoleRequest
	if err := bind(c, &req); err != nil {
		respondError(c, rc.log, err)
		return
	}
	role, err := rc.roles.Update(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Update role successfully", role)
}

func (rc *RoleController) RemoveRole(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	err = rc.roles.Remove(c.Request.Context(), actor, id)
	rc.deletes.RecordDelete("role", err)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Remove role successfully", nil)
}

func (rc *RoleController) CreatePermission(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	var req dto.CreatePermissionRequest
	if err := bind(c, &req); err != nil {
		respondError(c, rc.log, err)
		return
	}
	permission, err := rc.permissions.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Create permission successfully", permission)
}

func (rc *RoleController) ListPermissions(c *gin.Context) {
	permissions, err := rc.permissions.List(c.Request.Context())
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondPage(c, rc.log, "Get permissions successfully", permissions)
}

func (rc *RoleController) GetPermission(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	permission, err := rc.permissions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Get permission successfully", permission)
}

func (rc *RoleController) UpdatePermission(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	var req dto.UpdatePermissionRequest
	if err := bind(c, &req); err != nil {
		respondError(c, rc.log, err)
		return
	}
	permission, err := rc.permissions.Update(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Update permission successfully", permission)
}

func (rc *RoleController) RemovePermission(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	err = rc.permissions.Remove(c.Request.Context(), actor, id)
	rc.deletes.RecordDelete("permission", err)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Remove permission successfully", nil)
}
