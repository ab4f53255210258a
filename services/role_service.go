package services

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/models"
)

// RoleService manages roles and their permission sets
type RoleService struct {
	roles       roleStore
	permissions permissionStore
	guard       RelationGuard
	tx          Transactor
	log         *logrus.Logger
}

func NewRoleService(roles roleStore, permissions permissionStore, guard RelationGuard, tx Transactor, log *logrus.Logger) *RoleService {
	return &RoleService{roles: roles, permissions: permissions, guard: guard, tx: tx, log: log}
}

func (s *RoleService) Create(ctx context.Context, actor access.Actor, req dto.CreateRoleRequest) (*models.Role, error) {
	exists, err := s.roles.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, common.Internal(err)
	}
	if exists {
		return nil, common.Validation("Role already exists")
	}
	permissionIDs := uniqueIDs(req.PermissionIDs)
	if err := ensureExist(ctx, s.permissions, permissionIDs, "One or more permissions does not exist"); err != nil {
		return nil, err
	}

	role := &models.Role{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: pq.StringArray(permissionIDs),
	}
	role.StampCreate(actor.ID)
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, common.Internal(err)
	}
	return role, s.populate(ctx, role)
}

// List returns every role with its permissions expanded
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roles.FindAll(ctx)
	if err != nil {
		return nil, common.Internal(err)
	}

	var ids []string
	for _, r := range roles {
		ids = append(ids, r.PermissionIDs...)
	}
	permissions, err := s.permissions.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, common.Internal(err)
	}
	byID := make(map[string]models.Permission, len(permissions))
	for _, p := range permissions {
		byID[p.ID] = p
	}
	for i := range roles {
		roles[i].Permissions = make([]models.Permission, 0, len(roles[i].PermissionIDs))
		for _, id := range roles[i].PermissionIDs {
			if p, ok := byID[id]; ok {
				roles[i].Permissions = append(roles[i].Permissions, p)
			}
		}
	}
	return roles, nil
}

func (s *RoleService) Get(ctx context.Context, id string) (*models.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Not found role")
	}
	return role, s.populate(ctx, role)
}

func (s *RoleService) Update(ctx context.Context, actor access.Actor, req dto.UpdateRoleRequest) (*models.Role, error) {
	role, err := s.roles.FindByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "Not found role")
	}

	if req.Name != nil && *req.Name != role.Name {
		// Built-in role names are fixed
		if _, err := access.ParseRole(role.Name); err == nil {
			return nil, common.Validation("Built-in role %s cannot be renamed", role.Name)
		}
		exists, err := s.roles.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, common.Internal(err)
		}
		if exists {
			return nil, common.Validation("Role already exists")
		}
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.PermissionIDs != nil {
		permissionIDs := uniqueIDs(req.PermissionIDs)
		if err := ensureExist(ctx, s.permissions, permissionIDs, "One or more permissions does not exist"); err != nil {
			return nil, err
		}
		role.PermissionIDs = pq.StringArray(permissionIDs)
	}

	role.StampUpdate(actor.ID)
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, common.Internal(err)
	}
	return role, s.populate(ctx, role)
}

// Remove soft-deletes a role no user holds
func (s *RoleService) Remove(ctx context.Context, actor access.Actor, id string) error {
	return guardedRemove(ctx, s.tx, id, actor.ID,
		s.guard.RoleReferenced,
		"Can't remove role because it's linked to user",
		"Not found role",
		s.roles.MarkDeleted,
	)
}

func (s *RoleService) populate(ctx context.Context, role *models.Role) error {
	permissions, err := s.permissions.FindByIDs(ctx, role.PermissionIDs)
	if err != nil {
		return common.Internal(err)
	}
	role.Permissions = permissions
	return nil
}

// PermissionService manages the (method, route) grants checked by the auth gate
type PermissionService struct {
	permissions permissionStore
	guard       RelationGuard
	tx          Transactor
	log         *logrus.Logger
}

func NewPermissionService(permissions permissionStore, guard RelationGuard, tx Transactor, log *logrus.Logger) *PermissionService {
	return &PermissionService{permissions: permissions, guard: guard, tx: tx, log: log}
}

// Create stores a permission. Paths are lowercased and methods uppercased to
// match how the gate compares them.
func (s *PermissionService) Create(ctx context.Context, actor access.Actor, req dto.CreatePermissionRequest) (*models.Permission, error) {
	permission := &models.Permission{
		Name:    req.Name,
		APIPath: strings.ToLower(req.APIPath),
		Method:  strings.ToUpper(req.Method),
		Module:  strings.ToUpper(req.Module),
	}
	if err := s.ensureRouteFree(ctx, permission.APIPath, permission.Method); err != nil {
		return nil, err
	}
	permission.StampCreate(actor.ID)
	if err := s.permissions.Create(ctx, permission); err != nil {
		return nil, common.Internal(err)
	}
	return permission, nil
}

func (s *PermissionService) List(ctx context.Context) ([]models.Permission, error) {
	permissions, err := s.permissions.FindAll(ctx)
	if err != nil {
		return nil, common.Internal(err)
	}
	return permissions, nil
}

func (s *PermissionService) Get(ctx context.Context, id string) (*models.Permission, error) {
	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Not found permission")
	}
	return permission, nil
}

func (s *PermissionService) Update(ctx context.Context, actor access.Actor, req dto.UpdatePermissionRequest) (*models.Permission, error) {
	permission, err := s.permissions.FindByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "Not found permission")
	}

	apiPath, method := permission.APIPath, permission.Method
	if req.APIPath != nil {
		apiPath = strings.ToLower(*req.APIPath)
	}
	if req.Method != nil {
		method = strings.ToUpper(*req.Method)
	}
	if apiPath != permission.APIPath || method != permission.Method {
		if err := s.ensureRouteFree(ctx, apiPath, method); err != nil {
			return nil, err
		}
	}
	permission.APIPath, permission.Method = apiPath, method
	if req.Name != nil {
		permission.Name = *req.Name
	}
	if req.Module != nil {
		permission.Module = strings.ToUpper(*req.Module)
	}

	permission.StampUpdate(actor.ID)
	if err := s.permissions.Update(ctx, permission); err != nil {
		return nil, common.Internal(err)
	}
	return permission, nil
}

// Remove soft-deletes a permission no role grants
func (s *PermissionService) Remove(ctx context.Context, actor access.Actor, id string) error {
	return guardedRemove(ctx, s.tx, id, actor.ID,
		s.guard.PermissionReferenced,
		"Can't remove permission because it's linked to role",
		"Not found permission",
		s.permissions.MarkDeleted,
	)
}

func (s *PermissionService) ensureRouteFree(ctx context.Context, apiPath, method string) error {
	exists, err := s.permissions.ExistsByRoute(ctx, apiPath, method)
	if err != nil {
		return common.Internal(err)
	}
	if exists {
		return common.Validation("permission apiPath=%s method=%s already exists", apiPath, method)
	}
	return nil
}
