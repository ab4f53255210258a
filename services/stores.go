package services

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/repositories"
)

// The store interfaces below are the slices of the repositories each service
// needs. repositories.* and memstore.* both satisfy them.

type departmentStore interface {
	access.DepartmentLookup
	Create(ctx context.Context, d *models.Department) error
	Update(ctx context.Context, d *models.Department) error
	MarkDeleted(ctx context.Context, id, actorID string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	CountByManager(ctx context.Context, managerID string) (int64, error)
	FindByProject(ctx context.Context, projectID string) ([]models.Department, error)
	ExistAll(ctx context.Context, ids []string) (bool, error)
}

type projectStore interface {
	access.ProjectMembership
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	MarkDeleted(ctx context.Context, id, actorID string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistAll(ctx context.Context, ids []string) (bool, error)
	FindFiltered(ctx context.Context, filter repositories.ProjectFilter) ([]models.Project, error)
}

type userStore interface {
	access.UserLookup
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	MarkDeleted(ctx context.Context, id, actorID string) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)
	FindByRole(ctx context.Context, roleID string) ([]models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetRefreshToken(ctx context.Context, userID, token string) error
	SetPassword(ctx context.Context, userID, hash string) error
	FindFiltered(ctx context.Context, filter repositories.UserFilter) ([]models.User, error)
}

type roleStore interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
	FindAll(ctx context.Context) ([]models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, r *models.Role) error
	Update(ctx context.Context, r *models.Role) error
	MarkDeleted(ctx context.Context, id, actorID string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type permissionStore interface {
	FindByID(ctx context.Context, id string) (*models.Permission, error)
	FindAll(ctx context.Context) ([]models.Permission, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Permission, error)
	Create(ctx context.Context, p *models.Permission) error
	Update(ctx context.Context, p *models.Permission) error
	MarkDeleted(ctx context.Context, id, actorID string) error
	ExistAll(ctx context.Context, ids []string) (bool, error)
	ExistsByRoute(ctx context.Context, apiPath, method string) (bool, error)
}

// catalogStore serves the name+description entities
type catalogStore[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	FindByIDs(ctx context.Context, ids []string) ([]T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	MarkDeleted(ctx context.Context, id, actorID string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistAll(ctx context.Context, ids []string) (bool, error)
}

// ReferenceChecker reports whether every id exists
type ReferenceChecker interface {
	ExistAll(ctx context.Context, ids []string) (bool, error)
}

// RelationGuard answers whether a record is still referenced elsewhere
type RelationGuard interface {
	DepartmentReferenced(ctx context.Context, id string) (bool, error)
	ProjectReferenced(ctx context.Context, id string) (bool, error)
	RoleReferenced(ctx context.Context, id string) (bool, error)
	PermissionReferenced(ctx context.Context, id string) (bool, error)
	TechnologyReferenced(ctx context.Context, id string) (bool, error)
	StatusReferenced(ctx context.Context, id string) (bool, error)
	ProjectTypeReferenced(ctx context.Context, id string) (bool, error)
	CustomerReferenced(ctx context.Context, id string) (bool, error)
	UserReferenced(ctx context.Context, id string) (bool, error)
}

// Transactor runs fn inside one database transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// guardedRemove checks references, then soft-deletes, in one transaction.
// A second remove of the same id fails with NotFound.
func guardedRemove(ctx context.Context, tx Transactor, id, actorID string,
	referenced func(ctx context.Context, id string) (bool, error),
	conflict, notFound string,
	markDeleted func(ctx context.Context, id, actorID string) error,
) error {
	return tx.WithinTransaction(ctx, func(ctx context.Context) error {
		linked, err := referenced(ctx, id)
		if err != nil {
			return common.Internal(err)
		}
		if linked {
			return common.Conflict(conflict)
		}
		if err := markDeleted(ctx, id, actorID); err != nil {
			return storeError(err, notFound)
		}
		return nil
	})
}

// storeError maps a store miss to NotFound and passes typed errors through
func storeError(err error, notFound string) error {
	if errors.Is(err, common.ErrRecordNotFound) {
		return common.NotFound(notFound)
	}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return common.Internal(err)
}

// ensureExist fails with a validation error when any id is unknown
func ensureExist(ctx context.Context, store ReferenceChecker, ids []string, message string) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := store.ExistAll(ctx, ids)
	if err != nil {
		return common.Internal(err)
	}
	if !ok {
		return common.Validation("%s", message)
	}
	return nil
}

func ensureExists(ctx context.Context, store ReferenceChecker, id *string, message string) error {
	if id == nil || *id == "" {
		return nil
	}
	return ensureExist(ctx, store, []string{*id}, message)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// roleOf parses the role a user currently holds
func roleOf(ctx context.Context, roles roleStore, user *models.User) (access.Role, error) {
	role, err := roles.FindByID(ctx, user.RoleID)
	if err != nil {
		if errors.Is(err, common.ErrRecordNotFound) {
			return 0, common.InvalidRole(user.RoleID)
		}
		return 0, common.Internal(err)
	}
	return access.ParseRole(role.Name)
}

// addDepartment appends departmentID to the user's departments if missing
func addDepartment(ctx context.Context, users userStore, userID, departmentID, actorID string) error {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return storeError(err, "Not found user")
	}
	if user.InDepartment(departmentID) {
		return nil
	}
	user.DepartmentIDs = append(user.DepartmentIDs, departmentID)
	user.StampUpdate(actorID)
	if err := users.Update(ctx, user); err != nil {
		return common.Internal(err)
	}
	return nil
}

// dropDepartment removes departmentID from the user's departments
func dropDepartment(ctx context.Context, users userStore, userID, departmentID, actorID string) error {
	user, err := users.FindByID(ctx, userID)
	if errors.Is(err, common.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return common.Internal(err)
	}
	if !user.InDepartment(departmentID) {
		return nil
	}
	kept := make(pq.StringArray, 0, len(user.DepartmentIDs))
	for _, id := range user.DepartmentIDs {
		if id != departmentID {
			kept = append(kept, id)
		}
	}
	user.DepartmentIDs = kept
	user.StampUpdate(actorID)
	if err := users.Update(ctx, user); err != nil {
		return common.Internal(err)
	}
	return nil
}
