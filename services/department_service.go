package services

import (
	"context"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/models"
)

// DepartmentService handles department business logic
type DepartmentService struct {
	departments departmentStore
	projects    projectStore
	users       userStore
	roles       roleStore
	guard       RelationGuard
	tx          Transactor
	resolver    *access.DepartmentResolver
	log         *logrus.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(departments departmentStore, projects projectStore, users userStore, roles roleStore,
	guard RelationGuard, tx Transactor, resolvers *access.Resolvers, log *logrus.Logger) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		projects:    projects,
		users:       users,
		roles:       roles,
		guard:       guard,
		tx:          tx,
		resolver:    resolvers.Departments,
		log:         log,
	}
}

// Create adds a department. A manager may run only one department.
func (s *DepartmentService) Create(ctx context.Context, actor access.Actor, req dto.CreateDepartmentRequest) (*models.Department, error) {
	exists, err := s.departments.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, common.Internal(err)
	}
	if exists {
		return nil, common.Validation("Department already exists")
	}

	if req.ManagerID != nil && *req.ManagerID != "" {
		if err := s.checkManager(ctx, *req.ManagerID, "Manager already exist in another department"); err != nil {
			return nil, err
		}
	}
	projectIDs := uniqueIDs(req.ProjectIDs)
	if err := ensureExist(ctx, s.projects, projectIDs, "One or more projects does not exist"); err != nil {
		return nil, err
	}

	department := &models.Department{
		Name:         req.Name,
		Description:  req.Description,
		FoundingDate: req.FoundingDate,
		ProjectIDs:   pq.StringArray(projectIDs),
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		department.ManagerID = req.ManagerID
	}
	department.StampCreate(actor.ID)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.departments.Create(ctx, department); err != nil {
			return common.Internal(err)
		}
		if department.ManagerID == nil {
			return nil
		}
		return addDepartment(ctx, s.users, *department.ManagerID, department.ID, actor.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"department_id": department.ID, "user_id": actor.ID}).Info("✅ Department created")
	return department, nil
}

// Update changes a department. Changing the manager re-checks the single-department rule.
func (s *DepartmentService) Update(ctx context.Context, actor access.Actor, req dto.UpdateDepartmentRequest) (*models.Department, error) {
	department, err := s.departments.FindByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "Not found department")
	}

	if req.Name != nil && *req.Name != department.Name {
		exists, err := s.departments.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, common.Internal(err)
		}
		if exists {
			return nil, common.Validation("Department already exists")
		}
		department.Name = *req.Name
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if req.FoundingDate != nil {
		department.FoundingDate = req.FoundingDate
	}

	previous := department.ManagerID
	switch {
	case req.RemoveManager:
		department.ManagerID = nil
	case req.ManagerID != nil && *req.ManagerID != "" && !department.ManagedBy(*req.ManagerID):
		if err := s.checkManager(ctx, *req.ManagerID, "Manager already exists in another department"); err != nil {
			return nil, err
		}
		managerID := *req.ManagerID
		department.ManagerID = &managerID
	}
	replaced := previous != nil && !department.ManagedBy(*previous)

	if req.ProjectIDs != nil {
		projectIDs := uniqueIDs(req.ProjectIDs)
		if err := ensureExist(ctx, s.projects, projectIDs, "One or more projects does not exist"); err != nil {
			return nil, err
		}
		department.ProjectIDs = pq.StringArray(projectIDs)
	}

	department.StampUpdate(actor.ID)
	// a replaced manager stops being a member
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.departments.Update(ctx, department); err != nil {
			return common.Internal(err)
		}
		if replaced {
			if err := dropDepartment(ctx, s.users, *previous, department.ID, actor.ID); err != nil {
				return err
			}
		}
		if department.ManagerID == nil {
			return nil
		}
		return addDepartment(ctx, s.users, *department.ManagerID, department.ID, actor.ID)
	})
	if err != nil {
		return nil, err
	}
	return department, nil
}

// Remove soft-deletes a department that no user references
func (s *DepartmentService) Remove(ctx context.Context, actor access.Actor, id string) error {
	return guardedRemove(ctx, s.tx, id, actor.ID,
		s.guard.DepartmentReferenced,
		"Can't remove department because it's linked to user",
		"Not found department",
		s.departments.MarkDeleted,
	)
}

func (s *DepartmentService) List(ctx context.Context, actor access.Actor) ([]models.Department, error) {
	return s.resolver.List(ctx, actor)
}

func (s *DepartmentService) Get(ctx context.Context, actor access.Actor, id string) (*models.Department, error) {
	return s.resolver.Get(ctx, id, actor)
}

// checkManager requires a Manager-role user who runs no other department
func (s *DepartmentService) checkManager(ctx context.Context, managerID, busy string) error {
	manager, err := s.users.FindByID(ctx, managerID)
	if err != nil {
		return storeError(err, "Not found manager")
	}
	role, err := roleOf(ctx, s.roles, manager)
	if err != nil && !common.HasCode(err, common.ErrCodeInvalidRole) {
		return err
	}
	if err != nil || role != access.RoleManager {
		return common.Validation("User is not a manager")
	}
	count, err := s.departments.CountByManager(ctx, managerID)
	if err != nil {
		return common.Internal(err)
	}
	if count > 0 {
		return common.Validation("%s", busy)
	}
	return nil
}
