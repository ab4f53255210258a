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

const errAddUsersBeforeDepartment = "You can only add users to this project after adding the project to the department"

// ProjectReferences are the catalogs a project points into
type ProjectReferences struct {
	Statuses     ReferenceChecker
	ProjectTypes ReferenceChecker
	Customers    ReferenceChecker
	Technologies ReferenceChecker
}

// ProjectService handles business logic for projects
type ProjectService struct {
	projects          projectStore
	departments       departmentStore
	users             userStore
	refs              ProjectReferences
	guard             RelationGuard
	tx                Transactor
	resolver          *access.ProjectResolver
	cancelledStatusID string
	log               *logrus.Logger
}

// NewProjectService creates a new project service instance
func NewProjectService(projects projectStore, departments departmentStore, users userStore, refs ProjectReferences,
	guard RelationGuard, tx Transactor, resolvers *access.Resolvers, cancelledStatusID string, log *logrus.Logger) *ProjectService {
	return &ProjectService{
		projects:          projects,
		departments:       departments,
		users:             users,
		refs:              refs,
		guard:             guard,
		tx:                tx,
		resolver:          resolvers.Projects,
		cancelledStatusID: cancelledStatusID,
		log:               log,
	}
}

// Create adds a project. Members can only be added once a department owns it.
func (s *ProjectService) Create(ctx context.Context, actor access.Actor, req dto.CreateProjectRequest) (*models.Project, error) {
	exists, err := s.projects.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, common.Internal(err)
	}
	if exists {
		return nil, common.Validation("Project already exists")
	}
	if len(req.UserIDs) > 0 {
		return nil, common.Validation(errAddUsersBeforeDepartment)
	}
	if s.cancelledStatusID != "" && req.StatusID == s.cancelledStatusID {
		return nil, common.Validation("Cannot create a project with 'Cancelled' status")
	}
	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		return nil, common.Validation("End date must be after start date")
	}

	technologyIDs := uniqueIDs(req.TechnologyIDs)
	if err := s.checkReferences(ctx, &req.StatusID, req.ProjectTypeID, &req.CustomerID, technologyIDs); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:          req.Name,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ProjectTypeID: req.ProjectTypeID,
		StatusID:      &req.StatusID,
		TechnologyIDs: pq.StringArray(technologyIDs),
		UserIDs:       pq.StringArray{},
		CustomerID:    &req.CustomerID,
	}
	project.StampCreate(actor.ID)

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, common.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"project_id": project.ID, "user_id": actor.ID}).Info("✅ Project created")
	return project, nil
}

// Update changes a project. New members must belong to a department that
// contains the project and must have at least one technology.
func (s *ProjectService) Update(ctx context.Context, actor access.Actor, req dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "Not found project")
	}

	if req.Name != nil && *req.Name != project.Name {
		exists, err := s.projects.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, common.Internal(err)
		}
		if exists {
			return nil, common.Validation("Project already exists")
		}
		project.Name = *req.Name
	}

	if req.UserIDs != nil {
		userIDs := uniqueIDs(req.UserIDs)
		if err := s.checkMembers(ctx, project.ID, userIDs); err != nil {
			return nil, err
		}
		project.UserIDs = pq.StringArray(userIDs)
	}

	var technologyIDs []string
	if req.TechnologyIDs != nil {
		technologyIDs = uniqueIDs(req.TechnologyIDs)
	}
	if err := s.checkReferences(ctx, req.StatusID, req.ProjectTypeID, req.CustomerID, technologyIDs); err != nil {
		return nil, err
	}

	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if project.StartDate != nil && project.EndDate != nil && !project.EndDate.After(*project.StartDate) {
		return nil, common.Validation("End date must be after start date")
	}
	if req.StatusID != nil {
		project.StatusID = req.StatusID
	}
	if req.ProjectTypeID != nil {
		project.ProjectTypeID = req.ProjectTypeID
	}
	if req.CustomerID != nil {
		project.CustomerID = req.CustomerID
	}
	if req.TechnologyIDs != nil {
		project.TechnologyIDs = pq.StringArray(technologyIDs)
	}

	project.StampUpdate(actor.ID)
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, common.Internal(err)
	}
	return project, nil
}

// Remove soft-deletes a project that no department references
func (s *ProjectService) Remove(ctx context.Context, actor access.Actor, id string) error {
	return guardedRemove(ctx, s.tx, id, actor.ID,
		s.guard.ProjectReferenced,
		"Can't remove project because it's linked to department",
		"Not found project",
		s.projects.MarkDeleted,
	)
}

func (s *ProjectService) List(ctx context.Context, actor access.Actor) ([]models.Project, error) {
	return s.resolver.List(ctx, actor)
}

func (s *ProjectService) Get(ctx context.Context, actor access.Actor, id string) (*models.Project, error) {
	return s.resolver.Get(ctx, id, actor)
}

func (s *ProjectService) ListByDepartment(ctx context.Context, actor access.Actor, departmentID string) ([]models.Project, error) {
	return s.resolver.ListByDepartment(ctx, departmentID, actor)
}

func (s *ProjectService) ListByUser(ctx context.Context, actor access.Actor, userID string) ([]models.Project, error) {
	return s.resolver.ListByUser(ctx, userID, actor)
}

// checkMembers enforces the department gate on project membership
func (s *ProjectService) checkMembers(ctx context.Context, projectID string, userIDs []string) error {
	departments, err := s.departments.FindByProject(ctx, projectID)
	if err != nil {
		return common.Internal(err)
	}
	if len(departments) == 0 {
		if len(userIDs) > 0 {
			return common.Validation(errAddUsersBeforeDepartment)
		}
		return nil
	}
	if len(userIDs) == 0 {
		return nil
	}

	departmentIDs := make([]string, 0, len(departments))
	for _, d := range departments {
		departmentIDs = append(departmentIDs, d.ID)
	}
	eligible, err := s.users.FindByDepartments(ctx, departmentIDs)
	if err != nil {
		return common.Internal(err)
	}
	byID := make(map[string]models.User, len(eligible))
	for _, u := range eligible {
		byID[u.ID] = u
	}

	for _, id := range userIDs {
		if _, ok := byID[id]; !ok {
			return common.Validation("User must belong to a department that contains the project")
		}
	}
	for _, id := range userIDs {
		if len(byID[id].TechnologyIDs) == 0 {
			return common.Validation("User must have a technology assigned")
		}
	}
	return nil
}

func (s *ProjectService) checkReferences(ctx context.Context, statusID, projectTypeID, customerID *string, technologyIDs []string) error {
	if err := ensureExists(ctx, s.refs.Statuses, statusID, "Status does not exist"); err != nil {
		return err
	}
	if err := ensureExists(ctx, s.refs.ProjectTypes, projectTypeID, "Project type does not exist"); err != nil {
		return err
	}
	if err := ensureExists(ctx, s.refs.Customers, customerID, "Customer does not exist"); err != nil {
		return err
	}
	return ensureExist(ctx, s.refs.Technologies, technologyIDs, "One or more technologies does not exist")
}
