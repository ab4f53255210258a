package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/report"
	"github.com/staffhub-api/repositories"
)

// ExportCatalogs supplies display names for exported ids
type ExportCatalogs struct {
	Technologies catalogStore[models.Technology]
	Statuses     catalogStore[models.Status]
	ProjectTypes catalogStore[models.ProjectType]
	Customers    catalogStore[models.Customer]
}

// ExportService builds the user and project reports, scoped by role
type ExportService struct {
	users       userStore
	projects    projectStore
	departments departmentStore
	roles       roleStore
	catalogs    ExportCatalogs
}

func NewExportService(users userStore, projects projectStore, departments departmentStore, roles roleStore, catalogs ExportCatalogs) *ExportService {
	return &ExportService{
		users:       users,
		projects:    projects,
		departments: departments,
		roles:       roles,
		catalogs:    catalogs,
	}
}

// Users exports the users matching q. Managers must narrow the export to one
// of their departments or projects.
func (s *ExportService) Users(ctx context.Context, actor access.Actor, q dto.UserExportQuery) (*report.Sheet, error) {
	filter, err := access.Match(actor.Role,
		func() (repositories.UserFilter, error) {
			return s.adminUserFilter(ctx, q)
		},
		func() (repositories.UserFilter, error) {
			return s.managerUserFilter(ctx, actor, q)
		},
		func() (repositories.UserFilter, error) {
			return repositories.UserFilter{}, common.Forbidden("Forbidden resource")
		},
	)
	if err != nil {
		return nil, err
	}

	users, err := s.users.FindFiltered(ctx, filter)
	if err != nil {
		return nil, common.Internal(err)
	}
	return s.userSheet(ctx, users)
}

// Projects exports the projects matching q. Managers only see their own projects.
func (s *ExportService) Projects(ctx context.Context, actor access.Actor, q dto.ProjectExportQuery) (*report.Sheet, error) {
	if err := s.checkProjectFilters(ctx, q); err != nil {
		return nil, err
	}
	filter := repositories.ProjectFilter{
		StartFrom:     q.StartDate,
		EndBefore:     q.EndDate,
		ProjectTypeID: q.ProjectTypeID,
		StatusID:      q.StatusID,
		TechnologyID:  q.TechnologyID,
		CustomerID:    q.CustomerID,
	}

	filter, err := access.Match(actor.Role,
		func() (repositories.ProjectFilter, error) {
			return filter, nil
		},
		func() (repositories.ProjectFilter, error) {
			ids, err := s.managedProjectIDs(ctx, actor.ID)
			if err != nil {
				return filter, err
			}
			filter.IDs = ids
			filter.RestrictToIDs = true
			return filter, nil
		},
		func() (repositories.ProjectFilter, error) {
			return filter, common.Forbidden("Forbidden resource")
		},
	)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.FindFiltered(ctx, filter)
	if err != nil {
		return nil, common.Internal(err)
	}
	return s.projectSheet(ctx, projects)
}

func (s *ExportService) adminUserFilter(ctx context.Context, q dto.UserExportQuery) (repositories.UserFilter, error) {
	filter := repositories.UserFilter{Name: q.Name, TechnologyID: q.TechnologyID}

	var department *models.Department
	if q.DepartmentID != "" {
		d, err := s.departments.FindByID(ctx, q.DepartmentID)
		if err != nil {
			return filter, storeError(err, "Department not found")
		}
		department = d
		filter.DepartmentIDs = []string{d.ID}
	}
	if q.ProjectID != "" {
		members, err := s.projectMembers(ctx, q.ProjectID, department)
		if err != nil {
			return filter, err
		}
		filter.IDs = members
		filter.RestrictToIDs = true
	}
	return filter, nil
}

func (s *ExportService) managerUserFilter(ctx context.Context, actor access.Actor, q dto.UserExportQuery) (repositories.UserFilter, error) {
	filter := repositories.UserFilter{Name: q.Name, TechnologyID: q.TechnologyID}
	if q.DepartmentID == "" && q.ProjectID == "" {
		return filter, common.Validation("departmentId or projectId is required")
	}

	var department *models.Department
	if q.DepartmentID != "" {
		d, err := s.departments.FindByID(ctx, q.DepartmentID)
		if err != nil {
			return filter, storeError(err, "Department not found")
		}
		if !d.ManagedBy(actor.ID) {
			return filter, common.NotFoundInScope("Department are not available for this user")
		}
		department = d
		filter.DepartmentIDs = []string{d.ID}
	}
	if q.ProjectID != "" {
		scope, err := s.managedProjectIDs(ctx, actor.ID)
		if err != nil {
			return filter, err
		}
		if !containsID(scope, q.ProjectID) {
			return filter, common.NotFoundInScope("Project is not available for this user")
		}
		members, err := s.projectMembers(ctx, q.ProjectID, department)
		if err != nil {
			return filter, err
		}
		filter.IDs = members
		filter.RestrictToIDs = true
	}
	return filter, nil
}

// projectMembers returns the project's members, requiring the project to
// belong to department when one is given
func (s *ExportService) projectMembers(ctx context.Context, projectID string, department *models.Department) ([]string, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, storeError(err, "Not found project")
	}
	if department != nil && !department.HasProject(project.ID) {
		return nil, common.Validation("Project does not belong to the specified department")
	}
	if len(project.UserIDs) == 0 {
		return nil, common.Validation("No users found for this project")
	}
	return project.UserIDs, nil
}

func (s *ExportService) managedProjectIDs(ctx context.Context, managerID string) ([]string, error) {
	departments, err := s.departments.FindByManager(ctx, managerID)
	if err != nil {
		return nil, common.Internal(err)
	}
	var ids []string
	for _, d := range departments {
		ids = append(ids, d.ProjectIDs...)
	}
	return uniqueIDs(ids), nil
}

func (s *ExportService) checkProjectFilters(ctx context.Context, q dto.ProjectExportQuery) error {
	checks := []struct {
		id    string
		store ReferenceChecker
		miss  string
	}{
		{q.ProjectTypeID, s.catalogs.ProjectTypes, "type not found"},
		{q.StatusID, s.catalogs.Statuses, "status not found"},
		{q.TechnologyID, s.catalogs.Technologies, "technology not found"},
		{q.CustomerID, s.catalogs.Customers, "customer not found"},
	}
	for _, c := range checks {
		if c.id == "" {
			continue
		}
		if err := ensureExist(ctx, c.store, []string{c.id}, c.miss); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) userSheet(ctx context.Context, users []models.User) (*report.Sheet, error) {
	var departmentIDs, technologyIDs []string
	for _, u := range users {
		departmentIDs = append(departmentIDs, u.DepartmentIDs...)
		technologyIDs = append(technologyIDs, u.TechnologyIDs...)
	}
	departments, err := s.departments.FindByIDs(ctx, uniqueIDs(departmentIDs))
	if err != nil {
		return nil, common.Internal(err)
	}
	departmentNames := make(map[string]string, len(departments))
	for _, d := range departments {
		departmentNames[d.ID] = d.Name
	}
	technologyNames, err := namesOf(ctx, s.catalogs.Technologies, technologyIDs)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.FindAll(ctx)
	if err != nil {
		return nil, common.Internal(err)
	}
	roleNames := make(map[string]string, len(roles))
	for _, r := range roles {
		roleNames[r.ID] = r.Name
	}

	sheet := &report.Sheet{
		Name: "users",
		Columns: []report.Column{
			{Header: "Name", Width: 28},
			{Header: "Email", Width: 32},
			{Header: "Phone", Width: 16},
			{Header: "Date of birth", Width: 14},
			{Header: "Role", Width: 12},
			{Header: "Departments", Width: 32},
			{Header: "Technologies", Width: 32},
			{Header: "Languages", Width: 20},
			{Header: "Years of experience", Width: 12},
		},
	}
	for _, u := range users {
		sheet.AddRow(
			u.Name,
			u.Email,
			u.Phone,
			formatDate(u.DateOfBirth),
			roleNames[u.RoleID],
			joinNames(u.DepartmentIDs, departmentNames),
			joinNames(u.TechnologyIDs, technologyNames),
			strings.Join(u.Languages, ", "),
			u.YearExp,
		)
	}
	return sheet, nil
}

func (s *ExportService) projectSheet(ctx context.Context, projects []models.Project) (*report.Sheet, error) {
	var technologyIDs, userIDs, statusIDs, typeIDs, customerIDs []string
	for _, p := range projects {
		technologyIDs = append(technologyIDs, p.TechnologyIDs...)
		userIDs = append(userIDs, p.UserIDs...)
		statusIDs = appendRef(statusIDs, p.StatusID)
		typeIDs = appendRef(typeIDs, p.ProjectTypeID)
		customerIDs = appendRef(customerIDs, p.CustomerID)
	}

	technologyNames, err := namesOf(ctx, s.catalogs.Technologies, technologyIDs)
	if err != nil {
		return nil, err
	}
	statusNames, err := namesOf(ctx, s.catalogs.Statuses, statusIDs)
	if err != nil {
		return nil, err
	}
	typeNames, err := namesOf(ctx, s.catalogs.ProjectTypes, typeIDs)
	if err != nil {
		return nil, err
	}
	customerNames, err := namesOf(ctx, s.catalogs.Customers, customerIDs)
	if err != nil {
		return nil, err
	}
	members, err := s.users.FindByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, common.Internal(err)
	}
	memberNames := make(map[string]string, len(members))
	for _, u := range members {
		memberNames[u.ID] = u.Name
	}

	sheet := &report.Sheet{
		Name: "projects",
		Columns: []report.Column{
			{Header: "Name", Width: 28},
			{Header: "Description", Width: 40},
			{Header: "Start date", Width: 14},
			{Header: "End date", Width: 14},
			{Header: "Type", Width: 16},
			{Header: "Status", Width: 14},
			{Header: "Customer", Width: 24},
			{Header: "Technologies", Width: 32},
			{Header: "Members", Width: 40},
		},
	}
	for _, p := range projects {
		sheet.AddRow(
			p.Name,
			p.Description,
			formatDate(p.StartDate),
			formatDate(p.EndDate),
			nameOfRef(p.ProjectTypeID, typeNames),
			nameOfRef(p.StatusID, statusNames),
			nameOfRef(p.CustomerID, customerNames),
			joinNames(p.TechnologyIDs, technologyNames),
			joinNames(p.UserIDs, memberNames),
		)
	}
	return sheet, nil
}

type named interface {
	GetID() string
	GetName() string
}

// namesOf maps ids to display names through a catalog
func namesOf[T any](ctx context.Context, store catalogStore[T], ids []string) (map[string]string, error) {
	names := make(map[string]string)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, common.Internal(err)
	}
	for i := range rows {
		n, ok := any(&rows[i]).(named)
		if !ok {
			return nil, common.Internal(errors.New("catalog row has no name"))
		}
		names[n.GetID()] = n.GetName()
	}
	return names, nil
}

func joinNames(ids []string, names map[string]string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := names[id]; ok {
			out = append(out, n)
		}
	}
	return strings.Join(out, ", ")
}

func nameOfRef(id *string, names map[string]string) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func appendRef(ids []string, id *string) []string {
	if id == nil || *id == "" {
		return ids
	}
	return append(ids, *id)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
