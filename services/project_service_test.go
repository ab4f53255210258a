package services

import (
	"context"
	"testing"
	"time"

	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectRequest(name string) dto.CreateProjectRequest {
	start := time.Now().AddDate(0, -1, 0)
	return dto.CreateProjectRequest{
		Name:          name,
		StartDate:     &start,
		StatusID:      openStatusID,
		CustomerID:    customerID,
		ProjectTypeID: memstore.Ref(projectTypeID),
		TechnologyIDs: []string{technologyID, technologyID},
	}
}

func TestProjectCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)

	project, err := env.projects.Create(ctx, admin, newProjectRequest("Apollo"))
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Empty(t, project.UserIDs)
	assert.Equal(t, []string{technologyID}, []string(project.TechnologyIDs))
	require.NotNil(t, project.CreatedBy)
	assert.Equal(t, "admin", *project.CreatedBy)

	got, err := env.projects.Get(ctx, admin, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", got.Name)
}

func TestProjectCreate_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addProject("p1")

	withUsers := newProjectRequest("B")
	withUsers.UserIDs = []string{"u1"}

	cancelled := newProjectRequest("C")
	cancelled.StatusID = cancelledStatusID

	backwards := newProjectRequest("D")
	end := backwards.StartDate.AddDate(0, 0, -1)
	backwards.EndDate = &end

	unknownStatus := newProjectRequest("E")
	unknownStatus.StatusID = "status-missing"

	unknownCustomer := newProjectRequest("F")
	unknownCustomer.CustomerID = "customer-missing"

	unknownTech := newProjectRequest("G")
	unknownTech.TechnologyIDs = []string{"tech-missing"}

	tests := []struct {
		name string
		req  dto.CreateProjectRequest
		want string
	}{
		{"duplicate name", newProjectRequest("Project p1"), "Project already exists"},
		{"members at creation", withUsers, "You can only add users to this project after adding the project to the department"},
		{"cancelled status", cancelled, "Cannot create a project with 'Cancelled' status"},
		{"end before start", backwards, "End date must be after start date"},
		{"unknown status", unknownStatus, "Status does not exist"},
		{"unknown customer", unknownCustomer, "Customer does not exist"},
		{"unknown technology", unknownTech, "One or more technologies does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.projects.Create(ctx, admin, tt.req)
			assert.True(t, common.HasCode(err, common.ErrCodeValidation))
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestProjectUpdate_MembersNeedDepartmentAndTechnology(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addUser(t, "e1", employeeRoleID, "d1")
	env.addUser(t, "e2", employeeRoleID, "d2")
	env.addProject("p1")

	_, err := env.projects.Update(ctx, admin, dto.UpdateProjectRequest{ID: "p1", UserIDs: []string{"e1"}})
	assert.EqualError(t, err, errAddUsersBeforeDepartment)

	env.addDepartment("d1", "", "p1")
	env.addDepartment("d2", "")

	_, err = env.projects.Update(ctx, admin, dto.UpdateProjectRequest{ID: "p1", UserIDs: []string{"e2"}})
	assert.EqualError(t, err, "User must belong to a department that contains the project")

	_, err = env.projects.Update(ctx, admin, dto.UpdateProjectRequest{ID: "p1", UserIDs: []string{"e1"}})
	assert.EqualError(t, err, "User must have a technology assigned")

	env.setTechnologies(t, "e1", technologyID)
	updated, err := env.projects.Update(ctx, admin, dto.UpdateProjectRequest{ID: "p1", UserIDs: []string{"e1", "e1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, []string(updated.UserIDs))
}

func TestProjectUpdate_Fields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addProject("p1")
	env.addProject("p2")

	_, err := env.projects.Update(ctx, admin, dto.UpdateProjectRequest{ID: "p1", Name: memstore.Ref("Project p2")})
	assert.EqualError(t, err, "Project already exists")

	_, err = env.projects.Update(ctx, admin, dto.UpdateProjectRequest{ID: "p1", StatusID: memstore.Ref("status-missing")})
	assert.EqualError(t, err, "Status does not exist")

	start := time.Now().AddDate(0, -2, 0)
	end := start.AddDate(0, 1, 0)
	updated, err := env.projects.Update(ctx, admin, dto.UpdateProjectRequest{
		ID:          "p1",
		Name:        memstore.Ref("Renamed"),
		Description: memstore.Ref("new scope"),
		StartDate:   &start,
		EndDate:     &end,
		StatusID:    memstore.Ref(cancelledStatusID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "new scope", updated.Description)
	assert.Equal(t, cancelledStatusID, *updated.StatusID)

	earlier := start.AddDate(0, 0, -1)
	_, err = env.projects.Update(ctx, admin, dto.UpdateProjectRequest{ID: "p1", EndDate: &earlier})
	assert.EqualError(t, err, "End date must be after start date")
}

func TestProjectRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addProject("p1")
	env.addProject("p2")
	env.addDepartment("d1", "", "p1")

	err := env.projects.Remove(ctx, admin, "p1")
	assert.True(t, common.HasCode(err, common.ErrCodeConflict))
	assert.EqualError(t, err, "Can't remove project because it's linked to department")

	require.NoError(t, env.projects.Remove(ctx, admin, "p2"))
	err = env.projects.Remove(ctx, admin, "p2")
	assert.True(t, common.HasCode(err, common.ErrCodeNotFound))

	deleted, err := env.store.Projects.FindByIDIncludingDeleted(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	require.NotNil(t, deleted.DeletedBy)
	assert.Equal(t, "admin", *deleted.DeletedBy)
}

func TestProjectListByDepartment_Manager(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m1 := env.addUser(t, "m1", managerRoleID, "d1")
	env.addDepartment("d1", "m1", "p1")
	env.addDepartment("d2", "", "p2")
	env.addProject("p1")
	env.addProject("p2")

	projects, err := env.projects.ListByDepartment(ctx, m1, "d1")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "p1", projects[0].ID)

	_, err = env.projects.ListByDepartment(ctx, m1, "d2")
	assert.True(t, common.HasCode(err, common.ErrCodeNotFoundInScope))
}
