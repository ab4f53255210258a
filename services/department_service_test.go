package services

import (
	"context"
	"errors"
	"testing"

	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/logger"
	"github.com/staffhub-api/memstore"
	"github.com/staffhub-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartmentCreate_ManagerRunsOneDepartment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addUser(t, "u1", managerRoleID)

	first, err := env.departments.Create(ctx, admin, dto.CreateDepartmentRequest{Name: "Platform", ManagerID: memstore.Ref("u1")})
	require.NoError(t, err)
	assert.True(t, first.ManagedBy("u1"))

	manager, err := env.store.Users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, manager.InDepartment(first.ID))

	_, err = env.departments.Create(ctx, admin, dto.CreateDepartmentRequest{Name: "Data", ManagerID: memstore.Ref("u1")})
	require.Error(t, err)
	assert.True(t, common.HasCode(err, common.ErrCodeValidation))
	assert.EqualError(t, err, "Manager already exist in another department")
}

func TestDepartmentCreate_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addUser(t, "e1", employeeRoleID)
	env.addDepartment("d1", "")

	tests := []struct {
		name string
		req  dto.CreateDepartmentRequest
		want string
	}{
		{"duplicate name", dto.CreateDepartmentRequest{Name: "Department d1"}, "Department already exists"},
		{"manager missing", dto.CreateDepartmentRequest{Name: "A", ManagerID: memstore.Ref("ghost")}, "Not found manager"},
		{"manager not a manager", dto.CreateDepartmentRequest{Name: "B", ManagerID: memstore.Ref("e1")}, "User is not a manager"},
		{"unknown project", dto.CreateDepartmentRequest{Name: "C", ProjectIDs: []string{"p-missing"}}, "One or more projects does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.departments.Create(ctx, admin, tt.req)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestDepartmentUpdate_ChangeAndRemoveManager(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addUser(t, "m1", managerRoleID, "d1")
	env.addUser(t, "m2", managerRoleID)
	env.addDepartment("d1", "m1")
	env.addDepartment("d2", "")

	_, err := env.departments.Update(ctx, admin, dto.UpdateDepartmentRequest{ID: "d2", ManagerID: memstore.Ref("m1")})
	assert.EqualError(t, err, "Manager already exists in another department")

	updated, err := env.departments.Update(ctx, admin, dto.UpdateDepartmentRequest{ID: "d2", ManagerID: memstore.Ref("m2")})
	require.NoError(t, err)
	assert.True(t, updated.ManagedBy("m2"))

	cleared, err := env.departments.Update(ctx, admin, dto.UpdateDepartmentRequest{ID: "d1", RemoveManager: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.ManagerID)

	m1, err := env.store.Users.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, m1.InDepartment("d1"))

	_, err = env.departments.Update(ctx, admin, dto.UpdateDepartmentRequest{ID: "missing"})
	assert.True(t, common.HasCode(err, common.ErrCodeNotFound))
}

func TestDepartmentUpdate_ReplacedManagerLeaves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addUser(t, "m1", managerRoleID, "d1", "d9")
	env.addUser(t, "m2", managerRoleID)
	env.addDepartment("d1", "m1")

	_, err := env.departments.Update(ctx, admin, dto.UpdateDepartmentRequest{ID: "d1", ManagerID: memstore.Ref("m2")})
	require.NoError(t, err)

	m1, err := env.store.Users.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d9"}, []string(m1.DepartmentIDs))
	m2, err := env.store.Users.FindByID(ctx, "m2")
	require.NoError(t, err)
	assert.True(t, m2.InDepartment("d1"))

	members, err := env.users.ListByDepartment(ctx, admin, "d1")
	require.NoError(t, err)
	var ids []string
	for _, u := range members {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"m2"}, ids)
}

func TestDepartmentCreate_ReusesDeletedName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addDepartment("d1", "")

	require.NoError(t, env.departments.Remove(ctx, admin, "d1"))

	again, err := env.departments.Create(ctx, admin, dto.CreateDepartmentRequest{Name: "Department d1"})
	require.NoError(t, err)
	assert.NotEqual(t, "d1", again.ID)

	_, err = env.departments.Create(ctx, admin, dto.CreateDepartmentRequest{Name: "Department d1"})
	assert.EqualError(t, err, "Department already exists")
}

type txMarker struct{}

// markingTx tags the ctx it hands to fn and keeps fn's result
type markingTx struct {
	calls int
	err   error
}

func (m *markingTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	m.err = fn(context.WithValue(ctx, txMarker{}, true))
	return m.err
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txMarker{}).(bool)
	return ok
}

type txCheckedDepartments struct {
	departmentStore
	t *testing.T
}

func (d txCheckedDepartments) Create(ctx context.Context, department *models.Department) error {
	assert.True(d.t, inTx(ctx), "department created outside transaction")
	return d.departmentStore.Create(ctx, department)
}

func (d txCheckedDepartments) Update(ctx context.Context, department *models.Department) error {
	assert.True(d.t, inTx(ctx), "department updated outside transaction")
	return d.departmentStore.Update(ctx, department)
}

type txCheckedUsers struct {
	userStore
	t   *testing.T
	err error
}

func (u txCheckedUsers) Update(ctx context.Context, user *models.User) error {
	assert.True(u.t, inTx(ctx), "user updated outside transaction")
	if u.err != nil {
		return u.err
	}
	return u.userStore.Update(ctx, user)
}

func TestDepartmentWrites_ShareOneTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addUser(t, "m1", managerRoleID)
	env.addUser(t, "m2", managerRoleID)
	s := env.store

	tx := &markingTx{}
	users := txCheckedUsers{userStore: s.Users, t: t}
	svc := NewDepartmentService(txCheckedDepartments{s.Departments, t}, s.Projects, users, s.Roles, s, tx,
		access.NewResolvers(s.Departments, s.Projects, s.Users), logger.Discard())

	created, err := svc.Create(ctx, admin, dto.CreateDepartmentRequest{Name: "Platform", ManagerID: memstore.Ref("m1")})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)

	_, err = svc.Update(ctx, admin, dto.UpdateDepartmentRequest{ID: created.ID, ManagerID: memstore.Ref("m2")})
	require.NoError(t, err)
	assert.Equal(t, 2, tx.calls)

	// a failed member update fails the whole transaction
	users.err = errors.New("connection reset")
	failing := NewDepartmentService(txCheckedDepartments{s.Departments, t}, s.Projects, users, s.Roles, s, tx,
		access.NewResolvers(s.Departments, s.Projects, s.Users), logger.Discard())
	_, err = failing.Create(ctx, admin, dto.CreateDepartmentRequest{Name: "Data", ManagerID: memstore.Ref("m1")})
	assert.True(t, common.HasCode(err, common.ErrCodeInternal))
	assert.Error(t, tx.err)
}

func TestDepartmentRemove_GuardAndSecondDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addUser(t, "e1", employeeRoleID, "d1")
	env.addDepartment("d1", "")
	env.addDepartment("d2", "")

	err := env.departments.Remove(ctx, admin, "d1")
	assert.True(t, common.HasCode(err, common.ErrCodeConflict))
	assert.EqualError(t, err, "Can't remove department because it's linked to user")

	require.NoError(t, env.departments.Remove(ctx, admin, "d2"))

	_, err = env.departments.Get(ctx, admin, "d2")
	assert.True(t, common.HasCode(err, common.ErrCodeNotFound))

	err = env.departments.Remove(ctx, admin, "d2")
	assert.True(t, common.HasCode(err, common.ErrCodeNotFound))
}

func TestDepartmentGet_EmployeeOutsideScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	e1 := env.addUser(t, "e1", employeeRoleID, "d1")
	env.addDepartment("d1", "")
	env.addDepartment("d2", "")

	_, err := env.departments.Get(ctx, e1, "d2")
	assert.True(t, common.HasCode(err, common.ErrCodeNotFoundInScope))

	_, err = env.departments.Get(ctx, e1, "d3")
	assert.True(t, common.HasCode(err, common.ErrCodeNotFound))

	own, err := env.departments.List(ctx, e1)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "d1", own[0].ID)
}
