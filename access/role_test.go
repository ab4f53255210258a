package access

import (
	"errors"
	"testing"

	"github.com/staffhub-api/common"
	"github.com/staffhub-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"Admin":    RoleAdmin,
		"Manager":  RoleManager,
		"Employee": RoleEmployee,
	}
	for name, want := range cases {
		got, err := ParseRole(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}
}

func TestParseRole_Unknown(t *testing.T) {
	for _, name := range []string{"", "admin", "Guest"} {
		_, err := ParseRole(name)
		assert.True(t, common.HasCode(err, common.ErrCodeInvalidRole), name)
	}
}

func TestMatch_DispatchesByRole(t *testing.T) {
	branch := func(label string) func() (string, error) {
		return func() (string, error) { return label, nil }
	}
	for role, want := range map[Role]string{RoleAdmin: "a", RoleManager: "m", RoleEmployee: "e"} {
		got, err := Match(role, branch("a"), branch("m"), branch("e"))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMatch_ZeroRole(t *testing.T) {
	called := false
	branch := func() (int, error) {
		called = true
		return 1, nil
	}
	got, err := Match(Role(0), branch, branch, branch)
	assert.True(t, common.HasCode(err, common.ErrCodeInvalidRole))
	assert.Zero(t, got)
	assert.False(t, called)
}

func TestMatch_PropagatesBranchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Match(RoleManager,
		func() (int, error) { return 0, nil },
		func() (int, error) { return 0, boom },
		func() (int, error) { return 0, nil },
	)
	assert.ErrorIs(t, err, boom)
}

func TestAllowed(t *testing.T) {
	perms := []models.Permission{
		{APIPath: "/api/v1/users/:id", Method: "GET"},
		{APIPath: "/api/v1/users", Method: "PATCH"},
	}

	assert.True(t, Allowed(perms, "GET", "/api/v1/users/:id"))
	assert.True(t, Allowed(perms, "get", "/API/v1/Users/:id"))
	assert.True(t, Allowed(perms, "PATCH", "/api/v1/users"))
	assert.False(t, Allowed(perms, "DELETE", "/api/v1/users/:id"))
	assert.False(t, Allowed(perms, "GET", "/api/v1/users"))
	assert.False(t, Allowed(nil, "GET", "/api/v1/projects"))
}

func TestAllowed_AuthRoutesBypass(t *testing.T) {
	assert.True(t, Allowed(nil, "POST", "/api/v1/auth/logout"))
	assert.True(t, Actor{}.Allowed("GET", "/api/v1/auth/account"))
}
