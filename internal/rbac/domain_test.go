package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"admin", RoleAdmin},
		{"HR", RoleHR},
		{" manager ", RoleManager},
		{"Employee", RoleEmployee},
	}
	for _, tc := range cases {
		role, err := ParseRole(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, role)
	}
}

func TestParseRoleUnknown(t *testing.T) {
	for _, raw := range []string{"", "root", "superadmin"} {
		_, err := ParseRole(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, httpx.ErrInvalidArgument))
	}
}

func TestParseAction(t *testing.T) {
	for _, action := range Actions() {
		parsed, err := ParseAction(string(action))
		require.NoError(t, err)
		assert.Equal(t, action, parsed)
	}
}

func TestParseActionUnknown(t *testing.T) {
	_, err := ParseAction("destroy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrInvalidArgument))
}

func TestPermissionKey(t *testing.T) {
	assert.Equal(t, "goals:approve", PermissionKey("goals", ActionApprove))
	assert.Equal(t, "user_permissions:admin", PermissionKey(ResourceUserPermissions, ActionAdmin))
}
