package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleAtLeast(t *testing.T) {
	roles := []Role{RoleViewer, RoleEditor, RoleAdmin, RoleOwner}

	for i, have := range roles {
		for j, min := range roles {
			assert.Equal(t, i >= j, have.AtLeast(min), "%s >= %s", have, min)
		}
	}
}

func TestUnknownRoleSatisfiesNothing(t *testing.T) {
	assert.False(t, Role("GUEST").AtLeast(RoleViewer))
	assert.False(t, Role("").AtLeast(RoleViewer))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" editor ")
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, role)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestUserDisplayName(t *testing.T) {
	name := "Ann"
	assert.Equal(t, "Ann", User{Name: &name, Email: "ann@x.com"}.DisplayName())
	assert.Equal(t, "ann", User{Email: "ann@x.com"}.DisplayName())
}
