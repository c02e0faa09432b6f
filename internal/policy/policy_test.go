package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"user", RoleUser, true},
		{"store_owner", RoleStoreOwner, true},
		{"admin", RoleAdmin, true},
		{"superuser", "", false},
		{"", "", false},
		{"Admin", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseRole(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestCanOwnStore(t *testing.T) {
	assert.False(t, RoleUser.CanOwnStore())
	assert.True(t, RoleStoreOwner.CanOwnStore())
	assert.True(t, RoleAdmin.CanOwnStore())
}

func TestAuthorizeAdminGatedActions(t *testing.T) {
	adminOnly := []Action{
		ActionListUsers,
		ActionViewUser,
		ActionCreateUser,
		ActionDeleteUser,
		ActionSearchUsers,
		ActionViewUserStats,
		ActionListRatings,
		ActionViewRatingStats,
	}

	admin := Principal{UserID: 1, Role: RoleAdmin}
	user := Principal{UserID: 2, Role: RoleUser}
	owner := Principal{UserID: 3, Role: RoleStoreOwner}

	for _, action := range adminOnly {
		assert.NoError(t, Authorize(admin, action), "action %s", action)
		assert.Error(t, Authorize(user, action), "action %s", action)
		assert.Error(t, Authorize(owner, action), "action %s", action)
	}
}

func TestAuthorizeOwnerGatedAction(t *testing.T) {
	assert.NoError(t, Authorize(Principal{Role: RoleStoreOwner}, ActionViewOwnStoreRatings))
	assert.Error(t, Authorize(Principal{Role: RoleAdmin}, ActionViewOwnStoreRatings))
	assert.Error(t, Authorize(Principal{Role: RoleUser}, ActionViewOwnStoreRatings))
}

func TestAuthorizeUngatedActionsOpenToAll(t *testing.T) {
	for _, role := range []Role{RoleUser, RoleStoreOwner, RoleAdmin} {
		p := Principal{UserID: 9, Role: role}
		assert.NoError(t, Authorize(p, ActionBrowseStores))
		assert.NoError(t, Authorize(p, ActionSubmitRating))
		assert.NoError(t, Authorize(p, ActionViewOwnProfile))
	}
}

func TestDeniedReasonNamesRoles(t *testing.T) {
	err := Authorize(Principal{UserID: 2, Role: RoleUser}, ActionListUsers)
	require.Error(t, err)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "required role admin; caller has role user", denied.Reason)
}

func TestCanManageStore(t *testing.T) {
	assert.NoError(t, CanManageStore(Principal{UserID: 5, Role: RoleStoreOwner}, 5))
	assert.NoError(t, CanManageStore(Principal{UserID: 1, Role: RoleAdmin}, 5))
	assert.Error(t, CanManageStore(Principal{UserID: 6, Role: RoleStoreOwner}, 5))
	assert.Error(t, CanManageStore(Principal{UserID: 6, Role: RoleUser}, 5))
}

func TestCanUpdateUser(t *testing.T) {
	assert.NoError(t, CanUpdateUser(Principal{UserID: 4, Role: RoleUser}, 4))
	assert.NoError(t, CanUpdateUser(Principal{UserID: 1, Role: RoleAdmin}, 4))
	assert.Error(t, CanUpdateUser(Principal{UserID: 4, Role: RoleUser}, 5))
}

func TestCanDeleteUser(t *testing.T) {
	assert.NoError(t, CanDeleteUser(Principal{UserID: 1, Role: RoleAdmin}, 2))
	assert.Error(t, CanDeleteUser(Principal{UserID: 2, Role: RoleUser}, 2))

	// Admins cannot remove their own account.
	err := CanDeleteUser(Principal{UserID: 1, Role: RoleAdmin}, 1)
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "cannot delete your own account", denied.Reason)
}
