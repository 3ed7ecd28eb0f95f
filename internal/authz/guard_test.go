package authz

import (
	"testing"

	"rdfportal/internal/models"

	"github.com/stretchr/testify/assert"
)

func profileWithRole(role models.Role) *models.Profile {
	return &models.Profile{ID: "11111111-1111-1111-1111-111111111111", Role: role}
}

func TestDecide_WaitWhileLoading(t *testing.T) {
	d := Decide(GuardState{Loading: true}, "/dashboard")
	assert.True(t, d.Wait)
	assert.False(t, d.Allow)
	assert.Empty(t, d.RedirectTo)
}

func TestDecide_PublicRoutes(t *testing.T) {
	// Public paths allow everyone, including unauthenticated visitors and
	// guests, without consulting the role table.
	for _, path := range []string{"/", "/login", "/register", "/forgot-password", "/reset-password", "/pending-approval"} {
		t.Run(path, func(t *testing.T) {
			assert.True(t, Decide(GuardState{}, path).Allow)
			assert.True(t, Decide(GuardState{User: profileWithRole(models.RoleGuest)}, path).Allow)
			assert.True(t, Decide(GuardState{User: profileWithRole(models.RoleAdmin)}, path).Allow)
		})
	}
}

func TestDecide_NoUserRedirectsToLogin(t *testing.T) {
	for _, path := range []string{"/dashboard", "/admin", "/query-builder", "/profile", "/somewhere-else"} {
		d := Decide(GuardState{}, path)
		assert.Equal(t, LoginRoute, d.RedirectTo, "path %s", path)
		assert.False(t, d.Allow)
	}
}

func TestDecide_GuestRedirectsToPendingApproval(t *testing.T) {
	guest := GuardState{User: profileWithRole(models.RoleGuest)}

	d := Decide(guest, "/dashboard")
	assert.Equal(t, PendingApprovalRoute, d.RedirectTo)

	d = Decide(guest, "/admin/users")
	assert.Equal(t, PendingApprovalRoute, d.RedirectTo)

	assert.True(t, Decide(guest, PendingApprovalRoute).Allow)
}

func TestDecide_RoleMatrix(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		path     string
		allow    bool
		redirect string
	}{
		{"user on dashboard", models.RoleUser, "/dashboard", true, ""},
		{"user on query builder", models.RoleUser, "/query-builder", true, ""},
		{"user on profile subpath", models.RoleUser, "/profile/settings", true, ""},
		{"user on admin", models.RoleUser, "/admin", false, UnauthorizedRoute},
		{"user on admin subpath", models.RoleUser, "/admin/users", false, UnauthorizedRoute},
		{"admin on admin", models.RoleAdmin, "/admin", true, ""},
		{"admin on admin subpath", models.RoleAdmin, "/admin/registrations", true, ""},
		{"admin on dashboard", models.RoleAdmin, "/dashboard", true, ""},
		{"user on unlisted path", models.RoleUser, "/about", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(GuardState{User: profileWithRole(tt.role)}, tt.path)
			assert.Equal(t, tt.allow, d.Allow)
			assert.Equal(t, tt.redirect, d.RedirectTo)
		})
	}
}

func TestDecide_PrefixBoundary(t *testing.T) {
	// "/admin-extra" shares a string prefix with "/admin" but is not under
	// it, so a plain user must not be redirected to /unauthorized.
	d := Decide(GuardState{User: profileWithRole(models.RoleUser)}, "/admin-extra")
	assert.True(t, d.Allow)
	assert.Empty(t, d.RedirectTo)

	assert.True(t, matchesPrefix("/admin/users", "/admin"))
	assert.True(t, matchesPrefix("/admin", "/admin"))
	assert.False(t, matchesPrefix("/admin-extra", "/admin"))
	assert.False(t, matchesPrefix("/administrator", "/admin"))
}

func TestDecide_SameOrderEveryTime(t *testing.T) {
	// A guest navigating to /admin hits the guest rule before the role
	// table: pending approval wins over unauthorized.
	d := Decide(GuardState{User: profileWithRole(models.RoleGuest)}, "/admin")
	assert.Equal(t, PendingApprovalRoute, d.RedirectTo)
}

func TestCan_Policy(t *testing.T) {
	assert.True(t, Can(models.RoleUser, ActionExecuteQuery))
	assert.True(t, Can(models.RoleAdmin, ActionExecuteQuery))
	assert.False(t, Can(models.RoleGuest, ActionExecuteQuery))

	assert.True(t, Can(models.RoleAdmin, ActionManageUsers))
	assert.False(t, Can(models.RoleUser, ActionManageUsers))
	assert.False(t, Can(models.RoleUser, ActionReviewRegistrations))

	// Unknown actions are denied for every role.
	assert.False(t, Can(models.RoleAdmin, Action("delete_everything")))
}
