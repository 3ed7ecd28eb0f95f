// Package authz holds the route access guard and the central authorization
// policy. The guard decides allow-or-redirect for every navigation; the
// policy answers whether a role may perform an action. Handlers enforce the
// policy server-side; the guard decision is also served to the SPA so it can
// mirror the same rules client-side.
package authz

import (
	"strings"

	"rdfportal/internal/models"
)

// RouteAccess maps a path prefix to the set of roles allowed under it.
type RouteAccess struct {
	PathPrefix   string
	AllowedRoles []models.Role
}

// ProtectedRoutes is the ordered role table consulted by the guard. The
// first matching prefix wins.
var ProtectedRoutes = []RouteAccess{
	{PathPrefix: "/admin", AllowedRoles: []models.Role{models.RoleAdmin}},
	{PathPrefix: "/dashboard", AllowedRoles: []models.Role{models.RoleUser, models.RoleAdmin}},
	{PathPrefix: "/query-builder", AllowedRoles: []models.Role{models.RoleUser, models.RoleAdmin}},
	{PathPrefix: "/profile", AllowedRoles: []models.Role{models.RoleUser, models.RoleAdmin}},
}

// PublicRoutes require no identity at all.
var PublicRoutes = []string{
	"/",
	"/login",
	"/register",
	"/forgot-password",
	"/reset-password",
	"/pending-approval",
}

const (
	LoginRoute           = "/login"
	PendingApprovalRoute = "/pending-approval"
	UnauthorizedRoute    = "/unauthorized"
)

// GuardState is the identity snapshot a guard decision is made against.
// Loading means identity resolution is still in flight and the caller must
// treat identity as unknown, not as unauthenticated.
type GuardState struct {
	Loading bool
	User    *models.Profile
}

// Decision is the outcome of one guard evaluation.
type Decision struct {
	// Wait means no decision can be made yet; render nothing and re-evaluate
	// once identity resolution completes.
	Wait bool
	// Allow means the path may render for this identity.
	Allow bool
	// RedirectTo is set when the navigation must be corrected.
	RedirectTo string
}

// matchesPrefix reports whether path falls under prefix using
// exact-match-or-slash-boundary semantics, so "/admin-extra" does not match
// "/admin".
func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Decide evaluates the guard for a navigation to path. It runs the same
// checks in the same order on every navigation and on every identity change:
//
//  1. identity still loading: wait, no redirect
//  2. public path: allow unconditionally
//  3. no user: redirect to login
//  4. guest anywhere but pending-approval: redirect to pending-approval
//  5. first matching protected prefix with a role mismatch: redirect to
//     unauthorized; otherwise allow
func Decide(state GuardState, path string) Decision {
	if state.Loading {
		return Decision{Wait: true}
	}

	for _, route := range PublicRoutes {
		if matchesPrefix(path, route) {
			return Decision{Allow: true}
		}
	}

	if state.User == nil {
		return Decision{RedirectTo: LoginRoute}
	}

	if state.User.Role == models.RoleGuest && path != PendingApprovalRoute {
		return Decision{RedirectTo: PendingApprovalRoute}
	}

	for _, route := range ProtectedRoutes {
		if !matchesPrefix(path, route.PathPrefix) {
			continue
		}
		for _, role := range route.AllowedRoles {
			if state.User.Role == role {
				return Decision{Allow: true}
			}
		}
		return Decision{RedirectTo: UnauthorizedRoute}
	}

	return Decision{Allow: true}
}
