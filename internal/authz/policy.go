package authz

import "rdfportal/internal/models"

// Action is a named capability checked through the central policy.
type Action string

const (
	ActionExecuteQuery        Action = "execute_query"
	ActionSaveQuery           Action = "save_query"
	ActionViewHistory         Action = "view_history"
	ActionViewDashboard       Action = "view_dashboard"
	ActionEditProfile         Action = "edit_profile"
	ActionManageUsers         Action = "manage_users"
	ActionReviewRegistrations Action = "review_registrations"
)

// policy is the single authoritative role/action table. Both the HTTP layer
// (enforcement) and the route-access endpoint (client UX) consult it;
// scattering role comparisons across handlers is not allowed.
var policy = map[Action][]models.Role{
	ActionExecuteQuery:        {models.RoleUser, models.RoleAdmin},
	ActionSaveQuery:           {models.RoleUser, models.RoleAdmin},
	ActionViewHistory:         {models.RoleUser, models.RoleAdmin},
	ActionViewDashboard:       {models.RoleUser, models.RoleAdmin},
	ActionEditProfile:         {models.RoleUser, models.RoleAdmin},
	ActionManageUsers:         {models.RoleAdmin},
	ActionReviewRegistrations: {models.RoleAdmin},
}

// Can reports whether role may perform action. Unknown actions are denied.
func Can(role models.Role, action Action) bool {
	allowed, ok := policy[action]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
