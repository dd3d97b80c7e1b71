package gymauth

import (
	"github.com/goliatone/go-router"

	"github.com/fitstack/go-gymauth/middleware/sessionware"
)

// TemplateUserKey is the view-data key pages read the session user from
var TemplateUserKey = "current_user"

// TemplateHelpers returns helper functions and data for view engines with
// global-data support, so page templates can branch on the session.
//
// In templates:
//
//	{% if current_user %}
//	{% if current_user|has_role:"ADMIN" %}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated": isAuthenticatedHelper,
		"has_role":         hasRoleHelper,

		// Role constants for easy template access
		"roles": map[string]string{
			"admin":   string(RoleAdmin),
			"member":  string(RoleMember),
			"trainer": string(RoleTrainer),
			"staff":   string(RoleStaff),
		},
	}
}

// MergeTemplateData injects the guarded session user into view data under
// TemplateUserKey. Handlers behind the guard call this so templates see the
// same user the guard admitted.
func MergeTemplateData(ctx router.Context, data router.ViewContext) router.ViewContext {
	if data == nil {
		data = router.ViewContext{}
	}

	if _, exists := data[TemplateUserKey]; exists {
		return data
	}

	if user, ok := GetRouterUser(ctx, ""); ok {
		data[TemplateUserKey] = user
	}

	return data
}

func isAuthenticatedHelper(user any) bool {
	sessionUser, ok := user.(sessionware.SessionUser)
	return ok && sessionUser != nil
}

func hasRoleHelper(user any, role string) bool {
	sessionUser, ok := user.(sessionware.SessionUser)
	if !ok || sessionUser == nil {
		return false
	}
	return sessionUser.Role() == role
}
