package service

import (
	"p2v/internal/common"
	"p2v/internal/domain/model"
)

// Role sets used by the router guards.
var (
	PlaceEditorRoles = []string{model.RoleStaff, model.RoleAdmin}
	UserAdminRoles   = []string{model.RoleAdmin}
)

// RequireRole fails with common.ErrNotAuthorized unless user holds one of
// the allowed roles. The error never names the required role.
func RequireRole(user *model.User, allowed ...string) error {
	if user == nil {
		return common.ErrCouldNotValidate
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return common.ErrNotAuthorized
}
