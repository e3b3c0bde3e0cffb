package logic

import "usergrip/internal/domain"

// ManageUsersPermission gates every mutating control of the user screen
const ManageUsersPermission = "system:users:manage"

const wildcardPermission = "*"

// HasPermission reports whether perms grants the given UI permission
func HasPermission(perms domain.Permissions, permission string) bool {
	for _, p := range perms.UIPermissions {
		if p == wildcardPermission || p == permission {
			return true
		}
	}
	return false
}

// CanManageUsers is HasPermission for ManageUsersPermission
func CanManageUsers(perms domain.Permissions) bool {
	return HasPermission(perms, ManageUsersPermission)
}
