package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Leave Management
	PermissionLeaveCreate    Permission = "leave.create"
	PermissionLeaveViewOwn   Permission = "leave.view_own"
	PermissionLeaveViewScope Permission = "leave.view_scope"
	PermissionLeaveApprove   Permission = "leave.approve"

	// Documents
	PermissionDocumentView   Permission = "document.view"
	PermissionDocumentManage Permission = "document.manage"

	// Dashboards
	PermissionDashboardView Permission = "dashboard.view"
)

// RolePermissions maps roles to their permissions. Which requests a role may
// see or decide is narrowed further by the leave scope policy.
var RolePermissions = map[Role][]Permission{
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionDocumentView,
		PermissionDashboardView,
	},
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveViewScope,
		PermissionLeaveApprove,
		PermissionDocumentView,
		PermissionDashboardView,
	},
	RoleSousDirector: {
		PermissionViewOwnProfile,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveViewScope,
		PermissionLeaveApprove,
		PermissionDocumentView,
		PermissionDashboardView,
	},
	RoleDirector: {
		PermissionViewOwnProfile,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveViewScope,
		PermissionLeaveApprove,
		PermissionDocumentView,
		PermissionDashboardView,
	},
	RoleHR: {
		PermissionViewOwnProfile,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveViewScope,
		PermissionLeaveApprove,
		PermissionDocumentView,
		PermissionDocumentManage,
		PermissionDashboardView,
	},
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionLeaveViewOwn,
		PermissionLeaveViewScope,
		PermissionLeaveApprove,
		PermissionDocumentView,
		PermissionDocumentManage,
		PermissionDashboardView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
