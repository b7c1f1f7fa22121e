package user

type Permission string

const (
	PermissionPayrollView     Permission = "payroll.view"
	PermissionPayrollGenerate Permission = "payroll.generate"
	PermissionPayrollEdit     Permission = "payroll.edit"
	PermissionPayrollVerify   Permission = "payroll.verify"
	PermissionPayrollApprove  Permission = "payroll.approve"
	PermissionPayrollPay      Permission = "payroll.pay"
	PermissionPayrollDelete   Permission = "payroll.delete"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionPayrollView,
		PermissionPayrollGenerate,
		PermissionPayrollEdit,
		PermissionPayrollVerify,
		PermissionPayrollApprove,
		PermissionPayrollPay,
		PermissionPayrollDelete,
	},
	RoleManager: {
		PermissionPayrollView,
		PermissionPayrollGenerate,
		PermissionPayrollEdit,
		PermissionPayrollVerify,
	},
	RoleViewer: {
		PermissionPayrollView,
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
