package user

type Permission string

const (
	// Salary configuration and records
	PermissionPayrollView     Permission = "payroll.view"
	PermissionPayrollManage   Permission = "payroll.manage"
	PermissionPayrollApprove  Permission = "payroll.approve"
	PermissionPayslipViewOwn  Permission = "payslip.view_own"
	PermissionSalaryConfigure Permission = "salary_config.manage"

	// Expenses and budgets
	PermissionExpenseView    Permission = "expense.view"
	PermissionExpenseManage  Permission = "expense.manage"
	PermissionExpenseApprove Permission = "expense.approve"
	PermissionBudgetManage   Permission = "budget.manage"

	// Orders
	PermissionOrderManage Permission = "order.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"

	// Scheduled jobs
	PermissionJobsRun Permission = "jobs.run"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollApprove,
		PermissionPayslipViewOwn,
		PermissionSalaryConfigure,
		PermissionExpenseView,
		PermissionExpenseManage,
		PermissionExpenseApprove,
		PermissionBudgetManage,
		PermissionOrderManage,
		PermissionReportsView,
		PermissionJobsRun,
	},
	RoleManager: {
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollApprove,
		PermissionPayslipViewOwn,
		PermissionExpenseView,
		PermissionExpenseManage,
		PermissionExpenseApprove,
		PermissionBudgetManage,
		PermissionOrderManage,
		PermissionReportsView,
	},
	RoleAccountant: {
		// Accountants book and pay but do not approve
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayslipViewOwn,
		PermissionExpenseView,
		PermissionExpenseManage,
		PermissionBudgetManage,
		PermissionOrderManage,
		PermissionReportsView,
	},
	RoleStaff: {
		PermissionPayslipViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
