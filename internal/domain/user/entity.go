package user

type Role string

const (
	RoleOwner      Role = "owner"      // Gym owner - full access
	RoleManager    Role = "manager"    // Approves expenses and runs payroll
	RoleAccountant Role = "accountant" // Books expenses, budgets and payments
	RoleStaff      Role = "staff"      // Reads own payslips and notifications
)

func (r Role) Valid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Principal is the authenticated caller taken from the access token.
type Principal struct {
	UserID string
	Role   Role
}

// IsOwner checks if the caller is the gym owner
func (p Principal) IsOwner() bool {
	return p.Role == RoleOwner
}

// CanManageFinance reports whether the caller may mutate payroll and ledger data.
func (p Principal) CanManageFinance() bool {
	return p.Role == RoleOwner || p.Role == RoleManager || p.Role == RoleAccountant
}
