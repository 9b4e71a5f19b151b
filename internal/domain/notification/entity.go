package notification

import (
	"time"
)

// Type identifies what a notification is about.
type Type string

const (
	TypePayslipGenerated    Type = "payslip_generated"
	TypeSalaryApproved      Type = "salary_approved"
	TypeSalaryPaid          Type = "salary_paid"
	TypeCommissionUpdated   Type = "commission_updated"
	TypeExpenseApproval     Type = "expense_approval_required"
	TypeExpenseOverdue      Type = "expense_overdue"
	TypeBudgetOverrun       Type = "budget_overrun"
	TypePayrollBatchFailure Type = "payroll_batch_failure"
)

// RecipientFinance is the shared inbox read by owners, managers and accountants.
const RecipientFinance = "finance"

func AllTypes() []Type {
	return []Type{
		TypePayslipGenerated,
		TypeSalaryApproved,
		TypeSalaryPaid,
		TypeCommissionUpdated,
		TypeExpenseApproval,
		TypeExpenseOverdue,
		TypeBudgetOverrun,
		TypePayrollBatchFailure,
	}
}

func (t Type) Valid() bool {
	for _, v := range AllTypes() {
		if v == t {
			return true
		}
	}
	return false
}

type Notification struct {
	ID          string         `json:"id"`
	RecipientID string         `json:"recipient_id"`
	Type        Type           `json:"type"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Data        map[string]any `json:"data,omitempty"`
	IsRead      bool           `json:"is_read"`
	ReadAt      *time.Time     `json:"read_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (n *Notification) MarkRead(now time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &now
}

// Preference mutes or unmutes one notification type for a recipient. Types without a
// stored preference are enabled.
type Preference struct {
	RecipientID string    `json:"recipient_id"`
	Type        Type      `json:"type"`
	Enabled     bool      `json:"enabled"`
	UpdatedAt   time.Time `json:"updated_at"`
}
