package expense

import (
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== EXPENSE DTOs ==========

type CreateExpenseRequest struct {
	Type             ExpenseType     `json:"type"`
	Category         Category        `json:"category"`
	CategoryID       *string         `json:"category_id,omitempty"`
	Title            string          `json:"title"`
	Description      *string         `json:"description,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	VendorName       *string         `json:"vendor_name,omitempty"`
	InvoiceNumber    *string         `json:"invoice_number,omitempty"`
	PaymentMethod    *PaymentMethod  `json:"payment_method,omitempty"`
	DueDate          *string         `json:"due_date,omitempty"`
	IsRecurring      bool            `json:"is_recurring"`
	RecurringPeriod  *string         `json:"recurring_period,omitempty"`
	AccountingPeriod *string         `json:"accounting_period,omitempty"`
	CostCenter       *string         `json:"cost_center,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	RequestedBy      *string         `json:"-"`
}

func (r *CreateExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "is required")
	}
	if !r.Type.IsValid() {
		errs.Add("type", "is invalid")
	}
	if !r.Category.IsValid() {
		errs.Add("category", "is invalid")
	}
	if !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than 0")
	}
	if r.PaymentMethod != nil && !r.PaymentMethod.IsValid() {
		errs.Add("payment_method", "is invalid")
	}
	if r.DueDate != nil {
		if _, ok := validator.IsValidDate(*r.DueDate); !ok {
			errs.Add("due_date", "must be in YYYY-MM-DD format")
		}
	}
	if r.AccountingPeriod != nil {
		if _, _, ok := validator.ParseAccountingPeriod(*r.AccountingPeriod); !ok {
			errs.Add("accounting_period", "must be in YYYY-MM format")
		}
	}

	return errs.Err()
}

type UpdateExpenseRequest struct {
	ID               string           `json:"-"`
	Type             *ExpenseType     `json:"type,omitempty"`
	Category         *Category        `json:"category,omitempty"`
	Title            *string          `json:"title,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	VendorName       *string          `json:"vendor_name,omitempty"`
	InvoiceNumber    *string          `json:"invoice_number,omitempty"`
	DueDate          *string          `json:"due_date,omitempty"`
	AccountingPeriod *string          `json:"accounting_period,omitempty"`
	CostCenter       *string          `json:"cost_center,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

func (r *UpdateExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs.Add("title", "cannot be empty")
	}
	if r.Type != nil && !r.Type.IsValid() {
		errs.Add("type", "is invalid")
	}
	if r.Category != nil && !r.Category.IsValid() {
		errs.Add("category", "is invalid")
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than 0")
	}
	if r.DueDate != nil {
		if _, ok := validator.IsValidDate(*r.DueDate); !ok {
			errs.Add("due_date", "must be in YYYY-MM-DD format")
		}
	}
	if r.AccountingPeriod != nil {
		if _, _, ok := validator.ParseAccountingPeriod(*r.AccountingPeriod); !ok {
			errs.Add("accounting_period", "must be in YYYY-MM format")
		}
	}

	return errs.Err()
}

type ExpenseFilter struct {
	Type           *ExpenseType
	Category       *Category
	Status         *Status
	ApprovalStatus *ApprovalStatus
	// Periods restricts to accounting periods ("YYYY-MM").
	Periods        []string
	DueBefore      *time.Time
	DueAfter       *time.Time
	Search         *string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

type ApprovalRequest struct {
	ID    string  `json:"-"`
	By    string  `json:"by"`
	Notes *string `json:"notes,omitempty"`
}

func (r *ApprovalRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.By) {
		errs.Add("by", "is required")
	}
	return errs.Err()
}

type MarkPaidRequest struct {
	ID            string         `json:"-"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	TransactionID *string        `json:"transaction_id,omitempty"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.PaymentMethod != nil && !r.PaymentMethod.IsValid() {
		errs.Add("payment_method", "is invalid")
	}
	return errs.Err()
}

type BulkApproveRequest struct {
	IDs   []string `json:"ids"`
	By    string   `json:"by"`
	Notes *string  `json:"notes,omitempty"`
}

func (r *BulkApproveRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.IDs) == 0 {
		errs.Add("ids", "at least one id is required")
	}
	if validator.IsEmpty(r.By) {
		errs.Add("by", "is required")
	}
	return errs.Err()
}

type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// ========== SUMMARY DTOs ==========

// Bucket is a total and count for one type or category.
type Bucket struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type Summary struct {
	Label         string          `json:"label"`
	Periods       []string        `json:"periods"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	ExpenseCount  int             `json:"expense_count"`
	PendingCount  int             `json:"pending_count"`
	ByType        []Bucket        `json:"by_type"`
	ByCategory    []Bucket        `json:"by_category"`
}

type Statistics struct {
	Periods      []string        `json:"periods"`
	TotalCount   int             `json:"total_count"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
	TotalOverdue decimal.Decimal `json:"total_overdue"`
	PaidCount    int             `json:"paid_count"`
	PendingCount int             `json:"pending_count"`
	OverdueCount int             `json:"overdue_count"`
	Average      decimal.Decimal `json:"average"`
	Largest      decimal.Decimal `json:"largest"`
	Smallest     decimal.Decimal `json:"smallest"`
}

// ========== CATEGORY DTOs ==========

type CreateCategoryRequest struct {
	Code               string           `json:"code"`
	Name               string           `json:"name"`
	Type               ExpenseType      `json:"type"`
	Category           Category         `json:"category"`
	Description        *string          `json:"description,omitempty"`
	IsRecurring        bool             `json:"is_recurring"`
	DefaultAmount      *decimal.Decimal `json:"default_amount,omitempty"`
	HasBudgetLimit     bool             `json:"has_budget_limit"`
	MonthlyBudgetLimit decimal.Decimal  `json:"monthly_budget_limit"`
	QuarterlyBudget    decimal.Decimal  `json:"quarterly_budget_limit"`
	YearlyBudgetLimit  decimal.Decimal  `json:"yearly_budget_limit"`
	RequiresApproval   bool             `json:"requires_approval"`
	ApprovalThreshold  decimal.Decimal  `json:"approval_threshold"`
}

func (r *CreateCategoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs.Add("code", "is required")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "is required")
	}
	if !r.Type.IsValid() {
		errs.Add("type", "is invalid")
	}
	if !r.Category.IsValid() {
		errs.Add("category", "is invalid")
	}
	if r.DefaultAmount != nil && r.DefaultAmount.IsNegative() {
		errs.Add("default_amount", "must be non-negative")
	}
	if r.MonthlyBudgetLimit.IsNegative() || r.QuarterlyBudget.IsNegative() || r.YearlyBudgetLimit.IsNegative() {
		errs.Add("budget_limit", "must be non-negative")
	}
	if r.ApprovalThreshold.IsNegative() {
		errs.Add("approval_threshold", "must be non-negative")
	}

	return errs.Err()
}

type UpdateCategoryRequest struct {
	ID                 string           `json:"-"`
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	DefaultAmount      *decimal.Decimal `json:"default_amount,omitempty"`
	HasBudgetLimit     *bool            `json:"has_budget_limit,omitempty"`
	MonthlyBudgetLimit *decimal.Decimal `json:"monthly_budget_limit,omitempty"`
	QuarterlyBudget    *decimal.Decimal `json:"quarterly_budget_limit,omitempty"`
	YearlyBudgetLimit  *decimal.Decimal `json:"yearly_budget_limit,omitempty"`
	RequiresApproval   *bool            `json:"requires_approval,omitempty"`
	ApprovalThreshold  *decimal.Decimal `json:"approval_threshold,omitempty"`
	Active             *bool            `json:"active,omitempty"`
}

func (r *UpdateCategoryRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "cannot be empty")
	}
	for field, v := range map[string]*decimal.Decimal{
		"default_amount":         r.DefaultAmount,
		"monthly_budget_limit":   r.MonthlyBudgetLimit,
		"quarterly_budget_limit": r.QuarterlyBudget,
		"yearly_budget_limit":    r.YearlyBudgetLimit,
		"approval_threshold":     r.ApprovalThreshold,
	} {
		if v != nil && v.IsNegative() {
			errs.Add(field, "must be non-negative")
		}
	}
	return errs.Err()
}
