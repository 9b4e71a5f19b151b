package expense

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType enum
type ExpenseType string

const (
	TypeSalary      ExpenseType = "salary"
	TypeRent        ExpenseType = "rent"
	TypeUtilities   ExpenseType = "utilities"
	TypeParking     ExpenseType = "parking"
	TypeEquipment   ExpenseType = "equipment"
	TypeMaintenance ExpenseType = "maintenance"
	TypeMarketing   ExpenseType = "marketing"
	TypeCleaning    ExpenseType = "cleaning"
	TypeSecurity    ExpenseType = "security"
	TypeInsurance   ExpenseType = "insurance"
	TypeOther       ExpenseType = "other"
)

func AllTypes() []ExpenseType {
	return []ExpenseType{
		TypeSalary, TypeRent, TypeUtilities, TypeParking, TypeEquipment, TypeMaintenance,
		TypeMarketing, TypeCleaning, TypeSecurity, TypeInsurance, TypeOther,
	}
}

func (t ExpenseType) IsValid() bool {
	for _, v := range AllTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Category enum
type Category string

const (
	CategoryHumanResource  Category = "human_resource"
	CategoryInfrastructure Category = "infrastructure"
	CategoryOperations     Category = "operations"
	CategoryEquipment      Category = "equipment"
	CategoryMarketing      Category = "marketing"
	CategoryOther          Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryHumanResource, CategoryInfrastructure, CategoryOperations,
		CategoryEquipment, CategoryMarketing, CategoryOther:
		return true
	}
	return false
}

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// ApprovalStatus enum
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentEWallet      PaymentMethod = "e_wallet"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCreditCard, PaymentEWallet:
		return true
	}
	return false
}

// Lifecycle replaces a nullable deleted-at marker.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "active"
	LifecycleDeleted Lifecycle = "deleted"
)

const DefaultCurrency = "VND"

// Expense - one operating cost entry
type Expense struct {
	ID            string          `json:"id"`
	ExpenseNumber string          `json:"expense_number"`
	Type          ExpenseType     `json:"type"`
	Category      Category        `json:"category"`
	CategoryID    *string         `json:"category_id,omitempty"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	VendorName    *string         `json:"vendor_name,omitempty"`
	InvoiceNumber *string         `json:"invoice_number,omitempty"`

	Status          Status         `json:"status"`
	PaymentMethod   *PaymentMethod `json:"payment_method,omitempty"`
	TransactionID   *string        `json:"transaction_id,omitempty"`
	DueDate         *time.Time     `json:"due_date,omitempty"`
	PaidDate        *time.Time     `json:"paid_date,omitempty"`
	IsRecurring     bool           `json:"is_recurring"`
	RecurringPeriod *string        `json:"recurring_period,omitempty"`

	ApprovalStatus ApprovalStatus `json:"approval_status"`
	RequestedBy    *string        `json:"requested_by,omitempty"`
	ApprovedBy     *string        `json:"approved_by,omitempty"`
	ApprovalDate   *time.Time     `json:"approval_date,omitempty"`
	ApprovalNotes  *string        `json:"approval_notes,omitempty"`

	// AccountingPeriod is the "YYYY-MM" bucket used for roll-ups.
	AccountingPeriod string  `json:"accounting_period"`
	CostCenter       *string `json:"cost_center,omitempty"`
	Notes            *string `json:"notes,omitempty"`

	Lifecycle Lifecycle  `json:"lifecycle"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedBy *string    `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ResolveAccountingPeriod prefers the explicit period, then the due date, then creation time.
func (e *Expense) ResolveAccountingPeriod() string {
	if e.AccountingPeriod != "" {
		return e.AccountingPeriod
	}
	if e.DueDate != nil {
		return e.DueDate.Format("2006-01")
	}
	return e.CreatedAt.Format("2006-01")
}

func (e *Expense) IsPaid() bool {
	return e.Status == StatusPaid
}

func (e *Expense) IsApproved() bool {
	return e.ApprovalStatus == ApprovalApproved
}

func (e *Expense) NeedsApproval() bool {
	return e.ApprovalStatus == ApprovalPending
}

func (e *Expense) IsDeleted() bool {
	return e.Lifecycle == LifecycleDeleted
}

// CountsTowardSpend reports whether the expense is included in period totals.
func (e *Expense) CountsTowardSpend() bool {
	return e.IsPaid() || e.IsApproved()
}

// IsOverdue reports an unpaid expense whose due date has passed.
func (e *Expense) IsOverdue(now time.Time) bool {
	if e.Status == StatusPaid || e.DueDate == nil {
		return false
	}
	return e.DueDate.Before(now)
}

// DaysUntilDue returns whole days from now until the due date, negative when overdue.
func (e *Expense) DaysUntilDue(now time.Time) *int {
	if e.DueDate == nil {
		return nil
	}
	days := int(math.Ceil(e.DueDate.Sub(now).Hours() / 24))
	return &days
}

// Approve records an approval; only pending approvals may change.
func (e *Expense) Approve(by string, notes *string, now time.Time) error {
	if e.IsDeleted() {
		return ErrExpenseDeleted
	}
	if e.ApprovalStatus != ApprovalPending {
		return ErrApprovalAlreadyProcessed
	}
	e.ApprovalStatus = ApprovalApproved
	e.ApprovedBy = &by
	e.ApprovalDate = &now
	e.ApprovalNotes = notes
	e.UpdatedAt = now
	return nil
}

// Reject rejects the approval request and the expense itself.
func (e *Expense) Reject(by string, notes *string, now time.Time) error {
	if e.IsDeleted() {
		return ErrExpenseDeleted
	}
	if e.ApprovalStatus != ApprovalPending {
		return ErrApprovalAlreadyProcessed
	}
	if e.Status == StatusPaid {
		return ErrInvalidStatusTransition
	}
	e.ApprovalStatus = ApprovalRejected
	e.Status = StatusRejected
	e.ApprovedBy = &by
	e.ApprovalDate = &now
	e.ApprovalNotes = notes
	e.UpdatedAt = now
	return nil
}

// MarkAsPaid settles a pending expense. Approval is independent of payment,
// but a rejected expense cannot be paid.
func (e *Expense) MarkAsPaid(method *PaymentMethod, transactionID *string, now time.Time) error {
	if e.IsDeleted() {
		return ErrExpenseDeleted
	}
	if e.Status != StatusPending || e.ApprovalStatus == ApprovalRejected {
		return ErrInvalidStatusTransition
	}
	e.Status = StatusPaid
	e.PaidDate = &now
	if method != nil {
		e.PaymentMethod = method
	}
	if transactionID != nil {
		e.TransactionID = transactionID
	}
	e.UpdatedAt = now
	return nil
}

func (e *Expense) Cancel(now time.Time) error {
	if e.IsDeleted() {
		return ErrExpenseDeleted
	}
	if e.Status != StatusPending {
		return ErrInvalidStatusTransition
	}
	e.Status = StatusCancelled
	e.UpdatedAt = now
	return nil
}

// SoftDelete moves the expense to the deleted lifecycle state.
func (e *Expense) SoftDelete(now time.Time) error {
	if e.IsDeleted() {
		return ErrExpenseDeleted
	}
	e.Lifecycle = LifecycleDeleted
	e.DeletedAt = &now
	e.UpdatedAt = now
	return nil
}

// NewExpenseNumber formats EXP-YYYYMMDD-XXXXX from a sequence value.
func NewExpenseNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("EXP-%s-%05d", now.Format("20060102"), seq%100000)
}

// ExpenseCategory - configurable expense bucket with approval and budget rules
type ExpenseCategory struct {
	ID                 string           `json:"id"`
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
	Active             bool             `json:"active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// RequiresApprovalFor reports whether an expense of amount must go through approval.
func (c *ExpenseCategory) RequiresApprovalFor(amount decimal.Decimal) bool {
	if !c.RequiresApproval {
		return false
	}
	return amount.GreaterThanOrEqual(c.ApprovalThreshold)
}

// BudgetLimit returns the limit for a period name: monthly, quarterly or yearly.
func (c *ExpenseCategory) BudgetLimit(period string) decimal.Decimal {
	switch period {
	case "monthly":
		return c.MonthlyBudgetLimit
	case "quarterly":
		return c.QuarterlyBudget
	case "yearly":
		return c.YearlyBudgetLimit
	}
	return decimal.Zero
}

// ExceedsBudget reports whether amount goes over the category limit for period.
func (c *ExpenseCategory) ExceedsBudget(amount decimal.Decimal, period string) bool {
	if !c.HasBudgetLimit {
		return false
	}
	limit := c.BudgetLimit(period)
	return limit.IsPositive() && amount.GreaterThan(limit)
}
