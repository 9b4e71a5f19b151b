package budget

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// Period enum
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

func (p Period) IsValid() bool {
	return p == PeriodMonthly || p == PeriodQuarterly || p == PeriodYearly
}

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var hundred = decimal.NewFromInt(100)

// CategoryBudget is the plan and actual spend for one expense type.
type CategoryBudget struct {
	CategoryID      *string             `json:"category_id,omitempty"`
	CategoryName    string              `json:"category_name"`
	Type            expense.ExpenseType `json:"type"`
	Category        expense.Category    `json:"category"`
	PlannedAmount   decimal.Decimal     `json:"planned_amount"`
	ActualAmount    decimal.Decimal     `json:"actual_amount"`
	Variance        decimal.Decimal     `json:"variance"`
	VariancePercent decimal.Decimal     `json:"variance_percent"`
	Notes           *string             `json:"notes,omitempty"`
}

func (c *CategoryBudget) recalculate() {
	c.Variance = c.ActualAmount.Sub(c.PlannedAmount)
	c.VariancePercent = percentOf(c.Variance, c.PlannedAmount)
}

// Utilization is actual/planned×100, or 0 when nothing was planned.
func (c CategoryBudget) Utilization() decimal.Decimal {
	return percentOf(c.ActualAmount, c.PlannedAmount)
}

// Budget - planned vs actual spend for one period
type Budget struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	Period          Period           `json:"period"`
	Year            int              `json:"year"`
	Month           *int             `json:"month,omitempty"`
	Quarter         *int             `json:"quarter,omitempty"`
	CategoryBudgets []CategoryBudget `json:"category_budgets"`

	TotalPlannedAmount decimal.Decimal `json:"total_planned_amount"`
	TotalActualAmount  decimal.Decimal `json:"total_actual_amount"`
	TotalVariance      decimal.Decimal `json:"total_variance"`
	VariancePercent    decimal.Decimal `json:"variance_percent"`

	Status           Status     `json:"status"`
	LastCalculatedAt *time.Time `json:"last_calculated_at,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedBy        *string    `json:"created_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// RecalculateTotals refreshes every category variance and all totals together.
func (b *Budget) RecalculateTotals() {
	planned := decimal.Zero
	actual := decimal.Zero
	for i := range b.CategoryBudgets {
		cb := &b.CategoryBudgets[i]
		cb.recalculate()
		planned = planned.Add(cb.PlannedAmount)
		actual = actual.Add(cb.ActualAmount)
	}
	b.TotalPlannedAmount = planned
	b.TotalActualAmount = actual
	b.TotalVariance = actual.Sub(planned)
	b.VariancePercent = percentOf(b.TotalVariance, planned)
}

// ApplyActuals overwrites each category's actual amount with the paid total of its type.
// Types missing from paid are reset to zero, so repeated calls give the same result.
func (b *Budget) ApplyActuals(paid map[expense.ExpenseType]expense.Bucket, now time.Time) {
	for i := range b.CategoryBudgets {
		cb := &b.CategoryBudgets[i]
		cb.ActualAmount = paid[cb.Type].Total
	}
	b.RecalculateTotals()
	b.LastCalculatedAt = &now
	b.UpdatedAt = now
}

// Utilization is total actual/planned×100, or 0 when nothing was planned.
func (b *Budget) Utilization() decimal.Decimal {
	return percentOf(b.TotalActualAmount, b.TotalPlannedAmount)
}

func (b *Budget) IsOverBudget() bool {
	return b.TotalActualAmount.GreaterThan(b.TotalPlannedAmount)
}

func (b *Budget) RemainingBudget() decimal.Decimal {
	return b.TotalPlannedAmount.Sub(b.TotalActualAmount)
}

// Months lists the calendar months the budget covers.
func (b *Budget) Months() []period.Month {
	switch b.Period {
	case PeriodMonthly:
		if b.Month != nil {
			return []period.Month{{Year: b.Year, Month: *b.Month}}
		}
	case PeriodQuarterly:
		if b.Quarter != nil {
			return period.QuarterMonths(b.Year, *b.Quarter)
		}
	case PeriodYearly:
		return period.YearMonths(b.Year)
	}
	return nil
}

// PeriodLabel renders the budget period, e.g. "2024-03", "Q2 2024" or "2024".
func (b *Budget) PeriodLabel() string {
	switch b.Period {
	case PeriodMonthly:
		if b.Month != nil {
			return period.Key(b.Year, *b.Month)
		}
	case PeriodQuarterly:
		if b.Quarter != nil {
			return fmt.Sprintf("Q%d %d", *b.Quarter, b.Year)
		}
	}
	return fmt.Sprintf("%d", b.Year)
}

func (b *Budget) transition(from []Status, to Status, now time.Time) error {
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			b.UpdatedAt = now
			return nil
		}
	}
	return ErrInvalidStatusTransition
}

func (b *Budget) Activate(now time.Time) error {
	return b.transition([]Status{StatusDraft}, StatusActive, now)
}

func (b *Budget) Complete(now time.Time) error {
	return b.transition([]Status{StatusActive}, StatusCompleted, now)
}

func (b *Budget) Cancel(now time.Time) error {
	return b.transition([]Status{StatusDraft, StatusActive}, StatusCancelled, now)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
