package budget

import (
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// CreateFromCategoriesRequest builds a budget from the active expense categories.
// Overrides replaces the planned amount of a category by its id.
type CreateFromCategoriesRequest struct {
	Name        string                     `json:"name"`
	Description *string                    `json:"description,omitempty"`
	Period      Period                     `json:"period"`
	Year        int                        `json:"year"`
	Month       *int                       `json:"month,omitempty"`
	Quarter     *int                       `json:"quarter,omitempty"`
	Overrides   map[string]decimal.Decimal `json:"overrides,omitempty"`
	Notes       *string                    `json:"notes,omitempty"`
	CreatedBy   *string                    `json:"-"`
}

func (r *CreateFromCategoriesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "is required")
	}
	if !r.Period.IsValid() {
		errs.Add("period", "must be one of monthly, quarterly, yearly")
	}
	if !validator.IsValidYear(r.Year) {
		errs.Add("year", "must be 2020 or later")
	}
	if r.Period == PeriodMonthly && (r.Month == nil || !validator.IsValidMonth(*r.Month)) {
		errs.Add("month", "must be between 1 and 12 for a monthly budget")
	}
	if r.Period == PeriodQuarterly && (r.Quarter == nil || !validator.IsValidQuarter(*r.Quarter)) {
		errs.Add("quarter", "must be between 1 and 4 for a quarterly budget")
	}
	for id, v := range r.Overrides {
		if v.IsNegative() {
			errs.Add("overrides."+id, "must be non-negative")
		}
	}

	return errs.Err()
}

type UpdatePlannedRequest struct {
	ID            string          `json:"-"`
	CategoryName  string          `json:"category_name"`
	PlannedAmount decimal.Decimal `json:"planned_amount"`
}

func (r *UpdatePlannedRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.CategoryName) {
		errs.Add("category_name", "is required")
	}
	if r.PlannedAmount.IsNegative() {
		errs.Add("planned_amount", "must be non-negative")
	}
	return errs.Err()
}

type BudgetFilter struct {
	Period *Period
	Year   *int
	Status *Status
}
