package salaryconfig

import (
	"strings"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSalaryConfigRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Role         Role   `json:"role"`

	SalaryType SalaryType      `json:"salary_type"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`

	Commission CommissionRule `json:"commission"`

	Allowances []LineItem `json:"allowances"`
	Deductions []LineItem `json:"deductions"`

	TaxRate               decimal.Decimal `json:"tax_rate"`
	SocialInsurance       decimal.Decimal `json:"social_insurance"`
	HealthInsurance       decimal.Decimal `json:"health_insurance"`
	UnemploymentInsurance decimal.Decimal `json:"unemployment_insurance"`

	StandardWorkHours int             `json:"standard_work_hours"`
	OvertimeRate      decimal.Decimal `json:"overtime_rate"`

	EffectiveDate *string `json:"effective_date,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedBy     *string `json:"-"`
}

func (r *CreateSalaryConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}
	if validator.IsEmpty(r.EmployeeName) {
		errs.Add("employee_name", "is required")
	}
	if !r.Role.IsValid() {
		errs.Add("role", "is invalid")
	}
	if !r.SalaryType.IsValid() {
		errs.Add("salary_type", "must be one of fixed, hourly, commission, mixed")
	}
	if r.SalaryType == SalaryTypeHourly && !r.HourlyRate.IsPositive() {
		errs.Add("hourly_rate", "must be greater than 0 for hourly salary type")
	}
	if r.StandardWorkHours < 0 {
		errs.Add("standard_work_hours", "must be non-negative")
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs.Add("effective_date", "must be in YYYY-MM-DD format")
		}
	}

	errs = append(errs, validateAmounts(amountFields{
		BaseSalary:            r.BaseSalary,
		HourlyRate:            r.HourlyRate,
		TaxRate:               r.TaxRate,
		SocialInsurance:       r.SocialInsurance,
		HealthInsurance:       r.HealthInsurance,
		UnemploymentInsurance: r.UnemploymentInsurance,
		OvertimeRate:          r.OvertimeRate,
	})...)
	errs = append(errs, validateCommission(r.Commission)...)
	errs = append(errs, validateLineItems("allowances", r.Allowances)...)
	errs = append(errs, validateLineItems("deductions", r.Deductions)...)

	return errs.Err()
}

type UpdateSalaryConfigRequest struct {
	ID           string           `json:"-"`
	EmployeeName *string          `json:"employee_name,omitempty"`
	Role         *Role            `json:"role,omitempty"`
	SalaryType   *SalaryType      `json:"salary_type,omitempty"`
	BaseSalary   *decimal.Decimal `json:"base_salary,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate,omitempty"`

	Commission *CommissionRule `json:"commission,omitempty"`

	// Present lists replace the existing line items wholesale; an empty list clears them.
	Allowances *[]LineItem `json:"allowances,omitempty"`
	Deductions *[]LineItem `json:"deductions,omitempty"`

	TaxRate               *decimal.Decimal `json:"tax_rate,omitempty"`
	SocialInsurance       *decimal.Decimal `json:"social_insurance,omitempty"`
	HealthInsurance       *decimal.Decimal `json:"health_insurance,omitempty"`
	UnemploymentInsurance *decimal.Decimal `json:"unemployment_insurance,omitempty"`

	StandardWorkHours *int             `json:"standard_work_hours,omitempty"`
	OvertimeRate      *decimal.Decimal `json:"overtime_rate,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

func (r *UpdateSalaryConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeName != nil && validator.IsEmpty(*r.EmployeeName) {
		errs.Add("employee_name", "cannot be empty")
	}
	if r.Role != nil && !r.Role.IsValid() {
		errs.Add("role", "is invalid")
	}
	if r.SalaryType != nil && !r.SalaryType.IsValid() {
		errs.Add("salary_type", "must be one of fixed, hourly, commission, mixed")
	}
	if r.StandardWorkHours != nil && *r.StandardWorkHours < 0 {
		errs.Add("standard_work_hours", "must be non-negative")
	}

	var f amountFields
	f.BaseSalary = deref(r.BaseSalary)
	f.HourlyRate = deref(r.HourlyRate)
	f.TaxRate = deref(r.TaxRate)
	f.SocialInsurance = deref(r.SocialInsurance)
	f.HealthInsurance = deref(r.HealthInsurance)
	f.UnemploymentInsurance = deref(r.UnemploymentInsurance)
	f.OvertimeRate = deref(r.OvertimeRate)
	errs = append(errs, validateAmounts(f)...)

	if r.Commission != nil {
		errs = append(errs, validateCommission(*r.Commission)...)
	}
	if r.Allowances != nil {
		errs = append(errs, validateLineItems("allowances", *r.Allowances)...)
	}
	if r.Deductions != nil {
		errs = append(errs, validateLineItems("deductions", *r.Deductions)...)
	}

	return errs.Err()
}

type SalaryConfigFilter struct {
	Role       *Role
	Status     *ConfigStatus
	SalaryType *SalaryType
	Search     *string
}

// PreviewNetSalaryRequest runs the net salary calculation against an employee's active config.
type PreviewNetSalaryRequest struct {
	EmployeeID string `json:"-"`
	NetSalaryInput
}

func (r *PreviewNetSalaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.WorkHours != nil && r.WorkHours.IsNegative() {
		errs.Add("work_hours", "must be non-negative")
	}
	for field, v := range map[string]decimal.Decimal{
		"overtime_hours": r.OvertimeHours,
		"sales_amount":   r.SalesAmount,
		"bonuses":        r.Bonuses,
		"penalties":      r.Penalties,
	} {
		if v.IsNegative() {
			errs.Add(field, "must be non-negative")
		}
	}
	return errs.Err()
}

type amountFields struct {
	BaseSalary            decimal.Decimal
	HourlyRate            decimal.Decimal
	TaxRate               decimal.Decimal
	SocialInsurance       decimal.Decimal
	HealthInsurance       decimal.Decimal
	UnemploymentInsurance decimal.Decimal
	OvertimeRate          decimal.Decimal
}

func validateAmounts(f amountFields) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if f.BaseSalary.IsNegative() {
		errs.Add("base_salary", "must be non-negative")
	}
	if f.HourlyRate.IsNegative() {
		errs.Add("hourly_rate", "must be non-negative")
	}
	if !validator.IsValidPercent(f.TaxRate) {
		errs.Add("tax_rate", "must be between 0 and 100")
	}
	if f.SocialInsurance.IsNegative() {
		errs.Add("social_insurance", "must be non-negative")
	}
	if f.HealthInsurance.IsNegative() {
		errs.Add("health_insurance", "must be non-negative")
	}
	if f.UnemploymentInsurance.IsNegative() {
		errs.Add("unemployment_insurance", "must be non-negative")
	}
	if !f.OvertimeRate.IsZero() && f.OvertimeRate.LessThan(decimal.NewFromInt(1)) {
		errs.Add("overtime_rate", "must be at least 1")
	}
	return errs
}

func validateCommission(rule CommissionRule) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !rule.Enabled {
		return errs
	}
	if !rule.Type.IsValid() {
		errs.Add("commission.commission_type", "must be one of percentage, fixed_amount, tiered")
		return errs
	}
	if rule.Rate.IsNegative() {
		errs.Add("commission.commission_rate", "must be non-negative")
	}
	if rule.Type == CommissionPercentage && !validator.IsValidPercent(rule.Rate) {
		errs.Add("commission.commission_rate", "must be between 0 and 100")
	}
	if rule.Type == CommissionTiered {
		if len(rule.Tiers) == 0 {
			errs.Add("commission.commission_tiers", "at least one tier is required")
		}
		if !TiersStrictlyIncreasing(rule.Tiers) {
			errs.Add("commission.commission_tiers", "min_amount must be strictly increasing")
		}
		for _, t := range rule.Tiers {
			if t.MinAmount.IsNegative() || !validator.IsValidPercent(t.Rate) {
				errs.Add("commission.commission_tiers", "min_amount must be non-negative and rate between 0 and 100")
				break
			}
		}
	}
	return errs
}

func validateLineItems(field string, items []LineItem) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for _, it := range items {
		if strings.TrimSpace(it.Label) == "" {
			errs.Add(field, "label is required")
			break
		}
		if it.Amount.IsNegative() {
			errs.Add(field, "amount must be non-negative")
			break
		}
	}
	return errs
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
