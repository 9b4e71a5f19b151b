package salary

import (
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSalaryRecordRequest struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Role         salaryconfig.Role `json:"role"`
	Month        int               `json:"month"`
	Year         int               `json:"year"`

	SalaryType SalaryType      `json:"salary_type"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`

	StandardWorkDays int             `json:"standard_work_days"`
	ActualWorkDays   *int            `json:"actual_work_days,omitempty"`
	AbsentDays       int             `json:"absent_days"`
	LateDays         int             `json:"late_days"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	OvertimeRate     decimal.Decimal `json:"overtime_rate"`

	Bonus          Adjustment      `json:"bonus"`
	Penalty        Adjustment      `json:"penalty"`
	Commission     decimal.Decimal `json:"commission"`
	CommissionRate decimal.Decimal `json:"commission_rate"`

	Allowances Allowances `json:"allowances"`
	Deductions Deductions `json:"deductions"`
	Notes      *string    `json:"notes,omitempty"`
}

func (r *CreateSalaryRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}
	if validator.IsEmpty(r.EmployeeName) {
		errs.Add("employee_name", "is required")
	}
	if r.Role != "" && !r.Role.IsValid() {
		errs.Add("role", "is invalid")
	}
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "must be between 1 and 12")
	}
	if !validator.IsValidYear(r.Year) {
		errs.Add("year", "must be 2020 or later")
	}
	if r.SalaryType != "" && r.SalaryType != SalaryTypeMonthly && r.SalaryType != SalaryTypeHourly && r.SalaryType != SalaryTypeCommission {
		errs.Add("salary_type", "must be one of MONTHLY, HOURLY, COMMISSION")
	}
	if r.BaseSalary.IsNegative() {
		errs.Add("base_salary", "must be non-negative")
	}
	if r.HourlyRate.IsNegative() {
		errs.Add("hourly_rate", "must be non-negative")
	}
	if r.StandardWorkDays < 0 || r.StandardWorkDays > 31 {
		errs.Add("standard_work_days", "must be between 0 and 31")
	}
	if r.ActualWorkDays != nil && (*r.ActualWorkDays < 0 || *r.ActualWorkDays > 31) {
		errs.Add("actual_work_days", "must be between 0 and 31")
	}
	if r.AbsentDays < 0 || r.LateDays < 0 {
		errs.Add("absent_days", "absent and late days must be non-negative")
	}

	errs = append(errs, validateMoney(moneyInputs{
		OvertimeHours:  r.OvertimeHours,
		OvertimeRate:   r.OvertimeRate,
		Bonus:          r.Bonus.Amount,
		Penalty:        r.Penalty.Amount,
		Commission:     r.Commission,
		CommissionRate: r.CommissionRate,
		Allowances:     r.Allowances,
		Deductions:     r.Deductions,
	})...)

	return errs.Err()
}

// UpdateSalaryRecordRequest edits the inputs of a record that is not yet paid.
type UpdateSalaryRecordRequest struct {
	ID               string           `json:"-"`
	ActualWorkDays   *int             `json:"actual_work_days,omitempty"`
	AbsentDays       *int             `json:"absent_days,omitempty"`
	LateDays         *int             `json:"late_days,omitempty"`
	OvertimeHours    *decimal.Decimal `json:"overtime_hours,omitempty"`
	OvertimeRate     *decimal.Decimal `json:"overtime_rate,omitempty"`
	Bonus            *Adjustment      `json:"bonus,omitempty"`
	Penalty          *Adjustment      `json:"penalty,omitempty"`
	Commission       *decimal.Decimal `json:"commission,omitempty"`
	CommissionRate   *decimal.Decimal `json:"commission_rate,omitempty"`
	Allowances       *Allowances      `json:"allowances,omitempty"`
	Deductions       *Deductions      `json:"deductions,omitempty"`
	StandardWorkDays *int             `json:"standard_work_days,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

func (r *UpdateSalaryRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ActualWorkDays != nil && (*r.ActualWorkDays < 0 || *r.ActualWorkDays > 31) {
		errs.Add("actual_work_days", "must be between 0 and 31")
	}
	if r.StandardWorkDays != nil && (*r.StandardWorkDays <= 0 || *r.StandardWorkDays > 31) {
		errs.Add("standard_work_days", "must be between 1 and 31")
	}
	if r.AbsentDays != nil && *r.AbsentDays < 0 {
		errs.Add("absent_days", "must be non-negative")
	}
	if r.LateDays != nil && *r.LateDays < 0 {
		errs.Add("late_days", "must be non-negative")
	}

	var in moneyInputs
	if r.OvertimeHours != nil {
		in.OvertimeHours = *r.OvertimeHours
	}
	if r.OvertimeRate != nil {
		in.OvertimeRate = *r.OvertimeRate
	}
	if r.Bonus != nil {
		in.Bonus = r.Bonus.Amount
	}
	if r.Penalty != nil {
		in.Penalty = r.Penalty.Amount
	}
	if r.Commission != nil {
		in.Commission = *r.Commission
	}
	if r.CommissionRate != nil {
		in.CommissionRate = *r.CommissionRate
	}
	if r.Allowances != nil {
		in.Allowances = *r.Allowances
	}
	if r.Deductions != nil {
		in.Deductions = *r.Deductions
	}
	errs = append(errs, validateMoney(in)...)

	return errs.Err()
}

type SalaryRecordFilter struct {
	Month      *int
	Year       *int
	EmployeeID *string
	Status     *RecordStatus
	Role       *salaryconfig.Role
	Limit      int
}

type ApproveRequest struct {
	ID         string `json:"-"`
	ApprovedBy string `json:"approved_by"`
}

type BulkApproveRequest struct {
	IDs        []string `json:"ids"`
	ApprovedBy string   `json:"approved_by"`
}

func (r *BulkApproveRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.IDs) == 0 {
		errs.Add("ids", "at least one id is required")
	}
	if validator.IsEmpty(r.ApprovedBy) {
		errs.Add("approved_by", "is required")
	}
	return errs.Err()
}

// BulkFailure names an item a bulk action could not apply to.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type moneyInputs struct {
	OvertimeHours  decimal.Decimal
	OvertimeRate   decimal.Decimal
	Bonus          decimal.Decimal
	Penalty        decimal.Decimal
	Commission     decimal.Decimal
	CommissionRate decimal.Decimal
	Allowances     Allowances
	Deductions     Deductions
}

func validateMoney(in moneyInputs) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if in.OvertimeHours.IsNegative() {
		errs.Add("overtime_hours", "must be non-negative")
	}
	if in.OvertimeRate.IsNegative() {
		errs.Add("overtime_rate", "must be non-negative")
	}
	if in.Bonus.IsNegative() {
		errs.Add("bonus", "must be non-negative")
	}
	if in.Penalty.IsNegative() {
		errs.Add("penalty", "must be non-negative")
	}
	if in.Commission.IsNegative() {
		errs.Add("commission", "must be non-negative")
	}
	if in.CommissionRate.IsNegative() {
		errs.Add("commission_rate", "must be non-negative")
	}
	a := in.Allowances
	if a.Housing.IsNegative() || a.Transport.IsNegative() || a.Meal.IsNegative() || a.Phone.IsNegative() || a.Other.IsNegative() {
		errs.Add("allowances", "amounts must be non-negative")
	}
	dd := in.Deductions
	if dd.Insurance.IsNegative() || dd.Tax.IsNegative() || dd.Advance.IsNegative() || dd.Other.IsNegative() {
		errs.Add("deductions", "amounts must be non-negative")
	}
	return errs
}
