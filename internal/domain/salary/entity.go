package salary

import (
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
)

// RecordStatus enum
type RecordStatus string

const (
	StatusPending  RecordStatus = "PENDING"
	StatusApproved RecordStatus = "APPROVED"
	StatusPaid     RecordStatus = "PAID"
)

func (s RecordStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusPaid
}

// SalaryType is the snapshot pay basis of a record.
type SalaryType string

const (
	SalaryTypeMonthly    SalaryType = "MONTHLY"
	SalaryTypeHourly     SalaryType = "HOURLY"
	SalaryTypeCommission SalaryType = "COMMISSION"
)

// FromConfigType maps a config salary type to the record pay basis.
func FromConfigType(t salaryconfig.SalaryType) SalaryType {
	switch t {
	case salaryconfig.SalaryTypeHourly:
		return SalaryTypeHourly
	case salaryconfig.SalaryTypeCommission:
		return SalaryTypeCommission
	default:
		return SalaryTypeMonthly
	}
}

const DefaultStandardWorkDays = 26

var DefaultOvertimeRate = decimal.NewFromFloat(1.5)

// Allowances breakdown
type Allowances struct {
	Housing   decimal.Decimal `json:"housing"`
	Transport decimal.Decimal `json:"transport"`
	Meal      decimal.Decimal `json:"meal"`
	Phone     decimal.Decimal `json:"phone"`
	Other     decimal.Decimal `json:"other"`
}

func (a Allowances) Total() decimal.Decimal {
	return a.Housing.Add(a.Transport).Add(a.Meal).Add(a.Phone).Add(a.Other)
}

// Deductions breakdown
type Deductions struct {
	Insurance decimal.Decimal `json:"insurance"`
	Tax       decimal.Decimal `json:"tax"`
	Advance   decimal.Decimal `json:"advance"`
	Other     decimal.Decimal `json:"other"`
}

func (d Deductions) Total() decimal.Decimal {
	return d.Insurance.Add(d.Tax).Add(d.Advance).Add(d.Other)
}

// Adjustment is a bonus or penalty amount with its reason.
type Adjustment struct {
	Amount decimal.Decimal `json:"amount"`
	Reason *string         `json:"reason,omitempty"`
}

// SalaryRecord - one employee's payslip for one month
type SalaryRecord struct {
	ID           string            `json:"id"`
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Role         salaryconfig.Role `json:"role"`
	ConfigID     *string           `json:"salary_config_id,omitempty"`
	Month        int               `json:"month"`
	Year         int               `json:"year"`

	// Snapshot of the config at generation time.
	SalaryType SalaryType      `json:"salary_type"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`

	StandardWorkDays int             `json:"standard_work_days"`
	ActualWorkDays   int             `json:"actual_work_days"`
	AbsentDays       int             `json:"absent_days"`
	LateDays         int             `json:"late_days"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	OvertimeRate     decimal.Decimal `json:"overtime_rate"`

	Bonus          Adjustment      `json:"bonus"`
	Penalty        Adjustment      `json:"penalty"`
	Commission     decimal.Decimal `json:"commission"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	SalesAmount    decimal.Decimal `json:"sales_amount"`

	Allowances Allowances `json:"allowances"`
	Deductions Deductions `json:"deductions"`

	// Derived by Recalculate.
	ProratedBase decimal.Decimal `json:"prorated_base"`
	OvertimePay  decimal.Decimal `json:"overtime_pay"`
	GrossSalary  decimal.Decimal `json:"gross_salary"`
	NetSalary    decimal.Decimal `json:"net_salary"`

	Status     RecordStatus `json:"status"`
	ApprovedBy *string      `json:"approved_by,omitempty"`
	ApprovedAt *time.Time   `json:"approved_at,omitempty"`
	PaidAt     *time.Time   `json:"paid_at,omitempty"`
	Notes      *string      `json:"notes,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

var hoursPerDay = decimal.NewFromInt(8)

// ApplyDefaults fills unset work-time fields.
func (r *SalaryRecord) ApplyDefaults() {
	if r.StandardWorkDays <= 0 {
		r.StandardWorkDays = DefaultStandardWorkDays
	}
	if r.OvertimeRate.IsZero() {
		r.OvertimeRate = DefaultOvertimeRate
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
}

// Recalculate derives prorated base, overtime pay, gross and net from the inputs.
// It is idempotent.
func (r *SalaryRecord) Recalculate() {
	r.ProratedBase = r.proratedBase()
	r.OvertimePay = r.overtimePay()

	r.GrossSalary = r.ProratedBase.
		Add(r.OvertimePay).
		Add(r.Commission).
		Add(r.Allowances.Total()).
		Add(r.Bonus.Amount)

	net := r.GrossSalary.Sub(r.Deductions.Total()).Sub(r.Penalty.Amount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	r.NetSalary = net
}

func (r *SalaryRecord) proratedBase() decimal.Decimal {
	if r.SalaryType == SalaryTypeCommission {
		return decimal.Zero
	}
	if r.StandardWorkDays > 0 && r.ActualWorkDays < r.StandardWorkDays {
		return r.BaseSalary.
			Mul(decimal.NewFromInt(int64(r.ActualWorkDays))).
			Div(decimal.NewFromInt(int64(r.StandardWorkDays)))
	}
	return r.BaseSalary
}

func (r *SalaryRecord) overtimePay() decimal.Decimal {
	if !r.OvertimeHours.IsPositive() {
		return decimal.Zero
	}
	var hourly decimal.Decimal
	switch r.SalaryType {
	case SalaryTypeMonthly:
		if r.StandardWorkDays <= 0 {
			return decimal.Zero
		}
		hourly = r.BaseSalary.Div(decimal.NewFromInt(int64(r.StandardWorkDays))).Div(hoursPerDay)
	default:
		hourly = r.HourlyRate
	}
	return hourly.Mul(r.OvertimeHours).Mul(r.OvertimeRate)
}

// CanEdit reports whether inputs may still change.
func (r *SalaryRecord) CanEdit() bool {
	return r.Status != StatusPaid
}

func (r *SalaryRecord) CanDelete() bool {
	return r.Status != StatusPaid
}

// Approve moves a PENDING record to APPROVED.
func (r *SalaryRecord) Approve(approvedBy string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidStatusTransition
	}
	r.Status = StatusApproved
	r.ApprovedBy = &approvedBy
	r.ApprovedAt = &now
	r.UpdatedAt = now
	return nil
}

// MarkAsPaid moves an APPROVED record to PAID.
func (r *SalaryRecord) MarkAsPaid(now time.Time) error {
	if r.Status != StatusApproved {
		return ErrInvalidStatusTransition
	}
	r.Status = StatusPaid
	r.PaidAt = &now
	r.UpdatedAt = now
	return nil
}

// SetCommission stores the commission earned on sales at rate and recalculates.
func (r *SalaryRecord) SetCommission(sales, commission, rate decimal.Decimal) {
	r.SalesAmount = sales
	r.Commission = commission
	r.CommissionRate = rate
	r.Recalculate()
}

// Period formats the record month as "YYYY-MM".
func (r *SalaryRecord) Period() string {
	return time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
