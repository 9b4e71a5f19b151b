package salaryconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role enum
type Role string

const (
	RoleManager         Role = "manager"
	RoleReceptionist    Role = "receptionist"
	RolePersonalTrainer Role = "personal_trainer"
	RoleCleaner         Role = "cleaner"
	RoleSecurity        Role = "security"
	RoleAccountant      Role = "accountant"
	RoleMarketing       Role = "marketing"
	RoleOther           Role = "other"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleManager, RoleReceptionist, RolePersonalTrainer, RoleCleaner,
		RoleSecurity, RoleAccountant, RoleMarketing, RoleOther:
		return true
	}
	return false
}

// SalaryType enum
type SalaryType string

const (
	SalaryTypeFixed      SalaryType = "fixed"
	SalaryTypeHourly     SalaryType = "hourly"
	SalaryTypeCommission SalaryType = "commission"
	SalaryTypeMixed      SalaryType = "mixed"
)

func (t SalaryType) IsValid() bool {
	switch t {
	case SalaryTypeFixed, SalaryTypeHourly, SalaryTypeCommission, SalaryTypeMixed:
		return true
	}
	return false
}

// ConfigStatus enum
type ConfigStatus string

const (
	StatusActive   ConfigStatus = "active"
	StatusInactive ConfigStatus = "inactive"
	StatusPending  ConfigStatus = "pending"
)

func (s ConfigStatus) IsValid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusPending
}

const (
	DefaultStandardWorkHours = 176
	HoursPerDay              = 8
)

// DefaultOvertimeRate is the overtime multiplier used when none is configured.
var DefaultOvertimeRate = decimal.NewFromFloat(1.5)

// LineItem is a labelled allowance or deduction amount.
type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// SalaryConfig - per-employee pay structure
type SalaryConfig struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Role         Role   `json:"role"`

	SalaryType SalaryType      `json:"salary_type"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`

	Commission CommissionRule `json:"commission"`

	Allowances      []LineItem      `json:"allowances"`
	Deductions      []LineItem      `json:"deductions"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`

	TaxRate               decimal.Decimal `json:"tax_rate"`
	SocialInsurance       decimal.Decimal `json:"social_insurance"`
	HealthInsurance       decimal.Decimal `json:"health_insurance"`
	UnemploymentInsurance decimal.Decimal `json:"unemployment_insurance"`

	StandardWorkHours int             `json:"standard_work_hours"`
	OvertimeRate      decimal.Decimal `json:"overtime_rate"`

	Status        ConfigStatus `json:"status"`
	EffectiveDate time.Time    `json:"effective_date"`
	EndDate       *time.Time   `json:"end_date,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	CreatedBy     *string      `json:"created_by,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ApplyDefaults fills zero-valued work-time fields.
func (c *SalaryConfig) ApplyDefaults() {
	if c.StandardWorkHours <= 0 {
		c.StandardWorkHours = DefaultStandardWorkHours
	}
	if c.OvertimeRate.IsZero() {
		c.OvertimeRate = DefaultOvertimeRate
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
}

// StandardWorkDays derives the working-day baseline from StandardWorkHours.
func (c *SalaryConfig) StandardWorkDays() int {
	days := c.StandardWorkHours / HoursPerDay
	if days <= 0 {
		return DefaultStandardWorkHours / HoursPerDay
	}
	return days
}

// RecalculateTotals recomputes TotalAllowances and TotalDeductions from the line items.
func (c *SalaryConfig) RecalculateTotals() {
	c.TotalAllowances = sumItems(c.Allowances)
	c.TotalDeductions = sumItems(c.Deductions)
}

// AddAllowance appends an allowance and returns the new total.
func (c *SalaryConfig) AddAllowance(label string, amount decimal.Decimal) decimal.Decimal {
	c.Allowances = append(c.Allowances, LineItem{Label: label, Amount: amount})
	c.RecalculateTotals()
	return c.TotalAllowances
}

// RemoveAllowance removes the allowance at index and returns the new total.
func (c *SalaryConfig) RemoveAllowance(index int) (decimal.Decimal, error) {
	items, err := removeAt(c.Allowances, index)
	if err != nil {
		return c.TotalAllowances, err
	}
	c.Allowances = items
	c.RecalculateTotals()
	return c.TotalAllowances, nil
}

// AddDeduction appends a deduction and returns the new total.
func (c *SalaryConfig) AddDeduction(label string, amount decimal.Decimal) decimal.Decimal {
	c.Deductions = append(c.Deductions, LineItem{Label: label, Amount: amount})
	c.RecalculateTotals()
	return c.TotalDeductions
}

// RemoveDeduction removes the deduction at index and returns the new total.
func (c *SalaryConfig) RemoveDeduction(index int) (decimal.Decimal, error) {
	items, err := removeAt(c.Deductions, index)
	if err != nil {
		return c.TotalDeductions, err
	}
	c.Deductions = items
	c.RecalculateTotals()
	return c.TotalDeductions, nil
}

// TotalInsurance sums the three statutory insurance amounts.
func (c *SalaryConfig) TotalInsurance() decimal.Decimal {
	return c.SocialInsurance.Add(c.HealthInsurance).Add(c.UnemploymentInsurance)
}

// EffectiveHourlyRate is the rate overtime is paid against.
// Monthly-salaried configs derive it from the base salary.
func (c *SalaryConfig) EffectiveHourlyRate() decimal.Decimal {
	switch c.SalaryType {
	case SalaryTypeFixed, SalaryTypeMixed:
		return c.BaseSalary.
			Div(decimal.NewFromInt(int64(c.StandardWorkDays()))).
			Div(decimal.NewFromInt(HoursPerDay))
	default:
		return c.HourlyRate
	}
}

// CalculateOvertimePay returns effective hourly rate × hours × overtime multiplier.
func (c *SalaryConfig) CalculateOvertimePay(hours decimal.Decimal) decimal.Decimal {
	if !hours.IsPositive() {
		return decimal.Zero
	}
	rate := c.OvertimeRate
	if rate.IsZero() {
		rate = DefaultOvertimeRate
	}
	return c.EffectiveHourlyRate().Mul(hours).Mul(rate)
}

func (c *SalaryConfig) IsActive() bool {
	return c.Status == StatusActive
}

// Deactivate marks the config inactive and closes it at now.
func (c *SalaryConfig) Deactivate(now time.Time) {
	c.Status = StatusInactive
	c.EndDate = &now
	c.UpdatedAt = now
}

func sumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

func removeAt(items []LineItem, index int) ([]LineItem, error) {
	if index < 0 || index >= len(items) {
		return items, ErrLineItemNotFound
	}
	out := make([]LineItem, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}
