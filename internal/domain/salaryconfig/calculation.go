package salaryconfig

import "github.com/shopspring/decimal"

// NetSalaryInput carries the period figures a net salary preview is computed from.
type NetSalaryInput struct {
	// WorkHours falls back to the config's standard hours when omitted.
	WorkHours     *decimal.Decimal `json:"work_hours,omitempty"`
	OvertimeHours decimal.Decimal  `json:"overtime_hours"`
	SalesAmount   decimal.Decimal  `json:"sales_amount"`
	Bonuses       decimal.Decimal  `json:"bonuses"`
	Penalties     decimal.Decimal  `json:"penalties"`
}

// NetSalaryBreakdown itemises every component of CalculateNetSalary.
type NetSalaryBreakdown struct {
	Base        decimal.Decimal `json:"base"`
	Allowances  decimal.Decimal `json:"allowances"`
	Commission  decimal.Decimal `json:"commission"`
	OvertimePay decimal.Decimal `json:"overtime_pay"`
	Bonuses     decimal.Decimal `json:"bonuses"`
	Gross       decimal.Decimal `json:"gross"`
	Deductions  decimal.Decimal `json:"deductions"`
	Penalties   decimal.Decimal `json:"penalties"`
	Insurance   decimal.Decimal `json:"insurance"`
	Tax         decimal.Decimal `json:"tax"`
	Net         decimal.Decimal `json:"net"`
}

// BaseComponent returns the base pay for the given worked hours.
func (c *SalaryConfig) BaseComponent(workHours decimal.Decimal) decimal.Decimal {
	switch c.SalaryType {
	case SalaryTypeFixed, SalaryTypeMixed:
		return c.BaseSalary
	case SalaryTypeHourly:
		return c.HourlyRate.Mul(workHours)
	default:
		return decimal.Zero
	}
}

func (c *SalaryConfig) workHours(in NetSalaryInput) decimal.Decimal {
	if in.WorkHours != nil {
		return *in.WorkHours
	}
	hours := c.StandardWorkHours
	if hours <= 0 {
		hours = DefaultStandardWorkHours
	}
	return decimal.NewFromInt(int64(hours))
}

// CalculateNetSalary computes take-home pay for one period. The result is floored at zero.
// Tax is levied on the running total after deductions, penalties and insurance.
func (c *SalaryConfig) CalculateNetSalary(in NetSalaryInput) NetSalaryBreakdown {
	var b NetSalaryBreakdown

	b.Base = c.BaseComponent(c.workHours(in))
	b.Allowances = c.TotalAllowances
	if c.Commission.Enabled && in.SalesAmount.IsPositive() {
		b.Commission = CalculateCommission(c.Commission, in.SalesAmount)
	}
	b.OvertimePay = c.CalculateOvertimePay(in.OvertimeHours)
	b.Bonuses = in.Bonuses
	b.Gross = b.Base.Add(b.Allowances).Add(b.Commission).Add(b.OvertimePay).Add(b.Bonuses)

	b.Deductions = c.TotalDeductions
	b.Penalties = in.Penalties
	b.Insurance = c.TotalInsurance()

	running := b.Gross.Sub(b.Deductions).Sub(b.Penalties).Sub(b.Insurance)
	if running.IsPositive() {
		b.Tax = running.Mul(c.TaxRate).Div(hundred)
	}
	running = running.Sub(b.Tax)

	if running.IsNegative() {
		running = decimal.Zero
	}
	b.Net = running
	return b
}
