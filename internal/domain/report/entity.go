package report

import (
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Kind enum
type Kind string

const (
	KindMonthly   Kind = "monthly"
	KindQuarterly Kind = "quarterly"
	KindYearly    Kind = "yearly"
)

// ProfitStatus enum
type ProfitStatus string

const (
	StatusProfit    ProfitStatus = "profit"
	StatusLoss      ProfitStatus = "loss"
	StatusBreakeven ProfitStatus = "breakeven"
)

// Components are the three raw inputs of a month.
type Components struct {
	Period        string          `json:"period"`
	Revenue       decimal.Decimal `json:"revenue"`
	Expenses      decimal.Decimal `json:"expenses"`
	Salary        decimal.Decimal `json:"salary"`
	OrderCount    int             `json:"order_count"`
	EmployeeCount int             `json:"employee_count"`
	ExpenseCount  int             `json:"expense_count"`
	HasPayroll    bool            `json:"has_payroll"`
}

// Add accumulates o into c.
func (c *Components) Add(o Components) {
	c.Revenue = c.Revenue.Add(o.Revenue)
	c.Expenses = c.Expenses.Add(o.Expenses)
	c.Salary = c.Salary.Add(o.Salary)
	c.OrderCount += o.OrderCount
	c.EmployeeCount += o.EmployeeCount
	c.ExpenseCount += o.ExpenseCount
	c.HasPayroll = c.HasPayroll || o.HasPayroll
}

// MonthFailure records a month that could not be loaded.
type MonthFailure struct {
	Period string `json:"period"`
	Reason string `json:"reason"`
}

// FinancialReport is revenue minus expenses minus payroll for a period.
type FinancialReport struct {
	Kind    Kind   `json:"kind"`
	Period  string `json:"period"`
	Year    int    `json:"year"`
	Month   *int   `json:"month,omitempty"`
	Quarter *int   `json:"quarter,omitempty"`

	Revenue           decimal.Decimal `json:"revenue"`
	OperatingExpenses decimal.Decimal `json:"operating_expenses"`
	SalaryCosts       decimal.Decimal `json:"salary_costs"`
	TotalCosts        decimal.Decimal `json:"total_costs"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	GrossMargin       decimal.Decimal `json:"gross_margin"`
	NetMargin         decimal.Decimal `json:"net_margin"`
	ROI               decimal.Decimal `json:"roi"`
	Status            ProfitStatus    `json:"status"`

	OrderCount    int `json:"order_count"`
	EmployeeCount int `json:"employee_count"`
	ExpenseCount  int `json:"expense_count"`

	// Months holds the monthly components of quarterly and yearly reports.
	Months        []Components   `json:"months,omitempty"`
	MissingMonths []string       `json:"missing_months"`
	FailedMonths  []MonthFailure `json:"failed_months"`
	Warnings      []string       `json:"warnings"`

	RevenueDetail *payment.RevenueSummary `json:"revenue_detail,omitempty"`
	ExpenseDetail *expense.Summary        `json:"expense_detail,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// BreakEvenStatus enum
type BreakEvenStatus string

const (
	AboveBreakEven BreakEvenStatus = "above_breakeven"
	BelowBreakEven BreakEvenStatus = "below_breakeven"
)

type BreakEvenAnalysis struct {
	Period           string          `json:"period"`
	CurrentRevenue   decimal.Decimal `json:"current_revenue"`
	FixedCosts       decimal.Decimal `json:"fixed_costs"`
	VariableCosts    decimal.Decimal `json:"variable_costs"`
	BreakEvenRevenue decimal.Decimal `json:"break_even_revenue"`
	RevenueGap       decimal.Decimal `json:"revenue_gap"`
	DailyRevenue     decimal.Decimal `json:"daily_revenue"`
	// DaysToBreakEven is nil when there is no revenue to extrapolate from.
	DaysToBreakEven *int            `json:"days_to_break_even"`
	BreakEvenMargin decimal.Decimal `json:"break_even_margin"`
	Status          BreakEvenStatus `json:"status"`
}

// CashFlowStatus enum
type CashFlowStatus string

const (
	CashFlowPositive CashFlowStatus = "positive"
	CashFlowNegative CashFlowStatus = "negative"
	CashFlowNeutral  CashFlowStatus = "neutral"
)

type CashFlowAnalysis struct {
	Period            string          `json:"period"`
	Inflow            decimal.Decimal `json:"inflow"`
	Outflow           decimal.Decimal `json:"outflow"`
	ExpenseOutflow    decimal.Decimal `json:"expense_outflow"`
	SalaryOutflow     decimal.Decimal `json:"salary_outflow"`
	NetCashFlow       decimal.Decimal `json:"net_cash_flow"`
	OperatingCashFlow decimal.Decimal `json:"operating_cash_flow"`
	CashFlowRatio     decimal.Decimal `json:"cash_flow_ratio"`
	Status            CashFlowStatus  `json:"status"`
}

type KPIs struct {
	Period             string          `json:"period"`
	RevenuePerOrder    decimal.Decimal `json:"revenue_per_order"`
	RevenuePerEmployee decimal.Decimal `json:"revenue_per_employee"`
	AverageSalary      decimal.Decimal `json:"average_salary"`
	ExpenseRatio       decimal.Decimal `json:"expense_ratio"`
	SalaryRatio        decimal.Decimal `json:"salary_ratio"`
	CostRatio          decimal.Decimal `json:"cost_ratio"`
	NetMargin          decimal.Decimal `json:"net_margin"`
	ROI                decimal.Decimal `json:"roi"`
}

// TrendPoint is one month of a trend series.
type TrendPoint struct {
	Period    string          `json:"period"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	Salary    decimal.Decimal `json:"salary"`
	NetProfit decimal.Decimal `json:"net_profit"`
	NetMargin decimal.Decimal `json:"net_margin"`
}

type Trends struct {
	MonthsBack    int            `json:"months_back"`
	Points        []TrendPoint   `json:"points"`
	Averages      TrendPoint     `json:"averages"`
	FailedMonths  []MonthFailure `json:"failed_months"`
	MissingMonths []string       `json:"missing_months"`
}

// Change is the movement of one figure between two periods.
type Change struct {
	Previous      decimal.Decimal `json:"previous"`
	Current       decimal.Decimal `json:"current"`
	Difference    decimal.Decimal `json:"difference"`
	PercentChange decimal.Decimal `json:"percent_change"`
	Trend         payroll.Trend   `json:"trend"`
}

type PeriodComparison struct {
	Current   FinancialReport `json:"current"`
	Previous  FinancialReport `json:"previous"`
	Revenue   Change          `json:"revenue"`
	Expenses  Change          `json:"expenses"`
	Salary    Change          `json:"salary"`
	NetProfit Change          `json:"net_profit"`
}
