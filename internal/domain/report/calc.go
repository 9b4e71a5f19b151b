package report

import (
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	daysPerMon = decimal.NewFromInt(30)
)

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func ratio(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b).Round(2)
}

// Apply fills every derived figure of r from c.
func (r *FinancialReport) Apply(c Components) {
	r.Revenue = c.Revenue
	r.OperatingExpenses = c.Expenses
	r.SalaryCosts = c.Salary
	r.OrderCount = c.OrderCount
	r.EmployeeCount = c.EmployeeCount
	r.ExpenseCount = c.ExpenseCount

	r.TotalCosts = c.Expenses.Add(c.Salary)
	r.GrossProfit = c.Revenue.Sub(c.Expenses)
	r.NetProfit = c.Revenue.Sub(r.TotalCosts)
	r.GrossMargin = percent(r.GrossProfit, c.Revenue)
	r.NetMargin = percent(r.NetProfit, c.Revenue)
	r.ROI = percent(r.NetProfit, r.TotalCosts)

	switch r.NetProfit.Sign() {
	case 1:
		r.Status = StatusProfit
	case -1:
		r.Status = StatusLoss
	default:
		r.Status = StatusBreakeven
	}
}

// BreakEven treats every cost as fixed. Days to break even extrapolate the period's
// revenue over a 30-day month; they are nil when revenue is zero.
func BreakEven(r FinancialReport) BreakEvenAnalysis {
	a := BreakEvenAnalysis{
		Period:           r.Period,
		CurrentRevenue:   r.Revenue,
		FixedCosts:       r.TotalCosts,
		VariableCosts:    decimal.Zero,
		BreakEvenRevenue: r.TotalCosts,
		RevenueGap:       r.TotalCosts.Sub(r.Revenue),
	}
	a.DailyRevenue = r.Revenue.Div(daysPerMon).Round(2)

	if r.Revenue.IsPositive() {
		days := 0
		if a.RevenueGap.IsPositive() {
			// gap / (revenue/30) without rounding the daily figure first
			days = int(a.RevenueGap.Mul(daysPerMon).Div(r.Revenue).Ceil().IntPart())
		}
		a.DaysToBreakEven = &days
	}

	a.BreakEvenMargin = percent(r.Revenue.Sub(a.BreakEvenRevenue), r.Revenue)
	if r.Revenue.GreaterThanOrEqual(a.BreakEvenRevenue) {
		a.Status = AboveBreakEven
	} else {
		a.Status = BelowBreakEven
	}
	return a
}

func CashFlow(r FinancialReport) CashFlowAnalysis {
	a := CashFlowAnalysis{
		Period:         r.Period,
		Inflow:         r.Revenue,
		Outflow:        r.TotalCosts,
		ExpenseOutflow: r.OperatingExpenses,
		SalaryOutflow:  r.SalaryCosts,
	}
	a.NetCashFlow = a.Inflow.Sub(a.Outflow)
	a.OperatingCashFlow = a.NetCashFlow
	a.CashFlowRatio = ratio(a.Inflow, a.Outflow)
	switch a.NetCashFlow.Sign() {
	case 1:
		a.Status = CashFlowPositive
	case -1:
		a.Status = CashFlowNegative
	default:
		a.Status = CashFlowNeutral
	}
	return a
}

func ComputeKPIs(r FinancialReport) KPIs {
	return KPIs{
		Period:             r.Period,
		RevenuePerOrder:    ratio(r.Revenue, decimal.NewFromInt(int64(r.OrderCount))),
		RevenuePerEmployee: ratio(r.Revenue, decimal.NewFromInt(int64(r.EmployeeCount))),
		AverageSalary:      ratio(r.SalaryCosts, decimal.NewFromInt(int64(r.EmployeeCount))),
		ExpenseRatio:       percent(r.OperatingExpenses, r.Revenue),
		SalaryRatio:        percent(r.SalaryCosts, r.Revenue),
		CostRatio:          percent(r.TotalCosts, r.Revenue),
		NetMargin:          r.NetMargin,
		ROI:                r.ROI,
	}
}

// ChangeOf compares current against previous. With absBase the percentage is taken
// against |previous| so a move from a loss toward profit reads as an increase.
func ChangeOf(previous, current decimal.Decimal, absBase bool) Change {
	diff := current.Sub(previous)
	base := previous
	if absBase {
		base = previous.Abs()
	}
	return Change{
		Previous:      previous,
		Current:       current,
		Difference:    diff,
		PercentChange: percent(diff, base),
		Trend:         payroll.TrendOf(diff),
	}
}

func Compare(previous, current FinancialReport) PeriodComparison {
	return PeriodComparison{
		Current:   current,
		Previous:  previous,
		Revenue:   ChangeOf(previous.Revenue, current.Revenue, false),
		Expenses:  ChangeOf(previous.OperatingExpenses, current.OperatingExpenses, false),
		Salary:    ChangeOf(previous.SalaryCosts, current.SalaryCosts, false),
		NetProfit: ChangeOf(previous.NetProfit, current.NetProfit, true),
	}
}

// BuildTrends converts monthly reports into a series with averages over the points.
func BuildTrends(monthsBack int, reports []FinancialReport) Trends {
	t := Trends{
		MonthsBack:    monthsBack,
		Points:        make([]TrendPoint, 0, len(reports)),
		FailedMonths:  []MonthFailure{},
		MissingMonths: []string{},
	}
	var sum TrendPoint
	for _, r := range reports {
		p := TrendPoint{
			Period:    r.Period,
			Revenue:   r.Revenue,
			Expenses:  r.OperatingExpenses,
			Salary:    r.SalaryCosts,
			NetProfit: r.NetProfit,
			NetMargin: r.NetMargin,
		}
		t.Points = append(t.Points, p)
		sum.Revenue = sum.Revenue.Add(p.Revenue)
		sum.Expenses = sum.Expenses.Add(p.Expenses)
		sum.Salary = sum.Salary.Add(p.Salary)
		sum.NetProfit = sum.NetProfit.Add(p.NetProfit)
	}
	if n := len(t.Points); n > 0 {
		div := decimal.NewFromInt(int64(n))
		t.Averages = TrendPoint{
			Period:    "average",
			Revenue:   sum.Revenue.Div(div).Round(2),
			Expenses:  sum.Expenses.Div(div).Round(2),
			Salary:    sum.Salary.Div(div).Round(2),
			NetProfit: sum.NetProfit.Div(div).Round(2),
			NetMargin: percent(sum.NetProfit, sum.Revenue),
		}
	}
	return t
}
