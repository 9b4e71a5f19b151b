package payroll

import (
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
)

// Outcome of one employee within a batch run.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// BatchItem reports what happened to a single employee.
type BatchItem struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	RecordID     string `json:"record_id,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// BatchResult partitions a batch run by outcome. A failed item never aborts the run.
type BatchResult struct {
	Month     int         `json:"month"`
	Year      int         `json:"year"`
	Succeeded []BatchItem `json:"succeeded"`
	Skipped   []BatchItem `json:"skipped"`
	Failed    []BatchItem `json:"failed"`
}

func NewBatchResult(month, year int) BatchResult {
	return BatchResult{
		Month:     month,
		Year:      year,
		Succeeded: []BatchItem{},
		Skipped:   []BatchItem{},
		Failed:    []BatchItem{},
	}
}

func (b *BatchResult) Add(outcome Outcome, item BatchItem) {
	switch outcome {
	case OutcomeSucceeded:
		b.Succeeded = append(b.Succeeded, item)
	case OutcomeSkipped:
		b.Skipped = append(b.Skipped, item)
	default:
		b.Failed = append(b.Failed, item)
	}
}

func (b BatchResult) Total() int {
	return len(b.Succeeded) + len(b.Skipped) + len(b.Failed)
}

// Totals sums every numeric field over a set of salary records.
type Totals struct {
	BaseSalary  decimal.Decimal `json:"base_salary"`
	Allowances  decimal.Decimal `json:"allowances"`
	Deductions  decimal.Decimal `json:"deductions"`
	OvertimePay decimal.Decimal `json:"overtime_pay"`
	Bonuses     decimal.Decimal `json:"bonuses"`
	Penalties   decimal.Decimal `json:"penalties"`
	Commission  decimal.Decimal `json:"commission"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	NetSalary   decimal.Decimal `json:"net_salary"`
}

// Add accumulates rec into t.
func (t *Totals) Add(rec salary.SalaryRecord) {
	t.BaseSalary = t.BaseSalary.Add(rec.BaseSalary)
	t.Allowances = t.Allowances.Add(rec.Allowances.Total())
	t.Deductions = t.Deductions.Add(rec.Deductions.Total())
	t.OvertimePay = t.OvertimePay.Add(rec.OvertimePay)
	t.Bonuses = t.Bonuses.Add(rec.Bonus.Amount)
	t.Penalties = t.Penalties.Add(rec.Penalty.Amount)
	t.Commission = t.Commission.Add(rec.Commission)
	t.GrossSalary = t.GrossSalary.Add(rec.GrossSalary)
	t.NetSalary = t.NetSalary.Add(rec.NetSalary)
}

// Group is a count plus gross/net sums for one status or role.
type Group struct {
	Count       int             `json:"count"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	NetSalary   decimal.Decimal `json:"net_salary"`
}

func (g *Group) add(rec salary.SalaryRecord) {
	g.Count++
	g.GrossSalary = g.GrossSalary.Add(rec.GrossSalary)
	g.NetSalary = g.NetSalary.Add(rec.NetSalary)
}

// PayrollSummary is a read-only roll-up of one month's salary records.
type PayrollSummary struct {
	Month          int                           `json:"month"`
	Year           int                           `json:"year"`
	TotalEmployees int                           `json:"total_employees"`
	Totals         Totals                        `json:"totals"`
	ByStatus       map[salary.RecordStatus]Group `json:"by_status"`
	ByRole         map[salaryconfig.Role]Group   `json:"by_role"`
	Records        []salary.SalaryRecord         `json:"records,omitempty"`
}

// Summarize builds a PayrollSummary without modifying the records.
func Summarize(month, year int, records []salary.SalaryRecord) PayrollSummary {
	s := PayrollSummary{
		Month:          month,
		Year:           year,
		TotalEmployees: len(records),
		ByStatus:       map[salary.RecordStatus]Group{},
		ByRole:         map[salaryconfig.Role]Group{},
		Records:        records,
	}
	for _, rec := range records {
		s.Totals.Add(rec)

		st := s.ByStatus[rec.Status]
		st.add(rec)
		s.ByStatus[rec.Status] = st

		role := rec.Role
		if role == "" {
			role = salaryconfig.RoleOther
		}
		rg := s.ByRole[role]
		rg.add(rec)
		s.ByRole[role] = rg
	}
	return s
}

// HasRecords reports whether any payroll exists for the period.
func (s PayrollSummary) HasRecords() bool {
	return s.TotalEmployees > 0
}

// Earner is one row of the top-earners ranking.
type Earner struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Role         salaryconfig.Role `json:"role"`
	GrossSalary  decimal.Decimal   `json:"gross_salary"`
	NetSalary    decimal.Decimal   `json:"net_salary"`
}

// TrainerCommission is a personal trainer's sales and commission for a month.
type TrainerCommission struct {
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	SalesAmount    decimal.Decimal `json:"sales_amount"`
	Commission     decimal.Decimal `json:"commission"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

type PTCommissionSummary struct {
	Month           int                 `json:"month"`
	Year            int                 `json:"year"`
	Trainers        []TrainerCommission `json:"trainers"`
	TotalSales      decimal.Decimal     `json:"total_sales"`
	TotalCommission decimal.Decimal     `json:"total_commission"`
}

// Trend enum
type Trend string

const (
	TrendIncrease Trend = "increase"
	TrendDecrease Trend = "decrease"
	TrendStable   Trend = "stable"
)

// TrendOf classifies a signed difference.
func TrendOf(diff decimal.Decimal) Trend {
	switch diff.Sign() {
	case 1:
		return TrendIncrease
	case -1:
		return TrendDecrease
	default:
		return TrendStable
	}
}

type SalaryComparison struct {
	EmployeeID    string              `json:"employee_id"`
	Current       salary.SalaryRecord `json:"current"`
	Previous      salary.SalaryRecord `json:"previous"`
	Difference    decimal.Decimal     `json:"difference"`
	PercentChange decimal.Decimal     `json:"percent_change"`
	Trend         Trend               `json:"trend"`
}
