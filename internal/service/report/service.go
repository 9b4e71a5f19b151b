package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// monthConcurrency bounds how many months a quarterly, yearly or trend report loads at once.
const monthConcurrency = 4

type Config struct {
	// CacheTTL is how long finished monthly reports of closed months are cached.
	CacheTTL time.Duration
	// Location decides which months are closed. Defaults to UTC.
	Location *time.Location
}

type ReportServiceImpl struct {
	revenue  report.RevenueSource
	expenses report.ExpenseSummarizer
	payroll  report.PayrollSummarizer
	cache    report.Cache
	metrics  *metrics.Metrics
	cfg      Config
	now      func() time.Time
}

// NewReportService wires the aggregator. cache and m may be nil.
func NewReportService(
	revenue report.RevenueSource,
	expenses report.ExpenseSummarizer,
	payroll report.PayrollSummarizer,
	cache report.Cache,
	m *metrics.Metrics,
	cfg Config,
) report.ReportService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ReportServiceImpl{
		revenue:  revenue,
		expenses: expenses,
		payroll:  payroll,
		cache:    cache,
		metrics:  m,
		cfg:      cfg,
		now:      time.Now,
	}
}

type monthData struct {
	components report.Components
	revenue    payment.RevenueSummary
	expenses   expense.Summary
}

// loadMonth fetches the three sources of one month concurrently.
func (s *ReportServiceImpl) loadMonth(ctx context.Context, m period.Month) (monthData, error) {
	var d monthData
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rev, err := s.revenue.GetMonthlyRevenueSummary(gCtx, m.Year, m.Month)
		if err != nil {
			return fmt.Errorf("failed to load revenue: %w", err)
		}
		d.revenue = rev
		return nil
	})

	g.Go(func() error {
		exp, err := s.expenses.GetMonthlySummary(gCtx, m.Year, m.Month)
		if err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
		d.expenses = exp
		return nil
	})

	var salaryTotal decimal.Decimal
	var employees int
	g.Go(func() error {
		sum, err := s.payroll.GetPayrollSummary(gCtx, m.Year, m.Month)
		if err != nil {
			return fmt.Errorf("failed to load payroll: %w", err)
		}
		salaryTotal = sum.Totals.NetSalary
		employees = sum.TotalEmployees
		return nil
	})

	if err := g.Wait(); err != nil {
		return monthData{}, err
	}

	// Posted payroll is already in Salary; keep it out of operating expenses.
	posted := d.expenses.TypeBucket(expense.TypeSalary)
	d.components = report.Components{
		Period:        m.Key(),
		Revenue:       d.revenue.TotalRevenue,
		Expenses:      d.expenses.TotalExpenses.Sub(posted.Total),
		Salary:        salaryTotal,
		OrderCount:    d.revenue.OrderCount,
		EmployeeCount: employees,
		ExpenseCount:  d.expenses.ExpenseCount - posted.Count,
		HasPayroll:    employees > 0,
	}
	return d, nil
}

func (s *ReportServiceImpl) GetMonthlyReport(ctx context.Context, year, month int) (report.FinancialReport, error) {
	if !validator.IsValidYear(year) || !validator.IsValidMonth(month) {
		return report.FinancialReport{}, report.ErrInvalidPeriod
	}
	start := s.now()
	m := period.Month{Year: year, Month: month}
	key := monthlyCacheKey(m)

	var cached report.FinancialReport
	if s.cacheGet(ctx, key, &cached) {
		s.metrics.ObserveReport(string(report.KindMonthly), true, start)
		return cached, nil
	}

	d, err := s.loadMonth(ctx, m)
	if err != nil {
		return report.FinancialReport{}, fmt.Errorf("failed to build report for %s: %w", m.Key(), err)
	}

	r := s.newReport(report.KindMonthly, m.Key(), year)
	r.Month = &m.Month
	r.Apply(d.components)
	r.RevenueDetail = &d.revenue
	r.ExpenseDetail = &d.expenses
	if !d.components.HasPayroll {
		r.MissingMonths = append(r.MissingMonths, m.Key())
		r.Warnings = append(r.Warnings, fmt.Sprintf("no payroll records for %s", m.Key()))
	}
	s.warnZeroExpenses(&r)

	// Only closed months are cached; the running month still changes.
	if m.Key() < period.Of(s.now().In(s.cfg.Location)).Key() {
		s.cacheSet(ctx, key, r)
	}
	s.metrics.ObserveReport(string(report.KindMonthly), false, start)
	return r, nil
}

func (s *ReportServiceImpl) GetQuarterlyReport(ctx context.Context, year, quarter int) (report.FinancialReport, error) {
	if !validator.IsValidYear(year) || !validator.IsValidQuarter(quarter) {
		return report.FinancialReport{}, report.ErrInvalidPeriod
	}
	r, err := s.aggregate(ctx, report.KindQuarterly, fmt.Sprintf("%04d-Q%d", year, quarter), year, period.QuarterMonths(year, quarter))
	if err != nil {
		return report.FinancialReport{}, err
	}
	r.Quarter = &quarter
	return r, nil
}

func (s *ReportServiceImpl) GetYearlyReport(ctx context.Context, year int) (report.FinancialReport, error) {
	if !validator.IsValidYear(year) {
		return report.FinancialReport{}, report.ErrInvalidPeriod
	}
	return s.aggregate(ctx, report.KindYearly, fmt.Sprintf("%04d", year), year, period.YearMonths(year))
}

// aggregate sums the months of a quarter or year. A month that fails to load is listed in
// FailedMonths and left out; a month without a payroll run is listed in MissingMonths and
// still contributes its revenue and expenses.
func (s *ReportServiceImpl) aggregate(ctx context.Context, kind report.Kind, label string, year int, months []period.Month) (report.FinancialReport, error) {
	start := s.now()
	loaded := make([]*monthData, len(months))
	failures := make([]error, len(months))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(monthConcurrency)
	for i, m := range months {
		g.Go(func() error {
			d, err := s.loadMonth(gCtx, m)
			if err != nil {
				failures[i] = err
				return nil
			}
			loaded[i] = &d
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return report.FinancialReport{}, err
	}

	r := s.newReport(kind, label, year)
	r.Months = []report.Components{}
	total := report.Components{Period: label}
	for i, m := range months {
		if failures[i] != nil {
			slog.Warn("skipping month in financial report", "report", label, "month", m.Key(), "error", failures[i])
			r.FailedMonths = append(r.FailedMonths, report.MonthFailure{Period: m.Key(), Reason: failures[i].Error()})
			continue
		}
		c := loaded[i].components
		if !c.HasPayroll {
			r.MissingMonths = append(r.MissingMonths, m.Key())
		}
		total.Add(c)
		r.Months = append(r.Months, c)
	}
	if len(r.FailedMonths) == len(months) {
		return report.FinancialReport{}, fmt.Errorf("%w: %s", report.ErrNoData, label)
	}

	r.Apply(total)
	if n := len(r.MissingMonths); n > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d of %d months have no payroll records", n, len(months)))
	}
	if n := len(r.FailedMonths); n > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d of %d months could not be loaded", n, len(months)))
	}
	s.warnZeroExpenses(&r)

	s.metrics.ObserveReport(string(kind), false, start)
	return r, nil
}

func (s *ReportServiceImpl) GetReport(ctx context.Context, req report.PeriodRequest) (report.FinancialReport, error) {
	if err := req.Validate(); err != nil {
		return report.FinancialReport{}, err
	}
	switch req.Kind {
	case report.KindQuarterly:
		return s.GetQuarterlyReport(ctx, req.Year, req.Quarter)
	case report.KindYearly:
		return s.GetYearlyReport(ctx, req.Year)
	default:
		return s.GetMonthlyReport(ctx, req.Year, req.Month)
	}
}

func (s *ReportServiceImpl) GetBreakEvenAnalysis(ctx context.Context, req report.PeriodRequest) (report.BreakEvenAnalysis, error) {
	r, err := s.GetReport(ctx, req)
	if err != nil {
		return report.BreakEvenAnalysis{}, err
	}
	return report.BreakEven(r), nil
}

func (s *ReportServiceImpl) GetCashFlowAnalysis(ctx context.Context, req report.PeriodRequest) (report.CashFlowAnalysis, error) {
	r, err := s.GetReport(ctx, req)
	if err != nil {
		return report.CashFlowAnalysis{}, err
	}
	return report.CashFlow(r), nil
}

func (s *ReportServiceImpl) GetFinancialKPIs(ctx context.Context, req report.PeriodRequest) (report.KPIs, error) {
	r, err := s.GetReport(ctx, req)
	if err != nil {
		return report.KPIs{}, err
	}
	return report.ComputeKPIs(r), nil
}

// GetFinancialTrends builds monthly reports for MonthsBack months ending at Year/Month.
func (s *ReportServiceImpl) GetFinancialTrends(ctx context.Context, req report.TrendsRequest) (report.Trends, error) {
	if err := req.Validate(); err != nil {
		return report.Trends{}, err
	}
	months := period.Trailing(period.Month{Year: req.Year, Month: req.Month}, req.MonthsBack)
	reports := make([]*report.FinancialReport, len(months))
	failures := make([]error, len(months))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(monthConcurrency)
	for i, m := range months {
		g.Go(func() error {
			r, err := s.GetMonthlyReport(gCtx, m.Year, m.Month)
			if err != nil {
				failures[i] = err
				return nil
			}
			reports[i] = &r
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return report.Trends{}, err
	}

	ok := make([]report.FinancialReport, 0, len(months))
	var failed []report.MonthFailure
	var missing []string
	for i, m := range months {
		if failures[i] != nil {
			failed = append(failed, report.MonthFailure{Period: m.Key(), Reason: failures[i].Error()})
			continue
		}
		ok = append(ok, *reports[i])
		missing = append(missing, reports[i].MissingMonths...)
	}

	t := report.BuildTrends(req.MonthsBack, ok)
	t.FailedMonths = append(t.FailedMonths, failed...)
	t.MissingMonths = append(t.MissingMonths, missing...)
	return t, nil
}

func (s *ReportServiceImpl) ComparePeriods(ctx context.Context, req report.CompareRequest) (report.PeriodComparison, error) {
	if err := req.Validate(); err != nil {
		return report.PeriodComparison{}, err
	}
	var current, previous report.FinancialReport
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.GetReport(gCtx, req.Current)
		current = r
		return err
	})
	g.Go(func() error {
		r, err := s.GetReport(gCtx, req.Previous)
		previous = r
		return err
	})
	if err := g.Wait(); err != nil {
		return report.PeriodComparison{}, err
	}
	return report.Compare(previous, current), nil
}

// Export renders one row per month plus a totals row.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.PeriodRequest, format export.Format) (export.File, error) {
	r, err := s.GetReport(ctx, req)
	if err != nil {
		return export.File{}, err
	}

	months := r.Months
	if r.Kind == report.KindMonthly {
		months = []report.Components{{
			Period:   r.Period,
			Revenue:  r.Revenue,
			Expenses: r.OperatingExpenses,
			Salary:   r.SalaryCosts,
		}}
	}

	table := export.Table{
		Sheet:  "Financial " + r.Period,
		Header: []string{"Period", "Revenue", "Operating Expenses", "Salary Costs", "Gross Profit", "Net Profit", "Net Margin %"},
		Rows:   make([][]string, 0, len(months)),
	}
	for _, c := range months {
		var row report.FinancialReport
		row.Apply(c)
		table.Rows = append(table.Rows, []string{
			c.Period,
			money(row.Revenue),
			money(row.OperatingExpenses),
			money(row.SalaryCosts),
			money(row.GrossProfit),
			money(row.NetProfit),
			row.NetMargin.StringFixed(2),
		})
	}
	table.Totals = []string{
		"TOTAL",
		money(r.Revenue),
		money(r.OperatingExpenses),
		money(r.SalaryCosts),
		money(r.GrossProfit),
		money(r.NetProfit),
		r.NetMargin.StringFixed(2),
	}
	return table.Render(format, "financial_report_"+r.Period)
}

func (s *ReportServiceImpl) newReport(kind report.Kind, label string, year int) report.FinancialReport {
	return report.FinancialReport{
		Kind:          kind,
		Period:        label,
		Year:          year,
		MissingMonths: []string{},
		FailedMonths:  []report.MonthFailure{},
		Warnings:      []string{},
		GeneratedAt:   s.now(),
	}
}

func (s *ReportServiceImpl) warnZeroExpenses(r *report.FinancialReport) {
	if !r.OperatingExpenses.IsZero() || !r.Revenue.IsPositive() {
		return
	}
	msg := fmt.Sprintf("no operating expenses recorded for %s while revenue is %s", r.Period, money(r.Revenue))
	r.Warnings = append(r.Warnings, msg)
	slog.Warn("financial report has revenue but no expenses", "period", r.Period, "revenue", r.Revenue.String())
}

func (s *ReportServiceImpl) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		slog.Warn("report cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *ReportServiceImpl) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		slog.Warn("report cache write failed", "key", key, "error", err)
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
