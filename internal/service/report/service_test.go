package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type monthFigures struct {
	revenue   int64
	expenses  int64
	salary    int64
	employees int
	// posted is the part of expenses booked as salary-type expenses.
	posted int64
}

// fakeSources serves all three report inputs from a map keyed by "YYYY-MM".
type fakeSources struct {
	mu      sync.Mutex
	data    map[string]monthFigures
	failing map[string]bool
	calls   int
}

func newFakeSources() *fakeSources {
	return &fakeSources{data: map[string]monthFigures{}, failing: map[string]bool{}}
}

func (f *fakeSources) get(year, month int) (monthFigures, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	key := period.Key(year, month)
	if f.failing[key] {
		return monthFigures{}, errors.New("source unavailable")
	}
	return f.data[key], nil
}

func (f *fakeSources) GetMonthlyRevenueSummary(ctx context.Context, year, month int) (payment.RevenueSummary, error) {
	m, err := f.get(year, month)
	if err != nil {
		return payment.RevenueSummary{}, err
	}
	orders := 0
	if m.revenue > 0 {
		orders = 10
	}
	return payment.RevenueSummary{Year: year, Month: month, TotalRevenue: dec(m.revenue), OrderCount: orders}, nil
}

func (f *fakeSources) GetMonthlySummary(ctx context.Context, year, month int) (expense.Summary, error) {
	m, err := f.get(year, month)
	if err != nil {
		return expense.Summary{}, err
	}
	count := 0
	if m.expenses > 0 {
		count = 1
	}
	sum := expense.Summary{Label: period.Key(year, month), TotalExpenses: dec(m.expenses), ExpenseCount: count}
	if m.posted > 0 {
		sum.ExpenseCount++
		sum.ByType = []expense.Bucket{{Key: string(expense.TypeSalary), Total: dec(m.posted), Count: 1}}
	}
	return sum, nil
}

func (f *fakeSources) GetPayrollSummary(ctx context.Context, year, month int) (payroll.PayrollSummary, error) {
	m, err := f.get(year, month)
	if err != nil {
		return payroll.PayrollSummary{}, err
	}
	return payroll.PayrollSummary{
		Month:          month,
		Year:           year,
		TotalEmployees: m.employees,
		Totals:         payroll.Totals{NetSalary: dec(m.salary)},
	}, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func newTestService(src *fakeSources, cache report.Cache) *ReportServiceImpl {
	svc := NewReportService(src, src, src, cache, nil, Config{}).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportService_MonthlyReport(t *testing.T) {
	src := newFakeSources()
	src.data["2025-03"] = monthFigures{revenue: 100_000_000, expenses: 30_000_000, salary: 45_000_000, employees: 5}
	svc := newTestService(src, nil)

	r, err := svc.GetMonthlyReport(context.Background(), 2025, 3)

	require.NoError(t, err)
	assert.Equal(t, "2025-03", r.Period)
	assert.Equal(t, 3, *r.Month)
	assert.True(t, r.GrossProfit.Equal(dec(70_000_000)))
	assert.True(t, r.NetProfit.Equal(dec(25_000_000)))
	assert.True(t, r.GrossMargin.Equal(dec(70)))
	assert.True(t, r.NetMargin.Equal(dec(25)))
	assert.Equal(t, report.StatusProfit, r.Status)
	assert.Equal(t, 5, r.EmployeeCount)
	assert.Empty(t, r.Warnings)
	assert.Empty(t, r.MissingMonths)
	require.NotNil(t, r.RevenueDetail)
	require.NotNil(t, r.ExpenseDetail)
}

func TestReportService_MonthlyReport_ZeroExpensesWarns(t *testing.T) {
	src := newFakeSources()
	src.data["2025-03"] = monthFigures{revenue: 50_000_000, salary: 10_000_000, employees: 2}
	svc := newTestService(src, nil)

	r, err := svc.GetMonthlyReport(context.Background(), 2025, 3)

	require.NoError(t, err)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "no operating expenses")
}

func TestReportService_MonthlyReport_NoPayrollIsMissing(t *testing.T) {
	src := newFakeSources()
	src.data["2025-03"] = monthFigures{revenue: 10_000_000, expenses: 1_000_000}
	svc := newTestService(src, nil)

	r, err := svc.GetMonthlyReport(context.Background(), 2025, 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03"}, r.MissingMonths)
	assert.True(t, r.SalaryCosts.IsZero())
}

func TestReportService_MonthlyReport_SourceFailure(t *testing.T) {
	src := newFakeSources()
	src.failing["2025-03"] = true
	svc := newTestService(src, nil)

	_, err := svc.GetMonthlyReport(context.Background(), 2025, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-03")

	_, err = svc.GetMonthlyReport(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, report.ErrInvalidPeriod)
}

func TestReportService_YearlyReport_ToleratesMissingMonths(t *testing.T) {
	src := newFakeSources()
	for _, key := range []string{"2025-01", "2025-02", "2025-03"} {
		src.data[key] = monthFigures{revenue: 100_000_000, expenses: 20_000_000, salary: 30_000_000, employees: 4}
	}
	src.data["2025-04"] = monthFigures{revenue: 40_000_000, expenses: 10_000_000}
	svc := newTestService(src, nil)

	r, err := svc.GetYearlyReport(context.Background(), 2025)

	require.NoError(t, err)
	assert.Equal(t, report.KindYearly, r.Kind)
	assert.Equal(t, "2025", r.Period)
	assert.Len(t, r.MissingMonths, 9)
	assert.Equal(t, "2025-04", r.MissingMonths[0])
	assert.Empty(t, r.FailedMonths)
	assert.True(t, r.Revenue.Equal(dec(340_000_000)))
	assert.True(t, r.SalaryCosts.Equal(dec(90_000_000)))
	assert.True(t, r.OperatingExpenses.Equal(dec(70_000_000)))
	assert.True(t, r.NetProfit.Equal(dec(180_000_000)))
	assert.Len(t, r.Months, 12)
	assert.Contains(t, r.Warnings, "9 of 12 months have no payroll records")
}

func TestReportService_QuarterlyReport_SkipsFailedMonth(t *testing.T) {
	src := newFakeSources()
	src.data["2025-04"] = monthFigures{revenue: 60_000_000, expenses: 10_000_000, salary: 20_000_000, employees: 3}
	src.data["2025-05"] = monthFigures{revenue: 60_000_000, expenses: 10_000_000, salary: 20_000_000, employees: 3}
	src.failing["2025-06"] = true
	svc := newTestService(src, nil)

	r, err := svc.GetQuarterlyReport(context.Background(), 2025, 2)

	require.NoError(t, err)
	assert.Equal(t, "2025-Q2", r.Period)
	assert.Equal(t, 2, *r.Quarter)
	require.Len(t, r.FailedMonths, 1)
	assert.Equal(t, "2025-06", r.FailedMonths[0].Period)
	assert.True(t, r.NetProfit.Equal(dec(60_000_000)))
	assert.Len(t, r.Months, 2)
}

func TestReportService_QuarterlyReport_AllMonthsFailed(t *testing.T) {
	src := newFakeSources()
	for _, key := range []string{"2025-01", "2025-02", "2025-03"} {
		src.failing[key] = true
	}
	svc := newTestService(src, nil)

	_, err := svc.GetQuarterlyReport(context.Background(), 2025, 1)

	assert.ErrorIs(t, err, report.ErrNoData)
}

func TestReportService_BreakEvenAnalysis(t *testing.T) {
	src := newFakeSources()
	src.data["2025-03"] = monthFigures{revenue: 50_000_000, expenses: 20_000_000, salary: 40_000_000, employees: 4}
	svc := newTestService(src, nil)

	a, err := svc.GetBreakEvenAnalysis(context.Background(), report.PeriodRequest{Year: 2025, Month: 3})

	require.NoError(t, err)
	require.NotNil(t, a.DaysToBreakEven)
	assert.Equal(t, 6, *a.DaysToBreakEven)
	assert.Equal(t, report.BelowBreakEven, a.Status)
	assert.True(t, a.RevenueGap.Equal(dec(10_000_000)))
}

func TestReportService_BreakEvenAnalysis_NoRevenue(t *testing.T) {
	src := newFakeSources()
	src.data["2025-03"] = monthFigures{expenses: 20_000_000, salary: 10_000_000, employees: 1}
	svc := newTestService(src, nil)

	a, err := svc.GetBreakEvenAnalysis(context.Background(), report.PeriodRequest{Year: 2025, Month: 3})

	require.NoError(t, err)
	assert.Nil(t, a.DaysToBreakEven)
}

func TestReportService_GetReport_Validation(t *testing.T) {
	svc := newTestService(newFakeSources(), nil)

	_, err := svc.GetReport(context.Background(), report.PeriodRequest{Kind: report.KindQuarterly, Year: 2025, Quarter: 5})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quarter")
}

func TestReportService_MonthlyReport_CachesClosedMonths(t *testing.T) {
	src := newFakeSources()
	src.data["2025-03"] = monthFigures{revenue: 10_000_000, expenses: 1_000_000, salary: 2_000_000, employees: 1}
	src.data["2026-01"] = monthFigures{revenue: 10_000_000, expenses: 1_000_000, salary: 2_000_000, employees: 1}
	cache := &memCache{data: map[string][]byte{}}
	svc := newTestService(src, cache)
	ctx := context.Background()

	first, err := svc.GetMonthlyReport(ctx, 2025, 3)
	require.NoError(t, err)
	callsAfterFirst := src.calls
	second, err := svc.GetMonthlyReport(ctx, 2025, 3)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, src.calls)
	assert.True(t, second.NetProfit.Equal(first.NetProfit))

	_, err = svc.GetMonthlyReport(ctx, 2026, 1)
	require.NoError(t, err)
	assert.False(t, cache.has("report:monthly:2026-01"))
}

func TestReportService_MonthlyReport_ClosedMonthFollowsLocation(t *testing.T) {
	src := newFakeSources()
	src.data["2026-01"] = monthFigures{revenue: 10_000_000, expenses: 1_000_000, salary: 2_000_000, employees: 1}
	cache := &memCache{data: map[string][]byte{}}
	jakarta := time.FixedZone("UTC+7", 7*60*60)
	svc := NewReportService(src, src, src, cache, nil, Config{Location: jakarta}).(*ReportServiceImpl)
	// 18:00 UTC on Jan 31 is already Feb 1 in UTC+7.
	svc.now = func() time.Time { return time.Date(2026, 1, 31, 18, 0, 0, 0, time.UTC) }

	_, err := svc.GetMonthlyReport(context.Background(), 2026, 1)

	require.NoError(t, err)
	assert.True(t, cache.has("report:monthly:2026-01"))

	utcCache := &memCache{data: map[string][]byte{}}
	utc := newTestService(src, utcCache)
	utc.now = svc.now
	_, err = utc.GetMonthlyReport(context.Background(), 2026, 1)
	require.NoError(t, err)
	assert.False(t, utcCache.has("report:monthly:2026-01"))
}

func TestReportService_MonthlyReport_ExcludesPostedSalaryExpenses(t *testing.T) {
	src := newFakeSources()
	src.data["2025-03"] = monthFigures{revenue: 100_000_000, expenses: 75_000_000, posted: 45_000_000, salary: 45_000_000, employees: 5}
	svc := newTestService(src, nil)

	r, err := svc.GetMonthlyReport(context.Background(), 2025, 3)

	require.NoError(t, err)
	assert.True(t, r.OperatingExpenses.Equal(dec(30_000_000)), r.OperatingExpenses.String())
	assert.True(t, r.SalaryCosts.Equal(dec(45_000_000)))
	assert.True(t, r.NetProfit.Equal(dec(25_000_000)), r.NetProfit.String())
}

func TestReportService_Trends(t *testing.T) {
	src := newFakeSources()
	src.data["2025-01"] = monthFigures{revenue: 100, expenses: 20, salary: 30, employees: 1}
	src.data["2025-02"] = monthFigures{revenue: 300, expenses: 20, salary: 30, employees: 1}
	src.failing["2025-03"] = true
	svc := newTestService(src, nil)

	tr, err := svc.GetFinancialTrends(context.Background(), report.TrendsRequest{Year: 2025, Month: 3, MonthsBack: 3})

	require.NoError(t, err)
	require.Len(t, tr.Points, 2)
	assert.Equal(t, "2025-01", tr.Points[0].Period)
	assert.True(t, tr.Averages.Revenue.Equal(dec(200)))
	assert.True(t, tr.Averages.NetProfit.Equal(dec(150)))
	require.Len(t, tr.FailedMonths, 1)
	assert.Equal(t, "2025-03", tr.FailedMonths[0].Period)

	_, err = svc.GetFinancialTrends(context.Background(), report.TrendsRequest{Year: 2025, Month: 3, MonthsBack: 25})
	assert.Error(t, err)
}

func TestReportService_ComparePeriods(t *testing.T) {
	src := newFakeSources()
	src.data["2025-02"] = monthFigures{revenue: 50, expenses: 100, salary: 50, employees: 1}
	src.data["2025-03"] = monthFigures{revenue: 250, expenses: 100, salary: 100, employees: 1}
	svc := newTestService(src, nil)

	cmp, err := svc.ComparePeriods(context.Background(), report.CompareRequest{
		Current:  report.PeriodRequest{Year: 2025, Month: 3},
		Previous: report.PeriodRequest{Year: 2025, Month: 2},
	})

	require.NoError(t, err)
	assert.True(t, cmp.NetProfit.Previous.Equal(dec(-100)))
	assert.True(t, cmp.NetProfit.Current.Equal(dec(50)))
	assert.True(t, cmp.NetProfit.PercentChange.Equal(dec(150)))
	assert.Equal(t, payroll.TrendIncrease, cmp.NetProfit.Trend)
	assert.True(t, cmp.Revenue.PercentChange.Equal(dec(400)))
}

func TestReportService_ExportQuarterCSV(t *testing.T) {
	src := newFakeSources()
	src.data["2025-01"] = monthFigures{revenue: 1000, expenses: 100, salary: 200, employees: 1}
	svc := newTestService(src, nil)

	file, err := svc.Export(context.Background(), report.PeriodRequest{Kind: report.KindQuarterly, Year: 2025, Quarter: 1}, export.FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "financial_report_2025-Q1.csv", file.FileName)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "2025-01,1000.00,100.00,200.00,900.00,700.00,70.00", lines[1])
	assert.Equal(t, "TOTAL,1000.00,100.00,200.00,900.00,700.00,70.00", lines[4])
}
