package budget

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/budget"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/repository/memory"
	expensesvc "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	reqs []notification.CreateRequest
}

func (n *recordingNotifier) QueueNotification(ctx context.Context, req notification.CreateRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reqs = append(n.reqs, req)
	return nil
}

type fixture struct {
	svc      *BudgetServiceImpl
	expenses expense.ExpenseService
	notifier *recordingNotifier
	rent     expense.ExpenseCategory
	power    expense.ExpenseCategory
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func intPtr(v int) *int { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	expenses := expensesvc.NewExpenseService(memory.NewExpenseRepository(), memory.NewCategoryRepository(), nil)
	notifier := &recordingNotifier{}
	svc := NewBudgetService(memory.NewBudgetRepository(), expenses, notifier).(*BudgetServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC) }

	rent, err := expenses.CreateCategory(ctx, expense.CreateCategoryRequest{
		Code: "RENT", Name: "Rent", Type: expense.TypeRent, Category: expense.CategoryInfrastructure,
		HasBudgetLimit: true, MonthlyBudgetLimit: dec(10_000_000), YearlyBudgetLimit: dec(120_000_000),
	})
	require.NoError(t, err)
	power, err := expenses.CreateCategory(ctx, expense.CreateCategoryRequest{
		Code: "POWER", Name: "Utilities", Type: expense.TypeUtilities, Category: expense.CategoryInfrastructure,
		HasBudgetLimit: true, MonthlyBudgetLimit: dec(4_000_000),
	})
	require.NoError(t, err)

	return &fixture{svc: svc, expenses: expenses, notifier: notifier, rent: rent, power: power}
}

func (f *fixture) paidExpense(t *testing.T, typ expense.ExpenseType, amount int64, accountingPeriod string) {
	t.Helper()
	ctx := context.Background()
	e, err := f.expenses.Create(ctx, expense.CreateExpenseRequest{
		Type:             typ,
		Category:         expense.CategoryInfrastructure,
		Title:            string(typ),
		Amount:           dec(amount),
		AccountingPeriod: &accountingPeriod,
	})
	require.NoError(t, err)
	_, err = f.expenses.MarkAsPaid(ctx, expense.MarkPaidRequest{ID: e.ID})
	require.NoError(t, err)
}

func (f *fixture) marchBudget(t *testing.T, overrides map[string]decimal.Decimal) budget.Budget {
	t.Helper()
	b, err := f.svc.CreateFromCategories(context.Background(), budget.CreateFromCategoriesRequest{
		Name:      "March",
		Period:    budget.PeriodMonthly,
		Year:      2025,
		Month:     intPtr(3),
		Overrides: overrides,
	})
	require.NoError(t, err)
	return b
}

func TestBudgetService_CreateFromCategories(t *testing.T) {
	f := newFixture(t)

	b := f.marchBudget(t, map[string]decimal.Decimal{f.power.ID: dec(5_000_000)})

	assert.Equal(t, budget.StatusDraft, b.Status)
	require.Len(t, b.CategoryBudgets, 2)
	assert.True(t, b.TotalPlannedAmount.Equal(dec(15_000_000)))
	assert.True(t, b.TotalActualAmount.IsZero())
	assert.Equal(t, "2025-03", b.PeriodLabel())
}

func TestBudgetService_CreateFromCategories_NoCategories(t *testing.T) {
	expenses := expensesvc.NewExpenseService(memory.NewExpenseRepository(), memory.NewCategoryRepository(), nil)
	svc := NewBudgetService(memory.NewBudgetRepository(), expenses, nil)

	_, err := svc.CreateFromCategories(context.Background(), budget.CreateFromCategoriesRequest{
		Name: "Empty", Period: budget.PeriodYearly, Year: 2025,
	})

	assert.ErrorIs(t, err, budget.ErrNoCategories)
}

func TestBudgetService_UpdateActuals_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.paidExpense(t, expense.TypeRent, 10_000_000, "2025-03")
	f.paidExpense(t, expense.TypeUtilities, 1_500_000, "2025-03")
	f.paidExpense(t, expense.TypeUtilities, 1_500_000, "2025-03")
	f.paidExpense(t, expense.TypeUtilities, 9_000_000, "2025-02")
	b := f.marchBudget(t, nil)

	first, err := f.svc.UpdateActuals(ctx, b.ID)
	require.NoError(t, err)
	second, err := f.svc.UpdateActuals(ctx, b.ID)
	require.NoError(t, err)

	assert.True(t, first.TotalActualAmount.Equal(dec(13_000_000)))
	assert.True(t, second.TotalActualAmount.Equal(first.TotalActualAmount))
	assert.True(t, second.TotalVariance.Equal(dec(-1_000_000)))
	assert.NotNil(t, second.LastCalculatedAt)
	assert.Empty(t, f.notifier.reqs)
}

func TestBudgetService_UpdateActuals_OverrunNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.paidExpense(t, expense.TypeRent, 16_000_000, "2025-03")
	b := f.marchBudget(t, nil)

	_, err := f.svc.UpdateActuals(ctx, b.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateActuals(ctx, b.ID)
	require.NoError(t, err)

	require.Len(t, f.notifier.reqs, 1)
	assert.Equal(t, notification.TypeBudgetOverrun, f.notifier.reqs[0].Type)
}

func TestBudgetService_ClosedBudgetRejectsUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.marchBudget(t, nil)

	_, err := f.svc.Complete(ctx, b.ID)
	assert.ErrorIs(t, err, budget.ErrInvalidStatusTransition)

	_, err = f.svc.Activate(ctx, b.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, b.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateActuals(ctx, b.ID)
	assert.ErrorIs(t, err, budget.ErrBudgetClosed)
	_, err = f.svc.UpdatePlanned(ctx, budget.UpdatePlannedRequest{ID: b.ID, CategoryName: "Rent", PlannedAmount: dec(1)})
	assert.ErrorIs(t, err, budget.ErrBudgetClosed)
}

func TestBudgetService_UpdatePlanned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.marchBudget(t, nil)

	updated, err := f.svc.UpdatePlanned(ctx, budget.UpdatePlannedRequest{ID: b.ID, CategoryName: "rent", PlannedAmount: dec(12_000_000)})
	require.NoError(t, err)
	assert.True(t, updated.TotalPlannedAmount.Equal(dec(16_000_000)))

	_, err = f.svc.UpdatePlanned(ctx, budget.UpdatePlannedRequest{ID: b.ID, CategoryName: "Security", PlannedAmount: dec(1)})
	assert.ErrorIs(t, err, budget.ErrCategoryNotInBudget)
}

func TestBudgetService_RefreshActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.paidExpense(t, expense.TypeRent, 5_000_000, "2025-03")
	active := f.marchBudget(t, nil)
	draft := f.marchBudget(t, nil)
	_, err := f.svc.Activate(ctx, active.ID)
	require.NoError(t, err)

	n, err := f.svc.RefreshActive(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := f.svc.Get(ctx, active.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalActualAmount.Equal(dec(5_000_000)))
	untouched, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, untouched.TotalActualAmount.IsZero())
}

func TestBudgetService_AnalyzePerformance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.paidExpense(t, expense.TypeRent, 11_000_000, "2025-03")
	f.paidExpense(t, expense.TypeUtilities, 1_000_000, "2025-03")
	b := f.marchBudget(t, nil)
	_, err := f.svc.UpdateActuals(ctx, b.ID)
	require.NoError(t, err)

	a, err := f.svc.AnalyzePerformance(ctx, b.ID)

	require.NoError(t, err)
	require.Len(t, a.Categories, 2)
	statuses := map[string]budget.Performance{}
	for _, c := range a.Categories {
		statuses[c.CategoryName] = c.Status
	}
	assert.Equal(t, budget.PerformanceOverBudget, statuses["Rent"])
	assert.Equal(t, budget.PerformanceUnderUtilized, statuses["Utilities"])
	assert.Len(t, a.Issues, 1)
}

func TestBudgetService_Forecast(t *testing.T) {
	f := newFixture(t)
	f.paidExpense(t, expense.TypeRent, 9_000_000, "2025-01")
	f.paidExpense(t, expense.TypeRent, 9_000_000, "2025-02")
	f.paidExpense(t, expense.TypeRent, 12_000_000, "2025-03")
	f.paidExpense(t, expense.TypeUtilities, 3_000_000, "2025-03")
	f.paidExpense(t, expense.TypeUtilities, 50_000_000, "2024-12")

	fc, err := f.svc.Forecast(context.Background(), 2025, 4)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01", "2025-02", "2025-03"}, fc.BasedOn)
	assert.True(t, fc.ByType["rent"].Equal(dec(10_000_000)))
	assert.True(t, fc.ByType["utilities"].Equal(dec(1_000_000)))
	assert.True(t, fc.TotalForecast.Equal(dec(11_000_000)))
}

func TestBudgetService_CompareAndTrends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	feb, err := f.svc.CreateFromCategories(ctx, budget.CreateFromCategoriesRequest{
		Name: "February", Period: budget.PeriodMonthly, Year: 2025, Month: intPtr(2),
		Overrides: map[string]decimal.Decimal{f.rent.ID: dec(6_000_000)},
	})
	require.NoError(t, err)
	mar := f.marchBudget(t, nil)

	cmp, err := f.svc.Compare(ctx, feb.ID, mar.ID)
	require.NoError(t, err)
	assert.True(t, cmp.PlannedChange.Equal(dec(4_000_000)))
	assert.True(t, cmp.PlannedChangePct.Equal(dec(40)))

	trends, err := f.svc.GetTrends(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "2025-02", trends[0].Period)
	assert.Equal(t, "2025-03", trends[1].Period)
}

func TestBudgetService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.marchBudget(t, nil)

	file, err := f.svc.Export(ctx, b.ID, export.FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "budget_2025-03.csv", file.FileName)
	assert.Contains(t, string(file.Data), "TOTAL,,14000000.00,0.00")
	assert.True(t, strings.HasPrefix(string(file.Data), "Category,Type,Planned"))
}
