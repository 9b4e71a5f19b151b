package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/budget"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// forecastWindow is how many past months Forecast averages.
const forecastWindow = 3

// ExpenseSource is the part of the expense ledger the budget tracker reads.
type ExpenseSource interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]expense.ExpenseCategory, error)
	PaidTotalsByType(ctx context.Context, periods []string) (map[expense.ExpenseType]expense.Bucket, error)
}

type BudgetServiceImpl struct {
	repo     budget.BudgetRepository
	expenses ExpenseSource
	notifier notification.Notifier
	now      func() time.Time
}

// NewBudgetService wires the tracker. notifier may be nil.
func NewBudgetService(repo budget.BudgetRepository, expenses ExpenseSource, notifier notification.Notifier) budget.BudgetService {
	return &BudgetServiceImpl{repo: repo, expenses: expenses, notifier: notifier, now: time.Now}
}

// CreateFromCategories plans one line per active category, using the category's
// limit for the budget period unless an override is given for its id.
func (s *BudgetServiceImpl) CreateFromCategories(ctx context.Context, req budget.CreateFromCategoriesRequest) (budget.Budget, error) {
	if err := req.Validate(); err != nil {
		return budget.Budget{}, err
	}

	categories, err := s.expenses.ListCategories(ctx, true)
	if err != nil {
		return budget.Budget{}, fmt.Errorf("failed to load expense categories: %w", err)
	}
	if len(categories) == 0 {
		return budget.Budget{}, budget.ErrNoCategories
	}

	now := s.now()
	b := budget.Budget{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Period:          req.Period,
		Year:            req.Year,
		CategoryBudgets: make([]budget.CategoryBudget, 0, len(categories)),
		Status:          budget.StatusDraft,
		Notes:           req.Notes,
		CreatedBy:       req.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	switch req.Period {
	case budget.PeriodMonthly:
		b.Month = req.Month
	case budget.PeriodQuarterly:
		b.Quarter = req.Quarter
	}

	for _, c := range categories {
		planned := c.BudgetLimit(string(req.Period))
		if v, ok := req.Overrides[c.ID]; ok {
			planned = v
		}
		id := c.ID
		b.CategoryBudgets = append(b.CategoryBudgets, budget.CategoryBudget{
			CategoryID:    &id,
			CategoryName:  c.Name,
			Type:          c.Type,
			Category:      c.Category,
			PlannedAmount: planned,
			ActualAmount:  decimal.Zero,
		})
	}
	b.RecalculateTotals()

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return budget.Budget{}, fmt.Errorf("failed to create budget: %w", err)
	}
	return created, nil
}

func (s *BudgetServiceImpl) Get(ctx context.Context, id string) (budget.Budget, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BudgetServiceImpl) List(ctx context.Context, filter budget.BudgetFilter) ([]budget.Budget, error) {
	return s.repo.List(ctx, filter)
}

func (s *BudgetServiceImpl) UpdatePlanned(ctx context.Context, req budget.UpdatePlannedRequest) (budget.Budget, error) {
	if err := req.Validate(); err != nil {
		return budget.Budget{}, err
	}
	b, err := s.open(ctx, req.ID)
	if err != nil {
		return budget.Budget{}, err
	}

	found := false
	for i := range b.CategoryBudgets {
		if strings.EqualFold(b.CategoryBudgets[i].CategoryName, req.CategoryName) {
			b.CategoryBudgets[i].PlannedAmount = req.PlannedAmount
			found = true
		}
	}
	if !found {
		return budget.Budget{}, budget.ErrCategoryNotInBudget
	}
	b.RecalculateTotals()
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return budget.Budget{}, fmt.Errorf("failed to update budget: %w", err)
	}
	return b, nil
}

// UpdateActuals recomputes actual spend from scratch, so calling it twice is harmless.
func (s *BudgetServiceImpl) UpdateActuals(ctx context.Context, id string) (budget.Budget, error) {
	b, err := s.open(ctx, id)
	if err != nil {
		return budget.Budget{}, err
	}
	wasOver := b.IsOverBudget()

	paid, err := s.expenses.PaidTotalsByType(ctx, period.Keys(b.Months()))
	if err != nil {
		return budget.Budget{}, err
	}
	b.ApplyActuals(paid, s.now())

	if err := s.repo.Update(ctx, b); err != nil {
		return budget.Budget{}, fmt.Errorf("failed to update budget: %w", err)
	}

	if !wasOver && b.IsOverBudget() {
		slog.Warn("budget overrun", "budget_id", b.ID, "period", b.PeriodLabel(),
			"planned", b.TotalPlannedAmount.String(), "actual", b.TotalActualAmount.String())
		s.notifyOverrun(ctx, b)
	}
	return b, nil
}

// RefreshActive updates actuals of every active budget, logging and skipping failures.
func (s *BudgetServiceImpl) RefreshActive(ctx context.Context) (int, error) {
	active := budget.StatusActive
	budgets, err := s.repo.List(ctx, budget.BudgetFilter{Status: &active})
	if err != nil {
		return 0, fmt.Errorf("failed to list active budgets: %w", err)
	}

	refreshed := 0
	for _, b := range budgets {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if _, err := s.UpdateActuals(ctx, b.ID); err != nil {
			slog.Warn("failed to refresh budget actuals", "budget_id", b.ID, "error", err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *BudgetServiceImpl) AnalyzePerformance(ctx context.Context, id string) (budget.Analysis, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return budget.Analysis{}, err
	}
	return budget.Analyze(b), nil
}

func (s *BudgetServiceImpl) Activate(ctx context.Context, id string) (budget.Budget, error) {
	return s.transition(ctx, id, (*budget.Budget).Activate)
}

func (s *BudgetServiceImpl) Complete(ctx context.Context, id string) (budget.Budget, error) {
	return s.transition(ctx, id, (*budget.Budget).Complete)
}

func (s *BudgetServiceImpl) Cancel(ctx context.Context, id string) (budget.Budget, error) {
	return s.transition(ctx, id, (*budget.Budget).Cancel)
}

func (s *BudgetServiceImpl) transition(ctx context.Context, id string, fn func(*budget.Budget, time.Time) error) (budget.Budget, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return budget.Budget{}, err
	}
	if err := fn(&b, s.now()); err != nil {
		return budget.Budget{}, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return budget.Budget{}, fmt.Errorf("failed to update budget: %w", err)
	}
	return b, nil
}

func (s *BudgetServiceImpl) Compare(ctx context.Context, firstID, secondID string) (budget.Comparison, error) {
	first, err := s.repo.GetByID(ctx, firstID)
	if err != nil {
		return budget.Comparison{}, err
	}
	second, err := s.repo.GetByID(ctx, secondID)
	if err != nil {
		return budget.Comparison{}, err
	}
	return budget.Compare(first, second), nil
}

// Forecast projects spend per type for year/month as the average of the previous three months.
func (s *BudgetServiceImpl) Forecast(ctx context.Context, year, month int) (budget.Forecast, error) {
	if !validator.IsValidYear(year) || !validator.IsValidMonth(month) {
		return budget.Forecast{}, budget.ErrInvalidPeriod
	}
	target := period.Month{Year: year, Month: month}
	basis := period.Keys(period.Trailing(target.Add(-1), forecastWindow))

	paid, err := s.expenses.PaidTotalsByType(ctx, basis)
	if err != nil {
		return budget.Forecast{}, err
	}

	f := budget.Forecast{
		Year:          year,
		Month:         month,
		BasedOn:       basis,
		ByType:        make(map[string]decimal.Decimal, len(paid)),
		TotalForecast: decimal.Zero,
	}
	window := decimal.NewFromInt(forecastWindow)
	for t, bucket := range paid {
		avg := bucket.Total.Div(window).Round(2)
		f.ByType[string(t)] = avg
		f.TotalForecast = f.TotalForecast.Add(avg)
	}
	return f, nil
}

// GetTrends lists the non-cancelled budgets of a year in calendar order.
func (s *BudgetServiceImpl) GetTrends(ctx context.Context, year int) ([]budget.Trend, error) {
	if !validator.IsValidYear(year) {
		return nil, budget.ErrInvalidPeriod
	}
	budgets, err := s.repo.List(ctx, budget.BudgetFilter{Year: &year})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(budgets, func(i, j int) bool {
		return startKey(budgets[i]) < startKey(budgets[j])
	})

	trends := make([]budget.Trend, 0, len(budgets))
	for _, b := range budgets {
		if b.Status == budget.StatusCancelled {
			continue
		}
		trends = append(trends, budget.Trend{
			BudgetID:    b.ID,
			Period:      b.PeriodLabel(),
			Planned:     b.TotalPlannedAmount,
			Actual:      b.TotalActualAmount,
			Utilization: b.Utilization(),
		})
	}
	return trends, nil
}

func startKey(b budget.Budget) string {
	months := b.Months()
	if len(months) == 0 {
		return ""
	}
	return months[0].Key()
}

// Export renders the category lines of a budget with a totals row.
func (s *BudgetServiceImpl) Export(ctx context.Context, id string, format export.Format) (export.File, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return export.File{}, err
	}

	table := export.Table{
		Sheet:  "Budget",
		Header: []string{"Category", "Type", "Planned", "Actual", "Variance", "Variance %", "Utilization %"},
		Rows:   make([][]string, 0, len(b.CategoryBudgets)),
	}
	for _, cb := range b.CategoryBudgets {
		table.Rows = append(table.Rows, []string{
			cb.CategoryName,
			string(cb.Type),
			cb.PlannedAmount.StringFixed(2),
			cb.ActualAmount.StringFixed(2),
			cb.Variance.StringFixed(2),
			cb.VariancePercent.StringFixed(2),
			cb.Utilization().StringFixed(2),
		})
	}
	table.Totals = []string{
		"TOTAL", "",
		b.TotalPlannedAmount.StringFixed(2),
		b.TotalActualAmount.StringFixed(2),
		b.TotalVariance.StringFixed(2),
		b.VariancePercent.StringFixed(2),
		b.Utilization().StringFixed(2),
	}

	base := "budget_" + strings.NewReplacer(" ", "_").Replace(b.PeriodLabel())
	return table.Render(format, base)
}

// open loads a budget that can still change.
func (s *BudgetServiceImpl) open(ctx context.Context, id string) (budget.Budget, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return budget.Budget{}, err
	}
	if b.Status == budget.StatusCompleted || b.Status == budget.StatusCancelled {
		return budget.Budget{}, budget.ErrBudgetClosed
	}
	return b, nil
}

func (s *BudgetServiceImpl) notifyOverrun(ctx context.Context, b budget.Budget) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.QueueNotification(ctx, notification.CreateRequest{
		RecipientID: notification.RecipientFinance,
		Type:        notification.TypeBudgetOverrun,
		Title:       "Budget overrun",
		Message: fmt.Sprintf("%s (%s) spent %s of %s planned",
			b.Name, b.PeriodLabel(), b.TotalActualAmount.StringFixed(0), b.TotalPlannedAmount.StringFixed(0)),
		Data: map[string]any{"budget_id": b.ID, "utilization": b.Utilization().String()},
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("failed to queue budget notification", "budget_id", b.ID, "error", err)
	}
}
