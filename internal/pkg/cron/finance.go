package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/budget"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
)

// StaleOrderAge is how long a pending order may wait for payment before it expires.
const StaleOrderAge = 24 * time.Hour

// FinanceJobs contains order, budget and expense housekeeping jobs
type FinanceJobs struct {
	paymentService payment.PaymentService
	budgetService  budget.BudgetService
	expenseService expense.ExpenseService
	notifier       notification.Notifier
}

// NewFinanceJobs creates finance cron jobs. notifier may be nil.
func NewFinanceJobs(
	paymentService payment.PaymentService,
	budgetService budget.BudgetService,
	expenseService expense.ExpenseService,
	notifier notification.Notifier,
) *FinanceJobs {
	return &FinanceJobs{
		paymentService: paymentService,
		budgetService:  budgetService,
		expenseService: expenseService,
		notifier:       notifier,
	}
}

// RegisterJobs registers all finance-related cron jobs
func (j *FinanceJobs) RegisterJobs(scheduler *Scheduler) error {
	if err := scheduler.AddJob("expire_stale_orders", "@every 1h", j.ExpireStaleOrders); err != nil {
		return err
	}
	if err := scheduler.AddJob("refresh_budget_actuals", "@every 6h", j.RefreshBudgetActuals); err != nil {
		return err
	}
	return scheduler.AddJob("remind_overdue_expenses", "0 8 * * *", j.RemindOverdueExpenses)
}

// ExpireStaleOrders marks unpaid orders older than StaleOrderAge as expired
func (j *FinanceJobs) ExpireStaleOrders(ctx context.Context) error {
	n, err := j.paymentService.ExpireStale(ctx, StaleOrderAge)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Expired stale payment orders", "count", n)
	}
	return nil
}

// RefreshBudgetActuals recomputes actual spend on every active budget
func (j *FinanceJobs) RefreshBudgetActuals(ctx context.Context) error {
	n, err := j.budgetService.RefreshActive(ctx)
	if err != nil {
		return err
	}
	slog.Debug("Refreshed budget actuals", "count", n)
	return nil
}

// RemindOverdueExpenses sends one summary notification listing unpaid expenses past their due date.
func (j *FinanceJobs) RemindOverdueExpenses(ctx context.Context) error {
	overdue, err := j.expenseService.GetOverdue(ctx)
	if err != nil {
		return err
	}
	if len(overdue) == 0 || j.notifier == nil {
		return nil
	}

	numbers := make([]string, len(overdue))
	for i, e := range overdue {
		numbers[i] = e.ExpenseNumber
	}
	err = j.notifier.QueueNotification(ctx, notification.CreateRequest{
		RecipientID: notification.RecipientFinance,
		Type:        notification.TypeExpenseOverdue,
		Title:       "Overdue expenses",
		Message:     fmt.Sprintf("%d expenses are past their due date", len(overdue)),
		Data:        map[string]any{"expense_numbers": numbers},
	})
	if err != nil {
		return fmt.Errorf("failed to queue overdue reminder: %w", err)
	}
	return nil
}
