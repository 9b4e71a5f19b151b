package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
)

func monthlyCacheKey(m period.Month) string {
	return "report:monthly:" + m.Key()
}

// Invalidator drops cached monthly reports when one of their inputs is written.
// A nil cache makes every method a no-op, so the wrapped repositories behave as before.
type Invalidator struct {
	cache report.Cache
	loc   *time.Location
}

// NewInvalidator uses loc to bucket order times into months, matching the revenue summary.
func NewInvalidator(cache report.Cache, loc *time.Location) *Invalidator {
	if loc == nil {
		loc = time.UTC
	}
	return &Invalidator{cache: cache, loc: loc}
}

func (i *Invalidator) InvalidateMonth(ctx context.Context, year, month int) {
	if i == nil || i.cache == nil {
		return
	}
	key := monthlyCacheKey(period.Month{Year: year, Month: month})
	if err := i.cache.Delete(ctx, key); err != nil {
		slog.Warn("report cache invalidation failed", "key", key, "error", err)
	}
}

func (i *Invalidator) invalidatePeriod(ctx context.Context, accountingPeriod string) {
	if year, month, ok := validator.ParseAccountingPeriod(accountingPeriod); ok {
		i.InvalidateMonth(ctx, year, month)
	}
}

func (i *Invalidator) invalidateTime(ctx context.Context, t time.Time) {
	m := period.Of(t.In(i.loc))
	i.InvalidateMonth(ctx, m.Year, m.Month)
}

// SalaryRecords wraps repo so that every successful write clears the record's month.
func (i *Invalidator) SalaryRecords(repo salary.SalaryRecordRepository) salary.SalaryRecordRepository {
	return &salaryRecordWatcher{SalaryRecordRepository: repo, inv: i}
}

// Expenses wraps repo so that every successful write clears the old and new accounting periods.
func (i *Invalidator) Expenses(repo expense.ExpenseRepository) expense.ExpenseRepository {
	return &expenseWatcher{ExpenseRepository: repo, inv: i}
}

// Orders wraps repo so that every successful write clears the months of the order's revenue time.
func (i *Invalidator) Orders(repo payment.OrderRepository) payment.OrderRepository {
	return &orderWatcher{OrderRepository: repo, inv: i}
}

type salaryRecordWatcher struct {
	salary.SalaryRecordRepository
	inv *Invalidator
}

func (w *salaryRecordWatcher) Create(ctx context.Context, rec salary.SalaryRecord) (salary.SalaryRecord, error) {
	created, err := w.SalaryRecordRepository.Create(ctx, rec)
	if err != nil {
		return created, err
	}
	w.inv.InvalidateMonth(ctx, created.Year, created.Month)
	return created, nil
}

func (w *salaryRecordWatcher) Update(ctx context.Context, rec salary.SalaryRecord) error {
	if err := w.SalaryRecordRepository.Update(ctx, rec); err != nil {
		return err
	}
	w.inv.InvalidateMonth(ctx, rec.Year, rec.Month)
	return nil
}

func (w *salaryRecordWatcher) Delete(ctx context.Context, id string) error {
	rec, getErr := w.SalaryRecordRepository.GetByID(ctx, id)
	if err := w.SalaryRecordRepository.Delete(ctx, id); err != nil {
		return err
	}
	if getErr == nil {
		w.inv.InvalidateMonth(ctx, rec.Year, rec.Month)
	}
	return nil
}

type expenseWatcher struct {
	expense.ExpenseRepository
	inv *Invalidator
}

func (w *expenseWatcher) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	created, err := w.ExpenseRepository.Create(ctx, e)
	if err != nil {
		return created, err
	}
	w.inv.invalidatePeriod(ctx, created.AccountingPeriod)
	return created, nil
}

// Update also clears the previous period since an edit can move the expense between months.
func (w *expenseWatcher) Update(ctx context.Context, e expense.Expense) error {
	prev, getErr := w.ExpenseRepository.GetByID(ctx, e.ID)
	if err := w.ExpenseRepository.Update(ctx, e); err != nil {
		return err
	}
	w.inv.invalidatePeriod(ctx, e.AccountingPeriod)
	if getErr == nil && prev.AccountingPeriod != e.AccountingPeriod {
		w.inv.invalidatePeriod(ctx, prev.AccountingPeriod)
	}
	return nil
}

type orderWatcher struct {
	payment.OrderRepository
	inv *Invalidator
}

func (w *orderWatcher) Create(ctx context.Context, o payment.PaymentOrder) (payment.PaymentOrder, error) {
	created, err := w.OrderRepository.Create(ctx, o)
	if err != nil {
		return created, err
	}
	w.invalidate(ctx, created)
	return created, nil
}

func (w *orderWatcher) Update(ctx context.Context, o payment.PaymentOrder) error {
	if err := w.OrderRepository.Update(ctx, o); err != nil {
		return err
	}
	w.invalidate(ctx, o)
	return nil
}

// invalidate clears both the creation month and the paid month; revenue falls back to the former.
func (w *orderWatcher) invalidate(ctx context.Context, o payment.PaymentOrder) {
	w.inv.invalidateTime(ctx, o.CreatedAt)
	if o.PaidAt != nil {
		w.inv.invalidateTime(ctx, *o.PaidAt)
	}
}
