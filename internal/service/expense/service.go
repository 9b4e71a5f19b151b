package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultUpcomingDays is the look-ahead used by GetUpcoming when none is given.
const DefaultUpcomingDays = 7

// systemApprover marks expenses approved automatically by category rules.
const systemApprover = "system"

type ExpenseServiceImpl struct {
	repo       expense.ExpenseRepository
	categories expense.CategoryRepository
	notifier   notification.Notifier
	now        func() time.Time
}

// NewExpenseService wires the ledger. notifier may be nil.
func NewExpenseService(repo expense.ExpenseRepository, categories expense.CategoryRepository, notifier notification.Notifier) expense.ExpenseService {
	return &ExpenseServiceImpl{repo: repo, categories: categories, notifier: notifier, now: time.Now}
}

func (s *ExpenseServiceImpl) Create(ctx context.Context, req expense.CreateExpenseRequest) (expense.Expense, error) {
	if err := req.Validate(); err != nil {
		return expense.Expense{}, err
	}

	var cat *expense.ExpenseCategory
	if req.CategoryID != nil {
		c, err := s.categories.GetByID(ctx, *req.CategoryID)
		if err != nil {
			return expense.Expense{}, err
		}
		if !c.Active {
			return expense.Expense{}, expense.ErrCategoryInactive
		}
		cat = &c
	}

	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("failed to allocate expense number: %w", err)
	}

	now := s.now()
	e := expense.Expense{
		ID:              uuid.NewString(),
		ExpenseNumber:   expense.NewExpenseNumber(now, seq),
		Type:            req.Type,
		Category:        req.Category,
		CategoryID:      req.CategoryID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Amount:          req.Amount,
		Currency:        req.Currency,
		VendorName:      req.VendorName,
		InvoiceNumber:   req.InvoiceNumber,
		Status:          expense.StatusPending,
		PaymentMethod:   req.PaymentMethod,
		IsRecurring:     req.IsRecurring,
		RecurringPeriod: req.RecurringPeriod,
		ApprovalStatus:  expense.ApprovalPending,
		RequestedBy:     req.RequestedBy,
		CostCenter:      req.CostCenter,
		Notes:           req.Notes,
		Lifecycle:       expense.LifecycleActive,
		CreatedBy:       req.RequestedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if e.Currency == "" {
		e.Currency = expense.DefaultCurrency
	}
	if req.DueDate != nil {
		due, _ := validator.IsValidDate(*req.DueDate)
		e.DueDate = &due
	}
	if req.AccountingPeriod != nil {
		e.AccountingPeriod = *req.AccountingPeriod
	}
	e.AccountingPeriod = e.ResolveAccountingPeriod()

	if cat != nil {
		if !cat.RequiresApprovalFor(e.Amount) {
			by := systemApprover
			e.ApprovalStatus = expense.ApprovalApproved
			e.ApprovedBy = &by
			e.ApprovalDate = &now
		}
		s.warnOverBudget(ctx, *cat, e)
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	if created.NeedsApproval() {
		s.notify(ctx, created, notification.TypeExpenseApproval, "Expense awaiting approval",
			fmt.Sprintf("%s (%s %s) needs approval", created.Title, created.Amount.StringFixed(0), created.Currency))
	}
	return created, nil
}

// warnOverBudget logs when the category's spend for the expense's month would pass its monthly limit.
func (s *ExpenseServiceImpl) warnOverBudget(ctx context.Context, cat expense.ExpenseCategory, e expense.Expense) {
	if !cat.HasBudgetLimit || !cat.MonthlyBudgetLimit.IsPositive() {
		return
	}
	existing, err := s.repo.List(ctx, expense.ExpenseFilter{Type: &cat.Type, Periods: []string{e.AccountingPeriod}})
	if err != nil {
		slog.Warn("failed to check category budget", "category", cat.Code, "error", err)
		return
	}
	spent := e.Amount
	for i := range existing {
		if existing[i].CategoryID != nil && *existing[i].CategoryID == cat.ID && existing[i].CountsTowardSpend() {
			spent = spent.Add(existing[i].Amount)
		}
	}
	if cat.ExceedsBudget(spent, "monthly") {
		slog.Warn("expense exceeds monthly category budget",
			"category", cat.Code,
			"period", e.AccountingPeriod,
			"spent", spent.String(),
			"limit", cat.MonthlyBudgetLimit.String(),
		)
	}
}

func (s *ExpenseServiceImpl) Get(ctx context.Context, id string) (expense.Expense, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ExpenseServiceImpl) List(ctx context.Context, filter expense.ExpenseFilter) ([]expense.Expense, error) {
	return s.repo.List(ctx, filter)
}

func (s *ExpenseServiceImpl) Update(ctx context.Context, req expense.UpdateExpenseRequest) (expense.Expense, error) {
	if err := req.Validate(); err != nil {
		return expense.Expense{}, err
	}
	e, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return expense.Expense{}, err
	}
	if e.IsDeleted() {
		return expense.Expense{}, expense.ErrExpenseDeleted
	}
	if e.IsPaid() {
		return expense.Expense{}, expense.ErrExpensePaid
	}

	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.VendorName != nil {
		e.VendorName = req.VendorName
	}
	if req.InvoiceNumber != nil {
		e.InvoiceNumber = req.InvoiceNumber
	}
	if req.DueDate != nil {
		due, _ := validator.IsValidDate(*req.DueDate)
		e.DueDate = &due
	}
	if req.AccountingPeriod != nil {
		e.AccountingPeriod = *req.AccountingPeriod
	}
	if req.CostCenter != nil {
		e.CostCenter = req.CostCenter
	}
	if req.Notes != nil {
		e.Notes = req.Notes
	}
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		return expense.Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return e, nil
}

// Delete soft-deletes the expense; it stays readable with IncludeDeleted.
func (s *ExpenseServiceImpl) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(e *expense.Expense, now time.Time) error {
		if e.IsPaid() {
			return expense.ErrExpensePaid
		}
		return e.SoftDelete(now)
	})
}

func (s *ExpenseServiceImpl) Approve(ctx context.Context, req expense.ApprovalRequest) (expense.Expense, error) {
	if err := req.Validate(); err != nil {
		return expense.Expense{}, err
	}
	return s.transition(ctx, req.ID, func(e *expense.Expense, now time.Time) error {
		return e.Approve(req.By, req.Notes, now)
	})
}

func (s *ExpenseServiceImpl) Reject(ctx context.Context, req expense.ApprovalRequest) (expense.Expense, error) {
	if err := req.Validate(); err != nil {
		return expense.Expense{}, err
	}
	return s.transition(ctx, req.ID, func(e *expense.Expense, now time.Time) error {
		return e.Reject(req.By, req.Notes, now)
	})
}

func (s *ExpenseServiceImpl) MarkAsPaid(ctx context.Context, req expense.MarkPaidRequest) (expense.Expense, error) {
	if err := req.Validate(); err != nil {
		return expense.Expense{}, err
	}
	return s.transition(ctx, req.ID, func(e *expense.Expense, now time.Time) error {
		return e.MarkAsPaid(req.PaymentMethod, req.TransactionID, now)
	})
}

func (s *ExpenseServiceImpl) Cancel(ctx context.Context, id string) (expense.Expense, error) {
	return s.transition(ctx, id, func(e *expense.Expense, now time.Time) error {
		return e.Cancel(now)
	})
}

// BulkApprove approves each id independently and reports per-id outcomes.
func (s *ExpenseServiceImpl) BulkApprove(ctx context.Context, req expense.BulkApproveRequest) (expense.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return expense.BulkResult{}, err
	}
	result := expense.BulkResult{Succeeded: []string{}, Failed: []expense.BulkFailure{}}
	for _, id := range req.IDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		_, err := s.Approve(ctx, expense.ApprovalRequest{ID: id, By: req.By, Notes: req.Notes})
		if err != nil {
			result.Failed = append(result.Failed, expense.BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

func (s *ExpenseServiceImpl) transition(ctx context.Context, id string, fn func(*expense.Expense, time.Time) error) (expense.Expense, error) {
	var out expense.Expense
	err := s.mutate(ctx, id, func(e *expense.Expense, now time.Time) error {
		if err := fn(e, now); err != nil {
			return err
		}
		out = *e
		return nil
	})
	return out, err
}

func (s *ExpenseServiceImpl) mutate(ctx context.Context, id string, fn func(*expense.Expense, time.Time) error) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(&e, s.now()); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

// GetOverdue lists pending expenses whose due date has passed.
func (s *ExpenseServiceImpl) GetOverdue(ctx context.Context) ([]expense.Expense, error) {
	now := s.now()
	pending := expense.StatusPending
	rows, err := s.repo.List(ctx, expense.ExpenseFilter{Status: &pending, DueBefore: &now})
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, e := range rows {
		if e.IsOverdue(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetUpcoming lists pending expenses due within daysAhead days.
func (s *ExpenseServiceImpl) GetUpcoming(ctx context.Context, daysAhead int) ([]expense.Expense, error) {
	if daysAhead <= 0 {
		daysAhead = DefaultUpcomingDays
	}
	now := s.now()
	until := now.AddDate(0, 0, daysAhead)
	pending := expense.StatusPending
	return s.repo.List(ctx, expense.ExpenseFilter{Status: &pending, DueAfter: &now, DueBefore: &until})
}

func (s *ExpenseServiceImpl) GetPendingApprovals(ctx context.Context) ([]expense.Expense, error) {
	pending := expense.ApprovalPending
	status := expense.StatusPending
	return s.repo.List(ctx, expense.ExpenseFilter{ApprovalStatus: &pending, Status: &status})
}

func (s *ExpenseServiceImpl) GetMonthlySummary(ctx context.Context, year, month int) (expense.Summary, error) {
	if !validator.IsValidYear(year) || !validator.IsValidMonth(month) {
		return expense.Summary{}, expense.ErrInvalidPeriod
	}
	return s.summarize(ctx, period.Key(year, month), []period.Month{{Year: year, Month: month}})
}

func (s *ExpenseServiceImpl) GetQuarterlySummary(ctx context.Context, year, quarter int) (expense.Summary, error) {
	if !validator.IsValidYear(year) || !validator.IsValidQuarter(quarter) {
		return expense.Summary{}, expense.ErrInvalidPeriod
	}
	return s.summarize(ctx, fmt.Sprintf("%04d-Q%d", year, quarter), period.QuarterMonths(year, quarter))
}

func (s *ExpenseServiceImpl) GetYearlySummary(ctx context.Context, year int) (expense.Summary, error) {
	if !validator.IsValidYear(year) {
		return expense.Summary{}, expense.ErrInvalidPeriod
	}
	return s.summarize(ctx, fmt.Sprintf("%04d", year), period.YearMonths(year))
}

func (s *ExpenseServiceImpl) summarize(ctx context.Context, label string, months []period.Month) (expense.Summary, error) {
	keys := period.Keys(months)
	rows, err := s.repo.List(ctx, expense.ExpenseFilter{Periods: keys})
	if err != nil {
		return expense.Summary{}, fmt.Errorf("failed to load expenses for %s: %w", label, err)
	}
	return expense.Summarize(label, keys, rows), nil
}

func (s *ExpenseServiceImpl) GetStatistics(ctx context.Context, year, month int) (expense.Statistics, error) {
	if !validator.IsValidYear(year) || !validator.IsValidMonth(month) {
		return expense.Statistics{}, expense.ErrInvalidPeriod
	}
	keys := []string{period.Key(year, month)}
	rows, err := s.repo.List(ctx, expense.ExpenseFilter{Periods: keys})
	if err != nil {
		return expense.Statistics{}, err
	}
	return expense.ComputeStatistics(keys, rows, s.now()), nil
}

func (s *ExpenseServiceImpl) PaidTotalsByType(ctx context.Context, periods []string) (map[expense.ExpenseType]expense.Bucket, error) {
	paid := expense.StatusPaid
	rows, err := s.repo.List(ctx, expense.ExpenseFilter{Status: &paid, Periods: periods})
	if err != nil {
		return nil, fmt.Errorf("failed to load paid expenses: %w", err)
	}
	return expense.PaidByType(rows), nil
}

// Export renders the filtered expenses with a totals row.
func (s *ExpenseServiceImpl) Export(ctx context.Context, filter expense.ExpenseFilter, format export.Format) (export.File, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return export.File{}, err
	}

	table := export.Table{
		Sheet:  "Expenses",
		Header: []string{"Number", "Title", "Type", "Category", "Amount", "Status", "Approval", "Period", "Due Date", "Vendor"},
		Rows:   make([][]string, 0, len(rows)),
	}
	total := decimal.Zero
	for _, e := range rows {
		due, vendor := "", ""
		if e.DueDate != nil {
			due = e.DueDate.Format("2006-01-02")
		}
		if e.VendorName != nil {
			vendor = *e.VendorName
		}
		table.Rows = append(table.Rows, []string{
			e.ExpenseNumber, e.Title, string(e.Type), string(e.Category), e.Amount.StringFixed(2),
			string(e.Status), string(e.ApprovalStatus), e.AccountingPeriod, due, vendor,
		})
		total = total.Add(e.Amount)
	}
	table.Totals = []string{"TOTAL", "", "", "", total.StringFixed(2), "", "", "", "", ""}

	return table.Render(format, "expenses_"+s.now().Format("20060102"))
}

func (s *ExpenseServiceImpl) CreateCategory(ctx context.Context, req expense.CreateCategoryRequest) (expense.ExpenseCategory, error) {
	if err := req.Validate(); err != nil {
		return expense.ExpenseCategory{}, err
	}
	now := s.now()
	c := expense.ExpenseCategory{
		ID:                 uuid.NewString(),
		Code:               strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:               strings.TrimSpace(req.Name),
		Type:               req.Type,
		Category:           req.Category,
		Description:        req.Description,
		IsRecurring:        req.IsRecurring,
		DefaultAmount:      req.DefaultAmount,
		HasBudgetLimit:     req.HasBudgetLimit,
		MonthlyBudgetLimit: req.MonthlyBudgetLimit,
		QuarterlyBudget:    req.QuarterlyBudget,
		YearlyBudgetLimit:  req.YearlyBudgetLimit,
		RequiresApproval:   req.RequiresApproval,
		ApprovalThreshold:  req.ApprovalThreshold,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return s.categories.Create(ctx, c)
}

func (s *ExpenseServiceImpl) GetCategory(ctx context.Context, id string) (expense.ExpenseCategory, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *ExpenseServiceImpl) ListCategories(ctx context.Context, activeOnly bool) ([]expense.ExpenseCategory, error) {
	return s.categories.List(ctx, activeOnly)
}

func (s *ExpenseServiceImpl) UpdateCategory(ctx context.Context, req expense.UpdateCategoryRequest) (expense.ExpenseCategory, error) {
	if err := req.Validate(); err != nil {
		return expense.ExpenseCategory{}, err
	}
	c, err := s.categories.GetByID(ctx, req.ID)
	if err != nil {
		return expense.ExpenseCategory{}, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.DefaultAmount != nil {
		c.DefaultAmount = req.DefaultAmount
	}
	if req.HasBudgetLimit != nil {
		c.HasBudgetLimit = *req.HasBudgetLimit
	}
	if req.MonthlyBudgetLimit != nil {
		c.MonthlyBudgetLimit = *req.MonthlyBudgetLimit
	}
	if req.QuarterlyBudget != nil {
		c.QuarterlyBudget = *req.QuarterlyBudget
	}
	if req.YearlyBudgetLimit != nil {
		c.YearlyBudgetLimit = *req.YearlyBudgetLimit
	}
	if req.RequiresApproval != nil {
		c.RequiresApproval = *req.RequiresApproval
	}
	if req.ApprovalThreshold != nil {
		c.ApprovalThreshold = *req.ApprovalThreshold
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	c.UpdatedAt = s.now()

	if err := s.categories.Update(ctx, c); err != nil {
		return expense.ExpenseCategory{}, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

func (s *ExpenseServiceImpl) DeactivateCategory(ctx context.Context, id string) (expense.ExpenseCategory, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return expense.ExpenseCategory{}, err
	}
	if !c.Active {
		return expense.ExpenseCategory{}, expense.ErrCategoryInactive
	}
	c.Active = false
	c.UpdatedAt = s.now()
	if err := s.categories.Update(ctx, c); err != nil {
		return expense.ExpenseCategory{}, fmt.Errorf("failed to deactivate category: %w", err)
	}
	return c, nil
}

func (s *ExpenseServiceImpl) notify(ctx context.Context, e expense.Expense, t notification.Type, title, msg string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.QueueNotification(ctx, notification.CreateRequest{
		RecipientID: notification.RecipientFinance,
		Type:        t,
		Title:       title,
		Message:     msg,
		Data:        map[string]any{"expense_id": e.ID, "expense_number": e.ExpenseNumber},
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("failed to queue expense notification", "expense_id", e.ID, "type", t, "error", err)
	}
}
