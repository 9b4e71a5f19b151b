package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
)

type expenseRepository struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) expense.ExpenseRepository {
	return &expenseRepository{db: db}
}

var expenseColumns = []string{
	"id", "expense_number", "type", "category", "category_id", "title", "description",
	"amount", "currency", "vendor_name", "invoice_number",
	"status", "payment_method", "transaction_id", "due_date", "paid_date", "is_recurring", "recurring_period",
	"approval_status", "requested_by", "approved_by", "approval_date", "approval_notes",
	"accounting_period", "cost_center", "notes",
	"lifecycle", "deleted_at", "created_by", "created_at", "updated_at",
}

func expenseValues(e expense.Expense) []any {
	return []any{
		e.ID, e.ExpenseNumber, e.Type, e.Category, e.CategoryID, e.Title, e.Description,
		e.Amount, e.Currency, e.VendorName, e.InvoiceNumber,
		e.Status, e.PaymentMethod, e.TransactionID, e.DueDate, e.PaidDate, e.IsRecurring, e.RecurringPeriod,
		e.ApprovalStatus, e.RequestedBy, e.ApprovedBy, e.ApprovalDate, e.ApprovalNotes,
		e.AccountingPeriod, e.CostCenter, e.Notes,
		e.Lifecycle, e.DeletedAt, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	}
}

func scanExpense(row rowScanner) (expense.Expense, error) {
	var e expense.Expense
	err := row.Scan(
		&e.ID, &e.ExpenseNumber, &e.Type, &e.Category, &e.CategoryID, &e.Title, &e.Description,
		&e.Amount, &e.Currency, &e.VendorName, &e.InvoiceNumber,
		&e.Status, &e.PaymentMethod, &e.TransactionID, &e.DueDate, &e.PaidDate, &e.IsRecurring, &e.RecurringPeriod,
		&e.ApprovalStatus, &e.RequestedBy, &e.ApprovedBy, &e.ApprovalDate, &e.ApprovalNotes,
		&e.AccountingPeriod, &e.CostCenter, &e.Notes,
		&e.Lifecycle, &e.DeletedAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *expenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Insert("expenses").Columns(expenseColumns...).Values(expenseValues(e)...).ToSql()
	if err != nil {
		return expense.Expense{}, err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return expense.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

func (r *expenseRepository) Update(ctx context.Context, e expense.Expense) error {
	q := GetQuerier(ctx, r.db)

	values := expenseValues(e)
	set := make(map[string]any, len(expenseColumns))
	for i, col := range expenseColumns {
		switch col {
		case "id", "expense_number", "created_at":
			continue
		}
		set[col] = values[i]
	}
	query, args, err := psql.Update("expenses").SetMap(set).Where(sq.Eq{"id": e.ID}).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(expenseColumns...).From("expenses").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return expense.Expense{}, err
	}
	e, err := scanExpense(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return expense.Expense{}, expense.ErrExpenseNotFound
		}
		return expense.Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

func expenseWhere(f expense.ExpenseFilter) sq.And {
	where := sq.And{}
	if !f.IncludeDeleted {
		where = append(where, sq.NotEq{"lifecycle": expense.LifecycleDeleted})
	}
	if f.Type != nil {
		where = append(where, sq.Eq{"type": *f.Type})
	}
	if f.Category != nil {
		where = append(where, sq.Eq{"category": *f.Category})
	}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": *f.Status})
	}
	if f.ApprovalStatus != nil {
		where = append(where, sq.Eq{"approval_status": *f.ApprovalStatus})
	}
	if len(f.Periods) > 0 {
		where = append(where, sq.Eq{"accounting_period": f.Periods})
	}
	if f.DueBefore != nil {
		where = append(where, sq.Lt{"due_date": *f.DueBefore})
	}
	if f.DueAfter != nil {
		where = append(where, sq.GtOrEq{"due_date": *f.DueAfter})
	}
	if f.Search != nil && *f.Search != "" {
		like := "%" + *f.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": like},
			sq.ILike{"expense_number": like},
			sq.ILike{"vendor_name": like},
		})
	}
	return where
}

func (r *expenseRepository) List(ctx context.Context, f expense.ExpenseFilter) ([]expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	builder := psql.Select(expenseColumns...).
		From("expenses").
		Where(expenseWhere(f)).
		OrderBy("created_at DESC", "expense_number DESC")
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		builder = builder.Offset(uint64(f.Offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []expense.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *expenseRepository) NextSequence(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var seq int64
	if err := q.QueryRow(ctx, "SELECT nextval('expense_number_seq')").Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate expense number: %w", err)
	}
	return seq, nil
}

type categoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) expense.CategoryRepository {
	return &categoryRepository{db: db}
}

var categoryColumns = []string{
	"id", "code", "name", "type", "category", "description", "is_recurring", "default_amount",
	"has_budget_limit", "monthly_budget_limit", "quarterly_budget_limit", "yearly_budget_limit",
	"requires_approval", "approval_threshold", "active", "created_at", "updated_at",
}

func categoryValues(c expense.ExpenseCategory) []any {
	return []any{
		c.ID, c.Code, c.Name, c.Type, c.Category, c.Description, c.IsRecurring, c.DefaultAmount,
		c.HasBudgetLimit, c.MonthlyBudgetLimit, c.QuarterlyBudget, c.YearlyBudgetLimit,
		c.RequiresApproval, c.ApprovalThreshold, c.Active, c.CreatedAt, c.UpdatedAt,
	}
}

func scanCategory(row rowScanner) (expense.ExpenseCategory, error) {
	var c expense.ExpenseCategory
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Type, &c.Category, &c.Description, &c.IsRecurring, &c.DefaultAmount,
		&c.HasBudgetLimit, &c.MonthlyBudgetLimit, &c.QuarterlyBudget, &c.YearlyBudgetLimit,
		&c.RequiresApproval, &c.ApprovalThreshold, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *categoryRepository) Create(ctx context.Context, c expense.ExpenseCategory) (expense.ExpenseCategory, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Insert("expense_categories").Columns(categoryColumns...).Values(categoryValues(c)...).ToSql()
	if err != nil {
		return expense.ExpenseCategory{}, err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "uk_expense_categories_code") {
			return expense.ExpenseCategory{}, expense.ErrCategoryCodeExists
		}
		return expense.ExpenseCategory{}, fmt.Errorf("failed to create expense category: %w", err)
	}
	return c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c expense.ExpenseCategory) error {
	q := GetQuerier(ctx, r.db)

	values := categoryValues(c)
	set := make(map[string]any, len(categoryColumns))
	for i, col := range categoryColumns {
		if col == "id" || col == "created_at" {
			continue
		}
		set[col] = values[i]
	}
	query, args, err := psql.Update("expense_categories").SetMap(set).Where(sq.Eq{"id": c.ID}).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, "uk_expense_categories_code") {
			return expense.ErrCategoryCodeExists
		}
		return fmt.Errorf("failed to update expense category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return expense.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (expense.ExpenseCategory, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(categoryColumns...).From("expense_categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return expense.ExpenseCategory{}, err
	}
	c, err := scanCategory(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return expense.ExpenseCategory{}, expense.ErrCategoryNotFound
		}
		return expense.ExpenseCategory{}, fmt.Errorf("failed to get expense category: %w", err)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]expense.ExpenseCategory, error) {
	q := GetQuerier(ctx, r.db)

	builder := psql.Select(categoryColumns...).From("expense_categories").OrderBy("code")
	if activeOnly {
		builder = builder.Where(sq.Eq{"active": true})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}
	defer rows.Close()

	var categories []expense.ExpenseCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
