package expense

import (
	"context"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
)

type ExpenseService interface {
	Create(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	Get(ctx context.Context, id string) (Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	Update(ctx context.Context, req UpdateExpenseRequest) (Expense, error)
	Delete(ctx context.Context, id string) error

	Approve(ctx context.Context, req ApprovalRequest) (Expense, error)
	Reject(ctx context.Context, req ApprovalRequest) (Expense, error)
	MarkAsPaid(ctx context.Context, req MarkPaidRequest) (Expense, error)
	Cancel(ctx context.Context, id string) (Expense, error)
	BulkApprove(ctx context.Context, req BulkApproveRequest) (BulkResult, error)

	GetOverdue(ctx context.Context) ([]Expense, error)
	GetUpcoming(ctx context.Context, daysAhead int) ([]Expense, error)
	GetPendingApprovals(ctx context.Context) ([]Expense, error)

	GetMonthlySummary(ctx context.Context, year, month int) (Summary, error)
	GetQuarterlySummary(ctx context.Context, year, quarter int) (Summary, error)
	GetYearlySummary(ctx context.Context, year int) (Summary, error)
	GetStatistics(ctx context.Context, year, month int) (Statistics, error)
	// PaidTotalsByType sums paid expenses per type over the given accounting periods.
	PaidTotalsByType(ctx context.Context, periods []string) (map[ExpenseType]Bucket, error)
	Export(ctx context.Context, filter ExpenseFilter, format export.Format) (export.File, error)

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (ExpenseCategory, error)
	GetCategory(ctx context.Context, id string) (ExpenseCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]ExpenseCategory, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (ExpenseCategory, error)
	DeactivateCategory(ctx context.Context, id string) (ExpenseCategory, error)
}
