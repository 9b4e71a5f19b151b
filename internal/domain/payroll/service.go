package payroll

import (
	"context"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/shopspring/decimal"
)

// SalesSource reports a personal trainer's paid sales for a month.
type SalesSource interface {
	GetPTSalesAmount(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error)
}

// ExpenseLedger receives a payroll run as salary expenses.
type ExpenseLedger interface {
	Create(ctx context.Context, req expense.CreateExpenseRequest) (expense.Expense, error)
	List(ctx context.Context, filter expense.ExpenseFilter) ([]expense.Expense, error)
}

// SalaryExpenseReference is the invoice number of the expense posted for a salary record.
func SalaryExpenseReference(recordID string) string {
	return "PAYROLL-" + recordID
}

type PayrollService interface {
	// GenerateMonthlySalaryRecords creates one PENDING record per active employee lacking one.
	GenerateMonthlySalaryRecords(ctx context.Context, month, year int) (BatchResult, error)
	// UpdatePTCommissionsForMonth recomputes personal trainer commission from paid sales.
	UpdatePTCommissionsForMonth(ctx context.Context, month, year int) (BatchResult, error)
	// PostSalaryExpenses books approved and paid records as pending salary expenses, once per record.
	PostSalaryExpenses(ctx context.Context, month, year int) (BatchResult, error)
	GetPayrollSummary(ctx context.Context, year, month int) (PayrollSummary, error)
	GetTopEarners(ctx context.Context, year, month, limit int) ([]Earner, error)
	GetPTCommissionSummary(ctx context.Context, year, month int) (PTCommissionSummary, error)
	CompareSalary(ctx context.Context, req CompareSalaryRequest) (SalaryComparison, error)
	ExportSummary(ctx context.Context, year, month int, format export.Format) (export.File, error)
}
