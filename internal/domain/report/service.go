package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
)

// RevenueSource is the external revenue collaborator. Revenue is never computed here.
type RevenueSource interface {
	GetMonthlyRevenueSummary(ctx context.Context, year, month int) (payment.RevenueSummary, error)
}

type ExpenseSummarizer interface {
	GetMonthlySummary(ctx context.Context, year, month int) (expense.Summary, error)
}

type PayrollSummarizer interface {
	GetPayrollSummary(ctx context.Context, year, month int) (payroll.PayrollSummary, error)
}

// Cache stores finished reports. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type ReportService interface {
	GetMonthlyReport(ctx context.Context, year, month int) (FinancialReport, error)
	GetQuarterlyReport(ctx context.Context, year, quarter int) (FinancialReport, error)
	GetYearlyReport(ctx context.Context, year int) (FinancialReport, error)
	GetReport(ctx context.Context, req PeriodRequest) (FinancialReport, error)

	GetBreakEvenAnalysis(ctx context.Context, req PeriodRequest) (BreakEvenAnalysis, error)
	GetCashFlowAnalysis(ctx context.Context, req PeriodRequest) (CashFlowAnalysis, error)
	GetFinancialKPIs(ctx context.Context, req PeriodRequest) (KPIs, error)
	GetFinancialTrends(ctx context.Context, req TrendsRequest) (Trends, error)
	ComparePeriods(ctx context.Context, req CompareRequest) (PeriodComparison, error)
	Export(ctx context.Context, req PeriodRequest, format export.Format) (export.File, error)
}
