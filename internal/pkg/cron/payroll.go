package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
)

const (
	DefaultGenerateSpec   = "0 1 1 * *"
	DefaultCommissionSpec = "0 2 * * *"
)

// PayrollJobs contains payroll-related cron jobs
type PayrollJobs struct {
	payrollService payroll.PayrollService
	notifier       notification.Notifier
	generateSpec   string
	commissionSpec string
	now            func() time.Time
}

// NewPayrollJobs creates payroll cron jobs. Empty specs fall back to the defaults; notifier may be nil.
func NewPayrollJobs(payrollService payroll.PayrollService, notifier notification.Notifier, generateSpec, commissionSpec string) *PayrollJobs {
	if generateSpec == "" {
		generateSpec = DefaultGenerateSpec
	}
	if commissionSpec == "" {
		commissionSpec = DefaultCommissionSpec
	}
	return &PayrollJobs{
		payrollService: payrollService,
		notifier:       notifier,
		generateSpec:   generateSpec,
		commissionSpec: commissionSpec,
		now:            time.Now,
	}
}

// RegisterJobs registers all payroll-related cron jobs
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) error {
	// Salary records for the month that just closed
	if err := scheduler.AddJob("generate_monthly_payroll", j.generateSpec, j.GenerateMonthlyPayroll); err != nil {
		return err
	}
	// Late-confirmed orders still move last month's commission
	return scheduler.AddJob("refresh_pt_commissions", j.commissionSpec, j.RefreshPTCommissions)
}

// GenerateMonthlyPayroll creates pending salary records for the previous month.
func (j *PayrollJobs) GenerateMonthlyPayroll(ctx context.Context) error {
	month, year := j.previousMonth()
	result, err := j.payrollService.GenerateMonthlySalaryRecords(ctx, month, year)
	if err != nil {
		return fmt.Errorf("failed to generate payroll for %04d-%02d: %w", year, month, err)
	}

	slog.Info("Monthly payroll generated",
		"period", fmt.Sprintf("%04d-%02d", year, month),
		"succeeded", len(result.Succeeded),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
	)
	if len(result.Failed) > 0 {
		j.reportFailures(ctx, "Payroll generation incomplete", result)
	}
	return nil
}

// RefreshPTCommissions recomputes trainer commission for the previous month.
func (j *PayrollJobs) RefreshPTCommissions(ctx context.Context) error {
	month, year := j.previousMonth()
	result, err := j.payrollService.UpdatePTCommissionsForMonth(ctx, month, year)
	if err != nil {
		return fmt.Errorf("failed to refresh commissions for %04d-%02d: %w", year, month, err)
	}
	if len(result.Failed) > 0 {
		j.reportFailures(ctx, "Commission refresh incomplete", result)
	}
	return nil
}

func (j *PayrollJobs) previousMonth() (month, year int) {
	now := j.now()
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return int(prev.Month()), prev.Year()
}

func (j *PayrollJobs) reportFailures(ctx context.Context, title string, result payroll.BatchResult) {
	if j.notifier == nil {
		return
	}
	failed := make([]string, len(result.Failed))
	for i, item := range result.Failed {
		failed[i] = item.EmployeeID
	}
	err := j.notifier.QueueNotification(ctx, notification.CreateRequest{
		RecipientID: notification.RecipientFinance,
		Type:        notification.TypePayrollBatchFailure,
		Title:       title,
		Message:     fmt.Sprintf("%d of %d employees failed for %04d-%02d", len(result.Failed), result.Total(), result.Year, result.Month),
		Data:        map[string]any{"month": result.Month, "year": result.Year, "failed_employee_ids": failed},
	})
	if err != nil {
		slog.Warn("failed to queue payroll failure notification", "error", err)
	}
}
