package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(time.UTC, nil)
	calls := 0
	require.NoError(t, s.AddJob("count", "@every 1h", func(ctx context.Context) error {
		calls++
		return nil
	}))
	boom := errors.New("boom")
	require.NoError(t, s.AddJob("fail", "0 3 * * *", func(ctx context.Context) error { return boom }))

	require.NoError(t, s.RunOnce(context.Background(), "count"))
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, s.RunOnce(context.Background(), "fail"), boom)
	assert.ErrorIs(t, s.RunOnce(context.Background(), "missing"), ErrJobNotFound)
	assert.Equal(t, []string{"count", "fail"}, s.Jobs())
}

func TestScheduler_AddJobRejectsDuplicatesAndBadSpecs(t *testing.T) {
	s := NewScheduler(nil, nil)
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, s.AddJob("a", "@every 1m", noop))
	assert.Error(t, s.AddJob("a", "@every 2m", noop))
	assert.Error(t, s.AddJob("b", "not a schedule", noop))
	assert.Equal(t, []string{"a"}, s.Jobs())

	s.Start()
	s.Stop()
}

type fakePayroll struct {
	payroll.PayrollService
	gotMonth, gotYear int
	result            payroll.BatchResult
}

func (f *fakePayroll) GenerateMonthlySalaryRecords(ctx context.Context, month, year int) (payroll.BatchResult, error) {
	f.gotMonth, f.gotYear = month, year
	f.result.Month, f.result.Year = month, year
	return f.result, nil
}

func (f *fakePayroll) UpdatePTCommissionsForMonth(ctx context.Context, month, year int) (payroll.BatchResult, error) {
	f.gotMonth, f.gotYear = month, year
	return payroll.NewBatchResult(month, year), nil
}

type recordingNotifier struct{ reqs []notification.CreateRequest }

func (r *recordingNotifier) QueueNotification(ctx context.Context, req notification.CreateRequest) error {
	r.reqs = append(r.reqs, req)
	return nil
}

func TestPayrollJobs_GenerateTargetsPreviousMonth(t *testing.T) {
	svc := &fakePayroll{result: payroll.NewBatchResult(0, 0)}
	svc.result.Add(payroll.OutcomeSucceeded, payroll.BatchItem{EmployeeID: "e1"})
	svc.result.Add(payroll.OutcomeFailed, payroll.BatchItem{EmployeeID: "e2", Reason: "no salary config"})
	notifier := &recordingNotifier{}
	jobs := NewPayrollJobs(svc, notifier, "", "")
	jobs.now = func() time.Time { return time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC) }

	s := NewScheduler(time.UTC, nil)
	require.NoError(t, jobs.RegisterJobs(s))
	require.NoError(t, s.RunOnce(context.Background(), "generate_monthly_payroll"))

	assert.Equal(t, 12, svc.gotMonth)
	assert.Equal(t, 2025, svc.gotYear)
	require.Len(t, notifier.reqs, 1)
	assert.Equal(t, notification.TypePayrollBatchFailure, notifier.reqs[0].Type)
	assert.Equal(t, notification.RecipientFinance, notifier.reqs[0].RecipientID)
	assert.Equal(t, []string{"e2"}, notifier.reqs[0].Data["failed_employee_ids"])
}

func TestPayrollJobs_CommissionRefreshWithoutFailuresIsQuiet(t *testing.T) {
	svc := &fakePayroll{}
	notifier := &recordingNotifier{}
	jobs := NewPayrollJobs(svc, notifier, "", "")
	jobs.now = func() time.Time { return time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.RefreshPTCommissions(context.Background()))

	assert.Equal(t, 2, svc.gotMonth)
	assert.Equal(t, 2025, svc.gotYear)
	assert.Empty(t, notifier.reqs)
}
