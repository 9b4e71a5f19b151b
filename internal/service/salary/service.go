package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/google/uuid"
)

type SalaryRecordServiceImpl struct {
	repo     salary.SalaryRecordRepository
	notifier notification.Notifier
	currency string
	now      func() time.Time
}

// NewSalaryRecordService wires the record service. notifier may be nil.
func NewSalaryRecordService(repo salary.SalaryRecordRepository, notifier notification.Notifier, currency string) salary.SalaryRecordService {
	if currency == "" {
		currency = "VND"
	}
	return &SalaryRecordServiceImpl{repo: repo, notifier: notifier, currency: currency, now: time.Now}
}

func (s *SalaryRecordServiceImpl) Create(ctx context.Context, req salary.CreateSalaryRecordRequest) (salary.SalaryRecord, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryRecord{}, err
	}

	exists, err := s.repo.ExistsForPeriod(ctx, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return salary.SalaryRecord{}, err
	}
	if exists {
		return salary.SalaryRecord{}, salary.ErrSalaryRecordExists
	}

	now := s.now()
	rec := salary.SalaryRecord{
		ID:               uuid.NewString(),
		EmployeeID:       req.EmployeeID,
		EmployeeName:     req.EmployeeName,
		Role:             req.Role,
		Month:            req.Month,
		Year:             req.Year,
		SalaryType:       req.SalaryType,
		BaseSalary:       req.BaseSalary,
		HourlyRate:       req.HourlyRate,
		StandardWorkDays: req.StandardWorkDays,
		AbsentDays:       req.AbsentDays,
		LateDays:         req.LateDays,
		OvertimeHours:    req.OvertimeHours,
		OvertimeRate:     req.OvertimeRate,
		Bonus:            req.Bonus,
		Penalty:          req.Penalty,
		Commission:       req.Commission,
		CommissionRate:   req.CommissionRate,
		Allowances:       req.Allowances,
		Deductions:       req.Deductions,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if rec.SalaryType == "" {
		rec.SalaryType = salary.SalaryTypeMonthly
	}
	rec.ApplyDefaults()
	rec.ActualWorkDays = rec.StandardWorkDays
	if req.ActualWorkDays != nil {
		rec.ActualWorkDays = *req.ActualWorkDays
	}
	rec.Recalculate()

	return s.repo.Create(ctx, rec)
}

func (s *SalaryRecordServiceImpl) Update(ctx context.Context, req salary.UpdateSalaryRecordRequest) (salary.SalaryRecord, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryRecord{}, err
	}

	rec, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return salary.SalaryRecord{}, err
	}
	if !rec.CanEdit() {
		return salary.SalaryRecord{}, salary.ErrSalaryRecordPaid
	}

	if req.StandardWorkDays != nil {
		rec.StandardWorkDays = *req.StandardWorkDays
	}
	if req.ActualWorkDays != nil {
		rec.ActualWorkDays = *req.ActualWorkDays
	}
	if req.AbsentDays != nil {
		rec.AbsentDays = *req.AbsentDays
	}
	if req.LateDays != nil {
		rec.LateDays = *req.LateDays
	}
	if req.OvertimeHours != nil {
		rec.OvertimeHours = *req.OvertimeHours
	}
	if req.OvertimeRate != nil {
		rec.OvertimeRate = *req.OvertimeRate
	}
	if req.Bonus != nil {
		rec.Bonus = *req.Bonus
	}
	if req.Penalty != nil {
		rec.Penalty = *req.Penalty
	}
	if req.Commission != nil {
		rec.Commission = *req.Commission
	}
	if req.CommissionRate != nil {
		rec.CommissionRate = *req.CommissionRate
	}
	if req.Allowances != nil {
		rec.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		rec.Deductions = *req.Deductions
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}

	rec.ApplyDefaults()
	rec.Recalculate()
	rec.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, rec); err != nil {
		return salary.SalaryRecord{}, err
	}
	return rec, nil
}

func (s *SalaryRecordServiceImpl) GetByID(ctx context.Context, id string) (salary.SalaryRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SalaryRecordServiceImpl) Approve(ctx context.Context, req salary.ApproveRequest) (salary.SalaryRecord, error) {
	rec, err := s.approve(ctx, req.ID, req.ApprovedBy)
	if err != nil {
		return salary.SalaryRecord{}, err
	}
	s.notify(ctx, rec, notification.TypeSalaryApproved, "Salary approved",
		fmt.Sprintf("Your salary for %s has been approved", rec.Period()))
	return rec, nil
}

func (s *SalaryRecordServiceImpl) approve(ctx context.Context, id, by string) (salary.SalaryRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return salary.SalaryRecord{}, err
	}
	if err := rec.Approve(by, s.now()); err != nil {
		return salary.SalaryRecord{}, err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return salary.SalaryRecord{}, err
	}
	return rec, nil
}

func (s *SalaryRecordServiceImpl) MarkAsPaid(ctx context.Context, id string) (salary.SalaryRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return salary.SalaryRecord{}, err
	}
	if err := rec.MarkAsPaid(s.now()); err != nil {
		return salary.SalaryRecord{}, err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return salary.SalaryRecord{}, err
	}
	s.notify(ctx, rec, notification.TypeSalaryPaid, "Salary paid",
		fmt.Sprintf("Your salary for %s has been paid: %s %s", rec.Period(), rec.NetSalary.StringFixed(0), s.currency))
	return rec, nil
}

func (s *SalaryRecordServiceImpl) Delete(ctx context.Context, id string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rec.CanDelete() {
		return salary.ErrCannotDeletePaidRecord
	}
	return s.repo.Delete(ctx, id)
}

func (s *SalaryRecordServiceImpl) GetByMonthYear(ctx context.Context, month, year int) ([]salary.SalaryRecord, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, salary.ErrInvalidPeriod
	}
	return s.repo.List(ctx, salary.SalaryRecordFilter{Month: &month, Year: &year})
}

func (s *SalaryRecordServiceImpl) GetByEmployee(ctx context.Context, employeeID string, limit int) ([]salary.SalaryRecord, error) {
	if limit <= 0 {
		limit = 12
	}
	return s.repo.List(ctx, salary.SalaryRecordFilter{EmployeeID: &employeeID, Limit: limit})
}

// BulkApprove approves each record independently; one failure does not stop the rest.
func (s *SalaryRecordServiceImpl) BulkApprove(ctx context.Context, req salary.BulkApproveRequest) (salary.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return salary.BulkResult{}, err
	}

	result := salary.BulkResult{Succeeded: []string{}, Failed: []salary.BulkFailure{}}
	for _, id := range req.IDs {
		rec, err := s.approve(ctx, id, req.ApprovedBy)
		if err != nil {
			slog.Warn("bulk approve: record skipped", "record_id", id, "error", err)
			result.Failed = append(result.Failed, salary.BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
		s.notify(ctx, rec, notification.TypeSalaryApproved, "Salary approved",
			fmt.Sprintf("Your salary for %s has been approved", rec.Period()))
	}
	return result, nil
}

func (s *SalaryRecordServiceImpl) GeneratePayslipPDF(ctx context.Context, id string) ([]byte, string, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := payslipFor(rec, s.currency).PDF()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render payslip: %w", err)
	}
	return data, fmt.Sprintf("payslip_%s_%s.pdf", rec.EmployeeID, rec.Period()), nil
}

func (s *SalaryRecordServiceImpl) notify(ctx context.Context, rec salary.SalaryRecord, t notification.Type, title, msg string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.QueueNotification(ctx, notification.CreateRequest{
		RecipientID: rec.EmployeeID,
		Type:        t,
		Title:       title,
		Message:     msg,
		Data:        map[string]any{"salary_record_id": rec.ID, "period": rec.Period()},
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("failed to queue salary notification", "record_id", rec.ID, "type", t, "error", err)
	}
}
