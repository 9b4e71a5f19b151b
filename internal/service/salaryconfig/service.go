package salaryconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type SalaryConfigServiceImpl struct {
	tx   database.Transactor
	repo salaryconfig.SalaryConfigRepository
	now  func() time.Time
}

func NewSalaryConfigService(tx database.Transactor, repo salaryconfig.SalaryConfigRepository) salaryconfig.SalaryConfigService {
	return &SalaryConfigServiceImpl{tx: tx, repo: repo, now: time.Now}
}

func (s *SalaryConfigServiceImpl) Create(ctx context.Context, req salaryconfig.CreateSalaryConfigRequest) (salaryconfig.SalaryConfig, error) {
	if err := req.Validate(); err != nil {
		return salaryconfig.SalaryConfig{}, err
	}

	now := s.now()
	effective := now
	if req.EffectiveDate != nil {
		effective, _ = validator.IsValidDate(*req.EffectiveDate)
	}

	cfg := salaryconfig.SalaryConfig{
		ID:                    uuid.NewString(),
		EmployeeID:            req.EmployeeID,
		EmployeeName:          req.EmployeeName,
		Role:                  req.Role,
		SalaryType:            req.SalaryType,
		BaseSalary:            req.BaseSalary,
		HourlyRate:            req.HourlyRate,
		Commission:            req.Commission,
		Allowances:            req.Allowances,
		Deductions:            req.Deductions,
		TaxRate:               req.TaxRate,
		SocialInsurance:       req.SocialInsurance,
		HealthInsurance:       req.HealthInsurance,
		UnemploymentInsurance: req.UnemploymentInsurance,
		StandardWorkHours:     req.StandardWorkHours,
		OvertimeRate:          req.OvertimeRate,
		Status:                salaryconfig.StatusActive,
		EffectiveDate:         effective,
		Notes:                 req.Notes,
		CreatedBy:             req.CreatedBy,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	cfg.ApplyDefaults()
	cfg.RecalculateTotals()

	var created salaryconfig.SalaryConfig
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		prev, err := s.repo.GetActiveByEmployeeID(ctx, req.EmployeeID)
		switch {
		case err == nil:
			prev.Deactivate(now)
			if err := s.repo.Update(ctx, prev); err != nil {
				return fmt.Errorf("failed to deactivate previous salary config: %w", err)
			}
			slog.Info("salary config superseded", "employee_id", req.EmployeeID, "previous_id", prev.ID)
		case !errors.Is(err, salaryconfig.ErrNoActiveSalaryConfig):
			return err
		}

		created, err = s.repo.Create(ctx, cfg)
		return err
	})
	if err != nil {
		return salaryconfig.SalaryConfig{}, err
	}
	return created, nil
}

func (s *SalaryConfigServiceImpl) Update(ctx context.Context, req salaryconfig.UpdateSalaryConfigRequest) (salaryconfig.SalaryConfig, error) {
	if err := req.Validate(); err != nil {
		return salaryconfig.SalaryConfig{}, err
	}

	cfg, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return salaryconfig.SalaryConfig{}, err
	}

	if req.EmployeeName != nil {
		cfg.EmployeeName = *req.EmployeeName
	}
	if req.Role != nil {
		cfg.Role = *req.Role
	}
	if req.SalaryType != nil {
		cfg.SalaryType = *req.SalaryType
	}
	if req.BaseSalary != nil {
		cfg.BaseSalary = *req.BaseSalary
	}
	if req.HourlyRate != nil {
		cfg.HourlyRate = *req.HourlyRate
	}
	if req.Commission != nil {
		cfg.Commission = *req.Commission
	}
	if req.Allowances != nil {
		cfg.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		cfg.Deductions = *req.Deductions
	}
	if req.TaxRate != nil {
		cfg.TaxRate = *req.TaxRate
	}
	if req.SocialInsurance != nil {
		cfg.SocialInsurance = *req.SocialInsurance
	}
	if req.HealthInsurance != nil {
		cfg.HealthInsurance = *req.HealthInsurance
	}
	if req.UnemploymentInsurance != nil {
		cfg.UnemploymentInsurance = *req.UnemploymentInsurance
	}
	if req.StandardWorkHours != nil {
		cfg.StandardWorkHours = *req.StandardWorkHours
	}
	if req.OvertimeRate != nil {
		cfg.OvertimeRate = *req.OvertimeRate
	}
	if req.Notes != nil {
		cfg.Notes = req.Notes
	}

	if cfg.SalaryType == salaryconfig.SalaryTypeHourly && !cfg.HourlyRate.IsPositive() {
		return salaryconfig.SalaryConfig{}, validator.ValidationErrors{
			{Field: "hourly_rate", Message: "must be greater than 0 for hourly salary type"},
		}
	}

	cfg.ApplyDefaults()
	cfg.RecalculateTotals()
	cfg.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, cfg); err != nil {
		return salaryconfig.SalaryConfig{}, err
	}
	return cfg, nil
}

func (s *SalaryConfigServiceImpl) GetByID(ctx context.Context, id string) (salaryconfig.SalaryConfig, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SalaryConfigServiceImpl) GetByEmployeeID(ctx context.Context, employeeID string) (salaryconfig.SalaryConfig, error) {
	return s.repo.GetActiveByEmployeeID(ctx, employeeID)
}

func (s *SalaryConfigServiceImpl) GetAll(ctx context.Context, filter salaryconfig.SalaryConfigFilter) ([]salaryconfig.SalaryConfig, error) {
	return s.repo.List(ctx, filter)
}

func (s *SalaryConfigServiceImpl) Deactivate(ctx context.Context, id string) (salaryconfig.SalaryConfig, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return salaryconfig.SalaryConfig{}, err
	}
	if !cfg.IsActive() {
		return salaryconfig.SalaryConfig{}, salaryconfig.ErrSalaryConfigInactive
	}
	cfg.Deactivate(s.now())
	if err := s.repo.Update(ctx, cfg); err != nil {
		return salaryconfig.SalaryConfig{}, err
	}
	return cfg, nil
}

func (s *SalaryConfigServiceImpl) PreviewNetSalary(ctx context.Context, req salaryconfig.PreviewNetSalaryRequest) (salaryconfig.NetSalaryBreakdown, error) {
	if err := req.Validate(); err != nil {
		return salaryconfig.NetSalaryBreakdown{}, err
	}
	cfg, err := s.repo.GetActiveByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return salaryconfig.NetSalaryBreakdown{}, err
	}
	return cfg.CalculateNetSalary(req.NetSalaryInput), nil
}
