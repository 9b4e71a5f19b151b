package payroll

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	opGenerate     = "generate"
	opCommission   = "commission"
	opPostExpenses = "post_expenses"

	// salaryDueDay is the day of the payroll month salary expenses fall due.
	salaryDueDay = 28

	defaultTopEarners = 10
)

type Config struct {
	StandardWorkDays int
	Currency         string
}

type PayrollServiceImpl struct {
	configRepo salaryconfig.SalaryConfigRepository
	recordRepo salary.SalaryRecordRepository
	sales      payroll.SalesSource
	expenses   payroll.ExpenseLedger
	notifier   notification.Notifier
	metrics    *metrics.Metrics
	cfg        Config
	now        func() time.Time
}

// NewPayrollService wires the batch service. expenses, notifier and m may be nil.
func NewPayrollService(
	configRepo salaryconfig.SalaryConfigRepository,
	recordRepo salary.SalaryRecordRepository,
	sales payroll.SalesSource,
	expenses payroll.ExpenseLedger,
	notifier notification.Notifier,
	m *metrics.Metrics,
	cfg Config,
) payroll.PayrollService {
	if cfg.StandardWorkDays <= 0 {
		cfg.StandardWorkDays = salary.DefaultStandardWorkDays
	}
	if cfg.Currency == "" {
		cfg.Currency = "VND"
	}
	return &PayrollServiceImpl{
		configRepo: configRepo,
		recordRepo: recordRepo,
		sales:      sales,
		expenses:   expenses,
		notifier:   notifier,
		metrics:    m,
		cfg:        cfg,
		now:        time.Now,
	}
}

func validPeriod(month, year int) error {
	req := payroll.PeriodRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", payroll.ErrInvalidPeriod, err)
	}
	return nil
}

// ========== BATCH ==========

func (s *PayrollServiceImpl) GenerateMonthlySalaryRecords(ctx context.Context, month, year int) (payroll.BatchResult, error) {
	if err := validPeriod(month, year); err != nil {
		return payroll.BatchResult{}, err
	}

	configs, err := s.configRepo.ListActive(ctx)
	if err != nil {
		return payroll.BatchResult{}, fmt.Errorf("failed to load salary roster: %w", err)
	}
	if len(configs) == 0 {
		return payroll.NewBatchResult(month, year), payroll.ErrNoActiveEmployees
	}

	result := payroll.NewBatchResult(month, year)
	for _, cfg := range configs {
		item := payroll.BatchItem{EmployeeID: cfg.EmployeeID, EmployeeName: cfg.EmployeeName}
		outcome, err := s.generateOne(ctx, cfg, month, year, &item)
		if err != nil {
			item.Reason = err.Error()
			slog.Warn("salary record generation failed", "employee_id", cfg.EmployeeID, "month", month, "year", year, "error", err)
		}
		result.Add(outcome, item)
		s.metrics.BatchItem(opGenerate, string(outcome))
	}

	slog.Info("monthly salary records generated",
		"month", month, "year", year,
		"succeeded", len(result.Succeeded), "skipped", len(result.Skipped), "failed", len(result.Failed))
	return result, nil
}

func (s *PayrollServiceImpl) generateOne(ctx context.Context, cfg salaryconfig.SalaryConfig, month, year int, item *payroll.BatchItem) (payroll.Outcome, error) {
	exists, err := s.recordRepo.ExistsForPeriod(ctx, cfg.EmployeeID, month, year)
	if err != nil {
		return payroll.OutcomeFailed, err
	}
	if exists {
		item.Reason = "salary record already exists"
		return payroll.OutcomeSkipped, nil
	}

	rec := salary.NewRecordFromConfig(cfg, month, year, s.cfg.StandardWorkDays, s.now())
	rec.ID = uuid.NewString()

	if cfg.Role == salaryconfig.RolePersonalTrainer && cfg.Commission.Enabled && s.sales != nil {
		sales, err := s.sales.GetPTSalesAmount(ctx, cfg.EmployeeID, year, month)
		if err != nil {
			// commission is refreshed later by UpdatePTCommissionsForMonth
			slog.Warn("pt sales unavailable, commission left at zero", "employee_id", cfg.EmployeeID, "error", err)
		} else {
			commission := salaryconfig.CalculateCommission(cfg.Commission, sales)
			rec.SetCommission(sales, commission, effectiveRate(cfg.Commission, sales, commission))
		}
	}

	created, err := s.recordRepo.Create(ctx, rec)
	if errors.Is(err, salary.ErrSalaryRecordExists) {
		item.Reason = "salary record already exists"
		return payroll.OutcomeSkipped, nil
	}
	if err != nil {
		return payroll.OutcomeFailed, err
	}

	item.RecordID = created.ID
	s.notify(ctx, created.EmployeeID, notification.TypePayslipGenerated, "Payslip generated",
		fmt.Sprintf("Your payslip for %s is ready", created.Period()),
		map[string]any{"salary_record_id": created.ID})
	return payroll.OutcomeSucceeded, nil
}

// effectiveRate reports the percentage the commission represents of sales.
func effectiveRate(rule salaryconfig.CommissionRule, sales, commission decimal.Decimal) decimal.Decimal {
	if rule.Type == salaryconfig.CommissionPercentage {
		return rule.Rate
	}
	if !sales.IsPositive() {
		return decimal.Zero
	}
	return commission.Div(sales).Mul(decimal.NewFromInt(100)).Round(2)
}

func (s *PayrollServiceImpl) UpdatePTCommissionsForMonth(ctx context.Context, month, year int) (payroll.BatchResult, error) {
	if err := validPeriod(month, year); err != nil {
		return payroll.BatchResult{}, err
	}
	if s.sales == nil {
		return payroll.BatchResult{}, errors.New("pt sales source is not configured")
	}

	role := salaryconfig.RolePersonalTrainer
	records, err := s.recordRepo.List(ctx, salary.SalaryRecordFilter{Month: &month, Year: &year, Role: &role})
	if err != nil {
		return payroll.BatchResult{}, fmt.Errorf("failed to load trainer salary records: %w", err)
	}

	result := payroll.NewBatchResult(month, year)
	for _, rec := range records {
		item := payroll.BatchItem{EmployeeID: rec.EmployeeID, EmployeeName: rec.EmployeeName, RecordID: rec.ID}
		outcome, err := s.updateCommission(ctx, rec, &item)
		if err != nil {
			item.Reason = err.Error()
			slog.Warn("pt commission update failed", "employee_id", rec.EmployeeID, "record_id", rec.ID, "error", err)
		}
		result.Add(outcome, item)
		s.metrics.BatchItem(opCommission, string(outcome))
	}

	slog.Info("pt commissions updated",
		"month", month, "year", year,
		"succeeded", len(result.Succeeded), "skipped", len(result.Skipped), "failed", len(result.Failed))
	return result, nil
}

func (s *PayrollServiceImpl) updateCommission(ctx context.Context, rec salary.SalaryRecord, item *payroll.BatchItem) (payroll.Outcome, error) {
	if rec.Status == salary.StatusPaid {
		item.Reason = "salary record already paid"
		return payroll.OutcomeSkipped, nil
	}

	cfg, err := s.configFor(ctx, rec)
	if err != nil {
		return payroll.OutcomeFailed, err
	}
	if !cfg.Commission.Enabled {
		item.Reason = "commission not enabled"
		return payroll.OutcomeSkipped, nil
	}

	sales, err := s.sales.GetPTSalesAmount(ctx, rec.EmployeeID, rec.Year, rec.Month)
	if err != nil {
		return payroll.OutcomeFailed, fmt.Errorf("failed to load pt sales: %w", err)
	}
	commission := salaryconfig.CalculateCommission(cfg.Commission, sales)
	if !commission.IsPositive() {
		item.Reason = "no commission earned"
		return payroll.OutcomeSkipped, nil
	}

	rec.SetCommission(sales, commission, effectiveRate(cfg.Commission, sales, commission))
	rec.UpdatedAt = s.now()
	if err := s.recordRepo.Update(ctx, rec); err != nil {
		return payroll.OutcomeFailed, err
	}

	s.notify(ctx, rec.EmployeeID, notification.TypeCommissionUpdated, "Commission updated",
		fmt.Sprintf("Your commission for %s is %s %s", rec.Period(), commission.StringFixed(0), s.cfg.Currency),
		map[string]any{"salary_record_id": rec.ID, "sales_amount": sales.String()})
	return payroll.OutcomeSucceeded, nil
}

func (s *PayrollServiceImpl) PostSalaryExpenses(ctx context.Context, month, year int) (payroll.BatchResult, error) {
	if err := validPeriod(month, year); err != nil {
		return payroll.BatchResult{}, err
	}
	if s.expenses == nil {
		return payroll.BatchResult{}, payroll.ErrNoExpenseLedger
	}

	records, err := s.recordRepo.List(ctx, salary.SalaryRecordFilter{Month: &month, Year: &year})
	if err != nil {
		return payroll.BatchResult{}, fmt.Errorf("failed to load salary records: %w", err)
	}
	if len(records) == 0 {
		return payroll.NewBatchResult(month, year), payroll.ErrNoRecordsForPeriod
	}

	posted, err := s.postedReferences(ctx, period.Key(year, month))
	if err != nil {
		return payroll.BatchResult{}, err
	}

	result := payroll.NewBatchResult(month, year)
	for _, rec := range records {
		item := payroll.BatchItem{EmployeeID: rec.EmployeeID, EmployeeName: rec.EmployeeName, RecordID: rec.ID}
		outcome, err := s.postOne(ctx, rec, posted, &item)
		if err != nil {
			item.Reason = err.Error()
			slog.Warn("salary expense posting failed", "employee_id", rec.EmployeeID, "record_id", rec.ID, "error", err)
		}
		result.Add(outcome, item)
		s.metrics.BatchItem(opPostExpenses, string(outcome))
	}

	slog.Info("salary expenses posted",
		"month", month, "year", year,
		"succeeded", len(result.Succeeded), "skipped", len(result.Skipped), "failed", len(result.Failed))
	return result, nil
}

// postedReferences collects the invoice numbers of salary expenses already booked for the period.
func (s *PayrollServiceImpl) postedReferences(ctx context.Context, accountingPeriod string) (map[string]bool, error) {
	salaryType := expense.TypeSalary
	existing, err := s.expenses.List(ctx, expense.ExpenseFilter{Type: &salaryType, Periods: []string{accountingPeriod}})
	if err != nil {
		return nil, fmt.Errorf("failed to load posted salary expenses: %w", err)
	}
	posted := make(map[string]bool, len(existing))
	for _, e := range existing {
		if e.InvoiceNumber != nil {
			posted[*e.InvoiceNumber] = true
		}
	}
	return posted, nil
}

func (s *PayrollServiceImpl) postOne(ctx context.Context, rec salary.SalaryRecord, posted map[string]bool, item *payroll.BatchItem) (payroll.Outcome, error) {
	if rec.Status != salary.StatusApproved && rec.Status != salary.StatusPaid {
		item.Reason = "salary record not approved"
		return payroll.OutcomeSkipped, nil
	}
	ref := payroll.SalaryExpenseReference(rec.ID)
	if posted[ref] {
		item.Reason = "salary expense already posted"
		return payroll.OutcomeSkipped, nil
	}
	if !rec.NetSalary.IsPositive() {
		item.Reason = "net salary is zero"
		return payroll.OutcomeSkipped, nil
	}

	breakdown, err := json.Marshal(map[string]string{
		"base_salary":  rec.ProratedBase.String(),
		"allowances":   rec.Allowances.Total().String(),
		"commission":   rec.Commission.String(),
		"overtime_pay": rec.OvertimePay.String(),
		"bonuses":      rec.Bonus.Amount.String(),
		"deductions":   rec.Deductions.Total().String(),
		"penalties":    rec.Penalty.Amount.String(),
		"insurance":    rec.Deductions.Insurance.String(),
		"tax":          rec.Deductions.Tax.String(),
	})
	if err != nil {
		return payroll.OutcomeFailed, err
	}

	accountingPeriod := rec.Period()
	due := time.Date(rec.Year, time.Month(rec.Month), salaryDueDay, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	description := fmt.Sprintf("Salary %02d/%d for employee %s", rec.Month, rec.Year, rec.EmployeeID)
	notes := string(breakdown)
	_, err = s.expenses.Create(ctx, expense.CreateExpenseRequest{
		Type:             expense.TypeSalary,
		Category:         expense.CategoryHumanResource,
		Title:            fmt.Sprintf("Salary %02d/%d - %s", rec.Month, rec.Year, rec.EmployeeName),
		Description:      &description,
		Amount:           rec.NetSalary,
		Currency:         s.cfg.Currency,
		VendorName:       &rec.EmployeeName,
		InvoiceNumber:    &ref,
		DueDate:          &due,
		AccountingPeriod: &accountingPeriod,
		Notes:            &notes,
	})
	if err != nil {
		return payroll.OutcomeFailed, fmt.Errorf("failed to create salary expense: %w", err)
	}
	posted[ref] = true
	return payroll.OutcomeSucceeded, nil
}

// configFor prefers the config the record was generated from and falls back to the
// employee's active config.
func (s *PayrollServiceImpl) configFor(ctx context.Context, rec salary.SalaryRecord) (salaryconfig.SalaryConfig, error) {
	if rec.ConfigID != nil {
		cfg, err := s.configRepo.GetByID(ctx, *rec.ConfigID)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, salaryconfig.ErrSalaryConfigNotFound) {
			return salaryconfig.SalaryConfig{}, err
		}
	}
	return s.configRepo.GetActiveByEmployeeID(ctx, rec.EmployeeID)
}

// ========== READ MODELS ==========

func (s *PayrollServiceImpl) records(ctx context.Context, year, month int) ([]salary.SalaryRecord, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	return s.recordRepo.List(ctx, salary.SalaryRecordFilter{Month: &month, Year: &year})
}

func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, year, month int) (payroll.PayrollSummary, error) {
	records, err := s.records(ctx, year, month)
	if err != nil {
		return payroll.PayrollSummary{}, err
	}
	return payroll.Summarize(month, year, records), nil
}

func (s *PayrollServiceImpl) GetTopEarners(ctx context.Context, year, month, limit int) ([]payroll.Earner, error) {
	records, err := s.records(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopEarners
	}

	slices.SortStableFunc(records, func(a, b salary.SalaryRecord) int {
		return b.NetSalary.Cmp(a.NetSalary)
	})
	if len(records) > limit {
		records = records[:limit]
	}

	earners := make([]payroll.Earner, len(records))
	for i, r := range records {
		earners[i] = payroll.Earner{
			EmployeeID:   r.EmployeeID,
			EmployeeName: r.EmployeeName,
			Role:         r.Role,
			GrossSalary:  r.GrossSalary,
			NetSalary:    r.NetSalary,
		}
	}
	return earners, nil
}

func (s *PayrollServiceImpl) GetPTCommissionSummary(ctx context.Context, year, month int) (payroll.PTCommissionSummary, error) {
	if err := validPeriod(month, year); err != nil {
		return payroll.PTCommissionSummary{}, err
	}
	role := salaryconfig.RolePersonalTrainer
	records, err := s.recordRepo.List(ctx, salary.SalaryRecordFilter{Month: &month, Year: &year, Role: &role})
	if err != nil {
		return payroll.PTCommissionSummary{}, err
	}

	sum := payroll.PTCommissionSummary{Month: month, Year: year, Trainers: make([]payroll.TrainerCommission, 0, len(records))}
	for _, r := range records {
		sum.Trainers = append(sum.Trainers, payroll.TrainerCommission{
			EmployeeID:     r.EmployeeID,
			EmployeeName:   r.EmployeeName,
			SalesAmount:    r.SalesAmount,
			Commission:     r.Commission,
			CommissionRate: r.CommissionRate,
		})
		sum.TotalSales = sum.TotalSales.Add(r.SalesAmount)
		sum.TotalCommission = sum.TotalCommission.Add(r.Commission)
	}
	slices.SortStableFunc(sum.Trainers, func(a, b payroll.TrainerCommission) int {
		if c := b.Commission.Cmp(a.Commission); c != 0 {
			return c
		}
		return cmp.Compare(a.EmployeeName, b.EmployeeName)
	})
	return sum, nil
}

func (s *PayrollServiceImpl) CompareSalary(ctx context.Context, req payroll.CompareSalaryRequest) (payroll.SalaryComparison, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryComparison{}, err
	}

	current, err := s.recordRepo.GetByEmployeePeriod(ctx, req.EmployeeID, req.Current.Month, req.Current.Year)
	if err != nil {
		return payroll.SalaryComparison{}, err
	}
	previous, err := s.recordRepo.GetByEmployeePeriod(ctx, req.EmployeeID, req.Previous.Month, req.Previous.Year)
	if err != nil {
		return payroll.SalaryComparison{}, err
	}

	diff := current.NetSalary.Sub(previous.NetSalary)
	pct := decimal.Zero
	if !previous.NetSalary.IsZero() {
		pct = diff.Div(previous.NetSalary).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return payroll.SalaryComparison{
		EmployeeID:    req.EmployeeID,
		Current:       current,
		Previous:      previous,
		Difference:    diff,
		PercentChange: pct,
		Trend:         payroll.TrendOf(diff),
	}, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (s *PayrollServiceImpl) ExportSummary(ctx context.Context, year, month int, format export.Format) (export.File, error) {
	summary, err := s.GetPayrollSummary(ctx, year, month)
	if err != nil {
		return export.File{}, err
	}

	t := export.Table{
		Sheet: "Payroll " + period.Key(year, month),
		Header: []string{
			"Employee ID", "Employee", "Role", "Status", "Base Salary", "Allowances", "Overtime",
			"Commission", "Bonus", "Deductions", "Penalty", "Gross Salary", "Net Salary",
		},
	}
	for _, r := range summary.Records {
		t.Rows = append(t.Rows, []string{
			r.EmployeeID, r.EmployeeName, string(r.Role), string(r.Status),
			money(r.BaseSalary), money(r.Allowances.Total()), money(r.OvertimePay),
			money(r.Commission), money(r.Bonus.Amount), money(r.Deductions.Total()),
			money(r.Penalty.Amount), money(r.GrossSalary), money(r.NetSalary),
		})
	}
	tot := summary.Totals
	t.Totals = []string{
		"TOTAL", fmt.Sprintf("%d employees", summary.TotalEmployees), "", "",
		money(tot.BaseSalary), money(tot.Allowances), money(tot.OvertimePay),
		money(tot.Commission), money(tot.Bonuses), money(tot.Deductions),
		money(tot.Penalties), money(tot.GrossSalary), money(tot.NetSalary),
	}
	return t.Render(format, "payroll_"+period.Key(year, month))
}

func (s *PayrollServiceImpl) notify(ctx context.Context, recipient string, t notification.Type, title, msg string, data map[string]any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.QueueNotification(ctx, notification.CreateRequest{
		RecipientID: recipient,
		Type:        t,
		Title:       title,
		Message:     msg,
		Data:        data,
	}); err != nil {
		slog.Warn("failed to queue payroll notification", "recipient_id", recipient, "type", t, "error", err)
	}
}
