package salary

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
)

// NewRecordFromConfig snapshots cfg into a PENDING record for month/year with full attendance
// and no adjustments. The record does not reference cfg afterwards.
func NewRecordFromConfig(cfg salaryconfig.SalaryConfig, month, year, standardWorkDays int, now time.Time) SalaryRecord {
	cfgID := cfg.ID
	rec := SalaryRecord{
		EmployeeID:       cfg.EmployeeID,
		EmployeeName:     cfg.EmployeeName,
		Role:             cfg.Role,
		ConfigID:         &cfgID,
		Month:            month,
		Year:             year,
		SalaryType:       FromConfigType(cfg.SalaryType),
		HourlyRate:       cfg.HourlyRate,
		StandardWorkDays: standardWorkDays,
		ActualWorkDays:   standardWorkDays,
		OvertimeHours:    decimal.Zero,
		OvertimeRate:     cfg.OvertimeRate,
		CommissionRate:   cfg.Commission.Rate,
		Allowances:       allowancesFromItems(cfg.Allowances),
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	switch rec.SalaryType {
	case SalaryTypeHourly:
		hours := cfg.StandardWorkHours
		if hours <= 0 {
			hours = salaryconfig.DefaultStandardWorkHours
		}
		rec.BaseSalary = cfg.HourlyRate.Mul(decimal.NewFromInt(int64(hours)))
	case SalaryTypeCommission:
		rec.BaseSalary = decimal.Zero
	default:
		rec.BaseSalary = cfg.BaseSalary
	}

	taxable := rec.BaseSalary.Add(rec.Allowances.Total())
	rec.Deductions = Deductions{
		Insurance: cfg.TotalInsurance(),
		Tax:       taxable.Mul(cfg.TaxRate).Div(decimal.NewFromInt(100)),
		Other:     cfg.TotalDeductions,
	}

	rec.ApplyDefaults()
	rec.Recalculate()
	return rec
}

// allowancesFromItems buckets config line items by label; unknown labels count as other.
func allowancesFromItems(items []salaryconfig.LineItem) Allowances {
	var a Allowances
	for _, it := range items {
		switch strings.ToLower(strings.TrimSpace(it.Label)) {
		case "housing":
			a.Housing = a.Housing.Add(it.Amount)
		case "transport", "transportation":
			a.Transport = a.Transport.Add(it.Amount)
		case "meal", "food":
			a.Meal = a.Meal.Add(it.Amount)
		case "phone":
			a.Phone = a.Phone.Add(it.Amount)
		default:
			a.Other = a.Other.Add(it.Amount)
		}
	}
	return a
}
