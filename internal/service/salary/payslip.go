package salary

import (
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/shopspring/decimal"
)

func amount(d decimal.Decimal) string {
	return d.StringFixed(0)
}

func payslipFor(rec salary.SalaryRecord, currency string) export.Payslip {
	p := export.Payslip{
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		Role:         string(rec.Role),
		Period:       rec.Period(),
		Status:       string(rec.Status),
		Gross:        amount(rec.GrossSalary),
		Net:          amount(rec.NetSalary),
		Currency:     currency,
	}

	earn := func(label string, d decimal.Decimal) {
		if !d.IsZero() {
			p.Earnings = append(p.Earnings, export.PayslipLine{Label: label, Amount: amount(d)})
		}
	}
	deduct := func(label string, d decimal.Decimal) {
		if !d.IsZero() {
			p.Deductions = append(p.Deductions, export.PayslipLine{Label: label, Amount: amount(d)})
		}
	}

	earn("Base salary", rec.ProratedBase)
	earn("Overtime", rec.OvertimePay)
	earn("Commission", rec.Commission)
	earn("Housing allowance", rec.Allowances.Housing)
	earn("Transport allowance", rec.Allowances.Transport)
	earn("Meal allowance", rec.Allowances.Meal)
	earn("Phone allowance", rec.Allowances.Phone)
	earn("Other allowance", rec.Allowances.Other)
	earn("Bonus", rec.Bonus.Amount)

	deduct("Insurance", rec.Deductions.Insurance)
	deduct("Tax", rec.Deductions.Tax)
	deduct("Advance", rec.Deductions.Advance)
	deduct("Other deductions", rec.Deductions.Other)
	deduct("Penalty", rec.Penalty.Amount)

	return p
}
