package payroll

import (
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
)

// PeriodRequest identifies a payroll month.
type PeriodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "must be between 1 and 12")
	}
	if !validator.IsValidYear(r.Year) {
		errs.Add("year", "must be 2020 or later")
	}
	return errs.Err()
}

type CompareSalaryRequest struct {
	EmployeeID string        `json:"employee_id"`
	Current    PeriodRequest `json:"current"`
	Previous   PeriodRequest `json:"previous"`
}

func (r *CompareSalaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}
	if err := r.Current.Validate(); err != nil {
		errs.Add("current", err.Error())
	}
	if err := r.Previous.Validate(); err != nil {
		errs.Add("previous", err.Error())
	}
	return errs.Err()
}
