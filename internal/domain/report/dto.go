package report

import (
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
)

const (
	DefaultMonthsBack = 6
	MaxMonthsBack     = 24
)

// PeriodRequest selects a report period. Month is used for monthly reports, Quarter for
// quarterly reports; a yearly report needs only Year.
type PeriodRequest struct {
	Kind    Kind `json:"kind"`
	Year    int  `json:"year"`
	Month   int  `json:"month,omitempty"`
	Quarter int  `json:"quarter,omitempty"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Kind == "" {
		r.Kind = KindMonthly
	}
	if !validator.IsValidYear(r.Year) {
		errs.Add("year", "must be 2020 or later")
	}
	switch r.Kind {
	case KindMonthly:
		if !validator.IsValidMonth(r.Month) {
			errs.Add("month", "must be between 1 and 12")
		}
	case KindQuarterly:
		if !validator.IsValidQuarter(r.Quarter) {
			errs.Add("quarter", "must be between 1 and 4")
		}
	case KindYearly:
	default:
		errs.Add("kind", "must be one of monthly, quarterly, yearly")
	}
	return errs.Err()
}

type TrendsRequest struct {
	Year       int `json:"year"`
	Month      int `json:"month"`
	MonthsBack int `json:"months_back"`
}

func (r *TrendsRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.MonthsBack == 0 {
		r.MonthsBack = DefaultMonthsBack
	}
	if !validator.IsValidYear(r.Year) {
		errs.Add("year", "must be 2020 or later")
	}
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "must be between 1 and 12")
	}
	if r.MonthsBack < 1 || r.MonthsBack > MaxMonthsBack {
		errs.Add("months_back", ErrInvalidMonthsBack.Error())
	}
	return errs.Err()
}

type CompareRequest struct {
	Current  PeriodRequest `json:"current"`
	Previous PeriodRequest `json:"previous"`
}

func (r *CompareRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := r.Current.Validate(); err != nil {
		errs.Add("current", err.Error())
	}
	if err := r.Previous.Validate(); err != nil {
		errs.Add("previous", err.Error())
	}
	return errs.Err()
}
