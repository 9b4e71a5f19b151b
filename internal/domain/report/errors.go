package report

import "errors"

var (
	ErrInvalidPeriod     = errors.New("invalid report period")
	ErrInvalidMonthsBack = errors.New("months back must be between 1 and 24")
	ErrNoData            = errors.New("no financial data for period")
)
