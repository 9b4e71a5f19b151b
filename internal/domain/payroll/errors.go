package payroll

import "errors"

var (
	ErrInvalidPeriod      = errors.New("invalid payroll period")
	ErrNoRecordsForPeriod = errors.New("no salary records for period")
	ErrNoActiveEmployees  = errors.New("no active employees with a salary config")
	ErrNoExpenseLedger    = errors.New("expense ledger is not configured")
)
