package salary

import "errors"

var (
	ErrSalaryRecordNotFound    = errors.New("salary record not found")
	ErrSalaryRecordExists      = errors.New("salary record already exists for this employee and period")
	ErrInvalidStatusTransition = errors.New("invalid salary record status transition")
	ErrSalaryRecordPaid        = errors.New("salary record already paid, cannot modify")
	ErrCannotDeletePaidRecord  = errors.New("cannot delete paid salary record")
	ErrInvalidPeriod           = errors.New("invalid salary period")
)
