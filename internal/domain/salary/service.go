package salary

import "context"

type SalaryRecordService interface {
	Create(ctx context.Context, req CreateSalaryRecordRequest) (SalaryRecord, error)
	Update(ctx context.Context, req UpdateSalaryRecordRequest) (SalaryRecord, error)
	GetByID(ctx context.Context, id string) (SalaryRecord, error)
	Approve(ctx context.Context, req ApproveRequest) (SalaryRecord, error)
	MarkAsPaid(ctx context.Context, id string) (SalaryRecord, error)
	Delete(ctx context.Context, id string) error
	GetByMonthYear(ctx context.Context, month, year int) ([]SalaryRecord, error)
	GetByEmployee(ctx context.Context, employeeID string, limit int) ([]SalaryRecord, error)
	BulkApprove(ctx context.Context, req BulkApproveRequest) (BulkResult, error)
	// GeneratePayslipPDF renders the record as a PDF payslip and returns it with a file name.
	GeneratePayslipPDF(ctx context.Context, id string) ([]byte, string, error)
}
