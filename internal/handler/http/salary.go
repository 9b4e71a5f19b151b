package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/go-chi/chi/v5"
)

const defaultHistoryLimit = 12

type SalaryRecordHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	ListByPeriod(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	BulkApprove(w http.ResponseWriter, r *http.Request)
	MarkAsPaid(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)

	// Self service
	MyRecords(w http.ResponseWriter, r *http.Request)
	MyPayslip(w http.ResponseWriter, r *http.Request)
}

type salaryRecordHandlerImpl struct {
	salaryService salary.SalaryRecordService
}

func NewSalaryRecordHandler(salaryService salary.SalaryRecordService) SalaryRecordHandler {
	return &salaryRecordHandlerImpl{salaryService: salaryService}
}

func (h *salaryRecordHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateSalaryRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary record created", result)
}

func (h *salaryRecordHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary record ID is required", nil)
		return
	}

	result, err := h.salaryService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByPeriod handles GET /salary-records?year=&month=
func (h *salaryRecordHandlerImpl) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.GetByMonthYear(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryRecordHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.salaryService.GetByEmployee(r.Context(), employeeID, getIntQueryParam(r, "limit", defaultHistoryLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryRecordHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary record ID is required", nil)
		return
	}

	var req salary.UpdateSalaryRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.salaryService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary record updated", result)
}

func (h *salaryRecordHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary record ID is required", nil)
		return
	}

	if err := h.salaryService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary record deleted", nil)
}

func (h *salaryRecordHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary record ID is required", nil)
		return
	}

	req := salary.ApproveRequest{ID: id}
	if p, ok := getPrincipal(r); ok {
		req.ApprovedBy = p.UserID
	}

	result, err := h.salaryService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary record approved", result)
}

func (h *salaryRecordHandlerImpl) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req salary.BulkApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if p, ok := getPrincipal(r); ok {
		req.ApprovedBy = p.UserID
	}

	result, err := h.salaryService.BulkApprove(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryRecordHandlerImpl) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary record ID is required", nil)
		return
	}

	result, err := h.salaryService.MarkAsPaid(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary record marked as paid", result)
}

func (h *salaryRecordHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary record ID is required", nil)
		return
	}
	h.writePayslip(w, r, id)
}

// MyRecords lists the caller's own salary history
func (h *salaryRecordHandlerImpl) MyRecords(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.salaryService.GetByEmployee(r.Context(), p.UserID, getIntQueryParam(r, "limit", defaultHistoryLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyPayslip serves a payslip only when the record belongs to the caller.
// Records of other employees answer 404 so their existence is not revealed.
func (h *salaryRecordHandlerImpl) MyPayslip(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	rec, err := h.salaryService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if rec.EmployeeID != p.UserID && !user.HasPermission(p.Role, user.PermissionPayrollView) {
		response.HandleError(w, salary.ErrSalaryRecordNotFound)
		return
	}
	h.writePayslip(w, r, id)
}

func (h *salaryRecordHandlerImpl) writePayslip(w http.ResponseWriter, r *http.Request, id string) {
	data, fileName, err := h.salaryService.GeneratePayslipPDF(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, export.File{
		FileName:    fileName,
		ContentType: export.FormatPDF.ContentType(),
		Data:        data,
	})
}
