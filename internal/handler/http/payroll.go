package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
)

type PayrollHandler interface {
	// Batch runs
	GenerateMonthly(w http.ResponseWriter, r *http.Request)
	RefreshCommissions(w http.ResponseWriter, r *http.Request)
	PostSalaryExpenses(w http.ResponseWriter, r *http.Request)

	// Analytics
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetTopEarners(w http.ResponseWriter, r *http.Request)
	GetPTCommissions(w http.ResponseWriter, r *http.Request)
	CompareSalary(w http.ResponseWriter, r *http.Request)
	ExportSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== BATCH RUNS ==========

func (h *payrollHandlerImpl) GenerateMonthly(w http.ResponseWriter, r *http.Request) {
	var req payroll.PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GenerateMonthlySalaryRecords(r.Context(), req.Month, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll generated", result)
}

func (h *payrollHandlerImpl) RefreshCommissions(w http.ResponseWriter, r *http.Request) {
	var req payroll.PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdatePTCommissionsForMonth(r.Context(), req.Month, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commissions refreshed", result)
}

func (h *payrollHandlerImpl) PostSalaryExpenses(w http.ResponseWriter, r *http.Request) {
	var req payroll.PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PostSalaryExpenses(r.Context(), req.Month, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary expenses posted", result)
}

// ========== ANALYTICS ==========

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GetPayrollSummary(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetTopEarners(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GetTopEarners(r.Context(), year, month, getIntQueryParam(r, "limit", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPTCommissions(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GetPTCommissionSummary(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CompareSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.CompareSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CompareSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ExportSummary(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.payrollService.ExportSummary(r.Context(), year, month, format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file)
}
