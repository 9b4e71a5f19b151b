package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryConfigHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	GetByEmployee(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	PreviewNetSalary(w http.ResponseWriter, r *http.Request)
}

type salaryConfigHandlerImpl struct {
	salaryConfigService salaryconfig.SalaryConfigService
}

func NewSalaryConfigHandler(salaryConfigService salaryconfig.SalaryConfigService) SalaryConfigHandler {
	return &salaryConfigHandlerImpl{salaryConfigService: salaryConfigService}
}

func (h *salaryConfigHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req salaryconfig.CreateSalaryConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if p, ok := getPrincipal(r); ok {
		req.CreatedBy = &p.UserID
	}

	result, err := h.salaryConfigService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary config created", result)
}

func (h *salaryConfigHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter salaryconfig.SalaryConfigFilter
	if v := getStringQueryParam(r, "role"); v != nil {
		role := salaryconfig.Role(*v)
		filter.Role = &role
	}
	if v := getStringQueryParam(r, "status"); v != nil {
		status := salaryconfig.ConfigStatus(*v)
		filter.Status = &status
	}
	if v := getStringQueryParam(r, "salary_type"); v != nil {
		t := salaryconfig.SalaryType(*v)
		filter.SalaryType = &t
	}
	filter.Search = getStringQueryParam(r, "search")

	result, err := h.salaryConfigService.GetAll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryConfigHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary config ID is required", nil)
		return
	}

	result, err := h.salaryConfigService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryConfigHandlerImpl) GetByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.salaryConfigService.GetByEmployeeID(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryConfigHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary config ID is required", nil)
		return
	}

	var req salaryconfig.UpdateSalaryConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.salaryConfigService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary config updated", result)
}

func (h *salaryConfigHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Salary config ID is required", nil)
		return
	}

	result, err := h.salaryConfigService.Deactivate(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary config deactivated", result)
}

// PreviewNetSalary runs the net salary calculation against the employee's active config
func (h *salaryConfigHandlerImpl) PreviewNetSalary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req salaryconfig.PreviewNetSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.salaryConfigService.PreviewNetSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
