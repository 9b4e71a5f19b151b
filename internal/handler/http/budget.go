package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/budget"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/go-chi/chi/v5"
)

type BudgetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdatePlanned(w http.ResponseWriter, r *http.Request)
	RefreshActuals(w http.ResponseWriter, r *http.Request)
	Analyze(w http.ResponseWriter, r *http.Request)
	Activate(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Compare(w http.ResponseWriter, r *http.Request)
	Forecast(w http.ResponseWriter, r *http.Request)
	Trends(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type budgetHandlerImpl struct {
	budgetService budget.BudgetService
}

func NewBudgetHandler(budgetService budget.BudgetService) BudgetHandler {
	return &budgetHandlerImpl{budgetService: budgetService}
}

// Create builds a budget from the active expense categories
func (h *budgetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req budget.CreateFromCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if p, ok := getPrincipal(r); ok {
		req.CreatedBy = &p.UserID
	}

	result, err := h.budgetService.CreateFromCategories(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Budget created", result)
}

func (h *budgetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter budget.BudgetFilter
	if v := getStringQueryParam(r, "period"); v != nil {
		p := budget.Period(*v)
		filter.Period = &p
	}
	if v := getIntQueryParam(r, "year", 0); v > 0 {
		filter.Year = &v
	}
	if v := getStringQueryParam(r, "status"); v != nil {
		st := budget.Status(*v)
		filter.Status = &st
	}

	result, err := h.budgetService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) UpdatePlanned(w http.ResponseWriter, r *http.Request) {
	var req budget.UpdatePlannedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.budgetService.UpdatePlanned(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Planned amount updated", result)
}

func (h *budgetHandlerImpl) RefreshActuals(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.UpdateActuals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Actual amounts refreshed", result)
}

func (h *budgetHandlerImpl) Analyze(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.AnalyzePerformance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) Activate(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Budget activated", result)
}

func (h *budgetHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Budget completed", result)
}

func (h *budgetHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Budget cancelled", result)
}

// Compare handles GET /budgets/compare?first=&second=
func (h *budgetHandlerImpl) Compare(w http.ResponseWriter, r *http.Request) {
	first, second := r.URL.Query().Get("first"), r.URL.Query().Get("second")
	if first == "" || second == "" {
		response.BadRequest(w, "first and second budget IDs are required", nil)
		return
	}

	result, err := h.budgetService.Compare(r.Context(), first, second)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) Forecast(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.budgetService.Forecast(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) Trends(w http.ResponseWriter, r *http.Request) {
	year, errs := requireYear(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.budgetService.GetTrends(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.budgetService.Export(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file)
}
