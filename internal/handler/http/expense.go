package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const defaultUpcomingDays = 7

type ExpenseHandler interface {
	// Expenses
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Workflow
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	MarkAsPaid(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	BulkApprove(w http.ResponseWriter, r *http.Request)

	// Queues
	Overdue(w http.ResponseWriter, r *http.Request)
	Upcoming(w http.ResponseWriter, r *http.Request)
	PendingApprovals(w http.ResponseWriter, r *http.Request)

	// Summaries
	MonthlySummary(w http.ResponseWriter, r *http.Request)
	QuarterlySummary(w http.ResponseWriter, r *http.Request)
	YearlySummary(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	// Categories
	CreateCategory(w http.ResponseWriter, r *http.Request)
	ListCategories(w http.ResponseWriter, r *http.Request)
	GetCategory(w http.ResponseWriter, r *http.Request)
	UpdateCategory(w http.ResponseWriter, r *http.Request)
	DeactivateCategory(w http.ResponseWriter, r *http.Request)
}

type expenseHandlerImpl struct {
	expenseService expense.ExpenseService
}

func NewExpenseHandler(expenseService expense.ExpenseService) ExpenseHandler {
	return &expenseHandlerImpl{expenseService: expenseService}
}

// parseExpenseFilter reads type, category, status, approval_status, period (repeatable),
// due_before, due_after, search, limit and offset.
func parseExpenseFilter(r *http.Request) expense.ExpenseFilter {
	q := r.URL.Query()
	filter := expense.ExpenseFilter{
		Periods:   q["period"],
		DueBefore: getDateQueryParam(r, "due_before"),
		DueAfter:  getDateQueryParam(r, "due_after"),
		Search:    getStringQueryParam(r, "search"),
		Limit:     getIntQueryParam(r, "limit", 0),
		Offset:    getIntQueryParam(r, "offset", 0),
	}
	if v := getStringQueryParam(r, "type"); v != nil {
		t := expense.ExpenseType(*v)
		filter.Type = &t
	}
	if v := getStringQueryParam(r, "category"); v != nil {
		c := expense.Category(*v)
		filter.Category = &c
	}
	if v := getStringQueryParam(r, "status"); v != nil {
		st := expense.Status(*v)
		filter.Status = &st
	}
	if v := getStringQueryParam(r, "approval_status"); v != nil {
		a := expense.ApprovalStatus(*v)
		filter.ApprovalStatus = &a
	}
	return filter
}

// ========== EXPENSES ==========

func (h *expenseHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req expense.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if p, ok := getPrincipal(r); ok {
		req.RequestedBy = &p.UserID
	}

	result, err := h.expenseService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Expense created", result)
}

func (h *expenseHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseExpenseFilter(r)

	result, err := h.expenseService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{Limit: filter.Limit, TotalItems: int64(len(result))})
}

func (h *expenseHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.expenseService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req expense.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.expenseService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense updated", result)
}

func (h *expenseHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.expenseService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense deleted", nil)
}

// ========== WORKFLOW ==========

func (h *expenseHandlerImpl) approvalRequest(r *http.Request) (expense.ApprovalRequest, error) {
	var req expense.ApprovalRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		return req, err
	}
	req.ID = chi.URLParam(r, "id")
	if p, ok := getPrincipal(r); ok {
		req.By = p.UserID
	}
	return req, nil
}

func (h *expenseHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req, err := h.approvalRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.expenseService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense approved", result)
}

func (h *expenseHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	req, err := h.approvalRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.expenseService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense rejected", result)
}

func (h *expenseHandlerImpl) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	var req expense.MarkPaidRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.expenseService.MarkAsPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense marked as paid", result)
}

func (h *expenseHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	result, err := h.expenseService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense cancelled", result)
}

func (h *expenseHandlerImpl) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req expense.BulkApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if p, ok := getPrincipal(r); ok {
		req.By = p.UserID
	}

	result, err := h.expenseService.BulkApprove(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== QUEUES ==========

func (h *expenseHandlerImpl) Overdue(w http.ResponseWriter, r *http.Request) {
	result, err := h.expenseService.GetOverdue(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) Upcoming(w http.ResponseWriter, r *http.Request) {
	result, err := h.expenseService.GetUpcoming(r.Context(), getIntQueryParam(r, "days", defaultUpcomingDays))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	result, err := h.expenseService.GetPendingApprovals(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SUMMARIES ==========

func (h *expenseHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.expenseService.GetMonthlySummary(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) QuarterlySummary(w http.ResponseWriter, r *http.Request) {
	year, errs := requireYear(r)
	quarter, err := strconv.Atoi(r.URL.Query().Get("quarter"))
	if err != nil {
		errs.Add("quarter", "is required")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.expenseService.GetQuarterlySummary(r.Context(), year, quarter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) YearlySummary(w http.ResponseWriter, r *http.Request) {
	year, errs := requireYear(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.expenseService.GetYearlySummary(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.expenseService.GetStatistics(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.expenseService.Export(r.Context(), parseExpenseFilter(r), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file)
}

// ========== CATEGORIES ==========

func (h *expenseHandlerImpl) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req expense.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.expenseService.CreateCategory(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Expense category created", result)
}

func (h *expenseHandlerImpl) ListCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.expenseService.ListCategories(r.Context(), getBoolQueryParam(r, "active_only", false))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) GetCategory(w http.ResponseWriter, r *http.Request) {
	result, err := h.expenseService.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *expenseHandlerImpl) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req expense.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	if validator.IsEmpty(req.ID) {
		response.BadRequest(w, "Category ID is required", nil)
		return
	}

	result, err := h.expenseService.UpdateCategory(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense category updated", result)
}

func (h *expenseHandlerImpl) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	result, err := h.expenseService.DeactivateCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense category deactivated", result)
}
