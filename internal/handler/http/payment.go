package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PaymentHandler interface {
	// Orders
	CreateOrder(w http.ResponseWriter, r *http.Request)
	ListOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	ConfirmPayment(w http.ResponseWriter, r *http.Request)
	CancelOrder(w http.ResponseWriter, r *http.Request)
	FailOrder(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)

	// Revenue
	MonthlyRevenue(w http.ResponseWriter, r *http.Request)
	TrainerSales(w http.ResponseWriter, r *http.Request)
}

type paymentHandlerImpl struct {
	paymentService payment.PaymentService
}

func NewPaymentHandler(paymentService payment.PaymentService) PaymentHandler {
	return &paymentHandlerImpl{paymentService: paymentService}
}

func orderCodeParam(r *http.Request) (int64, bool) {
	code, err := strconv.ParseInt(chi.URLParam(r, "orderCode"), 10, 64)
	return code, err == nil
}

func parseOrderFilter(r *http.Request) payment.OrderFilter {
	filter := payment.OrderFilter{
		UserID:      getStringQueryParam(r, "user_id"),
		PTTrainerID: getStringQueryParam(r, "pt_trainer_id"),
		PackageID:   getStringQueryParam(r, "package_id"),
		PaidFrom:    getDateQueryParam(r, "paid_from"),
		PaidTo:      getDateQueryParam(r, "paid_to"),
		Search:      getStringQueryParam(r, "search"),
		Limit:       getIntQueryParam(r, "limit", 0),
		Offset:      getIntQueryParam(r, "offset", 0),
	}
	if v := getStringQueryParam(r, "status"); v != nil {
		st := payment.OrderStatus(*v)
		filter.Status = &st
	}
	return filter
}

// ========== ORDERS ==========

func (h *paymentHandlerImpl) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req payment.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.paymentService.CreateOrder(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Order created", result)
}

func (h *paymentHandlerImpl) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := parseOrderFilter(r)

	result, err := h.paymentService.ListOrders(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{Limit: filter.Limit, TotalItems: int64(len(result))})
}

func (h *paymentHandlerImpl) GetOrder(w http.ResponseWriter, r *http.Request) {
	code, ok := orderCodeParam(r)
	if !ok {
		response.BadRequest(w, "Invalid order code", nil)
		return
	}

	result, err := h.paymentService.GetOrder(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *paymentHandlerImpl) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	code, ok := orderCodeParam(r)
	if !ok {
		response.BadRequest(w, "Invalid order code", nil)
		return
	}

	var req payment.ConfirmPaymentRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.OrderCode = code

	result, err := h.paymentService.ConfirmPayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment confirmed", result)
}

func (h *paymentHandlerImpl) CancelOrder(w http.ResponseWriter, r *http.Request) {
	code, ok := orderCodeParam(r)
	if !ok {
		response.BadRequest(w, "Invalid order code", nil)
		return
	}

	var req payment.CancelOrderRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.OrderCode = code

	result, err := h.paymentService.CancelOrder(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Order cancelled", result)
}

func (h *paymentHandlerImpl) FailOrder(w http.ResponseWriter, r *http.Request) {
	code, ok := orderCodeParam(r)
	if !ok {
		response.BadRequest(w, "Invalid order code", nil)
		return
	}

	result, err := h.paymentService.FailOrder(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Order marked as failed", result)
}

func (h *paymentHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.paymentService.GetStatistics(r.Context(), parseOrderFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== REVENUE ==========

func (h *paymentHandlerImpl) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.paymentService.GetMonthlyRevenueSummary(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TrainerSales handles GET /revenue/trainers/{trainerID}?year=&month=
func (h *paymentHandlerImpl) TrainerSales(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}
	trainerID := chi.URLParam(r, "trainerID")

	amount, err := h.paymentService.GetPTSalesAmount(r.Context(), trainerID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]any{
		"pt_trainer_id": trainerID,
		"year":          year,
		"month":         month,
		"sales_amount":  amount,
	})
}
