package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
)

type ReportHandler interface {
	// Financial statements
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
	GetQuarterlyReport(w http.ResponseWriter, r *http.Request)
	GetYearlyReport(w http.ResponseWriter, r *http.Request)

	// Analysis
	GetBreakEven(w http.ResponseWriter, r *http.Request)
	GetCashFlow(w http.ResponseWriter, r *http.Request)
	GetKPIs(w http.ResponseWriter, r *http.Request)
	GetTrends(w http.ResponseWriter, r *http.Request)
	ComparePeriods(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// parsePeriodRequest reads kind, year, month and quarter; kind defaults to monthly.
func parsePeriodRequest(r *http.Request) report.PeriodRequest {
	return report.PeriodRequest{
		Kind:    report.Kind(r.URL.Query().Get("kind")),
		Year:    getIntQueryParam(r, "year", 0),
		Month:   getIntQueryParam(r, "month", 0),
		Quarter: getIntQueryParam(r, "quarter", 0),
	}
}

// GetMonthlyReport handles GET /reports/monthly?year=&month=
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, errs := requireYearMonth(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetMonthlyReport(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetQuarterlyReport handles GET /reports/quarterly?year=&quarter=
func (h *reportHandlerImpl) GetQuarterlyReport(w http.ResponseWriter, r *http.Request) {
	year, errs := requireYear(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetQuarterlyReport(r.Context(), year, getIntQueryParam(r, "quarter", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetYearlyReport handles GET /reports/yearly?year=
func (h *reportHandlerImpl) GetYearlyReport(w http.ResponseWriter, r *http.Request) {
	year, errs := requireYear(r)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetYearlyReport(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) GetBreakEven(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetBreakEvenAnalysis(r.Context(), parsePeriodRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetCashFlowAnalysis(r.Context(), parsePeriodRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) GetKPIs(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetFinancialKPIs(r.Context(), parsePeriodRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTrends handles GET /reports/trends?year=&month=&months_back=
func (h *reportHandlerImpl) GetTrends(w http.ResponseWriter, r *http.Request) {
	req := report.TrendsRequest{
		Year:       getIntQueryParam(r, "year", 0),
		Month:      getIntQueryParam(r, "month", 0),
		MonthsBack: getIntQueryParam(r, "months_back", 0),
	}

	result, err := h.reportService.GetFinancialTrends(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) ComparePeriods(w http.ResponseWriter, r *http.Request) {
	var req report.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.reportService.ComparePeriods(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.Export(r.Context(), parsePeriodRequest(r), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file)
}
