package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/repository/memory"
	budgetService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/budget"
	expenseService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/expense"
	notificationService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/notification"
	paymentService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/payment"
	payrollService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/report"
	salaryService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/salary"
	salaryConfigService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/salaryconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv *httptest.Server
	jwt jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{App: config.AppConfig{AllowedOrigins: []string{"*"}}}
	jwtSvc := jwt.NewJWTService("test-secret", time.Hour)

	configRepo := memory.NewSalaryConfigRepository()
	recordRepo := memory.NewSalaryRecordRepository()
	expenseRepo := memory.NewExpenseRepository()
	categoryRepo := memory.NewCategoryRepository()

	notifSvc := notificationService.NewNotificationService(memory.NewNotificationRepository(), nil, nil, notificationService.Config{})
	t.Cleanup(notifSvc.Stop)

	paymentSvc := paymentService.NewPaymentService(memory.NewOrderRepository(), time.UTC)
	expenseSvc := expenseService.NewExpenseService(expenseRepo, categoryRepo, notifSvc)
	payrollSvc := payrollService.NewPayrollService(configRepo, recordRepo, paymentSvc, expenseSvc, notifSvc, nil, payrollService.Config{})
	reportSvc := reportService.NewReportService(paymentSvc, expenseSvc, payrollSvc, nil, nil, reportService.Config{})

	scheduler := cron.NewScheduler(time.UTC, nil)
	require.NoError(t, scheduler.AddJob("noop", "@every 1h", func(ctx context.Context) error { return nil }))

	router := NewRouter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), jwtSvc, Handlers{
		SalaryConfig: NewSalaryConfigHandler(salaryConfigService.NewSalaryConfigService(database.NoopTransactor{}, configRepo)),
		SalaryRecord: NewSalaryRecordHandler(salaryService.NewSalaryRecordService(recordRepo, notifSvc, "VND")),
		Payroll:      NewPayrollHandler(payrollSvc),
		Expense:      NewExpenseHandler(expenseSvc),
		Budget:       NewBudgetHandler(budgetService.NewBudgetService(memory.NewBudgetRepository(), expenseSvc, notifSvc)),
		Payment:      NewPaymentHandler(paymentSvc),
		Report:       NewReportHandler(reportSvc),
		Notification: NewNotificationHandler(notifSvc, jwtSvc),
		Job:          NewJobHandler(scheduler),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, jwt: jwtSvc}
}

func (ts *testServer) token(t *testing.T, role user.Role) string {
	t.Helper()
	tok, _, err := ts.jwt.GenerateAccessToken("user-"+string(role), role)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestRouter_Heartbeat(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/expenses", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RevokedToken(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.token(t, user.RoleOwner)
	ts.jwt.RevokeToken(tok)

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/expenses", tok, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_StaffCannotReadLedger(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.token(t, user.RoleStaff)

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/expenses", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/me/salary-records", staff, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/notifications?inbox=finance", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_AccountantCannotApproveExpense(t *testing.T) {
	ts := newTestServer(t)
	accountant := ts.token(t, user.RoleAccountant)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/expenses", accountant, map[string]any{
		"type":     "rent",
		"category": "infrastructure",
		"title":    "March rent",
		"amount":   "15000000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["data"].(map[string]any)["id"].(string)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/expenses/"+id+"/approve", accountant, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	owner := ts.token(t, user.RoleOwner)
	resp, body = ts.do(t, http.MethodPost, "/api/v1/expenses/"+id+"/approve", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", body["data"].(map[string]any)["approval_status"])

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/expenses/"+id+"/approve", owner, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_ValidationAndNotFound(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.token(t, user.RoleOwner)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/expenses", owner, map[string]any{"title": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["error"].(map[string]any)["code"])

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/salary-records/missing", owner, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/summary?year=2025", owner, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/orders/abc", owner, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_PostSalaryExpenses(t *testing.T) {
	ts := newTestServer(t)
	period := map[string]any{"month": 3, "year": 2025}

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/payroll/salary-expenses", ts.token(t, user.RoleStaff), period)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/payroll/salary-expenses", ts.token(t, user.RoleOwner), period)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Jobs(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.token(t, user.RoleOwner)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/jobs", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"noop"}, body["data"].(map[string]any)["jobs"])

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/jobs/noop/run", owner, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/jobs/unknown/run", owner, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/jobs/noop/run", ts.token(t, user.RoleAccountant), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_StreamRejectsAccessToken(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/notifications/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/notifications/stream?token="+ts.token(t, user.RoleOwner), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_StreamTokenIssued(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/notifications/stream-token?inbox=finance", ts.token(t, user.RoleManager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tok := body["data"].(map[string]any)["token"].(string)
	recipient, err := ts.jwt.ValidateSSEToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "finance", recipient)
}
