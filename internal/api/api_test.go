package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/abhishek991-rag/PFM-Backend/internal/auth"
	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/mocks"
	"github.com/abhishek991-rag/PFM-Backend/internal/report"
	"github.com/abhishek991-rag/PFM-Backend/internal/service"
)

var (
	_ Accounts = (*service.AccountService)(nil)
	_ Expenses = (*service.ExpenseService)(nil)
	_ Incomes  = (*service.IncomeService)(nil)
	_ Budgets  = (*service.BudgetService)(nil)
	_ Goals    = (*service.GoalService)(nil)
	_ Reports  = (*report.Engine)(nil)
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fixture struct {
	store  *mocks.Store
	mail   *mocks.Mailer
	db     *fakePinger
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zerolog.Nop()
	hasher := logger.NewHasher("test")
	f := &fixture{store: mocks.NewStore(), mail: mocks.NewMailer(), db: &fakePinger{}}
	engine := report.NewEngine(f.store.Expenses, f.store.Incomes, f.store.Budgets, nil)

	f.router = NewRouter(Deps{
		Accounts: service.NewAccountService(service.AccountDeps{
			Users:  f.store.Users,
			Owned:  []service.OwnedRecords{f.store.Expenses, f.store.Incomes, f.store.Budgets, f.store.Goals},
			Tokens: auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour),
			Mailer: f.mail,
		}, log, hasher),
		Expenses: service.NewExpenseService(f.store.Expenses, log, hasher),
		Incomes:  service.NewIncomeService(f.store.Incomes, log, hasher),
		Budgets:  service.NewBudgetService(f.store.Budgets, engine, log, hasher),
		Goals:    service.NewGoalService(f.store.Goals, log, hasher),
		Reports:  engine,
		DB:       f.db,
		Log:      log,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// register creates a user and returns its token.
func (f *fixture) register(t *testing.T, name, email string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return body(t, rec)["token"].(string)
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestHealth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	f.db.err = errors.New("connection refused")
	rec = f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestAuthentication(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "not authorized, no token"},
		{"wrong scheme", "Basic abc", "not authorized, no token"},
		{"empty bearer", "Bearer ", "not authorized, no token"},
		{"garbage token", "Bearer not-a-jwt", "not authorized, token failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, tt.msg, body(t, rec)["message"])
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.register(t, "Asha", "asha@example.com")
	require.Len(t, f.mail.Sent(), 1)

	rec := f.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := body(t, rec)
	require.Equal(t, "asha@example.com", profile["email"])
	require.NotContains(t, profile, "passwordHash")

	rec = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Dup", "email": "ASHA@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	dup := body(t, rec)
	require.Equal(t, "email", dup["field"])
	require.Equal(t, "user already exists", dup["message"])

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, body(t, rec)["token"])

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "wrong-1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid email or password", body(t, rec)["message"])

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", `{"email":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "body", body(t, rec)["field"])
}

func TestExpenseCRUD(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	asha := f.register(t, "Asha", "asha@example.com")
	ravi := f.register(t, "Ravi", "ravi@example.com")

	rec := f.do(t, http.MethodPost, "/api/expenses", asha, map[string]any{
		"amount": 12.5, "category": "food", "description": "lunch", "date": "2024-01-05",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := body(t, rec)
	require.Equal(t, "Expense added successfully", created["message"])
	expense := created["expense"].(map[string]any)
	require.Equal(t, "Food", expense["category"])
	require.InDelta(t, 12.5, expense["amount"], 0.0001)
	path := fmt.Sprintf("/api/expenses/%.0f", expense["id"])

	rec = f.do(t, http.MethodPost, "/api/expenses", asha, map[string]any{"amount": -1, "category": "Food", "date": "2024-01-05"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "amount", body(t, rec)["field"])

	rec = f.do(t, http.MethodGet, "/api/expenses", asha, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "["))

	rec = f.do(t, http.MethodGet, "/api/expenses", ravi, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(t, http.MethodGet, path, ravi, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "expense not found", body(t, rec)["message"])

	rec = f.do(t, http.MethodPut, path, asha, map[string]any{"amount": 20})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := body(t, rec)
	require.Equal(t, "Expense updated successfully", updated["message"])
	require.Equal(t, "lunch", updated["expense"].(map[string]any)["description"])

	rec = f.do(t, http.MethodGet, "/api/expenses/abc", asha, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "id", body(t, rec)["field"])

	rec = f.do(t, http.MethodDelete, path, ravi, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodDelete, path, asha, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Expense removed successfully", body(t, rec)["message"])
	rec = f.do(t, http.MethodGet, path, asha, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBudgetConflictAndStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.register(t, "Asha", "asha@example.com")

	rec := f.do(t, http.MethodPost, "/api/budgets", token, map[string]any{
		"category": "Food", "amount": 500, "startDate": "2024-01-01", "endDate": "2024-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/budgets", token, map[string]any{
		"category": "Food", "amount": 200, "startDate": "2024-01-15", "endDate": "2024-02-15",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/expenses", token, map[string]any{"amount": 120, "category": "Food", "date": "2024-01-10"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/budgets/status?startDate=2024-01-01", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	missing := body(t, rec)
	require.Equal(t, "please provide start and end dates", missing["message"])
	require.Equal(t, "startDate", missing["field"])

	rec = f.do(t, http.MethodGet, "/api/budgets/status?startDate=2024-01-01&endDate=2024-01-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	status := body(t, rec)
	require.InDelta(t, 500, status["totalBudgeted"], 0.0001)
	require.InDelta(t, 120, status["totalSpent"], 0.0001)
	require.InDelta(t, 380, status["remainingBudget"], 0.0001)
	require.InDelta(t, 1, status["budgetsCount"], 0.0001)

	rec = f.do(t, http.MethodGet, "/api/reports/budget-adherence?startDate=2024-01-01&endDate=2024-01-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body(t, rec)["budgetSummary"], 1)
}

func TestReports(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.register(t, "Asha", "asha@example.com")
	for _, e := range []map[string]any{
		{"amount": 30, "category": "Food", "date": "2024-03-02"},
		{"amount": 70.25, "category": "Transport", "date": "2024-03-05"},
	} {
		rec := f.do(t, http.MethodPost, "/api/expenses", token, e)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/api/incomes", token, map[string]any{"amount": 1000, "source": "Salary", "date": "2024-03-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	const q = "?startDate=2024-03-01&endDate=2024-03-31"

	t.Run("expenses", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/reports/expenses"+q, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rep := body(t, rec)
		require.InDelta(t, 100.25, rep["totalExpenses"], 0.0001)
		require.Equal(t, report.FilterAll, rep["filterCategory"])
		require.Len(t, rep["detailedExpenses"], 2)

		rec = f.do(t, http.MethodGet, "/api/reports/expenses"+q+"&category=Pets", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("income and overview", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/reports/income"+q, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.InDelta(t, 1000, body(t, rec)["totalIncome"], 0.0001)

		rec = f.do(t, http.MethodGet, "/api/reports/overview"+q, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.InDelta(t, 899.75, body(t, rec)["netSavings"], 0.0001)
	})

	t.Run("range errors", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/reports/overview?startDate=2024-04-01&endDate=2024-03-01", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		rec = f.do(t, http.MethodGet, "/api/reports/overview?startDate=yesterday", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("csv export", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/reports/expenses/export.csv"+q, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		require.Contains(t, rec.Header().Get("Content-Disposition"), "expenses_2024-03-01_2024-03-31.csv")
		require.Contains(t, rec.Body.String(), "Transport")
	})

	t.Run("xlsx export", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/reports/expenses/export.xlsx"+q, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	})

	t.Run("chart", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/reports/expenses/chart.png"+q, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

		rec = f.do(t, http.MethodGet, "/api/reports/expenses/chart.png?startDate=2020-01-01&endDate=2020-01-31", token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGoalContribution(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.register(t, "Asha", "asha@example.com")

	rec := f.do(t, http.MethodPost, "/api/goals", token, map[string]any{
		"name": "Laptop", "targetAmount": 1000, "savedAmount": 900, "targetDate": "2099-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	goal := body(t, rec)["goal"].(map[string]any)
	path := fmt.Sprintf("/api/goals/%.0f/contributions", goal["id"])

	rec = f.do(t, http.MethodPost, path, token, map[string]any{"amount": 100})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := body(t, rec)
	require.Equal(t, "Goal contribution added successfully", got["message"])
	require.Equal(t, true, got["goal"].(map[string]any)["isCompleted"])

	rec = f.do(t, http.MethodPost, "/api/goals/999/contributions", token, map[string]any{"amount": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "goal not found", body(t, rec)["message"])
}

func TestStoreFailureIsHidden(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.register(t, "Asha", "asha@example.com")
	f.store.Incomes.FailWith(errors.New("pq: connection reset"))

	rec := f.do(t, http.MethodGet, "/api/incomes", token, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"Server error"}`, rec.Body.String())
}

func TestProfileAndDeleteAccount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.register(t, "Asha", "asha@example.com")

	rec := f.do(t, http.MethodPut, "/api/users/profile", token, map[string]any{"currencyPreference": "usd"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "USD", body(t, rec)["user"].(map[string]any)["currencyPreference"])

	rec = f.do(t, http.MethodPost, "/api/expenses", token, map[string]any{"amount": 5, "category": "Food", "date": "2024-01-05"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/users/delete-account", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, f.store.Expenses.Owned(1))
}
