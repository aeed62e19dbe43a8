package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/budget"
	"fintrack/internal/category"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/report/pdf"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
	"fintrack/internal/user"
)

func memorystore(t *testing.T) store.Store {
	t.Helper()
	return memory.New()
}

func barestore(t *testing.T) store.Store {
	t.Helper()
	return memory.NewBare()
}

func newTestServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	cfg := &config.Config{Port: "0", QueryTimeout: 5 * time.Second, FetchLimit: ledger.DefaultFetchLimit}
	logger := applog.New(applog.DefaultConfig())

	categories := category.New(st)
	entries := ledger.New(st, core.RejectNegative, cfg.FetchLimit)
	budgets := budget.New(st)
	return NewServer(cfg, logger, Services{
		Users:      user.New(st, categories),
		Categories: categories,
		Entries:    entries,
		Budgets:    budgets,
		Reports:    report.New(entries, budgets, pdf.New()),
	})
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func signup(t *testing.T, srv *Server, username string) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/signup", `{"username":"`+username+`","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp userResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSignupAndLogin(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	signup(t, srv, "alice")

	rec := do(t, srv, http.MethodPost, "/api/signup", `{"username":"alice","password":"other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/login", `{"username":"alice","password":"hunter2"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/login", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, srv, http.MethodPost, "/api/login", `{"username":"nobody","password":"hunter2"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEntryValidation(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	id := signup(t, srv, "alice")

	tests := []struct {
		name string
		body string
		code int
	}{
		{"valid", `{"user_id":"` + id + `","date":"2024-05-03","category":"Food","amount":12.5}`, http.StatusCreated},
		{"bad json", `{`, http.StatusBadRequest},
		{"bad date", `{"user_id":"` + id + `","date":"03/05/2024","category":"Food","amount":1}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"user_id":"` + id + `","date":"2024-05-03","category":"Food","amount":-1}`, http.StatusUnprocessableEntity},
		{"empty category", `{"user_id":"` + id + `","date":"2024-05-03","category":"","amount":1}`, http.StatusUnprocessableEntity},
		{"missing user", `{"date":"2024-05-03","category":"Food","amount":1}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/expenses", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestListEntries(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	id := signup(t, srv, "alice")

	for _, body := range []string{
		`{"user_id":"` + id + `","date":"2024-05-03","category":"Food","amount":20,"description":"groceries"}`,
		`{"user_id":"` + id + `","date":"2024-05-10","category":"Food","amount":5,"description":"snack"}`,
		`{"user_id":"` + id + `","date":"2024-05-07","category":"Bills","amount":40}`,
	} {
		rec := do(t, srv, http.MethodPost, "/api/expenses", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(t, srv, http.MethodGet, "/api/expenses?user_id="+id+"&start=2024-05-01&end=2024-05-31", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Entries []entryJSON `json:"entries"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Entries, 3)
	// newest date first
	assert.Equal(t, "2024-05-10", resp.Entries[0].Date)
	assert.Equal(t, "2024-05-07", resp.Entries[1].Date)
	assert.Equal(t, "2024-05-03", resp.Entries[2].Date)

	rec = do(t, srv, http.MethodGet, "/api/expenses?user_id="+id+"&category=Bills", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 40.0, resp.Entries[0].Amount)

	rec = do(t, srv, http.MethodGet, "/api/expenses?user_id="+id+"&q=GROC", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "groceries", resp.Entries[0].Description)

	rec = do(t, srv, http.MethodGet, "/api/expenses?user_id="+id+"&min=10&max=25", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 20.0, resp.Entries[0].Amount)

	rec = do(t, srv, http.MethodGet, "/api/expenses?user_id="+id+"&min=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEntriesCSV(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	id := signup(t, srv, "alice")
	rec := do(t, srv, http.MethodPost, "/api/incomes",
		`{"user_id":"`+id+`","date":"2024-05-01","category":"Salary","amount":1000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/incomes/export?user_id="+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "incomes.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,user_id,date,category,amount,description,created_at", lines[0])
	assert.Contains(t, lines[1], "2024-05-01,Salary,1000.00")
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	id := signup(t, srv, "alice")

	rec := do(t, srv, http.MethodGet, "/api/categories?user_id="+id+"&kind=expense", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Categories []string `json:"categories"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, []string{"Bills", "Entertainment", "Food", "Other", "Shopping", "Transport"}, resp.Categories)

	rec = do(t, srv, http.MethodPost, "/api/categories", `{"user_id":"`+id+`","name":"Travel","kind":"expense"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, srv, http.MethodPost, "/api/categories", `{"user_id":"`+id+`","name":"Travel","kind":"expense"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/categories?user_id="+id+"&kind=bogus", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBudgets(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	id := signup(t, srv, "alice")

	rec := do(t, srv, http.MethodPut, "/api/budgets/monthly", `{"user_id":"`+id+`","month":"2024-05","amount":100}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	// last write wins
	rec = do(t, srv, http.MethodPut, "/api/budgets/monthly", `{"user_id":"`+id+`","month":"2024-05","amount":150}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/budgets/monthly?user_id="+id+"&month=2024-05", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp budgetResponse
	decode(t, rec, &resp)
	assert.True(t, resp.Set)
	assert.Equal(t, 150.0, resp.Amount)

	rec = do(t, srv, http.MethodGet, "/api/budgets/monthly?user_id="+id+"&month=2024-06", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.False(t, resp.Set)

	rec = do(t, srv, http.MethodPut, "/api/budgets/category", `{"user_id":"`+id+`","month":"2024-05","category":"Food","amount":60}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/budgets/category/list?user_id="+id+"&month=2024-05", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Budgets []categoryBudgetJSON `json:"budgets"`
	}
	decode(t, rec, &listResp)
	require.Len(t, listResp.Budgets, 1)
	assert.Equal(t, categoryBudgetJSON{Category: "Food", Amount: 60}, listResp.Budgets[0])

	rec = do(t, srv, http.MethodGet, "/api/budgets/monthly?user_id="+id+"&month=05-2024", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReportSummary(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	id := signup(t, srv, "alice")

	for _, req := range []struct{ path, body string }{
		{"/api/expenses", `{"user_id":"` + id + `","date":"2024-05-03","category":"Food","amount":20}`},
		{"/api/expenses", `{"user_id":"` + id + `","date":"2024-05-10","category":"Food","amount":5}`},
		{"/api/incomes", `{"user_id":"` + id + `","date":"2024-05-01","category":"Salary","amount":1000}`},
	} {
		rec := do(t, srv, http.MethodPost, req.path, req.body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(t, srv, http.MethodGet, "/api/reports/2024-05/summary?user_id="+id, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Month        string                `json:"month"`
		TotalIncome  float64               `json:"total_income"`
		TotalExpense float64               `json:"total_expense"`
		Net          float64               `json:"net"`
		BudgetStatus string                `json:"budget_status"`
		Expense      []core.CategoryAmount `json:"expense_by_category"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "2024-05", resp.Month)
	assert.Equal(t, 1000.0, resp.TotalIncome)
	assert.Equal(t, 25.0, resp.TotalExpense)
	assert.Equal(t, 975.0, resp.Net)
	assert.Equal(t, "none", resp.BudgetStatus)
	require.Len(t, resp.Expense, 1)
	assert.Equal(t, core.CategoryAmount{Name: "Food", Amount: 25}, resp.Expense[0])
}

func TestReportPDF(t *testing.T) {
	srv := newTestServer(t, memorystore(t))
	id := signup(t, srv, "alice")

	rec := do(t, srv, http.MethodGet, "/api/reports/2024-05?user_id="+id, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestIndexRequiredMapsToConflict(t *testing.T) {
	// A bare store has no composite indexes declared, so the ordered
	// category listing needs one and the API reports the remediation hint.
	srv := newTestServer(t, barestore(t))
	id := signup(t, srv, "alice")

	rec := do(t, srv, http.MethodGet, "/api/categories?user_id="+id+"&kind=expense", "")
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	var resp errorBody
	decode(t, rec, &resp)
	assert.Contains(t, resp.Hint, "create_composite=")
}
