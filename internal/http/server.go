// Package http exposes the services as a JSON API. Handlers translate
// requests into service calls and map the typed store errors onto status
// codes; no business rule lives here.
package http

import (
	"context"
	"net/http"
	"time"

	"fintrack/internal/budget"
	"fintrack/internal/category"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/user"
)

type Server struct {
	http.Server

	logger       *applog.Logger
	queryTimeout time.Duration

	users      *user.Service
	categories *category.Registry
	entries    *ledger.Service
	budgets    *budget.Ledger
	reports    *report.Service
}

type Services struct {
	Users      *user.Service
	Categories *category.Registry
	Entries    *ledger.Service
	Budgets    *budget.Ledger
	Reports    *report.Service
}

func NewServer(cfg *config.Config, logger *applog.Logger, svc Services) *Server {
	s := &Server{
		logger:       logger.WithComponent(applog.ComponentHTTP),
		queryTimeout: cfg.QueryTimeout,
		users:        svc.Users,
		categories:   svc.Categories,
		entries:      svc.Entries,
		budgets:      svc.Budgets,
		reports:      svc.Reports,
	}

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           applog.Middleware(s.logger)(s.routes()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("POST /api/signup", s.withTimeout(s.handleSignup))
	mux.HandleFunc("POST /api/login", s.withTimeout(s.handleLogin))

	for kind, base := range map[core.Kind]string{
		core.KindExpense: "/api/expenses",
		core.KindIncome:  "/api/incomes",
	} {
		mux.HandleFunc("POST "+base, s.withTimeout(s.handleCreateEntry(kind)))
		mux.HandleFunc("GET "+base, s.withTimeout(s.handleListEntries(kind)))
		mux.HandleFunc("GET "+base+"/export", s.withTimeout(s.handleExportEntries(kind)))
	}

	mux.HandleFunc("GET /api/categories", s.withTimeout(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withTimeout(s.handleAddCategory))

	mux.HandleFunc("PUT /api/budgets/monthly", s.withTimeout(s.handleSetMonthlyBudget))
	mux.HandleFunc("GET /api/budgets/monthly", s.withTimeout(s.handleGetMonthlyBudget))
	mux.HandleFunc("PUT /api/budgets/category", s.withTimeout(s.handleSetCategoryBudget))
	mux.HandleFunc("GET /api/budgets/category", s.withTimeout(s.handleGetCategoryBudget))
	mux.HandleFunc("GET /api/budgets/category/list", s.withTimeout(s.handleListCategoryBudgets))

	mux.HandleFunc("GET /api/reports/{month}", s.withTimeout(s.handleReportPDF))
	mux.HandleFunc("GET /api/reports/{month}/summary", s.withTimeout(s.handleReportSummary))

	return mux
}

// withTimeout bounds every store round trip behind the handler. Operations
// that overrun fail with the context error instead of being retried.
func (s *Server) withTimeout(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
