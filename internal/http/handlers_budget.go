package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type setBudgetRequest struct {
	UserID   string  `json:"user_id"`
	Month    string  `json:"month"`
	Category string  `json:"category,omitempty"`
	Amount   float64 `json:"amount"`
}

type budgetResponse struct {
	Amount float64 `json:"amount"`
	Set    bool    `json:"set"`
}

type categoryBudgetJSON struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

func (s *Server) handleSetMonthlyBudget(w http.ResponseWriter, r *http.Request) {
	req, month, ok := s.decodeBudgetRequest(w, r)
	if !ok {
		return
	}
	if err := s.budgets.SetMonthly(r.Context(), req.UserID, month, req.Amount); err != nil {
		s.respondError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Monthly budget set",
		applog.FieldUserID, req.UserID,
		applog.FieldMonth, month.String(),
		applog.FieldAmount, req.Amount)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetMonthlyBudget(w http.ResponseWriter, r *http.Request) {
	userID, month, ok := s.parseBudgetQuery(w, r)
	if !ok {
		return
	}
	amount, set, err := s.budgets.GetMonthly(r.Context(), userID, month)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, budgetResponse{Amount: amount, Set: set})
}

func (s *Server) handleSetCategoryBudget(w http.ResponseWriter, r *http.Request) {
	req, month, ok := s.decodeBudgetRequest(w, r)
	if !ok {
		return
	}
	if err := s.budgets.SetCategory(r.Context(), req.UserID, month, req.Category, req.Amount); err != nil {
		s.respondError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Category budget set",
		applog.FieldUserID, req.UserID,
		applog.FieldMonth, month.String(),
		applog.FieldCategory, req.Category,
		applog.FieldAmount, req.Amount)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetCategoryBudget(w http.ResponseWriter, r *http.Request) {
	userID, month, ok := s.parseBudgetQuery(w, r)
	if !ok {
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	amount, set, err := s.budgets.GetCategory(r.Context(), userID, month, category)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, budgetResponse{Amount: amount, Set: set})
}

func (s *Server) handleListCategoryBudgets(w http.ResponseWriter, r *http.Request) {
	userID, month, ok := s.parseBudgetQuery(w, r)
	if !ok {
		return
	}
	budgets, err := s.budgets.ListCategory(r.Context(), userID, month)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]categoryBudgetJSON, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, categoryBudgetJSON{Category: b.Category, Amount: b.Amount})
	}
	respondJSON(w, http.StatusOK, map[string][]categoryBudgetJSON{"budgets": out})
}

func (s *Server) decodeBudgetRequest(w http.ResponseWriter, r *http.Request) (setBudgetRequest, core.Month, bool) {
	var req setBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return setBudgetRequest{}, core.Month{}, false
	}
	month, err := core.ParseMonth(req.Month)
	if err != nil {
		s.respondError(w, r, err)
		return setBudgetRequest{}, core.Month{}, false
	}
	return req, month, true
}

func (s *Server) parseBudgetQuery(w http.ResponseWriter, r *http.Request) (string, core.Month, bool) {
	month, err := core.ParseMonth(strings.TrimSpace(r.URL.Query().Get("month")))
	if err != nil {
		s.respondError(w, r, err)
		return "", core.Month{}, false
	}
	return strings.TrimSpace(r.URL.Query().Get("user_id")), month, true
}
