package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type addCategoryRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
}

// parseKind maps the wire value onto a Kind, defaulting to expense when
// absent.
func parseKind(v string) (core.Kind, error) {
	switch core.Kind(strings.TrimSpace(v)) {
	case core.KindExpense, "":
		return core.KindExpense, nil
	case core.KindIncome:
		return core.KindIncome, nil
	default:
		return "", core.ErrInvalidKind
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.URL.Query().Get("kind"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))

	names, err := s.categories.List(r.Context(), userID, kind)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"categories": names})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	kind, err := parseKind(req.Kind)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.categories.Add(r.Context(), req.UserID, req.Name, kind)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		applog.FromContext(r.Context()).InfoContext(r.Context(), "Category added",
			applog.FieldUserID, req.UserID,
			applog.FieldCategory, req.Name,
			applog.FieldKind, string(kind))
	}
	respondJSON(w, status, map[string]bool{"created": created})
}
