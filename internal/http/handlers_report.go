package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type summaryResponse struct {
	Month string `json:"month"`
	core.Summary
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonth(r.PathValue("month"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))

	sum, err := s.reports.Summarize(r.Context(), userID, month)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaryResponse{Month: month.String(), Summary: sum})
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonth(r.PathValue("month"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))

	// Render into memory first so failures still get a proper status code.
	var buf bytes.Buffer
	if err := s.reports.Generate(r.Context(), userID, month, &buf); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.pdf", month))
	if _, err := buf.WriteTo(w); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "PDF download interrupted",
			applog.FieldError, err, applog.FieldUserID, userID)
	}
}
