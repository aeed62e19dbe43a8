package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

type createEntryRequest struct {
	UserID      string  `json:"user_id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	// NewCategory registers the category for the user before the entry is
	// written, so the entry form can offer it next time.
	NewCategory bool `json:"new_category"`
}

type entryJSON struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

func toEntryJSON(e core.Entry) entryJSON {
	out := entryJSON{
		ID:          e.ID,
		Date:        e.Date.String(),
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
	}
	if !e.CreatedAt.IsZero() {
		out.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func (s *Server) handleCreateEntry(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEntryRequest
		if err := decodeBody(r, &req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
			return
		}

		day, err := core.ParseDay(req.Date)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		if req.NewCategory {
			if _, err := s.categories.Add(r.Context(), req.UserID, req.Category, kind); err != nil {
				s.respondError(w, r, err)
				return
			}
		}

		id, err := s.entries.Append(r.Context(), kind, req.UserID, core.Entry{
			Date:        day,
			Category:    strings.TrimSpace(req.Category),
			Amount:      req.Amount,
			Description: req.Description,
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		applog.FromContext(r.Context()).InfoContext(r.Context(), "Entry recorded",
			applog.FieldUserID, req.UserID,
			applog.FieldKind, string(kind),
			applog.FieldCategory, req.Category,
			applog.FieldAmount, req.Amount)
		respondJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// parseEntryFilter reads the list query params. Unset params stay at their
// zero values, which the service treats as "no bound".
func parseEntryFilter(r *http.Request) (userID string, f ledger.Filter, err error) {
	q := r.URL.Query()
	userID = strings.TrimSpace(q.Get("user_id"))

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		if f.Start, err = core.ParseDay(v); err != nil {
			return "", ledger.Filter{}, err
		}
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		if f.End, err = core.ParseDay(v); err != nil {
			return "", ledger.Filter{}, err
		}
	}
	f.Category = strings.TrimSpace(q.Get("category"))
	f.Text = strings.TrimSpace(q.Get("q"))

	for param, dst := range map[string]**float64{"min": &f.MinAmount, "max": &f.MaxAmount} {
		if v := strings.TrimSpace(q.Get(param)); v != "" {
			amount, perr := strconv.ParseFloat(v, 64)
			if perr != nil {
				return "", ledger.Filter{}, fmt.Errorf("%w: %s=%q", core.ErrInvalidAmount, param, v)
			}
			*dst = &amount
		}
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, perr := strconv.Atoi(v)
		if perr != nil || limit < 1 {
			return "", ledger.Filter{}, fmt.Errorf("invalid limit %q", v)
		}
		f.Limit = limit
	}
	return userID, f, nil
}

func (s *Server) handleListEntries(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, f, err := parseEntryFilter(r)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		entries, err := s.entries.List(r.Context(), kind, userID, f)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		out := make([]entryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, toEntryJSON(e))
		}
		respondJSON(w, http.StatusOK, map[string][]entryJSON{"entries": out})
	}
}

func (s *Server) handleExportEntries(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, f, err := parseEntryFilter(r)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		entries, err := s.entries.List(r.Context(), kind, userID, f)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", ledger.Collection(kind)))
		if err := report.WriteCSV(w, entries); err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export failed",
				applog.FieldError, err, applog.FieldUserID, userID)
		}
	}
}
