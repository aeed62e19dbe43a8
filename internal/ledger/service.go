// Package ledger holds the append-only writers and filtered readers for
// expense and income entries.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// DefaultFetchLimit bounds rows fetched from the store per list call when
// the caller does not pick a limit.
const DefaultFetchLimit = 1000

// Service reads and writes ledger entries through the record store.
type Service struct {
	store      store.Store
	policy     core.AmountPolicy
	fetchLimit int
}

func New(st store.Store, policy core.AmountPolicy, fetchLimit int) *Service {
	if fetchLimit < 1 {
		fetchLimit = DefaultFetchLimit
	}
	return &Service{store: st, policy: policy, fetchLimit: fetchLimit}
}

// Collection maps a kind to its store collection.
func Collection(kind core.Kind) string {
	if kind == core.KindIncome {
		return "incomes"
	}
	return "expenses"
}

// Append writes one entry. Entries are never updated or deleted afterwards;
// a failed write is reported, not retried.
func (s *Service) Append(ctx context.Context, kind core.Kind, userID string, e core.Entry) (string, error) {
	if !kind.Valid() {
		return "", core.ErrInvalidKind
	}
	if strings.TrimSpace(userID) == "" {
		return "", core.ErrEmptyUserID
	}
	if err := e.Validate(s.policy); err != nil {
		return "", err
	}

	id, err := s.store.Add(ctx, Collection(kind), store.Fields{
		"user_id":     userID,
		"date":        e.Date.String(),
		"category":    e.Category,
		"amount":      e.Amount,
		"description": e.Description,
		"created_at":  store.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("append %s: %w", kind, err)
	}

	slog.InfoContext(ctx, "Entry appended",
		"kind", kind.String(),
		"user_id", userID,
		"date", e.Date.String(),
		"category", e.Category,
		"amount", e.Amount)
	return id, nil
}

// Filter narrows a listing. Date and amount bounds are inclusive at both
// ends. Text and amount refinement happen client-side after the store read,
// so a small Limit can truncate before they apply.
type Filter struct {
	Start     core.Day
	End       core.Day
	Category  string
	Text      string
	MinAmount *float64
	MaxAmount *float64
	Limit     int
}

// List returns the user's entries matching the filter, newest date first.
// Entries sharing a date keep the store-returned relative order.
func (s *Service) List(ctx context.Context, kind core.Kind, userID string, f Filter) ([]core.Entry, error) {
	if !kind.Valid() {
		return nil, core.ErrInvalidKind
	}
	if strings.TrimSpace(userID) == "" {
		return nil, core.ErrEmptyUserID
	}

	filters := []store.Filter{store.Eq("user_id", userID)}
	if !f.Start.IsZero() {
		filters = append(filters, store.Gte("date", f.Start.String()))
	}
	if !f.End.IsZero() {
		filters = append(filters, store.Lte("date", f.End.String()))
	}
	if f.Category != "" {
		filters = append(filters, store.Eq("category", f.Category))
	}

	limit := f.Limit
	if limit < 1 || limit > s.fetchLimit {
		limit = s.fetchLimit
	}

	recs, err := s.store.Query(ctx, Collection(kind), store.Query{
		Filters: filters,
		OrderBy: "date",
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	entries := make([]core.Entry, 0, len(recs))
	for _, rec := range recs {
		e := decodeEntry(rec, userID)
		if !matchRefinement(e, f) {
			continue
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[j].Date.Before(entries[i].Date)
	})
	return entries, nil
}

func decodeEntry(rec store.Record, userID string) core.Entry {
	day, err := core.ParseDay(rec.Str("date"))
	if err != nil {
		day = core.Day{}
	}
	return core.Entry{
		ID:          rec.ID(),
		UserID:      userID,
		Date:        day,
		Category:    rec.Str("category"),
		Amount:      rec.Float("amount"),
		Description: rec.Str("description"),
		CreatedAt:   rec.Time("created_at"),
	}
}

func matchRefinement(e core.Entry, f Filter) bool {
	if f.Text != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Text)) {
		return false
	}
	if f.MinAmount != nil && e.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && e.Amount > *f.MaxAmount {
		return false
	}
	return true
}
