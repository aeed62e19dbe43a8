// Package budget keeps the per-month and per-month-per-category budget
// amounts. Budgets are upserted: at most one record per key tuple, last
// write wins.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const (
	MonthlyCollection  = "budgets"
	CategoryCollection = "category_budgets"
)

type Ledger struct {
	store store.Store
}

func New(st store.Store) *Ledger {
	return &Ledger{store: st}
}

// SetMonthly stores the single budget for (user, month). The store's
// conditional write keeps the key unique under concurrent submissions.
func (l *Ledger) SetMonthly(ctx context.Context, userID string, month core.Month, amount float64) error {
	if err := validateKey(userID, month); err != nil {
		return err
	}
	key := []store.Filter{
		store.Eq("user_id", userID),
		store.Eq("month", month.String()),
	}
	err := l.store.Upsert(ctx, MonthlyCollection, key, store.Fields{
		"user_id": userID,
		"month":   month.String(),
		"budget":  amount,
	})
	if err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	slog.InfoContext(ctx, "Monthly budget set", "user_id", userID, "month", month.String(), "amount", amount)
	return nil
}

// GetMonthly returns the budget for (user, month); ok is false when none is
// set.
func (l *Ledger) GetMonthly(ctx context.Context, userID string, month core.Month) (float64, bool, error) {
	if err := validateKey(userID, month); err != nil {
		return 0, false, err
	}
	recs, err := l.store.Query(ctx, MonthlyCollection, store.Query{
		Filters: []store.Filter{
			store.Eq("user_id", userID),
			store.Eq("month", month.String()),
		},
		Limit: 1,
	})
	if err != nil {
		return 0, false, fmt.Errorf("get monthly budget: %w", err)
	}
	if len(recs) == 0 {
		return 0, false, nil
	}
	return recs[0].Float("budget"), true, nil
}

// SetCategory stores the single budget for (user, month, category).
func (l *Ledger) SetCategory(ctx context.Context, userID string, month core.Month, category string, amount float64) error {
	if err := validateKey(userID, month); err != nil {
		return err
	}
	if strings.TrimSpace(category) == "" {
		return core.ErrEmptyCategory
	}
	key := []store.Filter{
		store.Eq("user_id", userID),
		store.Eq("month", month.String()),
		store.Eq("category", category),
	}
	err := l.store.Upsert(ctx, CategoryCollection, key, store.Fields{
		"user_id":  userID,
		"month":    month.String(),
		"category": category,
		"budget":   amount,
	})
	if err != nil {
		return fmt.Errorf("set category budget: %w", err)
	}
	slog.InfoContext(ctx, "Category budget set",
		"user_id", userID, "month", month.String(), "category", category, "amount", amount)
	return nil
}

// GetCategory returns the budget for (user, month, category); ok is false
// when none is set.
func (l *Ledger) GetCategory(ctx context.Context, userID string, month core.Month, category string) (float64, bool, error) {
	if err := validateKey(userID, month); err != nil {
		return 0, false, err
	}
	if strings.TrimSpace(category) == "" {
		return 0, false, core.ErrEmptyCategory
	}
	recs, err := l.store.Query(ctx, CategoryCollection, store.Query{
		Filters: []store.Filter{
			store.Eq("user_id", userID),
			store.Eq("month", month.String()),
			store.Eq("category", category),
		},
		Limit: 1,
	})
	if err != nil {
		return 0, false, fmt.Errorf("get category budget: %w", err)
	}
	if len(recs) == 0 {
		return 0, false, nil
	}
	return recs[0].Float("budget"), true, nil
}

// ListCategory returns every category budget the user has for the month.
func (l *Ledger) ListCategory(ctx context.Context, userID string, month core.Month) ([]core.CategoryBudget, error) {
	if err := validateKey(userID, month); err != nil {
		return nil, err
	}
	recs, err := l.store.Query(ctx, CategoryCollection, store.Query{
		Filters: []store.Filter{
			store.Eq("user_id", userID),
			store.Eq("month", month.String()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list category budgets: %w", err)
	}
	out := make([]core.CategoryBudget, 0, len(recs))
	for _, rec := range recs {
		out = append(out, core.CategoryBudget{
			UserID:   userID,
			Month:    month,
			Category: rec.Str("category"),
			Amount:   rec.Float("budget"),
		})
	}
	return out, nil
}

func validateKey(userID string, month core.Month) error {
	if strings.TrimSpace(userID) == "" {
		return core.ErrEmptyUserID
	}
	return month.Validate()
}
