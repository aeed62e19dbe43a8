// Package category is the per-user, per-kind registry of named buckets.
package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Collection is the store collection holding categories.
const Collection = "categories"

// Starter categories written for every new account.
var (
	DefaultExpense = []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Other"}
	DefaultIncome  = []string{"Salary", "Interest", "Gift", "Other"}
)

type Registry struct {
	store store.Store
}

func New(st store.Store) *Registry {
	return &Registry{store: st}
}

// Add registers a category. It reports created=false when the (user, name,
// kind) tuple already exists; the check and insert are one atomic store
// operation, so concurrent duplicate submissions yield a single record.
func (r *Registry) Add(ctx context.Context, userID, name string, kind core.Kind) (bool, error) {
	name = strings.TrimSpace(name)
	c := core.Category{UserID: userID, Name: name, Kind: kind}
	if err := c.Validate(); err != nil {
		return false, err
	}

	key := []store.Filter{
		store.Eq("user_id", userID),
		store.Eq("name", name),
		store.Eq("type", kind.String()),
	}
	_, created, err := r.store.AddUnique(ctx, Collection, key, store.Fields{
		"user_id": userID,
		"name":    name,
		"type":    kind.String(),
	})
	if err != nil {
		return false, fmt.Errorf("add category: %w", err)
	}
	if created {
		slog.InfoContext(ctx, "Category added", "user_id", userID, "name", name, "kind", kind.String())
	}
	return created, nil
}

// List returns the user's category names of one kind, ascending. The query
// orders on name while filtering on user and kind, so it needs the
// (user_id, type, name) composite index; without it the store's index error
// propagates with its remediation hint.
func (r *Registry) List(ctx context.Context, userID string, kind core.Kind) ([]string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.ErrEmptyUserID
	}
	if !kind.Valid() {
		return nil, core.ErrInvalidKind
	}

	recs, err := r.store.Query(ctx, Collection, store.Query{
		Filters: []store.Filter{
			store.Eq("user_id", userID),
			store.Eq("type", kind.String()),
		},
		OrderBy: "name",
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		if n := rec.Str("name"); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// SeedDefaults writes the starter categories for a fresh account as one
// batch, so partial seeding cannot occur.
func (r *Registry) SeedDefaults(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return core.ErrEmptyUserID
	}

	docs := make([]store.Fields, 0, len(DefaultExpense)+len(DefaultIncome))
	for _, name := range DefaultExpense {
		docs = append(docs, store.Fields{"user_id": userID, "name": name, "type": core.KindExpense.String()})
	}
	for _, name := range DefaultIncome {
		docs = append(docs, store.Fields{"user_id": userID, "name": name, "type": core.KindIncome.String()})
	}

	if err := r.store.BatchAdd(ctx, Collection, docs); err != nil {
		return fmt.Errorf("seed default categories: %w", err)
	}
	slog.InfoContext(ctx, "Default categories seeded", "user_id", userID, "count", len(docs))
	return nil
}
