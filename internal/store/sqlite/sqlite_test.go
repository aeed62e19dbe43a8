package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/store"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndQuery(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "expenses", store.Fields{
		"user_id": "u1", "date": "2024-05-03", "category": "Food",
		"amount": 20.0, "created_at": store.ServerTimestamp,
	})
	if err != nil {
		t.Fatal(err)
	}

	recs, err := s.Query(ctx, "expenses", store.Query{
		Filters: []store.Filter{store.Eq("user_id", "u1"), store.Gte("date", "2024-05-01")},
		OrderBy: "date",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID() != id {
		t.Fatalf("unexpected result: %+v", recs)
	}
	// JSON round trip keeps numbers coercible.
	if recs[0].Float("amount") != 20.0 {
		t.Fatalf("amount = %v", recs[0].Float("amount"))
	}
	if recs[0].Str("created_at") == "" {
		t.Fatalf("server timestamp not filled")
	}
}

func TestAddUniqueAndUpsert(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	key := []store.Filter{store.Eq("user_id", "u1"), store.Eq("month", "2024-05")}

	_, created, err := s.AddUnique(ctx, "budgets", key, store.Fields{"user_id": "u1", "month": "2024-05", "budget": 100.0})
	if err != nil || !created {
		t.Fatalf("first: created=%v err=%v", created, err)
	}
	_, created, err = s.AddUnique(ctx, "budgets", key, store.Fields{"user_id": "u1", "month": "2024-05", "budget": 200.0})
	if err != nil || created {
		t.Fatalf("second: created=%v err=%v", created, err)
	}

	if err := s.Upsert(ctx, "budgets", key, store.Fields{"user_id": "u1", "month": "2024-05", "budget": 150.0}); err != nil {
		t.Fatal(err)
	}
	recs, err := s.Query(ctx, "budgets", store.Query{Filters: key})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one record per key, got %d", len(recs))
	}
	if recs[0].Float("budget") != 150.0 {
		t.Fatalf("budget = %v", recs[0].Float("budget"))
	}
}

func TestBatchAdd(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	docs := []store.Fields{
		{"user_id": "u1", "name": "Food", "type": "expense"},
		{"user_id": "u1", "name": "Bills", "type": "expense"},
		{"user_id": "u1", "name": "Salary", "type": "income"},
	}
	if err := s.BatchAdd(ctx, "categories", docs); err != nil {
		t.Fatal(err)
	}
	recs, err := s.Query(ctx, "categories", store.Query{
		Filters: []store.Filter{store.Eq("user_id", "u1"), store.Eq("type", "expense")},
		OrderBy: "name",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Str("name") != "Bills" || recs[1].Str("name") != "Food" {
		t.Fatalf("wrong order: %q, %q", recs[0].Str("name"), recs[1].Str("name"))
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, "expenses", store.Fields{"user_id": "u1", "amount": 5.0}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	recs, err := s2.Query(ctx, "expenses", store.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("data lost across reopen, got %d records", len(recs))
	}
}
