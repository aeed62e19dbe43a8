package memory

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/store"
)

func TestAddAndQuery(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Add(ctx, "expenses", store.Fields{
		"user_id": "u1", "date": "2024-05-03", "category": "Food",
		"amount": 20.0, "created_at": store.ServerTimestamp,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatalf("expected a generated id")
	}

	recs, err := s.Query(ctx, "expenses", store.Query{Filters: []store.Filter{store.Eq("user_id", "u1")}})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].ID() != id {
		t.Fatalf("id = %q, want %q", recs[0].ID(), id)
	}
	if recs[0].Float("amount") != 20.0 {
		t.Fatalf("amount = %v", recs[0].Float("amount"))
	}
	if recs[0].Time("created_at").IsZero() {
		t.Fatalf("server timestamp not filled")
	}
}

func TestQueryOrderAndLimit(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, d := range []string{"2024-05-20", "2024-05-03", "2024-05-10"} {
		if _, err := s.Add(ctx, "expenses", store.Fields{"user_id": "u1", "date": d}); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.Query(ctx, "expenses", store.Query{
		Filters: []store.Filter{store.Eq("user_id", "u1")},
		OrderBy: "date",
		Limit:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("limit not applied, got %d", len(recs))
	}
	if recs[0].Str("date") != "2024-05-03" || recs[1].Str("date") != "2024-05-10" {
		t.Fatalf("wrong order: %q, %q", recs[0].Str("date"), recs[1].Str("date"))
	}
}

func TestQueryWithoutIndexFails(t *testing.T) {
	s := NewBare()
	ctx := context.Background()
	if _, err := s.Add(ctx, "expenses", store.Fields{"user_id": "u1", "date": "2024-05-03"}); err != nil {
		t.Fatal(err)
	}

	_, err := s.Query(ctx, "expenses", store.Query{
		Filters: []store.Filter{store.Eq("user_id", "u1")},
		OrderBy: "date",
	})
	var ie *store.IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IndexError, got %v", err)
	}
	if ie.Hint == "" {
		t.Fatalf("expected a remediation hint")
	}

	// Single-field ordering needs no composite index.
	if _, err := s.Query(ctx, "expenses", store.Query{OrderBy: "date"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Declaring the index makes the same query pass.
	s.DeclareIndex("expenses", "user_id", "date")
	if _, err := s.Query(ctx, "expenses", store.Query{
		Filters: []store.Filter{store.Eq("user_id", "u1")},
		OrderBy: "date",
	}); err != nil {
		t.Fatalf("unexpected error after declaring index: %v", err)
	}
}

func TestAddUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := []store.Filter{store.Eq("user_id", "u1"), store.Eq("name", "Food"), store.Eq("type", "expense")}
	fields := store.Fields{"user_id": "u1", "name": "Food", "type": "expense"}

	id1, created, err := s.AddUnique(ctx, "categories", key, fields)
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}
	id2, created, err := s.AddUnique(ctx, "categories", key, fields)
	if err != nil || created {
		t.Fatalf("second insert: created=%v err=%v", created, err)
	}
	if id1 != id2 {
		t.Fatalf("duplicate insert returned different id")
	}

	recs, err := s.Query(ctx, "categories", store.Query{Filters: key})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(recs))
	}
}

func TestUpsertLastWriteWins(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := []store.Filter{store.Eq("user_id", "u1"), store.Eq("month", "2024-05")}

	if err := s.Upsert(ctx, "budgets", key, store.Fields{"user_id": "u1", "month": "2024-05", "budget": 100.0}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, "budgets", key, store.Fields{"user_id": "u1", "month": "2024-05", "budget": 150.0}); err != nil {
		t.Fatal(err)
	}

	recs, err := s.Query(ctx, "budgets", store.Query{Filters: key})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected a single record per key, got %d", len(recs))
	}
	if recs[0].Float("budget") != 150.0 {
		t.Fatalf("budget = %v, want 150", recs[0].Float("budget"))
	}
}

func TestBatchAdd(t *testing.T) {
	s := New()
	ctx := context.Background()
	docs := []store.Fields{
		{"user_id": "u1", "name": "Food", "type": "expense"},
		{"user_id": "u1", "name": "Salary", "type": "income"},
	}
	if err := s.BatchAdd(ctx, "categories", docs); err != nil {
		t.Fatal(err)
	}
	recs, err := s.Query(ctx, "categories", store.Query{Filters: []store.Filter{store.Eq("user_id", "u1")}})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
}

func TestQueryReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Add(ctx, "expenses", store.Fields{"user_id": "u1", "amount": 5.0}); err != nil {
		t.Fatal(err)
	}
	recs, _ := s.Query(ctx, "expenses", store.Query{})
	recs[0]["amount"] = 999.0
	again, _ := s.Query(ctx, "expenses", store.Query{})
	if again[0].Float("amount") != 5.0 {
		t.Fatalf("mutating a result leaked into the store")
	}
}
