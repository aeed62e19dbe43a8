// Package memory is an in-process store driver. It backs tests and offline
// runs, and it mimics the cloud backend's composite-index rule so the index
// failure path can be exercised without a real deployment.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/store"
)

// Ensure interface conformance
var _ store.Store = (*Store)(nil)

type Store struct {
	mu          sync.Mutex
	collections map[string][]store.Record
	indexes     map[string]map[string]struct{}
}

// New returns a store with the default composite indexes declared, matching
// what a provisioned deployment carries.
func New() *Store {
	s := NewBare()
	s.DeclareIndex("categories", "user_id", "type", "name")
	s.DeclareIndex("expenses", "user_id", "date")
	s.DeclareIndex("expenses", "user_id", "category", "date")
	s.DeclareIndex("incomes", "user_id", "date")
	s.DeclareIndex("incomes", "user_id", "category", "date")
	return s
}

// NewBare returns a store with no composite indexes declared. Any ordered
// multi-field query against it fails with an index error.
func NewBare() *Store {
	return &Store{
		collections: make(map[string][]store.Record),
		indexes:     make(map[string]map[string]struct{}),
	}
}

// DeclareIndex registers a composite index over the given fields.
func (s *Store) DeclareIndex(collection string, fields ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexes[collection] == nil {
		s.indexes[collection] = make(map[string]struct{})
	}
	s.indexes[collection][indexKey(fields)] = struct{}{}
}

func indexKey(fields []string) string {
	sorted := append([]string(nil), fields...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// requiredIndex mirrors the cloud rule: ordering by one field while
// filtering on others needs a composite index covering all of them.
func (s *Store) requiredIndex(collection string, q store.Query) error {
	if q.OrderBy == "" {
		return nil
	}
	fields := map[string]struct{}{q.OrderBy: {}}
	for _, f := range q.Filters {
		fields[f.Field] = struct{}{}
	}
	if len(fields) < 2 {
		return nil
	}
	flat := make([]string, 0, len(fields))
	for f := range fields {
		flat = append(flat, f)
	}
	if _, ok := s.indexes[collection][indexKey(flat)]; ok {
		return nil
	}
	sort.Strings(flat)
	diag := fmt.Errorf("the query requires an index. You can create it here: "+
		"https://console.firebase.google.com/v1/r/project/local/firestore/indexes?create_composite=%s_%s",
		collection, strings.Join(flat, "_"))
	return store.NewIndexError(diag)
}

func (s *Store) Query(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requiredIndex(collection, q); err != nil {
		return nil, err
	}
	return s.queryLocked(collection, q), nil
}

// queryLocked runs a query without index checks; conditional writes use it
// for their key lookups.
func (s *Store) queryLocked(collection string, q store.Query) []store.Record {
	var out []store.Record
	for _, rec := range s.collections[collection] {
		if store.Match(rec, q.Filters) {
			out = append(out, cloneRecord(rec))
		}
	}
	if q.OrderBy != "" {
		store.SortRecords(out, q.OrderBy)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (s *Store) Add(ctx context.Context, collection string, fields store.Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(collection, fields), nil
}

func (s *Store) addLocked(collection string, fields store.Fields) string {
	id := uuid.NewString()
	rec := store.Record{store.IDField: id}
	for k, v := range fields {
		if v == store.ServerTimestamp {
			v = time.Now().UTC()
		}
		rec[k] = v
	}
	s.collections[collection] = append(s.collections[collection], rec)
	return id
}

func (s *Store) AddUnique(ctx context.Context, collection string, key []store.Filter, fields store.Fields) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.queryLocked(collection, store.Query{Filters: key, Limit: 1})
	if len(existing) > 0 {
		return existing[0].ID(), false, nil
	}
	return s.addLocked(collection, fields), true, nil
}

func (s *Store) Upsert(ctx context.Context, collection string, key []store.Filter, fields store.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.collections[collection] {
		if store.Match(rec, key) {
			for k, v := range fields {
				if v == store.ServerTimestamp {
					v = time.Now().UTC()
				}
				s.collections[collection][i][k] = v
			}
			return nil
		}
	}
	s.addLocked(collection, fields)
	return nil
}

func (s *Store) BatchAdd(ctx context.Context, collection string, docs []store.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fields := range docs {
		s.addLocked(collection, fields)
	}
	return nil
}

func cloneRecord(rec store.Record) store.Record {
	out := make(store.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
