// Package store defines the record store boundary: typed queries over named
// collections of schema-less records, plus the error taxonomy every driver
// maps its failures into. Drivers live in the subpackages.
package store

import "context"

// Op is a comparison operator with the underlying store's native semantics.
type Op string

const (
	OpEqual          Op = "=="
	OpLess           Op = "<"
	OpLessOrEqual    Op = "<="
	OpGreater        Op = ">"
	OpGreaterOrEqual Op = ">="
)

// Filter is one (field, operator, value) predicate. Filters in a query
// compose conjunctively; there is no OR.
type Filter struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Filter  { return Filter{field, OpEqual, value} }
func Lt(field string, value any) Filter  { return Filter{field, OpLess, value} }
func Lte(field string, value any) Filter { return Filter{field, OpLessOrEqual, value} }
func Gt(field string, value any) Filter  { return Filter{field, OpGreater, value} }
func Gte(field string, value any) Filter { return Filter{field, OpGreaterOrEqual, value} }

// Query describes one read. OrderBy is an ascending sort on a single field;
// Limit (when positive) bounds the rows fetched before any refinement the
// caller applies.
type Query struct {
	Filters []Filter
	OrderBy string
	Limit   int
}

// Fields is the payload of a write.
type Fields map[string]any

// serverTimestamp is a sentinel value: drivers replace it with the store's
// own write time.
type serverTimestamp struct{}

// ServerTimestamp marks a field to be filled with the store's write time.
var ServerTimestamp = serverTimestamp{}

// Store is the record store port. Every call does exactly one blocking round
// trip; no driver retries on its own, and the caller bounds each call with
// its context.
type Store interface {
	// Query runs a filtered read and returns normalized records.
	Query(ctx context.Context, collection string, q Query) ([]Record, error)

	// Add inserts a record and returns the store-assigned id.
	Add(ctx context.Context, collection string, fields Fields) (string, error)

	// AddUnique inserts only if no record matches all key filters. The
	// check and the insert are one atomic step in every driver, so
	// concurrent duplicate submissions cannot both land.
	AddUnique(ctx context.Context, collection string, key []Filter, fields Fields) (id string, created bool, err error)

	// Upsert overwrites the single record matching the key filters, or
	// inserts a new one. Atomic per driver, exactly one record per key.
	Upsert(ctx context.Context, collection string, key []Filter, fields Fields) error

	// BatchAdd inserts all records or none of them.
	BatchAdd(ctx context.Context, collection string, docs []Fields) error
}
