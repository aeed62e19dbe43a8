// Package sqlite is a local store driver that keeps documents as JSON rows
// in a single table. It serves offline and self-hosted runs where the cloud
// store is not reachable.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fintrack/internal/store"
)

// Ensure interface conformance
var _ store.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

// Open creates the database file if needed, runs migrations and returns the
// driver.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	recs, err := s.load(ctx, s.db, collection)
	if err != nil {
		return nil, &store.Error{Op: "query", Collection: collection, Err: err}
	}
	return applyQuery(recs, q), nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// load reads a whole collection. Filters are evaluated in-process with the
// shared predicate code so operator semantics match the other drivers.
func (s *Store) load(ctx context.Context, db querier, collection string) ([]store.Record, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ? ORDER BY created_at, id`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []store.Record
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		rec := store.Record{}
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		rec[store.IDField] = id
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func applyQuery(recs []store.Record, q store.Query) []store.Record {
	var out []store.Record
	for _, rec := range recs {
		if store.Match(rec, q.Filters) {
			out = append(out, rec)
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
	id, err := s.insert(ctx, s.db, collection, fields)
	if err != nil {
		return "", &store.Error{Op: "add", Collection: collection, Err: err}
	}
	return id, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ctx context.Context, db execer, collection string, fields store.Fields) (string, error) {
	now := time.Now().UTC()
	body := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == store.ServerTimestamp {
			v = now.Format(time.RFC3339Nano)
		}
		body[k] = v
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, body, created_at) VALUES (?, ?, ?, ?)`,
		id, collection, string(encoded), now.Format(time.RFC3339Nano))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) AddUnique(ctx context.Context, collection string, key []store.Filter, fields store.Fields) (string, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, &store.Error{Op: "add-unique", Collection: collection, Err: err}
	}
	defer tx.Rollback()

	recs, err := s.load(ctx, tx, collection)
	if err != nil {
		return "", false, &store.Error{Op: "add-unique", Collection: collection, Err: err}
	}
	for _, rec := range recs {
		if store.Match(rec, key) {
			return rec.ID(), false, nil
		}
	}
	id, err := s.insert(ctx, tx, collection, fields)
	if err != nil {
		return "", false, &store.Error{Op: "add-unique", Collection: collection, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return "", false, &store.Error{Op: "add-unique", Collection: collection, Err: err}
	}
	return id, true, nil
}

func (s *Store) Upsert(ctx context.Context, collection string, key []store.Filter, fields store.Fields) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &store.Error{Op: "upsert", Collection: collection, Err: err}
	}
	defer tx.Rollback()

	recs, err := s.load(ctx, tx, collection)
	if err != nil {
		return &store.Error{Op: "upsert", Collection: collection, Err: err}
	}
	var match store.Record
	for _, rec := range recs {
		if store.Match(rec, key) {
			match = rec
			break
		}
	}
	if match != nil {
		id := match.ID()
		delete(match, store.IDField)
		for k, v := range fields {
			if v == store.ServerTimestamp {
				v = time.Now().UTC().Format(time.RFC3339Nano)
			}
			match[k] = v
		}
		encoded, err := json.Marshal(map[string]any(match))
		if err != nil {
			return &store.Error{Op: "upsert", Collection: collection, Err: err}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET body = ? WHERE id = ?`, string(encoded), id); err != nil {
			return &store.Error{Op: "upsert", Collection: collection, Err: err}
		}
	} else if _, err := s.insert(ctx, tx, collection, fields); err != nil {
		return &store.Error{Op: "upsert", Collection: collection, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &store.Error{Op: "upsert", Collection: collection, Err: err}
	}
	return nil
}

func (s *Store) BatchAdd(ctx context.Context, collection string, docs []store.Fields) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &store.Error{Op: "batch-add", Collection: collection, Err: err}
	}
	defer tx.Rollback()

	for _, fields := range docs {
		if _, err := s.insert(ctx, tx, collection, fields); err != nil {
			return &store.Error{Op: "batch-add", Collection: collection, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &store.Error{Op: "batch-add", Collection: collection, Err: err}
	}
	return nil
}
