// Package firestore is the cloud store driver. Authentication uses a
// service-account key file supplied out of band; the file missing at startup
// is a configuration error, not a crash.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"

	cfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fintrack/internal/store"
)

// Ensure interface conformance
var _ store.Store = (*Store)(nil)

type Store struct {
	client *cfirestore.Client
}

// Open connects to the project's Firestore database using the given
// service-account key file.
func Open(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: missing project id", store.ErrNotInitialized)
	}
	if credentialsFile == "" {
		return nil, fmt.Errorf("%w: missing service account key file", store.ErrNotInitialized)
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("%w: service account key file %s: %v", store.ErrNotInitialized, credentialsFile, err)
	}

	client, err := cfirestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrNotInitialized, err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Query(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	fq := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		fq = fq.WhereEntity(cfirestore.PropertyFilter{
			Path:     f.Field,
			Operator: string(f.Op),
			Value:    f.Value,
		})
	}
	if q.OrderBy != "" {
		// Ordering combined with filters may need a composite index; the
		// failure is classified below and carries the creation link.
		fq = fq.OrderBy(q.OrderBy, cfirestore.Asc)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	docs, err := fq.Documents(ctx).GetAll()
	if err != nil {
		return nil, classify("query", collection, err)
	}
	recs := make([]store.Record, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, toRecord(doc.Ref.ID, doc.Data()))
	}
	return recs, nil
}

func (s *Store) Add(ctx context.Context, collection string, fields store.Fields) (string, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Create(ctx, toData(fields)); err != nil {
		return "", classify("add", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) AddUnique(ctx context.Context, collection string, key []store.Filter, fields store.Fields) (string, bool, error) {
	col := s.client.Collection(collection)
	var id string
	var created bool
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *cfirestore.Transaction) error {
		docs, err := tx.Documents(keyQuery(col, key)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			id, created = docs[0].Ref.ID, false
			return nil
		}
		ref := col.NewDoc()
		if err := tx.Create(ref, toData(fields)); err != nil {
			return err
		}
		id, created = ref.ID, true
		return nil
	})
	if err != nil {
		return "", false, classify("add-unique", collection, err)
	}
	return id, created, nil
}

func (s *Store) Upsert(ctx context.Context, collection string, key []store.Filter, fields store.Fields) error {
	col := s.client.Collection(collection)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *cfirestore.Transaction) error {
		docs, err := tx.Documents(keyQuery(col, key)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return tx.Set(docs[0].Ref, toData(fields), cfirestore.MergeAll)
		}
		return tx.Create(col.NewDoc(), toData(fields))
	})
	if err != nil {
		return classify("upsert", collection, err)
	}
	return nil
}

func (s *Store) BatchAdd(ctx context.Context, collection string, docs []store.Fields) error {
	col := s.client.Collection(collection)
	// One transaction so partial seeding cannot occur.
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *cfirestore.Transaction) error {
		for _, fields := range docs {
			if err := tx.Create(col.NewDoc(), toData(fields)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify("batch-add", collection, err)
	}
	return nil
}

func keyQuery(col *cfirestore.CollectionRef, key []store.Filter) cfirestore.Query {
	q := col.Query
	for _, f := range key {
		q = q.WhereEntity(cfirestore.PropertyFilter{Path: f.Field, Operator: string(f.Op), Value: f.Value})
	}
	return q.Limit(1)
}

func toData(fields store.Fields) map[string]any {
	data := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == store.ServerTimestamp {
			v = cfirestore.ServerTimestamp
		}
		data[k] = v
	}
	return data
}

func toRecord(id string, data map[string]any) store.Record {
	rec := make(store.Record, len(data)+1)
	for k, v := range data {
		rec[k] = v
	}
	rec[store.IDField] = id
	return rec
}

// classify maps driver failures into the store error taxonomy. A failed
// precondition is the store asking for a composite index; its message embeds
// the creation link that gets surfaced to the operator.
func classify(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.FailedPrecondition:
			return store.NewIndexError(err)
		case codes.Unavailable, codes.ResourceExhausted:
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
	}
	return &store.Error{Op: op, Collection: collection, Err: err}
}
