// Package backend selects and constructs the record store driver from
// configuration.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
	fsdriver "fintrack/internal/store/firestore"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/sqlite"
)

// Type represents the data backend selection.
type Type string

const (
	Memory    Type = "memory"
	SQLite    Type = "sqlite"
	Firestore Type = "firestore"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Firestore:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Open creates the store described by the config plus its cleanup function.
func Open(ctx context.Context, cfg *config.Config, logger *applog.Logger) (store.Store, CleanupFunc, error) {
	logger = logger.WithComponent(applog.ComponentBackend)
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLite:
		st, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return st, st.Close, nil

	case Firestore:
		st, err := fsdriver.Open(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize firestore store: %w", err)
		}
		logger.Info("Initialized firestore backend", "project", cfg.FirestoreProjectID)
		return st, st.Close, nil

	default:
		st := memory.New()
		logger.Info("Initialized memory backend")
		return st, nil, nil
	}
}
