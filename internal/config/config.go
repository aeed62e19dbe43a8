package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// Firestore
	FirestoreProjectID   string
	FirestoreCredentials string

	// Per-operation bound: each store round trip fails after this long
	// instead of being retried.
	QueryTimeout time.Duration

	// FetchLimit caps rows fetched per list query, before any client-side
	// refinement.
	FetchLimit int

	// AllowNegativeAmounts switches the amount policy to accept
	// refund-style entries.
	AllowNegativeAmounts bool

	// ReportsDir is where generated report files land.
	ReportsDir string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),

		FirestoreProjectID:   getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentials: getEnv("FIRESTORE_CREDENTIALS_FILE", "./firebase_key.json"),

		QueryTimeout: getEnvDuration("QUERY_TIMEOUT", 30*time.Second),
		FetchLimit:   getEnvInt("FETCH_LIMIT", 1000),

		AllowNegativeAmounts: getEnvBool("ALLOW_NEGATIVE_AMOUNTS", false),

		ReportsDir: getEnv("REPORTS_DIR", "./data/reports"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite", "firestore"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// The firestore backend is unusable without the service-account key, so
	// a missing file is a configuration error reported before anything else
	// runs, not a crash later.
	if c.DataBackend == "firestore" {
		if c.FirestoreProjectID == "" {
			errors = append(errors, "FIRESTORE_PROJECT_ID is required when using firestore backend")
		}
		if c.FirestoreCredentials == "" {
			errors = append(errors, "FIRESTORE_CREDENTIALS_FILE is required when using firestore backend")
		} else if _, err := os.Stat(c.FirestoreCredentials); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("service account key file does not exist: %s", c.FirestoreCredentials))
		}
	}

	if c.QueryTimeout <= 0 {
		errors = append(errors, "query timeout must be positive")
	}
	if c.FetchLimit < 1 {
		errors = append(errors, "fetch limit must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
