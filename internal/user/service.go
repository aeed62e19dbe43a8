// Package user handles sign-up and login. The password digest is a bare
// sha256 by contract with the existing user records; it is an account
// discriminator here, not a hardened credential scheme.
package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/category"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Collection is the store collection holding user records.
const Collection = "users"

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSeedFailed reports that the account was created but its default
	// categories were not. The returned id is still valid.
	ErrSeedFailed = errors.New("default categories not seeded")
)

type Service struct {
	store      store.Store
	categories *category.Registry
}

func New(st store.Store, categories *category.Registry) *Service {
	return &Service{store: st, categories: categories}
}

// HashPassword returns the hex sha256 digest of the password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Create registers a new account and seeds its default categories. The
// username uniqueness check and the insert are one atomic store operation.
func (s *Service) Create(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", core.ErrEmptyUsername
	}
	if strings.TrimSpace(password) == "" {
		return "", core.ErrEmptyPassword
	}

	key := []store.Filter{store.Eq("username", username)}
	id, created, err := s.store.AddUnique(ctx, Collection, key, store.Fields{
		"username":   username,
		"password":   HashPassword(password),
		"created_at": store.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	if !created {
		return "", ErrUsernameTaken
	}

	if err := s.categories.SeedDefaults(ctx, id); err != nil {
		// The account exists; the missing defaults are reported rather
		// than rolled back, and the user can add categories by hand.
		slog.ErrorContext(ctx, "Seeding default categories failed", "user_id", id, "error", err)
		return id, fmt.Errorf("%w: %w", ErrSeedFailed, err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "username", username)
	return id, nil
}

// Authenticate checks the credentials and returns the user's id.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return "", ErrInvalidCredentials
	}

	recs, err := s.store.Query(ctx, Collection, store.Query{
		Filters: []store.Filter{
			store.Eq("username", username),
			store.Eq("password", HashPassword(password)),
		},
		Limit: 1,
	})
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if len(recs) == 0 {
		return "", ErrInvalidCredentials
	}
	return recs[0].ID(), nil
}
