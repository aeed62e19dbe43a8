package store

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrUnavailable marks transient store unavailability. It is surfaced
	// as-is; retrying is the caller's decision and nothing in this module
	// retries.
	ErrUnavailable = errors.New("store temporarily unavailable")

	// ErrNotInitialized marks missing credentials or configuration. It is
	// fatal at startup.
	ErrNotInitialized = errors.New("store not initialized")
)

// IndexError reports a query that needs a composite index the store does not
// have. The store's security model does not allow creating indexes from
// here, so the operation aborts and Hint carries the remediation link
// scraped from the diagnostic text, verbatim, for the operator to act on.
type IndexError struct {
	Hint string
	Err  error
}

func (e *IndexError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("composite index required (create it here: %s): %v", e.Hint, e.Err)
	}
	return fmt.Sprintf("composite index required: %v", e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// NewIndexError wraps a store failure as an IndexError, extracting the
// remediation hint from its message.
func NewIndexError(err error) *IndexError {
	return &IndexError{Hint: ExtractIndexHint(err.Error()), Err: err}
}

// Error is the catch-all wrapper for store failures that fit no other kind.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Index creation links embedded in diagnostics either carry a
// create_composite= parameter or point at an /indexes? console page.
var (
	createCompositeRe = regexp.MustCompile(`https?://[^\s"')]*create_composite=[^\s"')]+`)
	indexesPageRe     = regexp.MustCompile(`https?://[^\s"')]*/indexes\?[^\s"')]+`)
)

// ExtractIndexHint scans diagnostic text for an index-creation link and
// returns it verbatim, or "" when none is recognizable.
func ExtractIndexHint(text string) string {
	if m := createCompositeRe.FindString(text); m != "" {
		return m
	}
	if m := indexesPageRe.FindString(text); m != "" {
		return m
	}
	return ""
}
