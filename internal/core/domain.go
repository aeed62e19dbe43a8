package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

type (
	// Kind discriminates expense-type from income-type entries and categories.
	Kind string

	// Entry is a single expense or income record. Append-only: entries are
	// never edited or deleted once written.
	Entry struct {
		ID          string
		UserID      string
		Date        Day
		Category    string
		Amount      float64
		Description string
		CreatedAt   time.Time
	}

	// Category is a named bucket owned by one user for one kind.
	Category struct {
		ID     string
		UserID string
		Name   string
		Kind   Kind
	}

	// User is created once at sign-up and never updated afterwards.
	User struct {
		ID           string
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	// MonthlyBudget is the single per-user budget for one month.
	MonthlyBudget struct {
		UserID string
		Month  Month
		Amount float64
	}

	// CategoryBudget is the single per-user budget for one month+category.
	CategoryBudget struct {
		UserID   string
		Month    Month
		Category string
		Amount   float64
	}
)

var (
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyUserID      = errors.New("empty user id")
	ErrEmptyUsername    = errors.New("empty username")
	ErrEmptyPassword    = errors.New("empty password")
	ErrDescriptionSize  = errors.New("description too long (max 200 characters)")
)

func (k Kind) Valid() bool {
	switch k {
	case KindExpense, KindIncome:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// Validate checks the entry against the given amount policy. The date, the
// category and the amount must all be valid; the description is optional but
// capped in length.
func (e Entry) Validate(policy AmountPolicy) error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := policy.Check(e.Amount); err != nil {
		return err
	}
	if len(e.Description) > 200 {
		return ErrDescriptionSize
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}
