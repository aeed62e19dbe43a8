package core

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestKindValid(t *testing.T) {
	if !KindExpense.Valid() || !KindIncome.Valid() {
		t.Fatalf("expected builtin kinds to be valid")
	}
	if Kind("transfer").Valid() || Kind("").Valid() {
		t.Fatalf("expected unknown kinds to be invalid")
	}
}

func TestAmountPolicy(t *testing.T) {
	cases := []struct {
		policy AmountPolicy
		amount float64
		ok     bool
	}{
		{RejectNegative, 0, true},
		{RejectNegative, 12.5, true},
		{RejectNegative, -0.01, false},
		{AllowNegative, -12.5, true},
		{AllowNegative, 3, true},
		{RejectNegative, math.NaN(), false},
		{AllowNegative, math.NaN(), false},
		{AllowNegative, math.Inf(1), false},
	}
	for i, tc := range cases {
		err := tc.policy.Check(tc.amount)
		if tc.ok && err != nil {
			t.Fatalf("case %d: expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Date:        NewDay(2024, 5, 3),
		Category:    "Food",
		Amount:      20,
		Description: "lunch",
	}
	if err := good.Validate(RejectNegative); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Category = "  "
	if err := bad.Validate(RejectNegative); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}

	bad = good
	bad.Amount = -5
	if err := bad.Validate(RejectNegative); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if err := bad.Validate(AllowNegative); err != nil {
		t.Fatalf("refund entry should pass under AllowNegative, got %v", err)
	}

	bad = good
	bad.Date = Day{}
	if err := bad.Validate(RejectNegative); err == nil {
		t.Fatalf("expected error for zero date")
	}

	bad = good
	bad.Description = strings.Repeat("x", 201)
	if err := bad.Validate(RejectNegative); !errors.Is(err, ErrDescriptionSize) {
		t.Fatalf("expected ErrDescriptionSize, got %v", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{UserID: "u1", Name: "Food", Kind: KindExpense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Category{
		{UserID: "", Name: "Food", Kind: KindExpense},
		{UserID: "u1", Name: "", Kind: KindExpense},
		{UserID: "u1", Name: "Food", Kind: Kind("other")},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
