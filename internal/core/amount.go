package core

import "math"

// AmountPolicy decides whether negative amounts are accepted at the service
// boundary. The store itself never enforces a sign; whether refunds should be
// representable is a deployment choice, so it is an explicit knob instead of
// a hardcoded rule.
type AmountPolicy int

const (
	// RejectNegative refuses amounts below zero. This is the default and
	// matches the entry forms, which clamp at zero.
	RejectNegative AmountPolicy = iota
	// AllowNegative accepts negative amounts, e.g. for refund entries.
	AllowNegative
)

// Check validates an amount under the policy. NaN and infinities are always
// rejected.
func (p AmountPolicy) Check(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	if p == RejectNegative && amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}
