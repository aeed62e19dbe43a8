package store

import (
	"sort"
	"time"
)

// Match evaluates all filters conjunctively against a record. Drivers that
// cannot push predicates down to their engine (memory, sqlite) share this
// evaluation so operator semantics stay identical across backends.
func Match(r Record, filters []Filter) bool {
	for _, f := range filters {
		v, ok := r[f.Field]
		if !ok {
			return false
		}
		c, comparable := Compare(v, f.Value)
		if !comparable {
			return false
		}
		switch f.Op {
		case OpEqual:
			if c != 0 {
				return false
			}
		case OpLess:
			if c >= 0 {
				return false
			}
		case OpLessOrEqual:
			if c > 0 {
				return false
			}
		case OpGreater:
			if c <= 0 {
				return false
			}
		case OpGreaterOrEqual:
			if c < 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Compare orders two stored values. Strings compare lexicographically,
// numbers numerically, times chronologically. Mixed or unsupported types are
// not comparable.
func Compare(a, b any) (int, bool) {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case at.Before(bt):
			return -1, true
		case at.After(bt):
			return 1, true
		default:
			return 0, true
		}
	}
	af, ok := asFloat(a)
	if !ok {
		return 0, false
	}
	bf, ok := asFloat(b)
	if !ok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// SortRecords sorts ascending by the field, stably, with records missing the
// field last.
func SortRecords(recs []Record, field string) {
	sort.SliceStable(recs, func(i, j int) bool {
		vi, oki := recs[i][field]
		vj, okj := recs[j][field]
		if !oki || !okj {
			return oki && !okj
		}
		c, ok := Compare(vi, vj)
		return ok && c < 0
	})
}
