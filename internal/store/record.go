package store

import (
	"encoding/json"
	"strconv"
	"time"
)

// IDField is the injected key every driver sets on returned records.
const IDField = "_id"

// Record is a flat view of one stored document with the id injected under
// IDField.
type Record map[string]any

// ID returns the injected record id.
func (r Record) ID() string {
	return r.Str(IDField)
}

// Str returns the field as a string, or "" when missing or not a string.
func (r Record) Str(field string) string {
	if s, ok := r[field].(string); ok {
		return s
	}
	return ""
}

// Float coerces the field to a float64. Non-numeric and missing values come
// back as 0.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Time returns the field as a time.Time, accepting native times and RFC 3339
// strings; the zero time for anything else.
func (r Record) Time(field string) time.Time {
	switch v := r[field].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}
