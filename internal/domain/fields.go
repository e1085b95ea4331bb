package domain

import (
	"fmt"
	"time"

	"grima/internal/errors"
)

// Field extractors shared by Order and Item deserialization. Mappings often
// originate from decoded JSON, where every number arrives as float64, so the
// numeric extractors accept both native Go integers and integral floats.

func missing(key string, details *[]errors.ValidationDetail) {
	*details = append(*details, errors.ValidationDetail{Field: key, Message: "missing required field"})
}

func wrongType(key, want string, got any, details *[]errors.ValidationDetail) {
	*details = append(*details, errors.ValidationDetail{
		Field:   key,
		Message: fmt.Sprintf("must be %s, got %T", want, got),
	})
}

func stringField(data map[string]any, key string, details *[]errors.ValidationDetail) string {
	raw, ok := data[key]
	if !ok {
		missing(key, details)
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		wrongType(key, "a string", raw, details)
		return ""
	}
	return s
}

func optionalStringField(data map[string]any, key string, details *[]errors.ValidationDetail) *string {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		wrongType(key, "a string", raw, details)
		return nil
	}
	return &s
}

func intField(data map[string]any, key string, details *[]errors.ValidationDetail) int {
	raw, ok := data[key]
	if !ok {
		missing(key, details)
		return 0
	}
	n, ok := asInt64(raw)
	if !ok {
		wrongType(key, "an integer", raw, details)
		return 0
	}
	return int(n)
}

func uintField(data map[string]any, key string, details *[]errors.ValidationDetail) uint {
	raw, ok := data[key]
	if !ok {
		missing(key, details)
		return 0
	}
	n, ok := asInt64(raw)
	if !ok || n < 0 {
		wrongType(key, "a non-negative integer", raw, details)
		return 0
	}
	return uint(n)
}

func floatField(data map[string]any, key string, details *[]errors.ValidationDetail) float64 {
	raw, ok := data[key]
	if !ok {
		missing(key, details)
		return 0
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	default:
		wrongType(key, "a number", raw, details)
		return 0
	}
}

func dateField(data map[string]any, key string, details *[]errors.ValidationDetail) time.Time {
	raw, ok := data[key]
	if !ok {
		missing(key, details)
		return time.Time{}
	}
	return parseDate(raw, key, details)
}

func optionalDateField(data map[string]any, key string, details *[]errors.ValidationDetail) *time.Time {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil
	}
	t := parseDate(raw, key, details)
	if t.IsZero() {
		return nil
	}
	return &t
}

func parseDate(raw any, key string, details *[]errors.ValidationDetail) time.Time {
	switch v := raw.(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			*details = append(*details, errors.ValidationDetail{
				Field:   key,
				Message: fmt.Sprintf("must be a %s date", dateLayout),
			})
			return time.Time{}
		}
		return t
	default:
		wrongType(key, "a date string", raw, details)
		return time.Time{}
	}
}

func asInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case float32:
		if v != float32(int64(v)) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
