package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the calendar date format accepted in patches and CLI flags.
const DateLayout = "2006-01-02"

// Patch values arrive either typed (from Go callers) or as strings and JSON
// numbers (from the CLI). The helpers below coerce both into field types.

func patchString(key string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("%s: expected string, got %T: %w", key, v, ErrInvalidData)
	}
}

func patchInt64(key string, v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%s: %v is not a whole amount: %w", key, n, ErrInvalidData)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, ErrInvalidData)
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not an integer: %w", key, n, ErrInvalidData)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%s: expected integer, got %T: %w", key, v, ErrInvalidData)
	}
}

func patchFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, ErrInvalidData)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number: %w", key, n, ErrInvalidData)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s: expected number, got %T: %w", key, v, ErrInvalidData)
	}
}

func patchTime(key string, v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		if d, err := time.Parse(DateLayout, t); err == nil {
			return d, nil
		}
		d, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %q is not a date: %w", key, t, ErrInvalidData)
		}
		return d, nil
	default:
		return time.Time{}, fmt.Errorf("%s: expected date, got %T: %w", key, v, ErrInvalidData)
	}
}

func unknownField(key string) error {
	return fmt.Errorf("%q: %w", key, ErrUnknownField)
}
