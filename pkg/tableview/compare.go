package tableview

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// comparer orders field values. Numbers and times compare by value; all
// other values compare as strings under a numeric-aware collation, so "9"
// sorts before "10" and "INV-2" before "INV-10".
//
// A collate.Collator keeps internal buffers and is not safe for concurrent
// use; each comparer owns one and View serializes access to it.
type comparer struct {
	col *collate.Collator
}

func newComparer(tag language.Tag) *comparer {
	return &comparer{col: collate.New(tag, collate.Numeric)}
}

func (c *comparer) compare(a, b any) int {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return c.col.CompareString(stringify(a), stringify(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
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
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// stringify renders a field value the way search and filters see it.
// Dates render as YYYY-MM-DD so a filter can pin a calendar day.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.Format("2006-01-02")
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
