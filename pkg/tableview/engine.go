package tableview

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// Compute filters, sorts and paginates items according to cfg. It never
// modifies items and returns the same Result for the same inputs.
// Compute panics if cfg.PageSize is below one; validate configurations
// with NewView or Config.Validate first.
func Compute[T types.Record](items []T, cfg Config) Result[T] {
	return compute(items, cfg, newComparer(language.Und))
}

// Validate reports whether cfg can be computed.
func (c Config) Validate() error {
	if c.PageSize < 1 {
		return ErrInvalidPageSize
	}
	return nil
}

// TotalPages returns max(1, ceil(totalItems/pageSize)).
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 {
		panic(ErrInvalidPageSize)
	}
	pages := (totalItems + pageSize - 1) / pageSize
	return max(1, pages)
}

// ClampPage returns page limited to [1, totalPages].
func ClampPage(page, totalPages int) int {
	return min(max(page, 1), max(totalPages, 1))
}

func compute[T types.Record](items []T, cfg Config, c *comparer) Result[T] {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	matched := filter(items, cfg)
	if cfg.Sort != nil && cfg.Sort.Key != "" {
		sortRecords(matched, *cfg.Sort, c)
	}

	total := len(matched)
	pages := TotalPages(total, cfg.PageSize)
	page := ClampPage(cfg.Page, pages)

	start := min((page-1)*cfg.PageSize, total)
	end := min(start+cfg.PageSize, total)

	return Result[T]{
		Rows:       slices.Clone(matched[start:end]),
		TotalItems: total,
		TotalPages: pages,
		Page:       page,
	}
}

// filter keeps records that match the search text and every active filter.
// The output preserves input order and never aliases items.
func filter[T types.Record](items []T, cfg Config) []T {
	needle := strings.ToLower(cfg.SearchText)
	out := make([]T, 0, len(items))
	for _, rec := range items {
		if needle != "" && !matchesSearch(rec, cfg.SearchKeys, needle) {
			continue
		}
		if !matchesFilters(rec, cfg.Filters) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesSearch(rec types.Record, keys []string, needle string) bool {
	for _, key := range keys {
		v, ok := rec.Field(key)
		if !ok {
			continue
		}
		if containsFold(stringify(v), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(rec types.Record, filters map[string]string) bool {
	for key, want := range filters {
		if want == FilterAll {
			continue
		}
		v, ok := rec.Field(key)
		if !ok || stringify(v) != want {
			return false
		}
	}
	return true
}

func sortRecords[T types.Record](rows []T, s Sort, c *comparer) {
	slices.SortStableFunc(rows, func(a, b T) int {
		av, _ := a.Field(s.Key)
		bv, _ := b.Field(s.Key)
		r := c.compare(av, bv)
		if s.Order == Desc {
			return -r
		}
		return r
	})
}
