package tableview

import (
	"maps"
	"sync"

	"golang.org/x/text/language"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// View holds the configuration of one list screen. All methods are safe for
// concurrent use.
type View[T types.Record] struct {
	mu  sync.Mutex
	cfg Config
	cmp *comparer
}

// Option configures a View.
type Option func(*viewOptions)

type viewOptions struct {
	locale  language.Tag
	filters map[string]string
	sort    *Sort
}

// WithLocale sets the collation language used for string sorting.
func WithLocale(tag language.Tag) Option {
	return func(o *viewOptions) { o.locale = tag }
}

// WithFilters seeds the initial filter map.
func WithFilters(filters map[string]string) Option {
	return func(o *viewOptions) { o.filters = maps.Clone(filters) }
}

// WithSort seeds the initial sort.
func WithSort(key string, order Order) Option {
	return func(o *viewOptions) { o.sort = &Sort{Key: key, Order: order} }
}

// NewView returns a view on page 1 with no search text. It returns
// ErrInvalidPageSize when pageSize is below one.
func NewView[T types.Record](pageSize int, searchKeys []string, opts ...Option) (*View[T], error) {
	if pageSize < 1 {
		return nil, ErrInvalidPageSize
	}
	o := viewOptions{locale: language.Und}
	for _, opt := range opts {
		opt(&o)
	}
	if o.filters == nil {
		o.filters = make(map[string]string)
	}
	return &View[T]{
		cfg: Config{
			SearchKeys: append([]string(nil), searchKeys...),
			Filters:    o.filters,
			Sort:       o.sort,
			Page:       1,
			PageSize:   pageSize,
		},
		cmp: newComparer(o.locale),
	}, nil
}

// Config returns a copy of the current configuration.
func (v *View[T]) Config() Config {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cfg.Clone()
}

// SetSearch replaces the search text and returns to page 1.
func (v *View[T]) SetSearch(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.SearchText = text
	v.cfg.Page = 1
}

// SetFilter sets one filter entry and returns to page 1. FilterAll clears
// the constraint on key.
func (v *View[T]) SetFilter(key, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.Filters[key] = value
	v.cfg.Page = 1
}

// ToggleSort advances key through unsorted, ascending and descending.
// Toggling a different key starts it ascending. The page is kept.
func (v *View[T]) ToggleSort(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.cfg.Sort == nil || v.cfg.Sort.Key != key:
		v.cfg.Sort = &Sort{Key: key, Order: Asc}
	case v.cfg.Sort.Order == Asc:
		v.cfg.Sort = &Sort{Key: key, Order: Desc}
	default:
		v.cfg.Sort = nil
	}
}

// SetPage stores n as the requested page. Compute clamps it.
func (v *View[T]) SetPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.Page = n
}

// Compute renders items with the current configuration and stores the
// clamped page, so a shrinking collection never leaves the view past its
// last page.
func (v *View[T]) Compute(items []T) Result[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	res := compute(items, v.cfg, v.cmp)
	v.cfg.Page = res.Page
	return res
}
