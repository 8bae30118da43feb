package tableview

import (
	"errors"
	"maps"
	"slices"
)

// Order is a sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// FilterAll is the filter value that places no constraint on a field.
const FilterAll = "all"

// DefaultPageSize is used by callers that have no configured page size.
const DefaultPageSize = 10

// ErrInvalidPageSize is returned when a view is built with a page size
// below one.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Sort names the field to order by and its direction.
type Sort struct {
	Key   string `json:"key"`
	Order Order  `json:"order"`
}

// Config describes one rendering of a collection. Page is 1-based.
type Config struct {
	SearchText string            `json:"search_text"`
	SearchKeys []string          `json:"search_keys"`
	Filters    map[string]string `json:"filters"`
	Sort       *Sort             `json:"sort,omitempty"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

// Clone returns a deep copy so callers can hold a Config across renders.
func (c Config) Clone() Config {
	c.SearchKeys = slices.Clone(c.SearchKeys)
	c.Filters = maps.Clone(c.Filters)
	if c.Sort != nil {
		s := *c.Sort
		c.Sort = &s
	}
	return c
}

// Result is the computed page.
type Result[T any] struct {
	Rows       []T `json:"rows"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	// Page is the effective page after clamping Config.Page.
	Page int `json:"page"`
}
