package tableview

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// row is a minimal record for engine tests.
type row struct {
	id     string
	name   string
	status string
	amount int64
	code   string
}

func (r row) RecordID() string { return r.id }

func (r row) Field(key string) (any, bool) {
	switch key {
	case "id":
		return r.id, true
	case "name":
		return r.name, true
	case "status":
		return r.status, true
	case "amount":
		return r.amount, true
	case "code":
		return r.code, true
	}
	return nil, false
}

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{id: fmt.Sprintf("r%d", i), name: fmt.Sprintf("Row %d", i), amount: int64(i)}
	}
	return rows
}

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}

func TestComputePaginationTotals(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25, 100} {
		for _, size := range []int{1, 3, 10, 50} {
			t.Run(fmt.Sprintf("n=%d size=%d", n, size), func(t *testing.T) {
				items := makeRows(n)
				first := Compute(items, Config{Page: 1, PageSize: size})
				wantPages := max(1, (n+size-1)/size)
				assert.Equal(t, wantPages, first.TotalPages)
				assert.Equal(t, n, first.TotalItems)

				seen := 0
				for p := 1; p <= first.TotalPages; p++ {
					res := Compute(items, Config{Page: p, PageSize: size})
					seen += len(res.Rows)
				}
				assert.Equal(t, n, seen, "pages must partition the collection")
			})
		}
	}
}

func TestComputeIsPure(t *testing.T) {
	items := []row{
		{id: "a", name: "Alpha", status: "paid", amount: 30},
		{id: "b", name: "Beta", status: "sent", amount: 10},
		{id: "c", name: "Gamma", status: "paid", amount: 20},
	}
	before := append([]row(nil), items...)
	cfg := Config{
		SearchText: "a",
		SearchKeys: []string{"name"},
		Filters:    map[string]string{"status": "paid"},
		Sort:       &Sort{Key: "amount", Order: Asc},
		Page:       1,
		PageSize:   10,
	}

	first := Compute(items, cfg)
	second := Compute(items, cfg)
	assert.Equal(t, first, second)
	assert.Equal(t, before, items, "Compute must not reorder its input")
	assert.Equal(t, []string{"c", "a"}, ids(first.Rows))
}

func TestComputeSearch(t *testing.T) {
	items := []row{
		{id: "1", name: "Baraka Savdo", code: "X-1"},
		{id: "2", name: "Ipak Yo'li", code: "BARAKA"},
		{id: "3", name: "Orient", code: "Z"},
	}

	tests := []struct {
		name string
		text string
		keys []string
		want []string
	}{
		{name: "empty search keeps everything", text: "", keys: []string{"name"}, want: []string{"1", "2", "3"}},
		{name: "case insensitive substring", text: "bARak", keys: []string{"name"}, want: []string{"1"}},
		{name: "any search key matches", text: "baraka", keys: []string{"name", "code"}, want: []string{"1", "2"}},
		{name: "no keys matches nothing", text: "baraka", keys: nil, want: []string{}},
		{name: "missing key is skipped", text: "orient", keys: []string{"nope", "name"}, want: []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(items, Config{SearchText: tt.text, SearchKeys: tt.keys, Page: 1, PageSize: 10})
			assert.Equal(t, tt.want, ids(res.Rows))
		})
	}
}

func TestComputeFilters(t *testing.T) {
	items := []row{
		{id: "1", status: "paid", amount: 5},
		{id: "2", status: "sent", amount: 5},
		{id: "3", status: "paid", amount: 7},
	}

	res := Compute(items, Config{Filters: map[string]string{"status": "all"}, Page: 1, PageSize: 10})
	assert.Equal(t, []string{"1", "2", "3"}, ids(res.Rows))

	res = Compute(items, Config{Filters: map[string]string{"status": "paid", "amount": "5"}, Page: 1, PageSize: 10})
	assert.Equal(t, []string{"1"}, ids(res.Rows))

	res = Compute(items, Config{Filters: map[string]string{"warehouse": "main"}, Page: 1, PageSize: 10})
	assert.Empty(t, res.Rows, "a filter on a missing field excludes the record")
}

func TestComputeNumericAwareSort(t *testing.T) {
	items := []row{
		{id: "a", code: "INV-10"},
		{id: "b", code: "INV-9"},
		{id: "c", code: "INV-100"},
		{id: "d", code: "INV-1"},
	}
	res := Compute(items, Config{Sort: &Sort{Key: "code", Order: Asc}, Page: 1, PageSize: 10})
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(res.Rows))

	res = Compute(items, Config{Sort: &Sort{Key: "code", Order: Desc}, Page: 1, PageSize: 10})
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(res.Rows))
}

func TestComputeSortsNumbersAndTimes(t *testing.T) {
	items := []row{{id: "a", amount: -5}, {id: "b", amount: 100}, {id: "c", amount: 20}}
	res := Compute(items, Config{Sort: &Sort{Key: "amount", Order: Asc}, Page: 1, PageSize: 10})
	assert.Equal(t, []string{"a", "c", "b"}, ids(res.Rows))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	invoices := []types.Invoice{
		{InvoiceID: "late", IssuedAt: base.AddDate(0, 2, 0)},
		{InvoiceID: "early", IssuedAt: base},
		{InvoiceID: "mid", IssuedAt: base.AddDate(0, 1, 0)},
	}
	got := Compute(invoices, Config{Sort: &Sort{Key: "issued_at", Order: Asc}, Page: 1, PageSize: 10})
	require.Len(t, got.Rows, 3)
	assert.Equal(t, "early", got.Rows[0].InvoiceID)
	assert.Equal(t, "late", got.Rows[2].InvoiceID)
}

func TestComputeClampsPage(t *testing.T) {
	items := makeRows(15)

	res := Compute(items, Config{Page: 9, PageSize: 10})
	assert.Equal(t, 2, res.Page)
	assert.Len(t, res.Rows, 5)

	res = Compute(items, Config{Page: 0, PageSize: 10})
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Rows, 10)

	res = Compute([]row{}, Config{Page: 3, PageSize: 10})
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.TotalPages)
	assert.Empty(t, res.Rows)
}

func TestComputeRejectsInvalidPageSize(t *testing.T) {
	assert.ErrorIs(t, Config{PageSize: 0}.Validate(), ErrInvalidPageSize)
	assert.Panics(t, func() { Compute(makeRows(3), Config{Page: 1, PageSize: 0}) })
}
