package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/buxgalter/pkg/metrics"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

func TestSeedDataIsDeterministic(t *testing.T) {
	assert.Equal(t, SeedData(), SeedData())
}

func TestSeedDataShape(t *testing.T) {
	s := SeedData()
	require.Len(t, s.Invoices, 25)
	assert.NotEmpty(t, s.Stock)
	assert.NotEmpty(t, s.Purchases)
	assert.NotEmpty(t, s.Budget)

	baraka := 0
	for _, inv := range s.Invoices {
		assert.NoError(t, types.Validate(inv))
		if inv.Counterparty == "Baraka Savdo" {
			baraka++
		}
	}
	assert.Equal(t, 3, baraka)

	seen := map[metrics.MatchStatus]bool{}
	for _, row := range metrics.MatchPurchases(s.Purchases) {
		seen[row.Status] = true
	}
	assert.True(t, seen[metrics.MatchOK])
	assert.True(t, seen[metrics.MatchVariance])
	assert.True(t, seen[metrics.MatchMissing])
}

func TestSeedOnFirstAttach(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	invoices, err := invoiceTable(t, b).Fetch(nil)
	require.NoError(t, err)
	require.Len(t, invoices, 25)
	assert.Equal(t, "INV-0001", invoices[0].(types.Invoice).Number)
	require.NoError(t, b.Detach())

	// Reattaching loads the JSONL files and does not seed twice.
	b2 := NewBackend()
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()
	invoices, err = invoiceTable(t, b2).Fetch(nil)
	require.NoError(t, err)
	assert.Len(t, invoices, 25)
}
