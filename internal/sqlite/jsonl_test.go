package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

func TestLoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		`{"id":"a","created_at":"2026-10-01T00:00:00Z","updated_at":"2026-10-01T00:00:00Z","payload":{"id":"a","number":"INV-1","counterparty":"Baraka","status":"paid","total":10},"future_field":true}`,
		``,
		`not json`,
		`{"id":"","payload":{}}`,
		`{"id":"b","created_at":"2026-10-02T00:00:00Z","updated_at":"2026-10-02T00:00:00Z","payload":{"id":"b","number":"INV-2","counterparty":"Orient","status":"sent","total":20}}`,
	}, "\n")
	require.NoError(t, os.WriteFile(jsonlPath(dir, types.TableInvoices), []byte(content), 0o644))

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	all, err := invoiceTable(t, b).Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].RecordID())

	stock, err := b.GetTable(types.TableStock)
	require.NoError(t, err)
	lots, err := stock.Fetch(nil)
	require.NoError(t, err)
	assert.Empty(t, lots, "a store with data is not seeded")
}

func TestWriteJSONLIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.jsonl")
	require.NoError(t, writeJSONL(path, nil))
	require.NoError(t, writeJSONL(path, []json.RawMessage{json.RawMessage(`{"a":1}`), json.RawMessage(`{"b":2}`)}))

	recs, err := readJSONL(path)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
