package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv is an isolated config and data directory pair.
type testEnv struct {
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	return testEnv{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// run executes the CLI and returns stdout, stderr and the exit code.
func (e testEnv) run(t *testing.T, argv ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)
	a.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }
	a.newLogger = func(bool, string) (*zap.Logger, error) { return zap.NewNop(), nil }
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, argv...)
	code := run(full, a)
	return stdout.String(), stderr.String(), code
}

func (e testEnv) mustRun(t *testing.T, argv ...string) string {
	t.Helper()
	out, errOut, code := e.run(t, argv...)
	require.Equal(t, exitSuccess, code, "stderr: %s", errOut)
	return out
}

type listResult struct {
	Rows       []map[string]any `json:"rows"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
}

func (e testEnv) list(t *testing.T, argv ...string) listResult {
	t.Helper()
	out := e.mustRun(t, append(argv, "--json")...)
	var res listResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	return res
}

func TestRootCommandTree(t *testing.T) {
	root := newApp(io.Discard, io.Discard).rootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"version", "init", "invoices", "stock", "purchases", "budget", "report"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config-dir", "data-dir", "json", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersion(t *testing.T) {
	out := newTestEnv(t).mustRun(t, "version")
	assert.Contains(t, out, "buxgalter v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "init")
	assert.Contains(t, out, "buxgalter initialized")
	assert.Contains(t, out, env.dataDir)

	cfg, err := os.ReadFile(filepath.Join(env.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "backend: sqlite")
	assert.Contains(t, string(cfg), "page_size: 10")
	assert.Contains(t, string(cfg), "vat_rate: 12")

	for _, name := range []string{"invoices", "stock", "purchases", "budget"} {
		_, err := os.Stat(filepath.Join(env.dataDir, name+".jsonl"))
		assert.NoError(t, err, name)
	}

	// A second init keeps the edited config.
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte("backend: sqlite\npage_size: 5\n"), 0o644))
	env.mustRun(t, "init")
	cfg, err = os.ReadFile(filepath.Join(env.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "backend: sqlite\npage_size: 5\n", string(cfg))
}

func TestInvoicesList(t *testing.T) {
	env := newTestEnv(t)

	t.Run("first page of seed data", func(t *testing.T) {
		res := env.list(t, "invoices", "list")
		assert.Equal(t, 25, res.TotalItems)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, 1, res.Page)
		assert.Len(t, res.Rows, 10)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		res := env.list(t, "invoices", "list", "--search", "baraka")
		assert.Equal(t, 3, res.TotalItems)
		assert.Equal(t, 1, res.TotalPages)
		for _, row := range res.Rows {
			assert.Equal(t, "Baraka Savdo", row["counterparty"])
		}
	})

	t.Run("page is clamped", func(t *testing.T) {
		res := env.list(t, "invoices", "list", "--page", "99")
		assert.Equal(t, 3, res.Page)
		assert.Len(t, res.Rows, 5)
	})

	t.Run("filter and sort", func(t *testing.T) {
		res := env.list(t, "invoices", "list", "--filter", "status=paid", "--sort", "total", "--desc", "--page-size", "50")
		require.Equal(t, 5, res.TotalItems)
		prev := res.Rows[0]["total"].(float64)
		for _, row := range res.Rows {
			assert.Equal(t, "paid", row["status"])
			assert.LessOrEqual(t, row["total"].(float64), prev)
			prev = row["total"].(float64)
		}
	})

	t.Run("filter all is no constraint", func(t *testing.T) {
		res := env.list(t, "invoices", "list", "--filter", "status=all")
		assert.Equal(t, 25, res.TotalItems)
	})

	t.Run("table output has a footer", func(t *testing.T) {
		out := env.mustRun(t, "invoices", "list", "--page-size", "5")
		assert.Contains(t, out, "Counterparty")
		assert.Contains(t, out, "page 1 of 5, 25 rows")
	})

	t.Run("csv output", func(t *testing.T) {
		out := env.mustRun(t, "invoices", "list", "--csv")
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Equal(t, "id,number,counterparty,status,issued_at,due_at,total", lines[0])
		assert.Len(t, lines, 11)
	})
}

func TestInvoicesLifecycle(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "invoices", "add", "--counterparty", "Chilonzor Savdo", "--total", "112000", "--json")
	var added map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &added), out)
	id, _ := added["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "INV-0026", added["number"])
	assert.Equal(t, "draft", added["status"])
	assert.Equal(t, float64(12), added["vat_rate"])
	assert.True(t, strings.HasPrefix(added["due_at"].(string), "2026-11-13"))

	res := env.list(t, "invoices", "list", "--search", "chilonzor")
	require.Equal(t, 1, res.TotalItems)

	out = env.mustRun(t, "invoices", "update", id, "status=paid", "total=224000")
	assert.Contains(t, out, "updated "+id)
	res = env.list(t, "invoices", "list", "--search", "chilonzor")
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "paid", res.Rows[0]["status"])
	assert.Equal(t, float64(224000), res.Rows[0]["total"])

	out = env.mustRun(t, "invoices", "delete", id)
	assert.Contains(t, out, "deleted "+id)
	res = env.list(t, "invoices", "list", "--search", "chilonzor")
	assert.Zero(t, res.TotalItems)
}

func TestOtherTables(t *testing.T) {
	env := newTestEnv(t)

	stock := env.list(t, "stock", "list", "--filter", "warehouse=Asosiy")
	assert.Equal(t, 6, stock.TotalItems)

	env.mustRun(t, "purchases", "add", "--supplier", "Guruch ta'minotchisi", "--po-amount", "500000")
	purchases := env.list(t, "purchases", "list", "--search", "PO-011")
	require.Equal(t, 1, purchases.TotalItems)
	assert.Equal(t, "open", purchases.Rows[0]["status"])

	env.mustRun(t, "budget", "add", "category=Soliq", "planned=1000", "actual=1500")
	budget := env.list(t, "budget", "list", "--search", "soliq")
	require.Equal(t, 1, budget.TotalItems)
	assert.Equal(t, "2026-10", budget.Rows[0]["period"])
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)

	t.Run("vat", func(t *testing.T) {
		var r map[string]float64
		require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "report", "vat", "--json")), &r))
		assert.Greater(t, r["output_tax"], float64(0))
		assert.GreaterOrEqual(t, r["payable"], float64(0))
		assert.Equal(t, max(0, r["output_tax"]-r["input_tax"]), r["payable"])
	})

	t.Run("aging has every bucket", func(t *testing.T) {
		var rows []map[string]any
		require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "report", "aging", "--as-of", "2026-10-01", "--json")), &rows))
		require.Len(t, rows, 4)
		assert.Equal(t, "0-30", rows[0]["bucket"])
		assert.Equal(t, "90+", rows[3]["bucket"])
	})

	t.Run("match covers every outcome", func(t *testing.T) {
		var rows []map[string]any
		require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "report", "match", "--json")), &rows))
		require.Len(t, rows, 10)
		seen := map[string]bool{}
		for _, row := range rows {
			seen[row["status"].(string)] = true
		}
		assert.True(t, seen["match"] && seen["variance"] && seen["missing"])
	})

	t.Run("cashflow", func(t *testing.T) {
		var days []cashFlowDay
		require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "report", "cashflow", "--days", "5", "--json")), &days))
		require.Len(t, days, 5)
		assert.Equal(t, "2026-10-14", days[0].Date)
		assert.Equal(t, 4, days[4].Day)
	})

	t.Run("text reports", func(t *testing.T) {
		assert.Contains(t, env.mustRun(t, "report", "vat"), "VAT payable")
		assert.Contains(t, env.mustRun(t, "report", "valuation"), "Stock valuation")
		assert.Contains(t, env.mustRun(t, "report", "budget"), "Marketing")
	})
}

func TestExitCodes(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"unknown command", []string{"ledger"}, exitUserError},
		{"unknown flag", []string{"invoices", "list", "--colour"}, exitUserError},
		{"missing arguments", []string{"invoices", "delete"}, exitUserError},
		{"unknown id", []string{"invoices", "delete", "0192f1c4-0000-7000-8000-000000000000"}, exitUserError},
		{"validation failure", []string{"invoices", "add", "--total", "5"}, exitUserError},
		{"bad amount", []string{"invoices", "add", "--counterparty", "X", "--total", "lots"}, exitUserError},
		{"unknown sort key", []string{"invoices", "list", "--sort", "colour"}, exitUserError},
		{"malformed filter", []string{"invoices", "list", "--filter", "status"}, exitUserError},
		{"bad page size", []string{"invoices", "list", "--page-size", "-1"}, exitUserError},
		{"temporary id", []string{"invoices", "update", "tmp-1", "status=paid"}, exitUserError},
		{"bad date", []string{"report", "aging", "--as-of", "yesterday"}, exitUserError},
		{"negative days", []string{"report", "cashflow", "--days", "-1"}, exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := env.run(t, tt.argv...)
			assert.Equal(t, tt.want, code, "stderr: %s", stderr)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte("backend: sqlite\nvat_rate: 150\n"), 0o644))

	_, stderr, code := env.run(t, "invoices", "list")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "vat rate")
}

func TestNextNumber(t *testing.T) {
	assert.Equal(t, "INV-0001", nextNumber("INV-", 4, nil))
	assert.Equal(t, "INV-0026", nextNumber("INV-", 4, []string{"INV-0025", "INV-0003", "X-99", "INV-abc"}))
	assert.Equal(t, "PO-011", nextNumber("PO-", 3, []string{"PO-010"}))
}
