package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/buxgalter/internal/sqlite"
	"github.com/mesh-intelligence/buxgalter/pkg/asyncop"
	"github.com/mesh-intelligence/buxgalter/pkg/optimistic"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

func openStore(t *testing.T, seed bool) types.Cupboard {
	t.Helper()
	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{
		Backend:  types.BackendSQLite,
		DataDir:  t.TempDir(),
		SkipSeed: !seed,
	}))
	t.Cleanup(func() { _ = store.Detach() })
	return store
}

func draftInvoice(counterparty string) types.Invoice {
	return types.Invoice{
		Number:       "INV-9000",
		Counterparty: counterparty,
		Status:       types.InvoiceDraft,
		Total:        112000,
		VATRate:      12,
		IssuedAt:     time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestWorkspace_LoadAll(t *testing.T) {
	ws, err := New(openStore(t, true), types.Config{Backend: types.BackendSQLite}, zap.NewNop())
	require.NoError(t, err)

	snap, err := ws.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Invoices, 25)
	assert.NotEmpty(t, snap.Stock)
	assert.NotEmpty(t, snap.Purchases)
	assert.NotEmpty(t, snap.Budget)
	assert.Equal(t, snap.Invoices, ws.Invoices.Items())
	assert.True(t, ws.Invoices.LoadState().IsSuccess())
	assert.Equal(t, types.DefaultPageSize, ws.Config().PageSize)
}

func TestWorkspace_NewRequiresAttachedStore(t *testing.T) {
	_, err := New(sqlite.NewBackend(), types.Config{}, nil)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
}

func TestCollection_AddUpdateRemove(t *testing.T) {
	ctx := context.Background()
	ws, err := New(openStore(t, false), types.Config{Backend: types.BackendSQLite}, zap.NewNop())
	require.NoError(t, err)
	_, err = ws.Invoices.Load(ctx)
	require.NoError(t, err)

	added, err := ws.Invoices.Add(ctx, draftInvoice("Baraka Savdo"))
	require.NoError(t, err)
	assert.False(t, optimistic.IsTempID(added.InvoiceID))
	require.Len(t, ws.Invoices.Items(), 1)

	updated, err := ws.Invoices.Update(ctx, added.InvoiceID, types.Patch{"status": "sent", "total": "224000"})
	require.NoError(t, err)
	assert.Equal(t, types.InvoiceSent, updated.Status)
	assert.Equal(t, int64(224000), updated.Total)

	reloaded, err := ws.Invoices.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, int64(224000), reloaded[0].Total)

	require.NoError(t, ws.Invoices.Remove(ctx, added.InvoiceID))
	assert.Empty(t, ws.Invoices.Items())
	reloaded, err = ws.Invoices.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, reloaded)
}

func TestCollection_AddRejectsInvalidDraft(t *testing.T) {
	ws, err := New(openStore(t, false), types.Config{Backend: types.BackendSQLite}, zap.NewNop())
	require.NoError(t, err)

	_, err = ws.Invoices.Add(context.Background(), types.Invoice{Status: "lost", Total: -1})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"number", "counterparty", "status", "total"}, verr.Fields)
	assert.Empty(t, ws.Invoices.Items())
}

func TestCollection_UpdateRejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	ws, err := New(openStore(t, false), types.Config{Backend: types.BackendSQLite}, zap.NewNop())
	require.NoError(t, err)
	added, err := ws.Invoices.Add(ctx, draftInvoice("Orient Trade"))
	require.NoError(t, err)

	_, err = ws.Invoices.Update(ctx, added.InvoiceID, types.Patch{"status": "lost"})
	assert.ErrorIs(t, err, types.ErrInvalidStatus)

	_, err = ws.Invoices.Update(ctx, added.InvoiceID, types.Patch{"total": -5})
	var perr *optimistic.PersistenceError
	require.ErrorAs(t, err, &perr, "validation runs in persist and rolls back")
	assert.Equal(t, int64(112000), ws.Invoices.Items()[0].Total)
}

// failingTable serves Fetch from rows and fails every write.
type failingTable struct {
	rows []types.Record
	err  error
}

func (f *failingTable) Get(id string) (types.Record, error) {
	for _, r := range f.rows {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return nil, types.ErrNotFound
}
func (f *failingTable) Set(string, types.Record) (string, error) { return "", f.err }
func (f *failingTable) Delete(string) error                      { return f.err }
func (f *failingTable) Fetch(map[string]any) ([]types.Record, error) {
	return f.rows, nil
}

func TestCollection_RollbackIsLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)
	boom := errors.New("disk full")
	existing := draftInvoice("Baraka Savdo").WithID("inv-1")
	table := &failingTable{rows: []types.Record{existing}, err: boom}

	c := NewCollection[types.Invoice](types.TableInvoices, table, zap.New(core), optimistic.MessagesUZ)
	_, err := c.Load(ctx)
	require.NoError(t, err)

	_, err = c.Add(ctx, draftInvoice("Orient Trade"))
	var perr *optimistic.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, optimistic.MessagesUZ.Save, err.Error())
	assert.ErrorIs(t, err, boom)

	err = c.Remove(ctx, "inv-1")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, optimistic.MessagesUZ.Delete, err.Error())
	assert.Equal(t, []types.Invoice{existing}, c.Items())

	rollbacks := logs.FilterMessage("mutation rolled back").All()
	require.Len(t, rollbacks, 2)
	assert.Equal(t, "add", rollbacks[0].ContextMap()["op"])
	assert.Equal(t, "remove", rollbacks[1].ContextMap()["op"])
	assert.Equal(t, int64(2), int64(logs.FilterMessage("load state").Len()+logs.FilterMessage("load finished").Len()))
}

func TestCollection_LoadFailureKeepsState(t *testing.T) {
	store := openStore(t, true)
	ws, err := New(store, types.Config{Backend: types.BackendSQLite}, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()
	_, err = ws.Stock.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Detach())
	_, err = ws.Stock.Load(ctx)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)

	state := ws.Stock.LoadState()
	assert.Equal(t, asyncop.StatusError, state.Status)
	assert.True(t, state.HasData, "stale rows survive a failed reload")
	assert.NotEmpty(t, ws.Stock.Items())
}

func TestCollection_LoadHonorsCancellation(t *testing.T) {
	ws, err := New(openStore(t, true), types.Config{Backend: types.BackendSQLite}, zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ws.LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
