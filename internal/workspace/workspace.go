package workspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/buxgalter/pkg/optimistic"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// Workspace holds one Collection per ledger table.
type Workspace struct {
	Invoices  *Collection[types.Invoice]
	Stock     *Collection[types.StockItem]
	Purchases *Collection[types.PurchaseOrder]
	Budget    *Collection[types.BudgetLine]

	config types.Config
	logger *zap.Logger
}

// New builds a Workspace over an attached store.
func New(store types.Cupboard, config types.Config, logger *zap.Logger) (*Workspace, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	config = config.WithDefaults()
	msgs := optimistic.MessagesFor(config.Language)

	tables := make(map[string]types.Table, len(types.StandardTableNames))
	for _, name := range types.StandardTableNames {
		t, err := store.GetTable(name)
		if err != nil {
			return nil, fmt.Errorf("opening table %s: %w", name, err)
		}
		tables[name] = t
	}

	return &Workspace{
		Invoices:  NewCollection[types.Invoice](types.TableInvoices, tables[types.TableInvoices], logger, msgs),
		Stock:     NewCollection[types.StockItem](types.TableStock, tables[types.TableStock], logger, msgs),
		Purchases: NewCollection[types.PurchaseOrder](types.TablePurchases, tables[types.TablePurchases], logger, msgs),
		Budget:    NewCollection[types.BudgetLine](types.TableBudget, tables[types.TableBudget], logger, msgs),
		config:    config,
		logger:    logger,
	}, nil
}

// Config returns the configuration the workspace was built with, with
// defaults applied.
func (w *Workspace) Config() types.Config { return w.config }

// Snapshot is the loaded content of every table.
type Snapshot struct {
	Invoices  []types.Invoice
	Stock     []types.StockItem
	Purchases []types.PurchaseOrder
	Budget    []types.BudgetLine
}

// LoadAll loads every table in parallel. The first failure cancels the
// remaining loads.
func (w *Workspace) LoadAll(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { s.Invoices, err = w.Invoices.Load(ctx); return })
	g.Go(func() (err error) { s.Stock, err = w.Stock.Load(ctx); return })
	g.Go(func() (err error) { s.Purchases, err = w.Purchases.Load(ctx); return })
	g.Go(func() (err error) { s.Budget, err = w.Budget.Load(ctx); return })
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	w.logger.Debug("workspace loaded",
		zap.Int("invoices", len(s.Invoices)),
		zap.Int("stock", len(s.Stock)),
		zap.Int("purchases", len(s.Purchases)),
		zap.Int("budget", len(s.Budget)))
	return s, nil
}
