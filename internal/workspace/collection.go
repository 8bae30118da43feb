// Package workspace binds the storage tables to the list controllers. Each
// Collection loads a table through an asyncop.Operation and mutates it
// through an optimistic.List whose persist calls write to the table.
package workspace

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/buxgalter/pkg/asyncop"
	"github.com/mesh-intelligence/buxgalter/pkg/optimistic"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// Collection is the loaded, editable view of one table.
type Collection[T types.Mutable[T]] struct {
	name   string
	table  types.Table
	logger *zap.Logger
	load   *asyncop.Operation[[]T]
	list   *optimistic.List[T]
}

// NewCollection wraps table. Failure messages come from msgs.
func NewCollection[T types.Mutable[T]](name string, table types.Table, logger *zap.Logger, msgs optimistic.Messages) *Collection[T] {
	c := &Collection[T]{
		name:   name,
		table:  table,
		logger: logger.Named(name),
		list:   optimistic.New[T](nil, optimistic.WithMessages(msgs)),
	}
	c.load = asyncop.New(asyncop.WithObserver(c.observeLoad))
	return c
}

func (c *Collection[T]) observeLoad(s asyncop.State[[]T]) {
	switch s.Status {
	case asyncop.StatusSuccess:
		c.logger.Debug("load finished", zap.Int("rows", len(s.Data)))
	case asyncop.StatusError:
		c.logger.Warn("load failed", zap.String("error", s.Err), zap.Bool("stale_data", s.HasData))
	default:
		c.logger.Debug("load state", zap.String("status", string(s.Status)))
	}
}

// Name returns the table name.
func (c *Collection[T]) Name() string { return c.name }

// Load fetches every row and replaces the confirmed list.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	items, err := c.load.Execute(ctx, c.fetchAll)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.name, err)
	}
	c.list.Replace(items)
	return items, nil
}

// LoadState reports the last load outcome.
func (c *Collection[T]) LoadState() asyncop.State[[]T] {
	return c.load.State()
}

// Items returns the list as the user sees it, pending mutations included.
func (c *Collection[T]) Items() []T {
	return c.list.Items()
}

// Add validates draft and creates it.
func (c *Collection[T]) Add(ctx context.Context, draft T) (T, error) {
	if err := types.Validate(draft); err != nil {
		var zero T
		return zero, err
	}
	item, err := c.list.Add(ctx, draft, c.persistAdd)
	if err != nil {
		c.logFailure(err)
		return item, err
	}
	c.logger.Info("added", zap.String("id", item.RecordID()))
	return item, nil
}

// Update applies patch to the row with id.
func (c *Collection[T]) Update(ctx context.Context, id string, patch types.Patch) (T, error) {
	item, err := c.list.Update(ctx, id, patch, c.persistUpdate)
	if err != nil {
		c.logFailure(err)
		return item, err
	}
	c.logger.Info("updated", zap.String("id", id), zap.Strings("fields", patch.Keys()))
	return item, nil
}

// Remove deletes the row with id.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	if err := c.list.Remove(ctx, id, c.persistRemove); err != nil {
		c.logFailure(err)
		return err
	}
	c.logger.Info("removed", zap.String("id", id))
	return nil
}

func (c *Collection[T]) logFailure(err error) {
	var perr *optimistic.PersistenceError
	if errors.As(err, &perr) {
		c.logger.Warn("mutation rolled back",
			zap.String("op", string(perr.Op)),
			zap.String("id", perr.ID),
			zap.Error(perr.Err))
	}
}

func (c *Collection[T]) fetchAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := c.table.Fetch(nil)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(recs))
	for _, rec := range recs {
		item, err := c.cast(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Collection[T]) persistAdd(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	id, err := c.table.Set("", item)
	if err != nil {
		return zero, err
	}
	return c.get(id)
}

func (c *Collection[T]) persistUpdate(ctx context.Context, id string, patch types.Patch) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	current, err := c.get(id)
	if err != nil {
		return zero, err
	}
	updated, err := current.Apply(patch)
	if err != nil {
		return zero, err
	}
	if err := types.Validate(updated); err != nil {
		return zero, err
	}
	if _, err := c.table.Set(id, updated); err != nil {
		return zero, err
	}
	return updated, nil
}

func (c *Collection[T]) persistRemove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.table.Delete(id)
}

func (c *Collection[T]) get(id string) (T, error) {
	rec, err := c.table.Get(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.cast(rec)
}

func (c *Collection[T]) cast(rec types.Record) (T, error) {
	item, ok := rec.(T)
	if !ok {
		return item, fmt.Errorf("%s row has type %T: %w", c.name, rec, types.ErrInvalidData)
	}
	return item, nil
}
