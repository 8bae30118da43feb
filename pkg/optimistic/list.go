package optimistic

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// TempIDPrefix tags identifiers of items that have not been confirmed.
const TempIDPrefix = "tmp-"

// IsTempID reports whether id was generated for an unconfirmed item.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// AddFunc persists a new item and returns the confirmed copy with its
// server-assigned ID.
type AddFunc[T any] func(ctx context.Context, item T) (T, error)

// UpdateFunc persists a patch and returns the confirmed item.
type UpdateFunc[T any] func(ctx context.Context, id string, patch types.Patch) (T, error)

// RemoveFunc persists a deletion.
type RemoveFunc func(ctx context.Context, id string) error

// mutation is one change in the log. Each has its own token so that
// settling it touches nothing else in the log. A settled mutation stays in
// place, carrying the server's item, until every earlier one has settled.
type mutation[T types.Mutable[T]] struct {
	token   uint64
	op      Op
	id      string
	item    T           // OpAdd: the optimistic item; settled: the confirmed one
	patch   types.Patch // OpUpdate
	settled bool
}

func (m *mutation[T]) apply(items []T) []T {
	switch m.op {
	case OpAdd:
		if m.settled {
			if i := indexOf(items, m.item.RecordID()); i >= 0 {
				items[i] = m.item
				return items
			}
		}
		return append([]T{m.item}, items...)
	case OpRemove:
		return slices.DeleteFunc(items, func(it T) bool { return it.RecordID() == m.id })
	case OpUpdate:
		i := indexOf(items, m.id)
		switch {
		case i < 0:
		case m.settled:
			items[i] = m.item
		default:
			if merged, err := items[i].Apply(m.patch); err == nil {
				items[i] = merged
			}
		}
	}
	return items
}

// List is an optimistic collection. All methods are safe for concurrent use;
// persistence functions run without holding the list's lock.
type List[T types.Mutable[T]] struct {
	mu       sync.Mutex
	base     []T
	pending  []*mutation[T]
	seq      uint64
	newID    func() string
	messages Messages
}

// Option configures a List.
type Option func(*options)

type options struct {
	newID    func() string
	messages Messages
}

// WithMessages sets the user-facing failure messages.
func WithMessages(m Messages) Option {
	return func(o *options) { o.messages = m }
}

// WithIDGenerator replaces the temporary ID source. Generated IDs are
// prefixed with TempIDPrefix.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// New returns a list holding a copy of items as confirmed state.
func New[T types.Mutable[T]](items []T, opts ...Option) *List[T] {
	o := options{newID: uuid.NewString, messages: MessagesEN}
	for _, opt := range opts {
		opt(&o)
	}
	return &List[T]{
		base:     slices.Clone(items),
		newID:    o.newID,
		messages: o.messages,
	}
}

// Items returns the visible collection: confirmed items with every
// in-flight mutation applied in call order.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visibleLocked()
}

// Confirmed returns the collection without in-flight mutations.
func (l *List[T]) Confirmed() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := slices.Clone(l.base)
	for _, m := range l.pending {
		if m.settled {
			items = m.apply(items)
		}
	}
	return items
}

// Pending returns the number of in-flight mutations.
func (l *List[T]) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.pending {
		if !m.settled {
			n++
		}
	}
	return n
}

// Replace swaps the confirmed collection, as after a fresh fetch. In-flight
// mutations stay in the log and keep applying on top.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.base = slices.Clone(items)
}

// Add prepends draft under a temporary ID and calls persist with it. On
// success the confirmed item takes the temporary item's place. On failure
// the add is rolled back and a *PersistenceError is returned.
func (l *List[T]) Add(ctx context.Context, draft T, persist AddFunc[T]) (T, error) {
	item := draft.WithID(TempIDPrefix + l.newID())
	m := l.begin(&mutation[T]{op: OpAdd, id: item.RecordID(), item: item})

	var confirmed T
	err := guard(func() (err error) {
		confirmed, err = persist(ctx, item)
		return err
	})
	if err == nil && (confirmed.RecordID() == "" || IsTempID(confirmed.RecordID())) {
		err = ErrNoServerID
	}
	if err != nil {
		var zero T
		return zero, l.fail(m, err)
	}

	l.settle(m, confirmed)
	return confirmed, nil
}

// Update merges patch into the item with id and calls persist. On success
// the server's copy replaces the item. An unknown id returns
// types.ErrNotFound and an unconfirmed one ErrNotConfirmed, both without
// calling persist. A patch the item rejects returns the Apply error.
func (l *List[T]) Update(ctx context.Context, id string, patch types.Patch, persist UpdateFunc[T]) (T, error) {
	var zero T
	if IsTempID(id) {
		return zero, fmt.Errorf("update %q: %w", id, ErrNotConfirmed)
	}

	l.mu.Lock()
	visible := l.visibleLocked()
	i := indexOf(visible, id)
	if i < 0 {
		l.mu.Unlock()
		return zero, fmt.Errorf("update %q: %w", id, types.ErrNotFound)
	}
	if _, err := visible[i].Apply(patch); err != nil {
		l.mu.Unlock()
		return zero, fmt.Errorf("update %q: %w", id, err)
	}
	m := l.beginLocked(&mutation[T]{op: OpUpdate, id: id, patch: patch})
	l.mu.Unlock()

	var confirmed T
	err := guard(func() (err error) {
		confirmed, err = persist(ctx, id, patch)
		return err
	})
	if err != nil {
		return zero, l.fail(m, err)
	}

	l.settle(m, confirmed)
	return confirmed, nil
}

// Remove drops the item with id and calls persist. On failure the item
// reappears in its original position.
func (l *List[T]) Remove(ctx context.Context, id string, persist RemoveFunc) error {
	if IsTempID(id) {
		return fmt.Errorf("remove %q: %w", id, ErrNotConfirmed)
	}

	l.mu.Lock()
	if indexOf(l.visibleLocked(), id) < 0 {
		l.mu.Unlock()
		return fmt.Errorf("remove %q: %w", id, types.ErrNotFound)
	}
	m := l.beginLocked(&mutation[T]{op: OpRemove, id: id})
	l.mu.Unlock()

	if err := guard(func() error { return persist(ctx, id) }); err != nil {
		return l.fail(m, err)
	}

	var zero T
	l.settle(m, zero)
	return nil
}

func (l *List[T]) begin(m *mutation[T]) *mutation[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.beginLocked(m)
}

func (l *List[T]) beginLocked(m *mutation[T]) *mutation[T] {
	l.seq++
	m.token = l.seq
	l.pending = append(l.pending, m)
	return m
}

// settle marks m confirmed with the server's item and folds the settled
// head of the log into the base. Removes ignore confirmed.
func (l *List[T]) settle(m *mutation[T], confirmed T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m.op != OpRemove {
		m.item = confirmed
	}
	m.settled = true
	l.foldLocked()
}

// fail drops a mutation from the log and builds the user-facing error.
func (l *List[T]) fail(m *mutation[T], cause error) error {
	l.mu.Lock()
	l.pending = slices.DeleteFunc(l.pending, func(p *mutation[T]) bool { return p.token == m.token })
	l.foldLocked()
	msg := l.messages.forOp(m.op)
	l.mu.Unlock()
	return &PersistenceError{Op: m.op, ID: m.id, Message: msg, Err: cause}
}

// foldLocked moves settled mutations at the front of the log into the base,
// in call order.
func (l *List[T]) foldLocked() {
	n := 0
	for n < len(l.pending) && l.pending[n].settled {
		l.base = l.pending[n].apply(l.base)
		n++
	}
	l.pending = slices.Delete(l.pending, 0, n)
}

// guard runs a persistence call and converts a panic into an error so the
// mutation still rolls back.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("persist panicked: %w", rerr)
				return
			}
			err = fmt.Errorf("persist panicked: %v", r)
		}
	}()
	return fn()
}

func (l *List[T]) visibleLocked() []T {
	items := slices.Clone(l.base)
	for _, m := range l.pending {
		items = m.apply(items)
	}
	return items
}

func indexOf[T types.Record](items []T, id string) int {
	return slices.IndexFunc(items, func(it T) bool { return it.RecordID() == id })
}
