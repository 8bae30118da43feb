// Package asyncop tracks the lifecycle of one asynchronous action: idle,
// loading, success or error. The last successful data survives later
// failures so a screen can keep showing stale content while it retries.
package asyncop

import (
	"context"
	"fmt"
	"sync"
)

// Status is the lifecycle position of an Operation.
type Status string

// Operation states.
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// UnknownErrorMessage replaces failures that carry no message of their own.
const UnknownErrorMessage = "an unknown error occurred"

// State is a snapshot of an Operation.
type State[T any] struct {
	Status  Status
	Data    T
	HasData bool
	Err     string
}

// IsIdle, IsLoading, IsSuccess and IsError are convenience flags for views.
func (s State[T]) IsIdle() bool    { return s.Status == StatusIdle }
func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }
func (s State[T]) IsError() bool   { return s.Status == StatusError }

// Func is the wrapped action.
type Func[T any] func(ctx context.Context) (T, error)

// Operation is a state machine around repeated runs of an action.
// Concurrent Execute calls are not sequenced: the call that finishes last
// decides the final state.
type Operation[T any] struct {
	mu       sync.Mutex
	state    State[T]
	observer func(State[T])
}

// Option configures an Operation.
type Option[T any] func(*Operation[T])

// WithObserver registers fn to receive every state transition. fn runs
// synchronously, outside the operation's lock.
func WithObserver[T any](fn func(State[T])) Option[T] {
	return func(o *Operation[T]) { o.observer = fn }
}

// New returns an idle Operation.
func New[T any](opts ...Option[T]) *Operation[T] {
	o := &Operation[T]{state: State[T]{Status: StatusIdle}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current snapshot.
func (o *Operation[T]) State() State[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Execute moves to loading, runs fn and records its outcome. On failure it
// returns fn's error unchanged after recording a normalized message.
func (o *Operation[T]) Execute(ctx context.Context, fn Func[T]) (T, error) {
	o.transition(func(s *State[T]) {
		s.Status = StatusLoading
		s.Err = ""
	})

	data, err := run(ctx, fn)
	if err != nil {
		msg := Message(err)
		o.transition(func(s *State[T]) {
			s.Status = StatusError
			s.Err = msg
		})
		var zero T
		return zero, err
	}

	o.transition(func(s *State[T]) {
		s.Status = StatusSuccess
		s.Data = data
		s.HasData = true
		s.Err = ""
	})
	return data, nil
}

// Retry is Execute under a name that reads better at retry call sites.
func (o *Operation[T]) Retry(ctx context.Context, fn Func[T]) (T, error) {
	return o.Execute(ctx, fn)
}

// Reset returns to idle and discards data and error.
func (o *Operation[T]) Reset() {
	o.transition(func(s *State[T]) {
		*s = State[T]{Status: StatusIdle}
	})
}

func (o *Operation[T]) transition(mutate func(*State[T])) {
	o.mu.Lock()
	mutate(&o.state)
	snap := o.state
	observer := o.observer
	o.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
}

// run calls fn and converts a panic into an error.
func run[T any](ctx context.Context, fn Func[T]) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("operation panicked: %w", rerr)
				return
			}
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()
	return fn(ctx)
}

// Message extracts a user-facing message from err, falling back to
// UnknownErrorMessage when err is nil or has an empty message.
func Message(err error) string {
	if err == nil || err.Error() == "" {
		return UnknownErrorMessage
	}
	return err.Error()
}

// IsUnknown reports whether err carries no usable message.
func IsUnknown(err error) bool {
	return err == nil || err.Error() == ""
}
