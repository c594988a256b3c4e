package viewer

import (
	"context"
	"errors"
	"sync"
)

type WriteState string

const (
	StateIdle      WriteState = "idle"
	StatePending   WriteState = "pending"
	StateCommitted WriteState = "committed"
	StateFailed    WriteState = "failed"
)

var ErrWriteInFlight = errors.New("a write is already pending")

// Optimistic shows a value before its write is acknowledged and reverts it when the write fails.
type Optimistic[T any] struct {
	mu       sync.Mutex
	value    T
	previous T
	state    WriteState
	err      error
}

func NewOptimistic[T any](initial T) *Optimistic[T] {
	return &Optimistic[T]{value: initial, state: StateIdle}
}

func (o *Optimistic[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

func (o *Optimistic[T]) State() WriteState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err is the error of the last failed write.
func (o *Optimistic[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Begin shows next immediately and moves to pending.
func (o *Optimistic[T]) Begin(next T) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StatePending {
		return ErrWriteInFlight
	}
	o.previous = o.value
	o.value = next
	o.state = StatePending
	o.err = nil
	return nil
}

func (o *Optimistic[T]) Commit() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StatePending {
		o.state = StateCommitted
	}
}

// Fail restores the value shown before Begin.
func (o *Optimistic[T]) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StatePending {
		return
	}
	o.value = o.previous
	o.state = StateFailed
	o.err = err
}

// Apply runs a full Begin, write, Commit or Fail cycle.
func (o *Optimistic[T]) Apply(ctx context.Context, next T, write func(context.Context, T) error) error {
	if err := o.Begin(next); err != nil {
		return err
	}
	if err := write(ctx, next); err != nil {
		o.Fail(err)
		return err
	}
	o.Commit()
	return nil
}
