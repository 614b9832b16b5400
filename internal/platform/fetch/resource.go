// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fetch is the shared data-fetching abstraction of the resource pages.

A [Resource] owns the page-scoped state of one server collection: its last
good value, a loading flag and the last error. Every page mounts one (or
several) and calls [Resource.Load]; the resource guarantees that:

  - Only the newest load may write state. A load that is overtaken by a newer
    one (or by [Resource.Close]) returns [ErrSuperseded] and changes nothing.
  - Data survives revalidation: while a reload is in flight, and after it
    fails, the previous value stays readable.
  - A panicking fetcher is turned into an INTERNAL_ERROR for that page alone.
*/
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
)

// ErrSuperseded is returned by a load whose result was discarded because a
// newer load started or the resource was closed.
var ErrSuperseded = errors.New("fetch: result superseded")

// Fetcher produces a fresh value for a [Resource].
type Fetcher[T any] func(ctx context.Context) (T, error)

// State is a snapshot of a [Resource].
type State[T any] struct {
	Data      T
	Loading   bool
	Loaded    bool
	Err       error
	FetchedAt time.Time
}

// Resource is a generation-guarded, page-scoped view of one collection.
//
// # Concurrency
//
// All methods are safe for concurrent use. Listeners run on the goroutine
// that changed the state, outside the internal lock.
type Resource[T any] struct {
	mu         sync.Mutex
	fetcher    Fetcher[T]
	state      State[T]
	generation uint64
	closed     bool

	listeners  map[int]func(State[T])
	listenerID int
}

// New constructs a [Resource] around its default fetcher.
func New[T any](fetcher Fetcher[T]) *Resource[T] {
	return &Resource[T]{
		fetcher:   fetcher,
		listeners: make(map[int]func(State[T])),
	}
}

// # Loading

// Load runs the default fetcher. See [Resource.Run].
func (resource *Resource[T]) Load(ctx context.Context) (T, error) {
	return resource.Run(ctx, resource.fetcher)
}

/*
Run executes fetcher and applies its result if it is still the newest load.

Parameters:
  - ctx: context.Context
  - fetcher: Fetcher[T] (used for this load only)

Returns:
  - T: The fetched value
  - error: The fetcher's error, or ErrSuperseded when the result was discarded
*/
func (resource *Resource[T]) Run(ctx context.Context, fetcher Fetcher[T]) (T, error) {
	return resource.run(ctx, nil, fetcher)
}

/*
Reset replaces the current value with fn(current) and starts fetcher, both
under one lock, so the newest Reset is always the one whose result sticks.

Parameters:
  - ctx: context.Context
  - fn: func(T) T (receives the value being replaced)
  - fetcher: Fetcher[T]

Returns:
  - T: The fetched value
  - error: The fetcher's error, or ErrSuperseded when the result was discarded
*/
func (resource *Resource[T]) Reset(ctx context.Context, fn func(T) T, fetcher Fetcher[T]) (T, error) {
	return resource.run(ctx, fn, fetcher)
}

func (resource *Resource[T]) run(ctx context.Context, reset func(T) T, fetcher Fetcher[T]) (T, error) {
	var zero T

	// 1. Claim a generation
	resource.mu.Lock()
	if resource.closed {
		resource.mu.Unlock()
		return zero, ErrSuperseded
	}
	if reset != nil {
		resource.state.Data = reset(resource.state.Data)
		resource.state.Loaded = false
	}
	resource.generation++
	generation := resource.generation
	resource.state.Loading = true
	resource.state.Err = nil
	snapshot := resource.state
	resource.mu.Unlock()

	resource.publish(snapshot)

	// 2. Fetch outside the lock
	data, err := call(ctx, fetcher)

	// 3. Apply only if nobody overtook us
	resource.mu.Lock()
	if resource.closed || generation != resource.generation {
		resource.mu.Unlock()
		return zero, ErrSuperseded
	}

	resource.state.Loading = false
	if err != nil {
		resource.state.Err = err
	} else {
		resource.state.Data = data
		resource.state.Loaded = true
		resource.state.FetchedAt = time.Now()
	}
	snapshot = resource.state
	resource.mu.Unlock()

	resource.publish(snapshot)

	if err != nil {
		return zero, err
	}
	return data, nil
}

// call runs fetcher, converting a panic into an internal error.
func call[T any](ctx context.Context, fetcher Fetcher[T]) (data T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = apperr.Internal(fmt.Errorf("fetch: panic: %v", recovered))
		}
	}()

	if fetcher == nil {
		return data, apperr.Internal(errors.New("fetch: no fetcher"))
	}
	return fetcher(ctx)
}

// # Local Edits

// Mutate replaces the current value with fn(current). It is a no-op once closed.
func (resource *Resource[T]) Mutate(fn func(T) T) {
	resource.mu.Lock()
	if resource.closed {
		resource.mu.Unlock()
		return
	}
	resource.state.Data = fn(resource.state.Data)
	snapshot := resource.state
	resource.mu.Unlock()

	resource.publish(snapshot)
}

// # Reads

// State returns a snapshot of the resource.
func (resource *Resource[T]) State() State[T] {
	resource.mu.Lock()
	defer resource.mu.Unlock()
	return resource.state
}

// Data returns the current value.
func (resource *Resource[T]) Data() T {
	return resource.State().Data
}

// # Lifecycle

// Close unmounts the resource: in-flight loads are discarded and listeners dropped.
func (resource *Resource[T]) Close() {
	resource.mu.Lock()
	defer resource.mu.Unlock()
	resource.closed = true
	resource.listeners = make(map[int]func(State[T]))
}

// Closed reports whether [Resource.Close] was called.
func (resource *Resource[T]) Closed() bool {
	resource.mu.Lock()
	defer resource.mu.Unlock()
	return resource.closed
}

// OnChange registers fn to run after every state change and returns its cancel func.
func (resource *Resource[T]) OnChange(fn func(State[T])) func() {
	resource.mu.Lock()
	defer resource.mu.Unlock()

	resource.listenerID++
	id := resource.listenerID
	resource.listeners[id] = fn

	return func() {
		resource.mu.Lock()
		defer resource.mu.Unlock()
		delete(resource.listeners, id)
	}
}

func (resource *Resource[T]) publish(snapshot State[T]) {
	resource.mu.Lock()
	listeners := make([]func(State[T]), 0, len(resource.listeners))
	for _, fn := range resource.listeners {
		listeners = append(listeners, fn)
	}
	resource.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
