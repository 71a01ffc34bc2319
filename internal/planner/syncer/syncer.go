// Package syncer keeps an in-process snapshot of remote rows consistent
// with the store. The sync discipline is refetch-after-write: a successful
// mutation is followed by a wholesale refetch, never by hand-patching the
// snapshot from what the client thinks it wrote. The one exception is
// Patch, for single-field changes the store has already confirmed.
package syncer

import (
	"context"
	"sync"
)

// Snapshot holds the latest fetched value of one remote collection.
type Snapshot[T any] struct {
	fetch func(context.Context) (T, error)

	mu      sync.Mutex
	current T
	loaded  bool
}

// New builds a snapshot over fetch. Nothing is fetched until Refresh.
func New[T any](fetch func(context.Context) (T, error)) *Snapshot[T] {
	return &Snapshot[T]{fetch: fetch}
}

// Current returns the held value and whether anything has been loaded yet.
func (s *Snapshot[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.loaded
}

// Refresh refetches and replaces the snapshot. On fetch failure the prior
// snapshot is left untouched.
func (s *Snapshot[T]) Refresh(ctx context.Context) (T, error) {
	val, err := s.fetch(ctx)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.current, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = val
	s.loaded = true
	return val, nil
}

// Mutate runs a write against the store and, when it succeeds, refetches.
// A failed write leaves the snapshot exactly as it was. A write that
// succeeds but whose refetch fails also keeps the prior snapshot; the
// returned error reports the refetch failure and the next Refresh heals it.
func (s *Snapshot[T]) Mutate(ctx context.Context, write func(context.Context) error) (T, error) {
	if err := write(ctx); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.current, err
	}
	return s.Refresh(ctx)
}

// Patch applies a store-confirmed single-field change locally, skipping
// the refetch. Use only when the store has acknowledged exactly this
// change; anything wider goes through Mutate.
func (s *Snapshot[T]) Patch(apply func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = apply(s.current)
	return s.current
}
