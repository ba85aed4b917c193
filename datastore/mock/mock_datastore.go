/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides mock implementations of the DataStore interface for testing
package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/Dykam/gangwars/errors"
)

// DataStore is a mock implementation of datastore.DataStore[T] for testing
type DataStore[T any] struct {
	mu         sync.RWMutex
	data       []T
	cloneFunc  func(T) T
	loadError  error
	saveError  error
	closeError error
	saves      int
	closed     bool
	watchers   []chan struct{}
}

// New creates a new mock DataStore
func New[T any]() *DataStore[T] {
	return &DataStore[T]{}
}

// WithCloneFunc sets a function used to copy records in and out of the
// mock, so callers cannot share slices with it.
func (m *DataStore[T]) WithCloneFunc(f func(T) T) *DataStore[T] {
	m.cloneFunc = f
	return m
}

// WithLoadError makes Load operations return an error
func (m *DataStore[T]) WithLoadError(err error) *DataStore[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
	return m
}

// WithSaveError makes Save operations return an error
func (m *DataStore[T]) WithSaveError(err error) *DataStore[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
	return m
}

// WithCloseError makes Close return an error
func (m *DataStore[T]) WithCloseError(err error) *DataStore[T] {
	m.closeError = err
	return m
}

// WithData seeds the stored snapshot
func (m *DataStore[T]) WithData(records ...T) *DataStore[T] {
	m.SetData(records)
	return m
}

// Load returns the stored snapshot
func (m *DataStore[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, errors.NewConditionFailedError("load", "store is closed")
	}
	if m.loadError != nil {
		return nil, m.loadError
	}
	return m.copyOut(m.data), nil
}

// Save replaces the stored snapshot
func (m *DataStore[T]) Save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.NewConditionFailedError("save", "store is closed")
	}
	if m.saveError != nil {
		return m.saveError
	}
	m.data = m.copyOut(records)
	m.saves++
	return nil
}

// Close marks the store closed and closes every watch channel
func (m *DataStore[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		for _, ch := range m.watchers {
			close(ch)
		}
		m.watchers = nil
	}
	return m.closeError
}

// Watch returns a channel fed by Touch
func (m *DataStore[T]) Watch(ctx context.Context) (<-chan struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.NewConditionFailedError("watch", "store is closed")
	}
	ch := make(chan struct{}, 1)
	m.watchers = append(m.watchers, ch)

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		if i := slices.Index(m.watchers, ch); i >= 0 {
			m.watchers = slices.Delete(m.watchers, i, i+1)
			close(ch)
		}
	}()
	return ch, nil
}

// Helper methods for testing

// Touch simulates an external change, replacing the snapshot and notifying
// every watcher
func (m *DataStore[T]) Touch(records ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = m.copyOut(records)
	for _, ch := range m.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SetData directly sets the stored snapshot (for testing)
func (m *DataStore[T]) SetData(records []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = m.copyOut(records)
}

// GetData returns a copy of the stored snapshot (for testing)
func (m *DataStore[T]) GetData() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyOut(m.data)
}

// Count returns the number of stored records
func (m *DataStore[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Saves returns how many times Save succeeded
func (m *DataStore[T]) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Closed reports whether Close was called
func (m *DataStore[T]) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

func (m *DataStore[T]) copyOut(records []T) []T {
	out := make([]T, len(records))
	for i, r := range records {
		if m.cloneFunc != nil {
			r = m.cloneFunc(r)
		}
		out[i] = r
	}
	return out
}
