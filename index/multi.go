/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

import (
	"maps"
	"slices"
)

// MultiKey lets a record occupy several keys, each of which holds at most one
// record. A record with no keys is accepted and is not reachable through the
// index.
type MultiKey[T any, K comparable] struct {
	keys  func(T) []K
	table map[K]T
	owner *Registry[T]
}

// NewMultiKey creates an index over every key projected by keys.
func NewMultiKey[T any, K comparable](keys func(T) []K) *MultiKey[T, K] {
	return &MultiKey[T, K]{
		keys:  keys,
		table: make(map[K]T),
	}
}

func (m *MultiKey[T, K]) bind(r *Registry[T]) { m.owner = r }

// CanAdd reports whether all of v's keys are free. A key repeated within v is
// treated as a collision.
func (m *MultiKey[T, K]) CanAdd(v T) bool {
	ks := m.keys(v)
	seen := make(map[K]struct{}, len(ks))
	for _, k := range ks {
		if _, taken := m.table[k]; taken {
			return false
		}
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

// Add stores v under each of its keys.
func (m *MultiKey[T, K]) Add(v T) {
	for _, k := range m.keys(v) {
		m.table[k] = v
	}
}

// CanRemove reports whether all of v's keys are occupied.
func (m *MultiKey[T, K]) CanRemove(v T) bool {
	for _, k := range m.keys(v) {
		if _, ok := m.table[k]; !ok {
			return false
		}
	}
	return true
}

// Remove frees each of v's keys.
func (m *MultiKey[T, K]) Remove(v T) {
	for _, k := range m.keys(v) {
		delete(m.table, k)
	}
}

// Clear drops every key.
func (m *MultiKey[T, K]) Clear() {
	clear(m.table)
}

// Get returns the record stored under k.
func (m *MultiKey[T, K]) Get(k K) (T, bool) {
	v, ok := m.table[k]
	return v, ok
}

// Contains reports whether k is occupied.
func (m *MultiKey[T, K]) Contains(k K) bool {
	_, ok := m.table[k]
	return ok
}

// Len returns the number of occupied keys.
func (m *MultiKey[T, K]) Len() int {
	return len(m.table)
}

// Keys returns the occupied keys in no particular order.
func (m *MultiKey[T, K]) Keys() []K {
	return slices.Collect(maps.Keys(m.table))
}

// Update replaces the record stored under k with fn's result. See
// UniqueKey.Update.
func (m *MultiKey[T, K]) Update(k K, fn func(T) T) (T, bool) {
	return update(m.owner, m.Get, k, fn)
}
