/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

import (
	"maps"
	"slices"
)

// UniqueKey maps each key to exactly one record.
type UniqueKey[T any, K comparable] struct {
	key   func(T) K
	table map[K]T
	owner *Registry[T]
}

// NewUniqueKey creates a unique index over the key projected by key.
func NewUniqueKey[T any, K comparable](key func(T) K) *UniqueKey[T, K] {
	return &UniqueKey[T, K]{
		key:   key,
		table: make(map[K]T),
	}
}

func (u *UniqueKey[T, K]) bind(r *Registry[T]) { u.owner = r }

// CanAdd reports whether v's key is free.
func (u *UniqueKey[T, K]) CanAdd(v T) bool {
	_, taken := u.table[u.key(v)]
	return !taken
}

// Add stores v under its key.
func (u *UniqueKey[T, K]) Add(v T) {
	u.table[u.key(v)] = v
}

// CanRemove reports whether v's key is occupied.
func (u *UniqueKey[T, K]) CanRemove(v T) bool {
	_, ok := u.table[u.key(v)]
	return ok
}

// Remove frees v's key.
func (u *UniqueKey[T, K]) Remove(v T) {
	delete(u.table, u.key(v))
}

// Clear drops every key.
func (u *UniqueKey[T, K]) Clear() {
	clear(u.table)
}

// Get returns the record stored under k.
func (u *UniqueKey[T, K]) Get(k K) (T, bool) {
	v, ok := u.table[k]
	return v, ok
}

// Contains reports whether k is occupied.
func (u *UniqueKey[T, K]) Contains(k K) bool {
	_, ok := u.table[k]
	return ok
}

// Len returns the number of occupied keys.
func (u *UniqueKey[T, K]) Len() int {
	return len(u.table)
}

// Keys returns the occupied keys in no particular order.
func (u *UniqueKey[T, K]) Keys() []K {
	return slices.Collect(maps.Keys(u.table))
}

// Update replaces the record stored under k with fn's result, provided every
// index of the owning registry accepts the new record. It returns the new
// record, or false when k is empty or the replacement was rejected, in which
// case nothing changed.
func (u *UniqueKey[T, K]) Update(k K, fn func(T) T) (T, bool) {
	return update(u.owner, u.Get, k, fn)
}
